package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/urbanshop/urbanshop-backend/pkg/enums"
)

// PaymentMethod is a saved, masked payment reference on a customer profile.
// Only display data is stored; the actual payment happens outside the system.
type PaymentMethod struct {
	ID        uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Kind      enums.PaymentMethodKind `gorm:"column:kind;type:text;not null;default:'card'"`
	Label     string                  `gorm:"column:label;not null"`
	LastFour  *string                 `gorm:"column:last_four"`
	Expiry    *string                 `gorm:"column:expiry"`
	BankName  *string                 `gorm:"column:bank_name"`
	IsDefault bool                    `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
