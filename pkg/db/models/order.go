package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/urbanshop/urbanshop-backend/pkg/enums"
)

// Order is the authoritative order record produced at checkout. The customer
// snapshot and line items are frozen at creation time; only the status (plus
// its append-only history) changes afterwards.
type Order struct {
	ID                    uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID           uuid.UUID          `gorm:"column:owner_user_id;type:uuid;not null;index"`
	CustomerName          string             `gorm:"column:customer_name;not null"`
	CustomerPhone         string             `gorm:"column:customer_phone;not null"`
	CustomerAddress       string             `gorm:"column:customer_address;not null"`
	Total                 decimal.Decimal    `gorm:"column:total;type:numeric(12,2);not null"`
	Status                enums.OrderStatus  `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentTag            enums.PaymentTag   `gorm:"column:payment_tag;type:text;not null;default:'manual'"`
	ExternalTransactionID *string            `gorm:"column:external_transaction_id"`
	MirrorSynced          bool               `gorm:"column:mirror_synced;not null;default:false"`
	MirrorSyncedAt        *time.Time         `gorm:"column:mirror_synced_at"`
	LineItems             []OrderLineItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory         []OrderStatusEntry `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
