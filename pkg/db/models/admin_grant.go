package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminGrant is one allow-list entry gating the admin panel. Membership is
// checked live on every admin request; revoking a grant takes effect on the
// next call.
type AdminGrant struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
