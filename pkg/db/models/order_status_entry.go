package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/urbanshop/urbanshop-backend/pkg/enums"
)

// OrderStatusEntry is one row of an order's append-only status history.
// Entries are only ever inserted; there is no update path.
type OrderStatusEntry struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Message   string            `gorm:"column:message;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
