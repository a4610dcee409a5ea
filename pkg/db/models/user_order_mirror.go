package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/urbanshop/urbanshop-backend/pkg/enums"
)

// UserOrderMirror is the denormalized per-customer read view of an order.
// There is exactly one logical order; this row is a projection of it keyed by
// the shared order id so mirror writes are idempotent upserts.
type UserOrderMirror struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID      `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	OwnerUserID uuid.UUID      `gorm:"column:owner_user_id;type:uuid;not null;index"`
	Document    MirrorDocument `gorm:"column:document;type:jsonb;serializer:json;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// MirrorDocument is the full order snapshot a customer sees.
type MirrorDocument struct {
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerAddress string               `json:"customer_address"`
	Items           []MirrorLineItem     `json:"items"`
	Total           decimal.Decimal      `json:"total"`
	Status          enums.OrderStatus    `json:"status"`
	History         []MirrorHistoryEntry `json:"history"`
	PaymentTag      enums.PaymentTag     `json:"payment_tag"`
	PlacedAt        time.Time            `json:"placed_at"`
}

// MirrorLineItem is one frozen line inside the mirror document.
type MirrorLineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  *string         `json:"image_url,omitempty"`
}

// MirrorHistoryEntry is one status transition inside the mirror document.
type MirrorHistoryEntry struct {
	Status    enums.OrderStatus `json:"status"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
}
