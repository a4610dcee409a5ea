package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	"github.com/urbanshop/urbanshop-backend/pkg/enums"
)

func decimalFromInt(value int) decimal.Decimal {
	return decimal.NewFromInt(int64(value))
}

// LineItemDTO is one frozen order line on the wire.
type LineItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Subtotal  string    `json:"subtotal"`
	ImageURL  *string   `json:"image_url,omitempty"`
}

// StatusEntryDTO is one history row on the wire.
type StatusEntryDTO struct {
	Status    enums.OrderStatus `json:"status"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
}

// OrderDTO is the wire representation of an order. Money fields are rendered
// with two decimal places.
type OrderDTO struct {
	ID                    uuid.UUID         `json:"id"`
	OwnerUserID           uuid.UUID         `json:"owner_user_id"`
	CustomerName          string            `json:"customer_name"`
	CustomerPhone         string            `json:"customer_phone"`
	CustomerAddress       string            `json:"customer_address"`
	Items                 []LineItemDTO     `json:"items"`
	Total                 string            `json:"total"`
	Status                enums.OrderStatus `json:"status"`
	History               []StatusEntryDTO  `json:"history"`
	PaymentTag            enums.PaymentTag  `json:"payment_tag"`
	ExternalTransactionID *string           `json:"external_transaction_id,omitempty"`
	PlacedAt              time.Time         `json:"placed_at"`
}

// OrderListResult is one page of orders plus the next cursor.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// PlaceOrderInput carries the checkout form.
type PlaceOrderInput struct {
	CustomerName          string
	CustomerPhone         string
	CustomerAddress       string
	PaymentTag            enums.PaymentTag
	ExternalTransactionID *string
}

// UpdateStatusInput carries an admin status change.
type UpdateStatusInput struct {
	Status  enums.OrderStatus
	Message string
}

// DashboardSummary aggregates the admin panel headline numbers.
type DashboardSummary struct {
	RevenueTotal string `json:"revenue_total"`
	OrdersToday  int64  `json:"orders_today"`
	TotalOrders  int64  `json:"total_orders"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:                    order.ID,
		OwnerUserID:           order.OwnerUserID,
		CustomerName:          order.CustomerName,
		CustomerPhone:         order.CustomerPhone,
		CustomerAddress:       order.CustomerAddress,
		Items:                 make([]LineItemDTO, 0, len(order.LineItems)),
		Total:                 order.Total.StringFixed(2),
		Status:                order.Status,
		History:               make([]StatusEntryDTO, 0, len(order.StatusHistory)),
		PaymentTag:            order.PaymentTag,
		ExternalTransactionID: order.ExternalTransactionID,
		PlacedAt:              order.CreatedAt,
	}
	for _, item := range order.LineItems {
		dto.Items = append(dto.Items, LineItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal().StringFixed(2),
			ImageURL:  item.ImageURL,
		})
	}
	for _, entry := range order.StatusHistory {
		dto.History = append(dto.History, StatusEntryDTO{
			Status:    entry.Status,
			Message:   entry.Message,
			Timestamp: entry.CreatedAt,
		})
	}
	return dto
}

func mirrorToDTO(mirror *models.UserOrderMirror) *OrderDTO {
	if mirror == nil {
		return nil
	}
	doc := mirror.Document
	dto := &OrderDTO{
		ID:              mirror.OrderID,
		OwnerUserID:     mirror.OwnerUserID,
		CustomerName:    doc.CustomerName,
		CustomerPhone:   doc.CustomerPhone,
		CustomerAddress: doc.CustomerAddress,
		Items:           make([]LineItemDTO, 0, len(doc.Items)),
		Total:           doc.Total.StringFixed(2),
		Status:          doc.Status,
		History:         make([]StatusEntryDTO, 0, len(doc.History)),
		PaymentTag:      doc.PaymentTag,
		PlacedAt:        doc.PlacedAt,
	}
	for _, item := range doc.Items {
		dto.Items = append(dto.Items, LineItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			Subtotal:  item.UnitPrice.Mul(decimalFromInt(item.Quantity)).StringFixed(2),
			ImageURL:  item.ImageURL,
		})
	}
	for _, entry := range doc.History {
		dto.History = append(dto.History, StatusEntryDTO{
			Status:    entry.Status,
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		})
	}
	return dto
}

// BuildMirrorDocument projects the authoritative order into the per-customer
// read view. The two stores share the order id so writes stay idempotent.
func BuildMirrorDocument(order *models.Order) models.MirrorDocument {
	doc := models.MirrorDocument{
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		Items:           make([]models.MirrorLineItem, 0, len(order.LineItems)),
		Total:           order.Total,
		Status:          order.Status,
		History:         make([]models.MirrorHistoryEntry, 0, len(order.StatusHistory)),
		PaymentTag:      order.PaymentTag,
		PlacedAt:        order.CreatedAt,
	}
	for _, item := range order.LineItems {
		doc.Items = append(doc.Items, models.MirrorLineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}
	for _, entry := range order.StatusHistory {
		doc.History = append(doc.History, models.MirrorHistoryEntry{
			Status:    entry.Status,
			Message:   entry.Message,
			Timestamp: entry.CreatedAt,
		})
	}
	return doc
}
