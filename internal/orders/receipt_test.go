package orders

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	"github.com/urbanshop/urbanshop-backend/pkg/enums"
)

func TestRenderReceipt(t *testing.T) {
	orderID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	hoodieImage := "https://cdn.example.com/hoodie.png"
	order := &models.Order{
		ID:              orderID,
		CustomerName:    "Maria Diaz",
		CustomerPhone:   "+1 555 0100",
		CustomerAddress: "12 Main St",
		Total:           decimal.RequireFromString("64.98"),
		Status:          enums.OrderStatusShipped,
		CreatedAt:       time.Date(2025, 6, 14, 10, 30, 0, 0, time.UTC),
		LineItems: []models.OrderLineItem{
			{Name: "Hoodie", ImageURL: &hoodieImage, UnitPrice: decimal.RequireFromString("49.99"), Quantity: 1},
			{Name: "Cap", UnitPrice: decimal.RequireFromString("7.4950"), Quantity: 2},
		},
	}

	html, err := renderReceipt(order)
	if err != nil {
		t.Fatalf("render receipt: %v", err)
	}

	for _, want := range []string{
		"Order #a1b2c3d4",
		"Maria Diaz",
		"12 Main St",
		"Hoodie",
		// the item image prints alongside the name
		"https://cdn.example.com/hoodie.png",
		"49.99",
		"Cap",
		// rounding happens only at render time
		"7.50",
		"14.99",
		"Total: 64.98",
		"shipped",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("receipt missing %q", want)
		}
	}
}

func TestRenderReceiptEscapesCustomerInput(t *testing.T) {
	order := &models.Order{
		ID:           uuid.New(),
		CustomerName: "<script>alert(1)</script>",
		Total:        decimal.Zero,
		Status:       enums.OrderStatusPending,
		CreatedAt:    time.Now(),
	}

	html, err := renderReceipt(order)
	if err != nil {
		t.Fatalf("render receipt: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatalf("customer input was not escaped")
	}
}
