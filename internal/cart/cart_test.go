package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestAddMergesDuplicateProducts(t *testing.T) {
	productID := uuid.New()
	c := &Cart{}

	c.Add(Item{ProductID: productID, Name: "Hoodie", UnitPrice: decimal.NewFromFloat(49.99), Quantity: 1})
	c.Add(Item{ProductID: productID, Name: "Hoodie", UnitPrice: decimal.NewFromFloat(49.99), Quantity: 2})

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", c.Items[0].Quantity)
	}
}

func TestAddClampsQuantityToOne(t *testing.T) {
	c := &Cart{}
	c.Add(Item{ProductID: uuid.New(), Quantity: 0})
	c.Add(Item{ProductID: uuid.New(), Quantity: -5})

	for _, item := range c.Items {
		if item.Quantity != 1 {
			t.Errorf("expected clamped quantity 1, got %d", item.Quantity)
		}
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	productID := uuid.New()
	c := &Cart{}
	c.Add(Item{ProductID: productID, Quantity: 2})

	c.SetQuantity(productID, 0)

	if !c.IsEmpty() {
		t.Fatalf("expected empty cart after setting quantity to zero")
	}
}

func TestSetQuantityNegativeRemovesLine(t *testing.T) {
	productID := uuid.New()
	c := &Cart{}
	c.Add(Item{ProductID: productID, Quantity: 2})

	c.SetQuantity(productID, -1)

	if !c.IsEmpty() {
		t.Fatalf("expected empty cart after negative quantity")
	}
}

func TestSetQuantityUnknownProductIsNoOp(t *testing.T) {
	productID := uuid.New()
	c := &Cart{}
	c.Add(Item{ProductID: productID, Quantity: 2})

	c.SetQuantity(uuid.New(), 5)

	if len(c.Items) != 1 || c.Items[0].Quantity != 2 {
		t.Fatalf("expected cart unchanged, got %+v", c.Items)
	}
}

func TestTotalKeepsFullPrecision(t *testing.T) {
	c := &Cart{}
	c.Add(Item{ProductID: uuid.New(), UnitPrice: decimal.RequireFromString("19.99"), Quantity: 3})
	c.Add(Item{ProductID: uuid.New(), UnitPrice: decimal.RequireFromString("0.01"), Quantity: 1})

	want := decimal.RequireFromString("59.98")
	if !c.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, c.Total())
	}
}

func TestTotalOfEmptyCartIsZero(t *testing.T) {
	c := &Cart{}
	if !c.Total().IsZero() {
		t.Fatalf("expected zero total, got %s", c.Total())
	}
}

func TestRemoveAndClear(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	c := &Cart{}
	c.Add(Item{ProductID: first, Quantity: 1})
	c.Add(Item{ProductID: second, Quantity: 4})

	c.Remove(first)
	if len(c.Items) != 1 || c.Items[0].ProductID != second {
		t.Fatalf("expected only second line to remain")
	}

	c.Clear()
	if !c.IsEmpty() {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestItemCountSumsQuantities(t *testing.T) {
	c := &Cart{}
	c.Add(Item{ProductID: uuid.New(), Quantity: 2})
	c.Add(Item{ProductID: uuid.New(), Quantity: 3})

	if c.ItemCount() != 5 {
		t.Fatalf("expected item count 5, got %d", c.ItemCount())
	}
}
