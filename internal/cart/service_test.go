package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
)

type stubCartStore struct {
	carts   map[uuid.UUID]*Cart
	cleared bool
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: map[uuid.UUID]*Cart{}}
}

func (s *stubCartStore) Load(ctx context.Context, ownerID uuid.UUID) (*Cart, error) {
	if cart, ok := s.carts[ownerID]; ok {
		copied := *cart
		return &copied, nil
	}
	return &Cart{}, nil
}

func (s *stubCartStore) Save(ctx context.Context, ownerID uuid.UUID, cart *Cart) error {
	s.carts[ownerID] = cart
	return nil
}

func (s *stubCartStore) Clear(ctx context.Context, ownerID uuid.UUID) error {
	delete(s.carts, ownerID)
	s.cleared = true
	return nil
}

type stubProductReader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductReader) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	ownerID := uuid.New()
	productID := uuid.New()
	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Sneakers", Price: decimal.RequireFromString("89.50")},
	}}

	svc, err := NewService(newStubCartStore(), reader)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cart, err := svc.AddItem(context.Background(), ownerID, productID, 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	line := cart.Items[0]
	if line.Name != "Sneakers" || !line.UnitPrice.Equal(decimal.RequireFromString("89.50")) {
		t.Fatalf("expected snapshot of product fields, got %+v", line)
	}
	if line.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", line.Quantity)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, err := NewService(newStubCartStore(), &stubProductReader{products: map[uuid.UUID]*models.Product{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSetQuantityPersistsRemoval(t *testing.T) {
	ownerID := uuid.New()
	productID := uuid.New()
	store := newStubCartStore()
	store.carts[ownerID] = &Cart{Items: []Item{{ProductID: productID, Quantity: 2}}}

	svc, err := NewService(store, &stubProductReader{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cart, err := svc.SetQuantity(context.Background(), ownerID, productID, 0)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart")
	}
}

func TestCartOperationsRequireIdentity(t *testing.T) {
	svc, err := NewService(newStubCartStore(), &stubProductReader{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Get(context.Background(), uuid.Nil); pkgerrors.As(err) == nil {
		t.Errorf("expected error for nil owner on Get")
	}
	if _, err := svc.AddItem(context.Background(), uuid.Nil, uuid.New(), 1); pkgerrors.As(err) == nil {
		t.Errorf("expected error for nil owner on AddItem")
	}
	if err := svc.Clear(context.Background(), uuid.Nil); pkgerrors.As(err) == nil {
		t.Errorf("expected error for nil owner on Clear")
	}
}
