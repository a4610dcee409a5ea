package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
)

// ProductReader resolves catalog products so added lines snapshot the
// current name and price.
type ProductReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cart operations keyed by the owning user.
type Service interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, ownerID, productID uuid.UUID, quantity int) (*Cart, error)
	SetQuantity(ctx context.Context, ownerID, productID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, ownerID, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, ownerID uuid.UUID) error
}

type cartStore interface {
	Load(ctx context.Context, ownerID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, ownerID uuid.UUID, cart *Cart) error
	Clear(ctx context.Context, ownerID uuid.UUID) error
}

type service struct {
	store    cartStore
	products ProductReader
}

// NewService builds a cart service with the required dependencies.
func NewService(store cartStore, products ProductReader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{store: store, products: products}, nil
}

func (s *service) Get(ctx context.Context, ownerID uuid.UUID) (*Cart, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.store.Load(ctx, ownerID)
}

func (s *service) AddItem(ctx context.Context, ownerID, productID uuid.UUID, quantity int) (*Cart, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	cart, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	cart.Add(Item{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
		ImageURL:  product.ImageURL,
	})

	if err := s.store.Save(ctx, ownerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) SetQuantity(ctx context.Context, ownerID, productID uuid.UUID, quantity int) (*Cart, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	cart, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	cart.SetQuantity(productID, quantity)

	if err := s.store.Save(ctx, ownerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) RemoveItem(ctx context.Context, ownerID, productID uuid.UUID) (*Cart, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	cart, err := s.store.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	cart.Remove(productID)

	if err := s.store.Save(ctx, ownerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.store.Clear(ctx, ownerID)
}
