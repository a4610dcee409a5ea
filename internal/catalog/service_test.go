package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
	"github.com/urbanshop/urbanshop-backend/pkg/pagination"
)

type fakeNotifier struct {
	topics []string
}

func (f *fakeNotifier) NotifyChanged(ctx context.Context, topic string) error {
	f.topics = append(f.topics, topic)
	return nil
}

func TestServiceCreateUpdateDeleteNotifies(t *testing.T) {
	db := setupCatalogTestDB(t)
	notifier := &fakeNotifier{}
	svc, err := NewService(NewRepository(db), notifier)
	require.NoError(t, err)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:  "Denim Jacket",
		Price: decimal.RequireFromString("120.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "120.00", created.Price)

	newName := "Denim Jacket v2"
	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, "120.00", updated.Price)

	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))

	require.Len(t, notifier.topics, 3)
	for _, topic := range notifier.topics {
		assert.Equal(t, TopicProducts, topic)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db), &fakeNotifier{})
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), CreateProductInput{Price: decimal.Zero})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.CreateProduct(context.Background(), CreateProductInput{
		Name:  "Negative",
		Price: decimal.RequireFromString("-1"),
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceListProductsPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db), &fakeNotifier{})
	require.NoError(t, err)

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{
			Name:  name,
			Price: decimal.RequireFromString("5.00"),
		})
		require.NoError(t, err)
	}

	page, err := svc.ListProducts(context.Background(), pagination.Params{Limit: 2}, nil)
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	require.NotNil(t, page.NextCursor)

	rest, err := svc.ListProducts(context.Background(), pagination.Params{Limit: 2, Cursor: *page.NextCursor}, nil)
	require.NoError(t, err)
	require.Len(t, rest.Products, 1)
	assert.Nil(t, rest.NextCursor)
}

func TestServiceGetProductNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db), &fakeNotifier{})
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
