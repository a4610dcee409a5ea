package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	"github.com/urbanshop/urbanshop-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  owner_user_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_address TEXT NOT NULL,
  total TEXT NOT NULL DEFAULT '0',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_tag TEXT NOT NULL DEFAULT 'manual',
  external_transaction_id TEXT,
  mirror_synced INTEGER NOT NULL DEFAULT 0,
  mirror_synced_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price TEXT NOT NULL DEFAULT '0',
  quantity INTEGER NOT NULL DEFAULT 1,
  image_url TEXT,
  created_at DATETIME
);`
	statusEntries := `
CREATE TABLE IF NOT EXISTS order_status_entries (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  message TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`
	mirrors := `
CREATE TABLE IF NOT EXISTS user_order_mirrors (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  owner_user_id TEXT NOT NULL,
  document TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	require.NoError(t, db.Exec(statusEntries).Error)
	require.NoError(t, db.Exec(mirrors).Error)
	return db
}

func newTestOrder(ownerID uuid.UUID, total string, created time.Time) *models.Order {
	orderID := uuid.New()
	return &models.Order{
		ID:              orderID,
		OwnerUserID:     ownerID,
		CustomerName:    "Maria Diaz",
		CustomerPhone:   "+1 555 0100",
		CustomerAddress: "12 Main St",
		Total:           decimal.RequireFromString(total),
		Status:          enums.OrderStatusPending,
		PaymentTag:      enums.PaymentTagManual,
		CreatedAt:       created,
		UpdatedAt:       created,
		LineItems: []models.OrderLineItem{{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: uuid.New(),
			Name:      "Hoodie",
			UnitPrice: decimal.RequireFromString(total),
			Quantity:  1,
		}},
		StatusHistory: []models.OrderStatusEntry{{
			ID:      uuid.New(),
			OrderID: orderID,
			Status:  enums.OrderStatusPending,
			Message: "order placed",
		}},
	}
}

func TestRepositoryCreateAndFindOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	created, err := repo.CreateOrder(context.Background(), newTestOrder(uuid.New(), "49.99", time.Now().UTC()))
	require.NoError(t, err)

	found, err := repo.FindOrderByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, found.LineItems, 1)
	require.Len(t, found.StatusHistory, 1)
	assert.Equal(t, enums.OrderStatusPending, found.Status)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("49.99")))
	assert.Equal(t, "order placed", found.StatusHistory[0].Message)
}

func TestRepositoryUpsertMirrorIsIdempotent(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()
	order, err := repo.CreateOrder(context.Background(), newTestOrder(ownerID, "20.00", time.Now().UTC()))
	require.NoError(t, err)

	first := &models.UserOrderMirror{
		ID:          uuid.New(),
		OrderID:     order.ID,
		OwnerUserID: ownerID,
		Document:    BuildMirrorDocument(order),
	}
	require.NoError(t, repo.UpsertMirror(context.Background(), first))

	order.Status = enums.OrderStatusShipped
	second := &models.UserOrderMirror{
		ID:          uuid.New(),
		OrderID:     order.ID,
		OwnerUserID: ownerID,
		Document:    BuildMirrorDocument(order),
	}
	require.NoError(t, repo.UpsertMirror(context.Background(), second))

	var count int64
	require.NoError(t, db.Model(&models.UserOrderMirror{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	mirror, err := repo.FindMirrorByOrderID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, mirror.Document.Status)
}

func TestRepositoryMirrorSyncFlag(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order, err := repo.CreateOrder(context.Background(), newTestOrder(uuid.New(), "10.00", time.Now().UTC().Add(-time.Hour)))
	require.NoError(t, err)

	stale, err := repo.ListUnsyncedOrders(context.Background(), time.Now().UTC(), 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, order.ID, stale[0].ID)

	require.NoError(t, repo.MarkMirrorSynced(context.Background(), order.ID, time.Now().UTC()))

	stale, err = repo.ListUnsyncedOrders(context.Background(), time.Now().UTC().Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestRepositoryListOrphanMirrors(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()
	order, err := repo.CreateOrder(context.Background(), newTestOrder(ownerID, "15.00", time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, repo.UpsertMirror(context.Background(), &models.UserOrderMirror{
		ID:          uuid.New(),
		OrderID:     order.ID,
		OwnerUserID: ownerID,
		Document:    BuildMirrorDocument(order),
	}))

	orphans, err := repo.ListOrphanMirrors(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	require.NoError(t, repo.DeleteOrder(context.Background(), order.ID))

	orphans, err = repo.ListOrphanMirrors(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, order.ID, orphans[0].OrderID)
}

func TestRepositoryRevenueAndCounts(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	_, err := repo.CreateOrder(context.Background(), newTestOrder(uuid.New(), "10.50", now))
	require.NoError(t, err)
	_, err = repo.CreateOrder(context.Background(), newTestOrder(uuid.New(), "20.25", now.Add(-48*time.Hour)))
	require.NoError(t, err)

	revenue, err := repo.RevenueTotal(context.Background())
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("30.75")), "got %s", revenue)

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := repo.CountOrdersBetween(context.Background(), dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), today)

	total, err := repo.CountOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRepositoryRevenueTotalEmpty(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	revenue, err := repo.RevenueTotal(context.Background())
	require.NoError(t, err)
	assert.True(t, revenue.IsZero())
}
