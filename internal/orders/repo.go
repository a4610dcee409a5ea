package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	"github.com/urbanshop/urbanshop-backend/pkg/enums"
	"github.com/urbanshop/urbanshop-backend/pkg/pagination"
)

// Repository owns persistence for orders, their status history, and the
// per-customer mirror rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateOrder inserts the order together with its line items and initial
// history entry.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindOrderByID loads the order with line items and ordered history.
func (r *Repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns a page of orders, newest first, optionally filtered by
// status. Limit is expected to carry the +1 buffer.
func (r *Repository) ListOrders(ctx context.Context, cursor *pagination.Cursor, limit int, status *enums.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("LineItems").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateOrderStatus sets the current status and flags the mirror as stale
// until the projection is rewritten.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":           status,
			"mirror_synced":    false,
			"mirror_synced_at": nil,
		}).Error
}

// AppendStatusEntry inserts one history row. History is append-only.
func (r *Repository) AppendStatusEntry(ctx context.Context, entry *models.OrderStatusEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// DeleteOrder removes the order; line items and history cascade.
func (r *Repository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{}).Error
}

// UpsertMirror writes the per-customer projection keyed by order id. Replays
// overwrite the document wholesale, so retries are safe.
func (r *Repository) UpsertMirror(ctx context.Context, mirror *models.UserOrderMirror) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"owner_user_id", "document", "updated_at"}),
		}).
		Create(mirror).Error
}

// FindMirrorByOrderID loads the projection for one order.
func (r *Repository) FindMirrorByOrderID(ctx context.Context, orderID uuid.UUID) (*models.UserOrderMirror, error) {
	var mirror models.UserOrderMirror
	if err := r.db.WithContext(ctx).First(&mirror, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &mirror, nil
}

// ListMirrorsByOwner returns a page of the customer's orders, newest first.
func (r *Repository) ListMirrorsByOwner(ctx context.Context, ownerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.UserOrderMirror, error) {
	query := r.db.WithContext(ctx).
		Model(&models.UserOrderMirror{}).
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.UserOrderMirror
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteMirrorByOrderID removes the projection row for one order.
func (r *Repository) DeleteMirrorByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.UserOrderMirror{}).Error
}

// MarkMirrorSynced records that the projection matches the primary row.
func (r *Repository) MarkMirrorSynced(ctx context.Context, orderID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"mirror_synced":    true,
			"mirror_synced_at": at,
		}).Error
}

// ListUnsyncedOrders returns orders whose mirror is stale, oldest first, so
// the reconciler can rewrite their projections.
func (r *Repository) ListUnsyncedOrders(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("mirror_synced = ? AND updated_at < ?", false, updatedBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOrphanMirrors returns mirror rows whose primary order is gone.
func (r *Repository) ListOrphanMirrors(ctx context.Context, limit int) ([]models.UserOrderMirror, error) {
	var rows []models.UserOrderMirror
	err := r.db.WithContext(ctx).
		Where("order_id NOT IN (?)", r.db.Model(&models.Order{}).Select("id")).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RevenueTotal sums every order's frozen total at full precision.
func (r *Repository) RevenueTotal(ctx context.Context) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("CAST(SUM(total) AS TEXT)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

// CountOrdersBetween counts orders placed in the half-open interval [from, to).
func (r *Repository) CountOrdersBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// CountOrders returns the total number of orders.
func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}
