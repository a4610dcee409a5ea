package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanshop/urbanshop-backend/internal/cart"
	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	"github.com/urbanshop/urbanshop-backend/pkg/enums"
	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
	"github.com/urbanshop/urbanshop-backend/pkg/logger"
	"github.com/urbanshop/urbanshop-backend/pkg/pagination"
)

// TopicOrders is the live feed topic notified after every order write.
const TopicOrders = "orders"

// OwnerOrdersTopic names the per-customer live feed topic.
func OwnerOrdersTopic(ownerID uuid.UUID) string {
	return TopicOrders + ":" + ownerID.String()
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ChangeNotifier signals live feed subscribers that a topic's data changed.
type ChangeNotifier interface {
	NotifyChanged(ctx context.Context, topic string) error
}

type cartAccess interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, ownerID uuid.UUID) error
}

// Service exposes checkout, the order lifecycle, and the admin projections.
type Service interface {
	PlaceOrder(ctx context.Context, ownerID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	GetMyOrder(ctx context.Context, ownerID, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (*OrderListResult, error)
	ListMyOrders(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (*DashboardSummary, error)
	RenderReceipt(ctx context.Context, id uuid.UUID) (string, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	carts    cartAccess
	notifier ChangeNotifier
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds an orders service with the required dependencies.
func NewService(repo *Repository, tx txRunner, carts cartAccess, notifier ChangeNotifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("change notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		carts:    carts,
		notifier: notifier,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// PlaceOrder validates the checkout form and cart, then creates the order
// with a frozen snapshot of the cart lines. Nothing is written when
// validation fails.
func (s *service) PlaceOrder(ctx context.Context, ownerID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	name := strings.TrimSpace(input.CustomerName)
	phone := strings.TrimSpace(input.CustomerPhone)
	address := strings.TrimSpace(input.CustomerAddress)

	missing := []string{}
	if name == "" {
		missing = append(missing, "customer_name")
	}
	if phone == "" {
		missing = append(missing, "customer_phone")
	}
	if address == "" {
		missing = append(missing, "customer_address")
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing checkout fields").
			WithDetails(map[string]any{"fields": missing})
	}

	paymentTag := input.PaymentTag
	if paymentTag == "" {
		paymentTag = enums.PaymentTagManual
	}
	if !paymentTag.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment tag")
	}

	current, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	orderID := uuid.New()
	order := &models.Order{
		ID:                    orderID,
		OwnerUserID:           ownerID,
		CustomerName:          name,
		CustomerPhone:         phone,
		CustomerAddress:       address,
		Total:                 current.Total(),
		Status:                enums.OrderStatusPending,
		PaymentTag:            paymentTag,
		ExternalTransactionID: input.ExternalTransactionID,
		LineItems:             make([]models.OrderLineItem, 0, len(current.Items)),
		StatusHistory: []models.OrderStatusEntry{{
			ID:      uuid.New(),
			OrderID: orderID,
			Status:  enums.OrderStatusPending,
			Message: "order placed",
		}},
	}
	for _, item := range current.Items {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateOrder(ctx, order)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.syncMirror(ctx, order)

	if err := s.carts.Clear(ctx, ownerID); err != nil {
		s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "clearing cart after checkout failed")
	}

	s.notify(ctx, ownerID)
	return toOrderDTO(order), nil
}

// GetOrder loads one order from the primary store.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// GetMyOrder loads one order for its owner, preferring the mirror and falling
// back to the primary store when the projection is missing.
func (s *service) GetMyOrder(ctx context.Context, ownerID, id uuid.UUID) (*OrderDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	mirror, err := s.repo.FindMirrorByOrderID(ctx, id)
	if err == nil {
		if mirror.OwnerUserID != ownerID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return mirrorToDTO(mirror), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order mirror")
	}

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.OwnerUserID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return toOrderDTO(order), nil
}

// ListOrders returns a page of all orders for the admin panel.
func (s *service) ListOrders(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (*OrderListResult, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListOrders(ctx, cursor, limit+1, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	for idx := range rows {
		result.Orders = append(result.Orders, *toOrderDTO(&rows[idx]))
	}
	return result, nil
}

// ListMyOrders returns a page of the customer's own orders from the mirror.
func (s *service) ListMyOrders(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListMirrorsByOwner(ctx, ownerID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}

	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	for idx := range rows {
		result.Orders = append(result.Orders, *mirrorToDTO(&rows[idx]))
	}
	return result, nil
}

// UpdateStatus sets the order's status and appends one history entry. Any
// status can follow any other; the history is the audit trail.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status message is required")
	}

	var ownerID uuid.UUID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		ownerID = order.OwnerUserID

		if err := repo.UpdateOrderStatus(ctx, id, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		entry := &models.OrderStatusEntry{
			ID:      uuid.New(),
			OrderID: id,
			Status:  input.Status,
			Message: message,
		}
		if err := repo.AppendStatusEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	s.syncMirror(ctx, order)
	s.notify(ctx, ownerID)
	return toOrderDTO(order), nil
}

// DeleteOrder removes the order and its projection.
func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteOrder(ctx, id)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}

	// Best effort; the reconciler sweeps orphaned mirrors.
	if err := s.repo.DeleteMirrorByOrderID(ctx, id); err != nil {
		s.logg.Warn(s.logg.WithOrderID(ctx, id.String()), "deleting order mirror failed")
	}

	s.notify(ctx, order.OwnerUserID)
	return nil
}

// Summary computes the admin dashboard headline numbers. "Today" follows the
// server's local calendar day.
func (s *service) Summary(ctx context.Context) (*DashboardSummary, error) {
	revenue, err := s.repo.RevenueTotal(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revenue total")
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	today, err := s.repo.CountOrdersBetween(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count today orders")
	}
	total, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	return &DashboardSummary{
		RevenueTotal: revenue.StringFixed(2),
		OrdersToday:  today,
		TotalOrders:  total,
	}, nil
}

// RenderReceipt renders the printable HTML receipt for one order.
func (s *service) RenderReceipt(ctx context.Context, id uuid.UUID) (string, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return "", err
	}
	html, err := renderReceipt(order)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render receipt")
	}
	return html, nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// syncMirror rewrites the per-customer projection. Failures are logged and
// left for the reconciler; the primary row stays flagged unsynced.
func (s *service) syncMirror(ctx context.Context, order *models.Order) {
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	mirror := &models.UserOrderMirror{
		ID:          uuid.New(),
		OrderID:     order.ID,
		OwnerUserID: order.OwnerUserID,
		Document:    BuildMirrorDocument(order),
	}
	if err := s.repo.UpsertMirror(ctx, mirror); err != nil {
		s.logg.Error(ctx, "mirror upsert failed, reconciler will retry", err)
		return
	}
	if err := s.repo.MarkMirrorSynced(ctx, order.ID, s.now().UTC()); err != nil {
		s.logg.Error(ctx, "marking mirror synced failed", err)
	}
}

// notify is best-effort; a missed signal only delays the next snapshot.
func (s *service) notify(ctx context.Context, ownerID uuid.UUID) {
	_ = s.notifier.NotifyChanged(ctx, TopicOrders)
	if ownerID != uuid.Nil {
		_ = s.notifier.NotifyChanged(ctx, OwnerOrdersTopic(ownerID))
	}
}
