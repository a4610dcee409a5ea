package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/urbanshop/urbanshop-backend/internal/orders"
	"github.com/urbanshop/urbanshop-backend/pkg/db/models"
	"github.com/urbanshop/urbanshop-backend/pkg/logger"
	"github.com/urbanshop/urbanshop-backend/pkg/metrics"
)

const (
	defaultReconcileLimit = 250
	defaultReconcileGrace = time.Minute
)

type mirrorRepository interface {
	ListUnsyncedOrders(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Order, error)
	UpsertMirror(ctx context.Context, mirror *models.UserOrderMirror) error
	MarkMirrorSynced(ctx context.Context, orderID uuid.UUID, at time.Time) error
	ListOrphanMirrors(ctx context.Context, limit int) ([]models.UserOrderMirror, error)
	DeleteMirrorByOrderID(ctx context.Context, orderID uuid.UUID) error
}

// MirrorReconcileJobParams configures the mirror reconciliation job.
type MirrorReconcileJobParams struct {
	Logger  *logger.Logger
	Repo    mirrorRepository
	Metrics *metrics.JobMetrics
	Limit   int
	Grace   time.Duration
	Now     func() time.Time
}

// NewMirrorReconcileJob builds the job that repairs per-customer order
// projections. It re-upserts mirrors for primaries flagged unsynced and
// sweeps mirrors whose primary order is gone.
func NewMirrorReconcileJob(params MirrorReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultReconcileLimit
	}
	grace := params.Grace
	if grace <= 0 {
		grace = defaultReconcileGrace
	}
	return &mirrorReconcileJob{
		logg:    params.Logger,
		repo:    params.Repo,
		metrics: params.Metrics,
		limit:   limit,
		grace:   grace,
		now:     now,
	}, nil
}

type mirrorReconcileJob struct {
	logg    *logger.Logger
	repo    mirrorRepository
	metrics *metrics.JobMetrics
	limit   int
	grace   time.Duration
	now     func() time.Time
}

func (j *mirrorReconcileJob) Name() string { return "mirror-reconcile" }

func (j *mirrorReconcileJob) Run(ctx context.Context) error {
	var errs error

	repaired, err := j.repairUnsynced(ctx)
	errs = multierr.Append(errs, err)

	swept, err := j.sweepOrphans(ctx)
	errs = multierr.Append(errs, err)

	j.metrics.AddRepaired(j.Name(), repaired+swept)
	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"repaired": repaired,
		"swept":    swept,
	})
	j.logg.Info(reportCtx, "mirror reconcile loop complete")
	return errs
}

// repairUnsynced re-projects orders whose last mirror write failed. The
// grace window keeps the job from racing writes that are still in flight.
func (j *mirrorReconcileJob) repairUnsynced(ctx context.Context) (int, error) {
	cutoff := j.now().UTC().Add(-j.grace)
	stale, err := j.repo.ListUnsyncedOrders(ctx, cutoff, j.limit)
	if err != nil {
		return 0, fmt.Errorf("list unsynced orders: %w", err)
	}

	var errs error
	repaired := 0
	for i := range stale {
		order := &stale[i]
		if err := j.repairOrder(ctx, order); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		repaired++
	}
	return repaired, errs
}

func (j *mirrorReconcileJob) repairOrder(ctx context.Context, order *models.Order) error {
	logCtx := j.logg.WithOrderID(ctx, order.ID.String())
	mirror := &models.UserOrderMirror{
		ID:          uuid.New(),
		OrderID:     order.ID,
		OwnerUserID: order.OwnerUserID,
		Document:    orders.BuildMirrorDocument(order),
	}
	if err := j.repo.UpsertMirror(ctx, mirror); err != nil {
		return fmt.Errorf("upsert mirror for order %s: %w", order.ID, err)
	}
	if err := j.repo.MarkMirrorSynced(ctx, order.ID, j.now().UTC()); err != nil {
		return fmt.Errorf("mark mirror synced for order %s: %w", order.ID, err)
	}
	j.logg.Info(logCtx, "mirror repaired")
	return nil
}

// sweepOrphans deletes mirrors whose primary order was removed.
func (j *mirrorReconcileJob) sweepOrphans(ctx context.Context) (int, error) {
	orphans, err := j.repo.ListOrphanMirrors(ctx, j.limit)
	if err != nil {
		return 0, fmt.Errorf("list orphan mirrors: %w", err)
	}

	var errs error
	swept := 0
	for i := range orphans {
		orphan := &orphans[i]
		if err := j.repo.DeleteMirrorByOrderID(ctx, orphan.OrderID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("delete orphan mirror %s: %w", orphan.OrderID, err))
			continue
		}
		j.logg.Info(j.logg.WithOrderID(ctx, orphan.OrderID.String()), "orphan mirror removed")
		swept++
	}
	return swept, errs
}
