package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/catalog"
	"github.com/syncbridge/backend/internal/domain/integration"
	"github.com/syncbridge/backend/internal/domain/shared"
)

// ReconcilerConfig holds tuning knobs for the reconciler
type ReconcilerConfig struct {
	// ChunkSize bounds how many records one upsert transaction covers,
	// to bound lock duration and memory.
	ChunkSize int
	// MaxReportedFailures caps how many failure causes a pass report keeps.
	MaxReportedFailures int
}

// DefaultReconcilerConfig returns the default reconciler configuration
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		ChunkSize:           50,
		MaxReportedFailures: 10,
	}
}

// Validate validates the configuration
func (c *ReconcilerConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("reconciler: chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.MaxReportedFailures < 0 {
		return fmt.Errorf("reconciler: max reported failures cannot be negative, got %d", c.MaxReportedFailures)
	}
	return nil
}

// Reconciler pulls authoritative entity collections from the remote catalog
// system and merges them into the local store in chunked, transactional
// upserts keyed by remote ID. Re-running a pass with unchanged remote data
// changes nothing locally except last-sync timestamps.
//
// Per-record and per-chunk failures are aggregated into the pass report and
// never raised; only a failed fetch (ErrRemoteUnavailable) or an
// unrecoverable storage failure propagate to the caller.
type Reconciler struct {
	source integration.RemoteSource
	scope  catalog.TransactionScope
	lock   SyncLock
	logger *zap.Logger
	config ReconcilerConfig

	// now is the clock used for last-sync stamps; injectable for tests
	now func() time.Time
}

// NewReconciler creates a new reconciler
func NewReconciler(
	source integration.RemoteSource,
	scope catalog.TransactionScope,
	lock SyncLock,
	logger *zap.Logger,
	config ReconcilerConfig,
) (*Reconciler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Reconciler{
		source: source,
		scope:  scope,
		lock:   lock,
		logger: logger,
		config: config,
		now:    time.Now,
	}, nil
}

// SyncAll runs one full reconciliation pass: products, then customers, then
// orders, in that fixed order. Orders go last because their upserts resolve
// customer and product references against local state.
//
// The sync lock is held for the whole pass; a concurrent SyncAll or
// SyncEntity gets ErrSyncInProgress. On a fatal per-entity failure the pass
// stops and the reports accumulated so far are returned alongside the error.
func (r *Reconciler) SyncAll(ctx context.Context) (*integration.FullSyncReport, error) {
	release, err := r.lock.TryAcquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	full := &integration.FullSyncReport{StartedAt: r.now()}
	r.logger.Info("Full reconciliation pass started")

	for _, entity := range []integration.EntityType{
		integration.EntityTypeProducts,
		integration.EntityTypeCustomers,
		integration.EntityTypeOrders,
	} {
		report, err := r.syncEntityLocked(ctx, entity)
		if err != nil {
			full.CompletedAt = r.now()
			r.logger.Error("Full reconciliation pass aborted",
				zap.String("entity", entity.String()),
				zap.Error(err),
			)
			return full, err
		}
		full.Reports = append(full.Reports, *report)
	}

	full.CompletedAt = r.now()
	r.logger.Info("Full reconciliation pass completed",
		zap.Duration("elapsed", full.CompletedAt.Sub(full.StartedAt)),
	)
	return full, nil
}

// SyncEntity runs one reconciliation pass for a single entity type. It
// shares the sync lock with SyncAll, so a manual per-entity sync cannot
// overlap a scheduled full pass.
func (r *Reconciler) SyncEntity(ctx context.Context, entity integration.EntityType) (*integration.SyncReport, error) {
	if !entity.IsValid() {
		return nil, fmt.Errorf("reconciler: unknown entity type %q", entity)
	}

	release, err := r.lock.TryAcquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return r.syncEntityLocked(ctx, entity)
}

func (r *Reconciler) syncEntityLocked(ctx context.Context, entity integration.EntityType) (*integration.SyncReport, error) {
	var (
		report *integration.SyncReport
		err    error
	)

	switch entity {
	case integration.EntityTypeProducts:
		report, err = r.syncProducts(ctx)
	case integration.EntityTypeCustomers:
		report, err = r.syncCustomers(ctx)
	case integration.EntityTypeOrders:
		report, err = r.syncOrders(ctx)
	default:
		return nil, fmt.Errorf("reconciler: unknown entity type %q", entity)
	}
	if err != nil {
		return nil, err
	}

	report.Finish(r.now())
	r.logger.Info("Reconciliation pass finished",
		zap.String("entity", entity.String()),
		zap.String("status", string(report.Status)),
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// ---------------------------------------------------------------------------
// Per-entity passes
// ---------------------------------------------------------------------------

func (r *Reconciler) syncProducts(ctx context.Context) (*integration.SyncReport, error) {
	report := &integration.SyncReport{
		Entity:    integration.EntityTypeProducts,
		StartedAt: r.now(),
	}

	records, err := r.source.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	report.Total = len(records)

	valid := make([]integration.RemoteProduct, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			r.recordFailure(report, rec.ID, err)
			continue
		}
		valid = append(valid, rec)
	}

	for _, chunk := range chunked(valid, r.config.ChunkSize) {
		syncedAt := r.now()
		products := make([]*catalog.Product, 0, len(chunk))
		for _, rec := range chunk {
			p, err := catalog.NewSyncedProduct(rec.ID, rec.Name, rec.Description, rec.Price, rec.Stock, syncedAt)
			if err != nil {
				r.recordFailure(report, rec.ID, err)
				continue
			}
			products = append(products, p)
		}
		if len(products) == 0 {
			continue
		}

		err := r.scope.Execute(ctx, func(repos catalog.TransactionalRepositories) error {
			return repos.Products().UpsertBatch(ctx, products)
		})
		if err != nil {
			r.failChunk(report, integration.EntityTypeProducts, len(products), err)
			continue
		}
		report.Succeeded += len(products)
	}

	return report, nil
}

func (r *Reconciler) syncCustomers(ctx context.Context) (*integration.SyncReport, error) {
	report := &integration.SyncReport{
		Entity:    integration.EntityTypeCustomers,
		StartedAt: r.now(),
	}

	records, err := r.source.FetchCustomers(ctx)
	if err != nil {
		return nil, err
	}
	report.Total = len(records)

	valid := make([]integration.RemoteCustomer, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			r.recordFailure(report, rec.ID, err)
			continue
		}
		valid = append(valid, rec)
	}

	for _, chunk := range chunked(valid, r.config.ChunkSize) {
		syncedAt := r.now()
		customers := make([]*catalog.Customer, 0, len(chunk))
		for _, rec := range chunk {
			c, err := catalog.NewSyncedCustomer(rec.ID, rec.Name, rec.Email, rec.Phone, syncedAt)
			if err != nil {
				r.recordFailure(report, rec.ID, err)
				continue
			}
			customers = append(customers, c)
		}
		if len(customers) == 0 {
			continue
		}

		err := r.scope.Execute(ctx, func(repos catalog.TransactionalRepositories) error {
			return repos.Customers().UpsertBatch(ctx, customers)
		})
		if err != nil {
			r.failChunk(report, integration.EntityTypeCustomers, len(customers), err)
			continue
		}
		report.Succeeded += len(customers)
	}

	return report, nil
}

func (r *Reconciler) syncOrders(ctx context.Context) (*integration.SyncReport, error) {
	report := &integration.SyncReport{
		Entity:    integration.EntityTypeOrders,
		StartedAt: r.now(),
	}

	records, err := r.source.FetchOrders(ctx)
	if err != nil {
		return nil, err
	}
	report.Total = len(records)

	valid := make([]integration.RemoteOrder, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			r.recordFailure(report, rec.ID, err)
			continue
		}
		valid = append(valid, rec)
	}

	for _, chunk := range chunked(valid, r.config.ChunkSize) {
		// Reference resolution failures are isolated per order inside the
		// chunk transaction: a bad order is skipped before any write for
		// it happens, while a storage error still rolls back the chunk.
		var (
			chunkSucceeded int
			chunkFailures  []integration.SyncFailure
		)

		err := r.scope.Execute(ctx, func(repos catalog.TransactionalRepositories) error {
			chunkSucceeded = 0
			chunkFailures = chunkFailures[:0]

			for _, rec := range chunk {
				if err := r.upsertOrder(ctx, repos, rec); err != nil {
					if isStorageError(err) {
						return err
					}
					chunkFailures = append(chunkFailures, integration.SyncFailure{
						RemoteID: rec.ID,
						Reason:   err.Error(),
					})
					continue
				}
				chunkSucceeded++
			}
			return nil
		})
		if err != nil {
			r.failChunk(report, integration.EntityTypeOrders, len(chunk), err)
			continue
		}

		report.Succeeded += chunkSucceeded
		for _, f := range chunkFailures {
			report.Failed++
			if len(report.Failures) < r.config.MaxReportedFailures {
				report.Failures = append(report.Failures, f)
			}
		}
	}

	return report, nil
}

// upsertOrder merges one remote order. Resolution failures (unknown
// customer or product remote IDs) are returned as resolutionError so the
// caller can skip just this order; anything else is a storage error that
// fails the chunk.
func (r *Reconciler) upsertOrder(ctx context.Context, repos catalog.TransactionalRepositories, rec integration.RemoteOrder) error {
	customer, err := repos.Customers().FindByRemoteID(ctx, rec.CustomerID)
	if err != nil {
		if isNotFound(err) {
			return &resolutionError{msg: fmt.Sprintf("customer with remote ID %d not found locally", rec.CustomerID)}
		}
		return err
	}

	items := make([]catalog.OrderItem, 0, len(rec.Items))
	for _, itemRec := range rec.Items {
		product, err := repos.Products().FindByRemoteID(ctx, itemRec.ProductID)
		if err != nil {
			if isNotFound(err) {
				return &resolutionError{msg: fmt.Sprintf("product with remote ID %d not found locally", itemRec.ProductID)}
			}
			return err
		}
		item, err := catalog.NewOrderItem(product.ID, itemRec.Quantity, itemRec.Price)
		if err != nil {
			return &resolutionError{msg: err.Error()}
		}
		items = append(items, *item)
	}

	syncedAt := r.now()
	status := catalog.OrderStatus(rec.Status)
	if rec.Status == "" {
		status = catalog.OrderStatusPending
	}
	if !status.IsValid() {
		return &resolutionError{msg: fmt.Sprintf("unknown order status %q", rec.Status)}
	}

	existing, err := repos.Orders().FindByRemoteID(ctx, rec.ID)
	if err != nil && !isNotFound(err) {
		return err
	}

	if existing != nil {
		existing.CustomerID = customer.ID
		existing.ReplaceItems(items)
		existing.Total = rec.Total
		existing.Status = status
		existing.MarkSynced(syncedAt)
		return repos.Orders().SaveWithItems(ctx, existing)
	}

	order, err := catalog.NewSyncedOrder(rec.ID, customer.ID, items, rec.Total, status, syncedAt)
	if err != nil {
		return &resolutionError{msg: err.Error()}
	}
	return repos.Orders().SaveWithItems(ctx, order)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// resolutionError marks a per-order reference resolution failure; it skips
// one order without failing the chunk.
type resolutionError struct {
	msg string
}

func (e *resolutionError) Error() string {
	return e.msg
}

func isStorageError(err error) bool {
	var resErr *resolutionError
	return !errors.As(err, &resErr)
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

func (r *Reconciler) recordFailure(report *integration.SyncReport, remoteID int64, err error) {
	report.Failed++
	if len(report.Failures) < r.config.MaxReportedFailures {
		report.Failures = append(report.Failures, integration.SyncFailure{
			RemoteID: remoteID,
			Reason:   err.Error(),
		})
	}
	r.logger.Warn("Record excluded from sync",
		zap.String("entity", report.Entity.String()),
		zap.Int64("remote_id", remoteID),
		zap.Error(err),
	)
}

func (r *Reconciler) failChunk(report *integration.SyncReport, entity integration.EntityType, size int, err error) {
	report.Failed += size
	if len(report.Failures) < r.config.MaxReportedFailures {
		report.Failures = append(report.Failures, integration.SyncFailure{
			Reason: fmt.Sprintf("chunk of %d rolled back: %v", size, err),
		})
	}
	r.logger.Warn("Sync chunk rolled back",
		zap.String("entity", entity.String()),
		zap.Int("chunk_size", size),
		zap.Error(err),
	)
}

// chunked partitions items into slices of at most size elements,
// preserving collection order.
func chunked[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
