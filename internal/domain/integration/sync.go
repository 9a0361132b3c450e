package integration

import "time"

// EntityType identifies which entity collection a sync pass covers
type EntityType string

const (
	EntityTypeProducts  EntityType = "products"
	EntityTypeCustomers EntityType = "customers"
	EntityTypeOrders    EntityType = "orders"
)

// IsValid returns true if the entity type is known
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeProducts, EntityTypeCustomers, EntityTypeOrders:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// SyncStatus is the final status of a reconciliation pass
type SyncStatus string

const (
	// SyncStatusCompleted indicates every record merged successfully
	SyncStatusCompleted SyncStatus = "completed"
	// SyncStatusPartiallyFailed indicates some records failed but at
	// least one succeeded
	SyncStatusPartiallyFailed SyncStatus = "partially_failed"
	// SyncStatusFailed indicates no record was merged
	SyncStatusFailed SyncStatus = "failed"
)

// SyncFailure records one failed record or chunk for observability
type SyncFailure struct {
	RemoteID int64  `json:"remote_id,omitempty"`
	Reason   string `json:"reason"`
}

// SyncReport aggregates the outcome of one per-entity reconciliation pass.
// Per-record and per-chunk failures are captured here, never raised.
type SyncReport struct {
	Entity      EntityType    `json:"entity"`
	Status      SyncStatus    `json:"status"`
	Total       int           `json:"total"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Failures    []SyncFailure `json:"failures,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Finish derives the final status from the counters and stamps the
// completion time.
func (r *SyncReport) Finish(at time.Time) {
	r.CompletedAt = at
	switch {
	case r.Failed == 0:
		r.Status = SyncStatusCompleted
	case r.Succeeded > 0:
		r.Status = SyncStatusPartiallyFailed
	default:
		r.Status = SyncStatusFailed
	}
}

// FullSyncReport aggregates the per-entity reports of one SyncAll pass,
// in the fixed execution order products, customers, orders.
type FullSyncReport struct {
	Reports     []SyncReport `json:"reports"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}
