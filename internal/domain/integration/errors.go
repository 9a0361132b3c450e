package integration

import "errors"

var (
	// ErrRemoteUnavailable indicates the remote catalog system could not be
	// reached or answered with a failure. Fatal to the sync pass that
	// triggered the fetch.
	ErrRemoteUnavailable = errors.New("integration: remote catalog system unavailable")

	// ErrInvalidRemoteRecord indicates a remote record failed boundary
	// validation and was excluded from the pass.
	ErrInvalidRemoteRecord = errors.New("integration: invalid remote record")

	// ErrSyncInProgress indicates a sync was requested while another pass
	// holds the sync lock. The request is rejected, never queued.
	ErrSyncInProgress = errors.New("integration: sync already in progress")

	// ErrSyncUnavailable indicates the persistence layer failed in a way
	// that makes the whole pass impossible, as opposed to per-record
	// conflicts which are aggregated into the pass report.
	ErrSyncUnavailable = errors.New("integration: sync unavailable due to storage failure")

	// ErrInvalidOrderReference indicates an order item's product reference
	// could not be resolved during direct order creation or update.
	ErrInvalidOrderReference = errors.New("integration: order item references an unknown product")
)
