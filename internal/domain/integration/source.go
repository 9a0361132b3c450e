package integration

import "context"

// RemoteSource is the fetch contract against the remote catalog system.
// Each call returns the full collection in one shot; the remote system is
// assumed bounded in size and offers no pagination. Implementations must
// not retry internally: retry policy belongs to callers so multiple
// resource fetches can share one retry budget.
type RemoteSource interface {
	FetchProducts(ctx context.Context) ([]RemoteProduct, error)
	FetchCustomers(ctx context.Context) ([]RemoteCustomer, error)
	FetchOrders(ctx context.Context) ([]RemoteOrder, error)
}
