// Package integration exercises the full stack end to end: a fake remote
// catalog served over httptest, the reconciler, the GORM store (sqlite
// in-memory) and the HTTP surface.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogapp "github.com/syncbridge/backend/internal/application/catalog"
	syncapp "github.com/syncbridge/backend/internal/application/sync"
	"github.com/syncbridge/backend/internal/infrastructure/persistence"
	"github.com/syncbridge/backend/internal/infrastructure/persistence/models"
	"github.com/syncbridge/backend/internal/infrastructure/remote"
	"github.com/syncbridge/backend/internal/interfaces/http/handler"
	"github.com/syncbridge/backend/internal/interfaces/http/middleware"
	"github.com/syncbridge/backend/internal/interfaces/http/router"
)

// remoteFixture is a mutable stand-in for the remote catalog system.
type remoteFixture struct {
	products  string
	customers string
	orders    string
}

func defaultRemoteFixture() *remoteFixture {
	return &remoteFixture{
		products: `[
			{"id": 101, "name": "Moisturizing Cream", "description": "50ml jar", "price": "24.90", "stock": 12},
			{"id": 102, "name": "Sun Lotion", "description": "SPF 50", "price": "18.50", "stock": 30}
		]`,
		customers: `[
			{"id": 201, "name": "Alice Martin", "email": "alice@example.com", "phone": "+34600111222"},
			{"id": 202, "name": "Bob Stone", "email": "bob@example.com", "phone": ""}
		]`,
		orders: `[
			{"id": 301, "customerId": 201, "total": "43.40", "status": "pending", "items": [
				{"productId": 101, "quantity": 1, "price": "24.90"},
				{"productId": 102, "quantity": 1, "price": "18.50"}
			]}
		]`,
	}
}

func (f *remoteFixture) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products":
			fmt.Fprint(w, f.products)
		case "/customers":
			fmt.Fprint(w, f.customers)
		case "/orders":
			fmt.Fprint(w, f.orders)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testStack wires the whole application against an in-memory database.
type testStack struct {
	db     *gorm.DB
	engine *gin.Engine
}

func newTestStack(t *testing.T, remoteURL string) *testStack {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CustomerModel{},
		&models.ProductModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
	))

	customerRepo := persistence.NewGormCustomerRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	customerService := catalogapp.NewCustomerService(customerRepo)
	productService := catalogapp.NewProductService(productRepo)
	orderService := catalogapp.NewOrderService(orderRepo, customerRepo, productRepo, txScope)

	client, err := remote.NewClient(remote.NewConfig(remoteURL))
	require.NoError(t, err)

	reconciler, err := syncapp.NewReconciler(
		client, txScope, syncapp.NewMutexSyncLock(), zap.NewNop(), syncapp.DefaultReconcilerConfig())
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine)
	r.Register(handler.NewCustomerHandler(customerService))
	r.Register(handler.NewProductHandler(productService))
	r.Register(handler.NewOrderHandler(orderService))
	r.Register(handler.NewSyncHandler(reconciler))
	r.Setup()

	return &testStack{db: db, engine: engine}
}

func (s *testStack) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	s.engine.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func assertDecimal(t *testing.T, want string, got any) {
	t.Helper()
	raw, ok := got.(string)
	require.True(t, ok, "expected decimal string, got %T", got)
	parsed, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(decimal.RequireFromString(want)),
		"expected %s, got %s", want, raw)
}

func (s *testStack) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(model).Count(&n).Error)
	return n
}

func TestSyncFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	fixture := defaultRemoteFixture()
	stack := newTestStack(t, fixture.server(t).URL)

	// First pass pulls everything.
	w, resp := stack.do(t, http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Synchronization completed", resp["message"])
	assert.NotEmpty(t, resp["timestamp"])

	reports := resp["data"].(map[string]interface{})["reports"].([]interface{})
	require.Len(t, reports, 3)
	for _, raw := range reports {
		report := raw.(map[string]interface{})
		assert.Equal(t, "completed", report["status"], report["entity"])
		assert.Zero(t, report["failed"])
	}

	assert.Equal(t, int64(2), stack.count(t, &models.ProductModel{}))
	assert.Equal(t, int64(2), stack.count(t, &models.CustomerModel{}))
	assert.Equal(t, int64(1), stack.count(t, &models.OrderModel{}))
	assert.Equal(t, int64(2), stack.count(t, &models.OrderItemModel{}))

	// The merged order is reachable over the CRUD surface with its items
	// and a resolved local customer reference.
	w, resp = stack.do(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := resp["data"].([]interface{})
	require.Len(t, orders, 1)
	orderID := orders[0].(map[string]interface{})["id"].(string)

	w, resp = stack.do(t, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	order := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(301), order["remote_id"])
	assert.Equal(t, "pending", order["status"])
	assertDecimal(t, "43.40", order["total"])
	assert.NotEmpty(t, order["customer_id"])
	assert.Len(t, order["items"].([]interface{}), 2)

	// A second pass with unchanged remote data is a no-op on row counts.
	w, _ = stack.do(t, http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), stack.count(t, &models.ProductModel{}))
	assert.Equal(t, int64(2), stack.count(t, &models.CustomerModel{}))
	assert.Equal(t, int64(1), stack.count(t, &models.OrderModel{}))
	assert.Equal(t, int64(2), stack.count(t, &models.OrderItemModel{}))

	// Remote updates land on the existing rows instead of creating new ones.
	fixture.customers = `[
		{"id": 201, "name": "Alice Martin-Lopez", "email": "alice@example.com", "phone": "+34600111222"},
		{"id": 202, "name": "Bob Stone", "email": "bob@example.com", "phone": ""}
	]`
	w, _ = stack.do(t, http.MethodPost, "/api/v1/sync/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), stack.count(t, &models.CustomerModel{}))

	w, resp = stack.do(t, http.MethodGet, "/api/v1/customers?search=Martin-Lopez", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]interface{}), 1)
}

func TestSyncFlow_Integration_LocalRowsSurviveSync(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	fixture := defaultRemoteFixture()
	stack := newTestStack(t, fixture.server(t).URL)

	// A customer created over the API has no remote identity.
	w, resp := stack.do(t, http.MethodPost, "/api/v1/customers", map[string]any{
		"name":  "Local Walk-In",
		"email": "walkin@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	localID := resp["data"].(map[string]interface{})["id"].(string)

	w, _ = stack.do(t, http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The sync pass merged the remote customers around the local row.
	assert.Equal(t, int64(3), stack.count(t, &models.CustomerModel{}))

	w, resp = stack.do(t, http.MethodGet, "/api/v1/customers/"+localID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	customer := resp["data"].(map[string]interface{})
	assert.Equal(t, "walkin@example.com", customer["email"])
	_, hasRemote := customer["remote_id"]
	assert.False(t, hasRemote, "locally created rows never gain a remote id")
}

func TestSyncFlow_Integration_OrderComposition(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	fixture := defaultRemoteFixture()
	stack := newTestStack(t, fixture.server(t).URL)

	w, _ := stack.do(t, http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := stack.do(t, http.MethodGet, "/api/v1/customers?search=Alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	customers := resp["data"].([]interface{})
	require.Len(t, customers, 1)
	customerID := customers[0].(map[string]interface{})["id"].(string)

	w, resp = stack.do(t, http.MethodGet, "/api/v1/products?search=Lotion", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := resp["data"].([]interface{})
	require.Len(t, products, 1)
	productID := products[0].(map[string]interface{})["id"].(string)

	// Direct create resolves references against the synced rows.
	w, resp = stack.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_id": customerID,
		"items": []map[string]any{
			{"product_id": productID, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := resp["data"].(map[string]interface{})
	assertDecimal(t, "37.00", order["total"])
	orderID := order["id"].(string)

	// A dangling product reference rejects the whole order.
	w, resp = stack.do(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_id": customerID,
		"items": []map[string]any{
			{"product_id": "6f9d2b6e-0000-0000-0000-000000000000", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, false, resp["success"])

	// Status moves through PATCH.
	w, resp = stack.do(t, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]any{
		"status": "shipped",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "shipped", resp["data"].(map[string]interface{})["status"])

	// Deleting the order takes its items with it.
	before := stack.count(t, &models.OrderItemModel{})
	w, _ = stack.do(t, http.MethodDelete, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, before-1, stack.count(t, &models.OrderItemModel{}))
}
