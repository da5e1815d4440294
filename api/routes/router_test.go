package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/happyshopdev/happyshop-backend/api/routes"
	"github.com/happyshopdev/happyshop-backend/internal/catalog"
	"github.com/happyshopdev/happyshop-backend/internal/customer"
	"github.com/happyshopdev/happyshop-backend/internal/notifications"
	"github.com/happyshopdev/happyshop-backend/internal/orders"
	"github.com/happyshopdev/happyshop-backend/pkg/config"
	"github.com/happyshopdev/happyshop-backend/pkg/db/models"
)

type gormTx struct {
	conn *gorm.DB
}

func (g gormTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.conn.WithContext(ctx).Transaction(fn)
}

func newTestServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	dsn := "file:api_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.OrderRecord{},
		&models.OrderLineItem{},
		&models.ShortageNotice{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn), gormTx{conn: conn})
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	orderFactory, err := orders.NewFactory(orders.NewRepository(conn))
	if err != nil {
		t.Fatalf("order factory: %v", err)
	}
	notificationsSvc, err := notifications.NewService(notifications.NewRepository(conn), nil)
	if err != nil {
		t.Fatalf("notifications service: %v", err)
	}
	sessions, err := customer.NewRegistry(customer.Deps{
		Catalog:  catalogSvc,
		Orders:   orderFactory,
		Notifier: notificationsSvc,
		Images: config.CatalogConfig{
			ImageBaseURL:     "/images/",
			PlaceholderImage: "imageHolder.jpg",
		},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:        &config.Config{},
		Sessions:      sessions,
		Notifications: notificationsSvc,
	})
	return router, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, id, description, price string, stock int) {
	t.Helper()
	product := &models.Product{
		ID:          id,
		Description: description,
		ImageName:   id + ".jpg",
		UnitPrice:   decimal.RequireFromString(price),
		StockQty:    stock,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product %s: %v", id, err)
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, sessionID, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-Session-Id", sessionID)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, payload
}

func dataField(t *testing.T, payload map[string]any, field string) string {
	t.Helper()
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data envelope: %v", payload)
	}
	value, _ := data[field].(string)
	return value
}

func TestShoppingFlowEndToEnd(t *testing.T) {
	router, conn := newTestServer(t)
	seedProduct(t, conn, "0002", "DAB Radio", "29.99", 5)
	seedProduct(t, conn, "0005", "Blender", "33.50", 3)

	// Search, then add two radios and one blender.
	rec, payload := doJSON(t, router, http.MethodPost, "/api/v1/session/search", "sess-1", `{"product_id":"0002"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rec.Code, rec.Body.String())
	}
	if msg := dataField(t, payload, "search_message"); !strings.Contains(msg, "DAB Radio") {
		t.Fatalf("unexpected search message: %q", msg)
	}

	doJSON(t, router, http.MethodPost, "/api/v1/session/trolley", "sess-1", "")
	doJSON(t, router, http.MethodPost, "/api/v1/session/trolley", "sess-1", "")
	doJSON(t, router, http.MethodPost, "/api/v1/session/search", "sess-1", `{"product_id":"0005"}`)
	rec, payload = doJSON(t, router, http.MethodPost, "/api/v1/session/trolley", "sess-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
	}
	if text := dataField(t, payload, "trolley_text"); !strings.Contains(text, "0002 DAB Radio (2)") {
		t.Fatalf("unexpected trolley text: %q", text)
	}

	// Checkout succeeds and decrements stock.
	rec, payload = doJSON(t, router, http.MethodPost, "/api/v1/session/checkout", "sess-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("checkout: %d %s", rec.Code, rec.Body.String())
	}
	receipt := dataField(t, payload, "receipt_text")
	if !strings.Contains(receipt, "Order ID: ") || !strings.Contains(receipt, "Total: £93.48") {
		t.Fatalf("unexpected receipt: %q", receipt)
	}
	if text := dataField(t, payload, "trolley_text"); text != "" {
		t.Fatalf("trolley must be cleared, got %q", text)
	}

	var product models.Product
	if err := conn.First(&product, "id = ?", "0002").Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.StockQty != 3 {
		t.Fatalf("expected stock 3 after checkout, got %d", product.StockQty)
	}
}

func TestShortCheckoutCreatesNotice(t *testing.T) {
	router, conn := newTestServer(t)
	seedProduct(t, conn, "0002", "DAB Radio", "29.99", 1)

	doJSON(t, router, http.MethodPost, "/api/v1/session/search", "sess-1", `{"product_id":"0002"}`)
	doJSON(t, router, http.MethodPost, "/api/v1/session/trolley", "sess-1", "")
	doJSON(t, router, http.MethodPost, "/api/v1/session/trolley", "sess-1", "")

	rec, payload := doJSON(t, router, http.MethodPost, "/api/v1/session/checkout", "sess-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("checkout: %d %s", rec.Code, rec.Body.String())
	}
	if text := dataField(t, payload, "trolley_text"); !strings.Contains(text, "insufficient stock") {
		t.Fatalf("unexpected trolley text: %q", text)
	}

	// Stock is untouched: the whole purchase rolled back.
	var product models.Product
	if err := conn.First(&product, "id = ?", "0002").Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.StockQty != 1 {
		t.Fatalf("expected stock 1 after short checkout, got %d", product.StockQty)
	}

	rec, payload = doJSON(t, router, http.MethodGet, "/api/v1/notifications/?unread=true", "sess-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("notifications: %d %s", rec.Code, rec.Body.String())
	}
	data := payload["data"].(map[string]any)
	items, ok := data["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected 1 notice, got %v", data["items"])
	}
	notice := items[0].(map[string]any)
	message, _ := notice["message"].(string)
	if !strings.Contains(message, "0002, DAB Radio (Only 1 available, 2 requested)") {
		t.Fatalf("unexpected notice message: %q", message)
	}
}

func TestSearchUnknownProductKeepsTwoHundred(t *testing.T) {
	router, _ := newTestServer(t)

	rec, payload := doJSON(t, router, http.MethodPost, "/api/v1/session/search", "sess-1", `{"product_id":"0099"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rec.Code, rec.Body.String())
	}
	if msg := dataField(t, payload, "search_message"); msg != "No product was found with ID 0099" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestSearchRejectsUnknownFields(t *testing.T) {
	router, _ := newTestServer(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/session/search", "sess-1", `{"product_id":"0002","bogus":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestSessionViewMintsSessionID(t *testing.T) {
	router, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("view: %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Session-Id") == "" {
		t.Fatal("expected a minted session id header")
	}
}

func TestHealthLive(t *testing.T) {
	router, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
