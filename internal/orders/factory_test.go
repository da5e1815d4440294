package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/happyshopdev/happyshop-backend/internal/trolley"
	"github.com/happyshopdev/happyshop-backend/pkg/db/models"
	pkgerrors "github.com/happyshopdev/happyshop-backend/pkg/errors"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.OrderRecord{}, &models.OrderLineItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(conn)
}

func orderItems() []trolley.LineItem {
	return []trolley.LineItem{
		{
			ProductID:   "0002",
			Description: "DAB Radio",
			ImageName:   "0002.jpg",
			UnitPrice:   decimal.RequireFromString("29.99"),
			StockQty:    50,
			Qty:         2,
		},
		{
			ProductID:   "0005",
			Description: "Blender",
			ImageName:   "0005.jpg",
			UnitPrice:   decimal.RequireFromString("33.50"),
			StockQty:    120,
			Qty:         1,
		},
	}
}

func TestNewOrderAssignsIdentityAndPersists(t *testing.T) {
	repo := newTestRepo(t)

	fixedID := uuid.MustParse("8c3a2d1e-6b5f-4a09-9e71-0d4c8b3a2f10")
	fixedTime := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	f := &factory{
		repo:  repo,
		now:   func() time.Time { return fixedTime },
		newID: func() uuid.UUID { return fixedID },
	}

	order, err := f.NewOrder(context.Background(), "sess-1", orderItems())
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	if order.ID != fixedID {
		t.Fatalf("unexpected order id: %s", order.ID)
	}
	if !order.OrderedAt.Equal(fixedTime) {
		t.Fatalf("unexpected order time: %s", order.OrderedAt)
	}
	if got := order.Total.StringFixed(2); got != "93.48" {
		t.Fatalf("expected total 93.48, got %s", got)
	}

	record, err := repo.FindByID(context.Background(), fixedID)
	if err != nil {
		t.Fatalf("load order: %v", err)
	}
	if record.SessionID != "sess-1" {
		t.Fatalf("unexpected session id: %s", record.SessionID)
	}
	if len(record.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(record.Items))
	}
	if got := record.TotalPrice.StringFixed(2); got != "93.48" {
		t.Fatalf("expected persisted total 93.48, got %s", got)
	}
}

func TestNewOrderDoesNotAliasInput(t *testing.T) {
	f := &factory{
		repo:  newTestRepo(t),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.New,
	}

	items := orderItems()
	order, err := f.NewOrder(context.Background(), "sess-1", items)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}

	items[0].Qty = 99
	if order.Items[0].Qty != 2 {
		t.Fatalf("order items alias the input slice: %+v", order.Items[0])
	}
}

func TestNewOrderValidation(t *testing.T) {
	f := &factory{
		repo:  newTestRepo(t),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.New,
	}

	_, err := f.NewOrder(context.Background(), "", orderItems())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code for empty session, got %v", err)
	}

	_, err = f.NewOrder(context.Background(), "sess-1", nil)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code for empty items, got %v", err)
	}
}

func TestListBySessionNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		f := &factory{
			repo:  repo,
			now:   func() time.Time { return base.Add(time.Duration(i) * time.Hour) },
			newID: uuid.New,
		}
		if _, err := f.NewOrder(context.Background(), "sess-1", orderItems()); err != nil {
			t.Fatalf("new order %d: %v", i, err)
		}
	}

	records, err := repo.ListBySession(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].OrderedAt.After(records[i-1].OrderedAt) {
			t.Fatalf("orders not newest first: %s before %s", records[i-1].OrderedAt, records[i].OrderedAt)
		}
	}
}
