package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/happyshopdev/happyshop-backend/internal/trolley"
	"github.com/happyshopdev/happyshop-backend/pkg/db/models"
	pkgerrors "github.com/happyshopdev/happyshop-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Order is the immutable record of one fully satisfied checkout. Items is a
// copy, independent of the trolley that produced it.
type Order struct {
	ID        uuid.UUID
	SessionID string
	OrderedAt time.Time
	Total     decimal.Decimal
	Items     []trolley.LineItem
}

// Factory converts a satisfied trolley into a persisted order record.
type Factory interface {
	NewOrder(ctx context.Context, sessionID string, items []trolley.LineItem) (*Order, error)
}

type factory struct {
	repo  *Repository
	now   func() time.Time
	newID func() uuid.UUID
}

// NewFactory builds the order factory backed by the ledger repository.
func NewFactory(repo *Repository) (Factory, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &factory{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.New,
	}, nil
}

// NewOrder assigns a fresh identifier and timestamp, snapshots the line
// items, and writes the order to the ledger. It never mutates its input.
func (f *factory) NewOrder(ctx context.Context, sessionID string, items []trolley.LineItem) (*Order, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one line item")
	}

	order := &Order{
		ID:        f.newID(),
		SessionID: sessionID,
		OrderedAt: f.now(),
		Items:     append([]trolley.LineItem(nil), items...),
	}

	total := decimal.Zero
	lineItems := make([]models.OrderLineItem, 0, len(order.Items))
	for _, item := range order.Items {
		total = total.Add(item.LineTotal())
		lineItems = append(lineItems, models.OrderLineItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			ImageName:   item.ImageName,
			UnitPrice:   item.UnitPrice,
			Qty:         item.Qty,
		})
	}
	order.Total = total

	record := &models.OrderRecord{
		ID:         order.ID,
		SessionID:  sessionID,
		TotalPrice: total,
		OrderedAt:  order.OrderedAt,
		Items:      lineItems,
	}
	if _, err := f.repo.CreateOrder(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}
	return order, nil
}
