package customer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/happyshopdev/happyshop-backend/internal/catalog"
	"github.com/happyshopdev/happyshop-backend/internal/notifications"
	"github.com/happyshopdev/happyshop-backend/internal/orders"
	"github.com/happyshopdev/happyshop-backend/internal/trolley"
	"github.com/happyshopdev/happyshop-backend/pkg/config"
	"github.com/happyshopdev/happyshop-backend/pkg/db/models"
	pkgerrors "github.com/happyshopdev/happyshop-backend/pkg/errors"
	"github.com/happyshopdev/happyshop-backend/pkg/logger"
	"github.com/happyshopdev/happyshop-backend/pkg/metrics"
)

// Display texts, kept identical across operations so the UI layer can rely
// on them.
const (
	msgTypeProductID     = "Please type a product ID"
	msgSearchBeforeAdd   = "Please search for an available product before adding it to the trolley"
	msgTrolleyEmpty      = "Your trolley is empty"
	msgTrolleyEmptied    = "Your trolley is empty (items removed due to insufficient stock)"
	msgItemsRemovedShort = "Some items were removed from your trolley due to insufficient stock."
)

// StockAuthority is the external component owning true inventory counts and
// the atomic multi-item purchase decision.
type StockAuthority interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	PurchaseStocks(ctx context.Context, items []trolley.LineItem) ([]catalog.ShortageEntry, error)
}

// OrderFactory converts a satisfied trolley into an immutable order.
type OrderFactory interface {
	NewOrder(ctx context.Context, sessionID string, items []trolley.LineItem) (*orders.Order, error)
}

// Deps carries everything a session needs. All fields except Metrics are
// required.
type Deps struct {
	Catalog  StockAuthority
	Orders   OrderFactory
	Notifier notifications.Notifier
	Logg     *logger.Logger
	Metrics  *metrics.CheckoutMetrics
	Images   config.CatalogConfig
}

func (d Deps) validate() error {
	if d.Catalog == nil {
		return fmt.Errorf("stock authority required")
	}
	if d.Orders == nil {
		return fmt.Errorf("order factory required")
	}
	if d.Notifier == nil {
		return fmt.Errorf("shortage notifier required")
	}
	return nil
}

// Session is one customer's cart/checkout state machine. A mutex serializes
// every operation so the trolley can never change between submitting a
// purchase request and applying its result.
type Session struct {
	id   string
	deps Deps

	mu            sync.Mutex
	trolley       *trolley.Trolley
	selected      *trolley.LineItem
	searchMessage string
	trolleyText   string
	receiptText   string
}

// NewSession creates an empty session.
func NewSession(id string, deps Deps) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id required")
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &Session{
		id:            id,
		deps:          deps,
		trolley:       trolley.New(),
		searchMessage: "No product was searched yet",
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// View returns the current display snapshot without changing state.
func (s *Session) View() ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Search looks up one catalogue id and records it as the current selection
// when it exists and is in stock. Misses and empty input clear the
// selection and are reported through the view, not as errors; only a
// catalogue outage returns an error.
func (s *Session) Search(ctx context.Context, productID string) (ViewModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	productID = strings.TrimSpace(productID)
	if productID == "" {
		s.selected = nil
		s.searchMessage = msgTypeProductID
		return s.view(), nil
	}

	product, err := s.deps.Catalog.FindByID(ctx, productID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			s.selected = nil
			s.searchMessage = fmt.Sprintf("No product was found with ID %s", productID)
			return s.view(), nil
		}
		return s.view(), err
	}
	if product.StockQty <= 0 {
		s.selected = nil
		s.searchMessage = fmt.Sprintf("No product was found with ID %s", productID)
		return s.view(), nil
	}

	item := productToLineItem(product)
	s.selected = &item
	s.searchMessage = searchHitMessage(product)
	s.logInfo(ctx, "catalog.search.hit", map[string]any{"product_id": productID})
	return s.view(), nil
}

// AddToTrolley adds one unit of the current selection to the trolley and
// re-consolidates it. Without a prior successful search it only updates the
// search message. Either way the receipt is cleared so the UI stays on the
// trolley page.
func (s *Session) AddToTrolley(ctx context.Context) (ViewModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		s.searchMessage = msgSearchBeforeAdd
		s.receiptText = ""
		return s.view(), nil
	}

	if err := s.trolley.Add(*s.selected, 1); err != nil {
		return s.view(), err
	}
	s.trolleyText = formatLineItems(s.trolley.Items())
	s.receiptText = ""
	s.logInfo(ctx, "trolley.add", map[string]any{"product_id": s.selected.ProductID})
	return s.view(), nil
}

// Checkout submits the consolidated trolley to the stock authority and
// applies the outcome. See the package tests for the full transition table.
func (s *Session) Checkout(ctx context.Context) (ViewModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	if s.trolley.IsEmpty() {
		s.trolleyText = msgTrolleyEmpty
		s.deps.Metrics.Observe(metrics.OutcomeRejected, time.Since(start))
		return s.view(), nil
	}

	items := trolley.Consolidate(s.trolley.Items())

	shortages, err := s.deps.Catalog.PurchaseStocks(ctx, items)
	if err != nil {
		// Outcome unknown: leave the trolley exactly as it was.
		s.deps.Metrics.Observe(metrics.OutcomeFailed, time.Since(start))
		return s.view(), err
	}

	if len(shortages) == 0 {
		order, err := s.deps.Orders.NewOrder(ctx, s.id, items)
		if err != nil {
			s.deps.Metrics.Observe(metrics.OutcomeFailed, time.Since(start))
			return s.view(), err
		}
		s.trolley.Clear()
		s.selected = nil
		s.trolleyText = ""
		s.receiptText = formatReceipt(order)
		s.deps.Metrics.Observe(metrics.OutcomeSatisfied, time.Since(start))
		s.logInfo(ctx, "checkout.satisfied", map[string]any{"order_id": order.ID.String()})
		return s.view(), nil
	}

	shortIDs := make(map[string]struct{}, len(shortages))
	for _, entry := range shortages {
		shortIDs[entry.ProductID] = struct{}{}
	}
	s.trolley.RemoveByIDs(shortIDs)
	s.selected = nil
	if s.trolley.IsEmpty() {
		s.trolleyText = msgTrolleyEmptied
	} else {
		s.trolleyText = formatLineItems(s.trolley.Items())
	}
	s.searchMessage = msgItemsRemovedShort
	s.receiptText = ""
	s.deps.Notifier.Notify(ctx, s.id, formatShortages(shortages))
	s.deps.Metrics.Observe(metrics.OutcomeShort, time.Since(start))
	s.logInfo(ctx, "checkout.short", map[string]any{"short_ids": len(shortIDs)})
	return s.view(), nil
}

// CancelTrolley empties the trolley.
func (s *Session) CancelTrolley(ctx context.Context) ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trolley.Clear()
	s.trolleyText = ""
	s.logInfo(ctx, "trolley.cancel", nil)
	return s.view()
}

// CloseReceipt clears the receipt page.
func (s *Session) CloseReceipt(ctx context.Context) ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.receiptText = ""
	return s.view()
}

func (s *Session) view() ViewModel {
	image := s.deps.Images.PlaceholderImage
	if s.selected != nil {
		image = s.selected.ImageName
	}
	return ViewModel{
		ImageRef:      s.deps.Images.ImageBaseURL + image,
		SearchMessage: s.searchMessage,
		TrolleyText:   s.trolleyText,
		ReceiptText:   s.receiptText,
	}
}

func (s *Session) logInfo(ctx context.Context, msg string, fields map[string]any) {
	if s.deps.Logg == nil {
		return
	}
	ctx = s.deps.Logg.WithSessionID(ctx, s.id)
	if len(fields) > 0 {
		ctx = s.deps.Logg.WithFields(ctx, fields)
	}
	s.deps.Logg.Info(ctx, msg)
}

func searchHitMessage(product *models.Product) string {
	msg := fmt.Sprintf("Product ID: %s\n%s\nPrice: £%s",
		product.ID, product.Description, product.UnitPrice.StringFixed(2))
	if product.StockQty < 100 {
		msg += fmt.Sprintf("\n%d units left.", product.StockQty)
	}
	return msg
}

func productToLineItem(product *models.Product) trolley.LineItem {
	return trolley.LineItem{
		ProductID:   product.ID,
		Description: product.Description,
		ImageName:   product.ImageName,
		UnitPrice:   product.UnitPrice,
		StockQty:    product.StockQty,
		Qty:         1,
	}
}
