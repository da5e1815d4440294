package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/happyshopdev/happyshop-backend/internal/trolley"
	"github.com/happyshopdev/happyshop-backend/pkg/db/models"
	pkgerrors "github.com/happyshopdev/happyshop-backend/pkg/errors"
	"gorm.io/gorm"
)

// ShortageEntry reports one product id that could not be fully supplied.
type ShortageEntry struct {
	ProductID    string
	Description  string
	AvailableQty int
	RequestedQty int
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the stock authority: catalogue lookup plus the atomic
// multi-item purchase decision.
type Service interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	PurchaseStocks(ctx context.Context, items []trolley.LineItem) ([]ShortageEntry, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds the catalogue service backed by the provided stack.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// FindByID resolves one catalogue id to a product snapshot.
func (s *service) FindByID(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

var errShortage = errors.New("insufficient stock")

// PurchaseStocks attempts to decrement stock for every line item inside one
// transaction. A requested quantity exactly equal to the available stock is
// satisfiable. If any item falls short the whole transaction rolls back —
// no stock moves for any id in the request — and the shortage entries come
// back with a nil error. A non-nil error means the purchase outcome is
// unknown and nothing was decremented.
func (s *service) PurchaseStocks(ctx context.Context, items []trolley.LineItem) ([]ShortageEntry, error) {
	for _, item := range items {
		if item.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ordered quantity must be at least 1")
		}
	}

	var shortages []ShortageEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, item := range items {
			res := tx.WithContext(ctx).
				Model(&models.Product{}).
				Where("id = ? AND stock_qty >= ?", item.ProductID, item.Qty).
				UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", item.Qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				continue
			}

			entry := ShortageEntry{
				ProductID:    item.ProductID,
				Description:  item.Description,
				RequestedQty: item.Qty,
			}
			product, err := repo.FindByID(ctx, item.ProductID)
			switch {
			case err == nil:
				entry.AvailableQty = product.StockQty
				entry.Description = product.Description
			case errors.Is(err, gorm.ErrRecordNotFound):
				// A delisted product counts as zero available.
			default:
				return err
			}
			shortages = append(shortages, entry)
		}
		if len(shortages) > 0 {
			return errShortage
		}
		return nil
	})
	if err != nil && !errors.Is(err, errShortage) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purchase stocks")
	}
	return shortages, nil
}
