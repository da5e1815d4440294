package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/happyshopdev/happyshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists the order ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateOrder inserts one order record together with its line items.
func (r *Repository) CreateOrder(ctx context.Context, record *models.OrderRecord) (*models.OrderRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByID loads one order with its line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderRecord, error) {
	var record models.OrderRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListBySession returns the session's orders, newest first.
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]models.OrderRecord, error) {
	var records []models.OrderRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ?", sessionID).
		Order("ordered_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
