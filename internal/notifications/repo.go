package notifications

import (
	"context"
	"time"

	"github.com/happyshopdev/happyshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists shortage notices.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one shortage notice.
func (r *Repository) Create(ctx context.Context, notice *models.ShortageNotice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

// ListBySession returns the session's notices, newest first.
func (r *Repository) ListBySession(ctx context.Context, sessionID string, unreadOnly bool) ([]models.ShortageNotice, error) {
	query := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	var notices []models.ShortageNotice
	if err := query.Order("created_at DESC").Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

// MarkAllRead stamps every unread notice for the session.
func (r *Repository) MarkAllRead(ctx context.Context, sessionID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ShortageNotice{}).
		Where("session_id = ? AND read_at IS NULL", sessionID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
