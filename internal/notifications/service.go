package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/happyshopdev/happyshop-backend/pkg/db/models"
	pkgerrors "github.com/happyshopdev/happyshop-backend/pkg/errors"
	"github.com/happyshopdev/happyshop-backend/pkg/logger"
)

// Notifier surfaces a human-readable shortage message to one session.
// Implementations must never fail the checkout flow: presentation or
// persistence errors stay inside the notifier.
type Notifier interface {
	Notify(ctx context.Context, sessionID, message string)
}

// LogNotifier writes shortage messages to the structured log only.
type LogNotifier struct {
	Logg *logger.Logger
}

func (n LogNotifier) Notify(ctx context.Context, sessionID, message string) {
	if n.Logg == nil {
		return
	}
	ctx = n.Logg.WithSessionID(ctx, sessionID)
	ctx = n.Logg.WithField(ctx, "message", message)
	n.Logg.Warn(ctx, "trolley.shortage")
}

// Service persists shortage notices and exposes the session's notice feed.
type Service interface {
	Notifier
	List(ctx context.Context, sessionID string, unreadOnly bool) ([]models.ShortageNotice, error)
	MarkAllRead(ctx context.Context, sessionID string) (int64, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService wires notification dependencies.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Notify stores the notice and logs it. Errors are logged and swallowed.
func (s *service) Notify(ctx context.Context, sessionID, message string) {
	if sessionID == "" || message == "" {
		return
	}
	notice := &models.ShortageNotice{
		ID:        uuid.New(),
		SessionID: sessionID,
		Message:   message,
	}
	if err := s.repo.Create(ctx, notice); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "persist shortage notice", err)
	}
	LogNotifier{Logg: s.logg}.Notify(ctx, sessionID, message)
}

func (s *service) List(ctx context.Context, sessionID string, unreadOnly bool) ([]models.ShortageNotice, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	notices, err := s.repo.ListBySession(ctx, sessionID, unreadOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shortage notices")
	}
	return notices, nil
}

func (s *service) MarkAllRead(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	count, err := s.repo.MarkAllRead(ctx, sessionID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark shortage notices read")
	}
	return count, nil
}
