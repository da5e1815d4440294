package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/happyshopdev/happyshop-backend/api/middleware"
	"github.com/happyshopdev/happyshop-backend/api/responses"
	"github.com/happyshopdev/happyshop-backend/internal/notifications"
	pkgerrors "github.com/happyshopdev/happyshop-backend/pkg/errors"
	"github.com/happyshopdev/happyshop-backend/pkg/logger"
)

type noticeDTO struct {
	ID        uuid.UUID  `json:"id"`
	Message   string     `json:"message"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationsList returns the session's shortage notices, newest first.
func NotificationsList(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session context missing"))
			return
		}

		unreadOnly := r.URL.Query().Get("unread") == "true"
		notices, err := svc.List(r.Context(), sessionID, unreadOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]noticeDTO, 0, len(notices))
		for _, notice := range notices {
			items = append(items, noticeDTO{
				ID:        notice.ID,
				Message:   notice.Message,
				ReadAt:    notice.ReadAt,
				CreatedAt: notice.CreatedAt,
			})
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// NotificationsMarkAllRead stamps every unread notice for the session.
func NotificationsMarkAllRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session context missing"))
			return
		}

		count, err := svc.MarkAllRead(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": count})
	}
}
