package controllers

import (
	"net/http"

	"github.com/happyshopdev/happyshop-backend/api/middleware"
	"github.com/happyshopdev/happyshop-backend/api/responses"
	"github.com/happyshopdev/happyshop-backend/api/validators"
	"github.com/happyshopdev/happyshop-backend/internal/customer"
	pkgerrors "github.com/happyshopdev/happyshop-backend/pkg/errors"
	"github.com/happyshopdev/happyshop-backend/pkg/logger"
)

type searchRequest struct {
	ProductID string `json:"product_id"`
}

// SessionView returns the current display snapshot without changing state.
func SessionView(reg *customer.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}

// SessionSearch looks up a catalogue id and updates the current selection.
func SessionSearch(reg *customer.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload searchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := session.Search(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SessionAddToTrolley adds one unit of the current selection.
func SessionAddToTrolley(reg *customer.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := session.AddToTrolley(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SessionCheckout runs the checkout state machine for the session.
func SessionCheckout(reg *customer.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := session.Checkout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SessionCancel empties the trolley.
func SessionCancel(reg *customer.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.CancelTrolley(r.Context()))
	}
}

// SessionCloseReceipt clears the receipt page.
func SessionCloseReceipt(reg *customer.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := resolveSession(reg, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.CloseReceipt(r.Context()))
	}
}

func resolveSession(reg *customer.Registry, r *http.Request) (*customer.Session, error) {
	if reg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session context missing")
	}
	session, err := reg.Get(sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve session")
	}
	return session, nil
}
