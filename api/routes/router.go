package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/happyshopdev/happyshop-backend/api/controllers"
	"github.com/happyshopdev/happyshop-backend/api/middleware"
	"github.com/happyshopdev/happyshop-backend/internal/customer"
	"github.com/happyshopdev/happyshop-backend/internal/notifications"
	"github.com/happyshopdev/happyshop-backend/pkg/config"
	"github.com/happyshopdev/happyshop-backend/pkg/db"
	"github.com/happyshopdev/happyshop-backend/pkg/logger"
	pkgredis "github.com/happyshopdev/happyshop-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs. Redis fields are
// nil when no redis is configured; the idempotency guard then disables
// itself.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         pkgredis.Pinger
	Idempotency   pkgredis.IdempotencyStore
	Sessions      *customer.Registry
	Notifications notifications.Service
	Metrics       prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.DB, p.Redis))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionContext(p.Logger))
		r.Use(middleware.Idempotency(p.Idempotency, p.Logger))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionView(p.Sessions, p.Logger))
			r.Post("/search", controllers.SessionSearch(p.Sessions, p.Logger))
			r.Post("/trolley", controllers.SessionAddToTrolley(p.Sessions, p.Logger))
			r.Post("/checkout", controllers.SessionCheckout(p.Sessions, p.Logger))
			r.Post("/cancel", controllers.SessionCancel(p.Sessions, p.Logger))
			r.Post("/receipt/close", controllers.SessionCloseReceipt(p.Sessions, p.Logger))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationsList(p.Notifications, p.Logger))
			r.Post("/read-all", controllers.NotificationsMarkAllRead(p.Notifications, p.Logger))
		})
	})

	return r
}
