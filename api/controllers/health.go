package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/happyshopdev/happyshop-backend/api/responses"
	"github.com/happyshopdev/happyshop-backend/pkg/config"
	"github.com/happyshopdev/happyshop-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		env := ""
		if cfg != nil {
			env = cfg.App.Env
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok", "env": env})
	}
}

// HealthReady checks the datasources the service depends on. Redis is
// optional and skipped when nil.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP pinger, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP == nil {
			checks["db"] = "missing"
			healthy = false
		} else if err := dbP.Ping(ctx); err != nil {
			checks["db"] = "down"
			healthy = false
			if logg != nil {
				logg.Error(ctx, "health: db ping failed", err)
			}
		} else {
			checks["db"] = "ok"
		}

		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "down"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "health: redis ping failed", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, checks)
	}
}
