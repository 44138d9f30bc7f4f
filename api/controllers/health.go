package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/medmart-backend/api/responses"
	"github.com/angelmondragon/medmart-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
)

const envHeader = "X-MedMart-Env"

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and reports all failures together.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		var errs error
		failed := []string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failed = append(failed, name)
				errs = multierr.Append(errs, err)
			}
		}
		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUpstream, errs, "unavailable: "+strings.Join(failed, ",")))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
