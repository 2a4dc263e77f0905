package http

import (
	"context"
	"net/http"

	"github.com/LavaJover/shvark-settlement-service/internal/usecase/catalog"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/referral"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/settlement"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the backing store answers.
type Pinger func(ctx context.Context) error

type Handler struct {
	settlement settlement.SettlementUsecase
	catalog    catalog.CatalogUsecase
	referral   referral.ReferralUsecase
	validate   *validator.Validate
}

func NewHandler(s settlement.SettlementUsecase, c catalog.CatalogUsecase, r referral.ReferralUsecase) *Handler {
	return &Handler{
		settlement: s,
		catalog:    c,
		referral:   r,
		validate:   validator.New(),
	}
}

func NewRouter(handler *Handler, gatherer prometheus.Gatherer, ping Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(businessMiddleware)
			r.Post("/settlements", handler.settle)
			r.Post("/properties", handler.createProperty)
			r.Get("/properties/{propertyID}/ledger", handler.propertyLedger)
			r.Post("/properties/{propertyID}/sub-properties", handler.addSubProperty)
			r.Put("/sub-properties/{subPropertyID}/price", handler.updateSubPropertyPrice)
		})
		r.Post("/agents/{agentID}/referral-reward", handler.evaluateReferralReward)
	})
	return r
}
