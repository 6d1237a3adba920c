package handlers

import (
	"github.com/gorilla/mux"
)

// NewRouter wires the pricing API routes.
func NewRouter(h *PricingHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.HealthHandler).Methods("GET")
	api.HandleFunc("/bsm", h.BSMHandler).Methods("POST")
	api.HandleFunc("/binomial", h.BinomialHandler).Methods("POST")
	api.HandleFunc("/one-period", h.OnePeriodHandler).Methods("POST")
	api.HandleFunc("/single-period", h.SinglePeriodHandler).Methods("POST")
	api.HandleFunc("/payoff", h.PayoffHandler).Methods("POST")

	return r
}
