package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes attaches the service endpoints to the router.
func RegisterRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/", h.Synthesize).Methods("GET")
	r.HandleFunc("/voices", h.Voices).Methods("GET")
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
}
