// Package api exposes the ledger and auth services over JSON HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/splitbook/splitbook/internal/auth"
	"github.com/splitbook/splitbook/internal/middleware"
	"github.com/splitbook/splitbook/internal/service"
)

// Server holds the services behind the HTTP handlers.
type Server struct {
	authSvc   *service.AuthService
	ledgerSvc *service.LedgerService
	jwt       *auth.JWTManager
}

// NewServer creates an API server over the given services.
func NewServer(authSvc *service.AuthService, ledgerSvc *service.LedgerService, jwt *auth.JWTManager) *Server {
	return &Server{
		authSvc:   authSvc,
		ledgerSvc: ledgerSvc,
		jwt:       jwt,
	}
}

// Router builds the HTTP route table with the middleware chain applied.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging, middleware.Metrics)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", middleware.MetricsHandler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth(s.jwt))
	authed.HandleFunc("/ledgers", s.handleCreateLedger).Methods(http.MethodPost)
	authed.HandleFunc("/ledgers", s.handleListLedgers).Methods(http.MethodGet)
	authed.HandleFunc("/ledgers/{id}/members", s.handleAddMember).Methods(http.MethodPost)
	authed.HandleFunc("/ledgers/{id}/expenses", s.handleRecordExpense).Methods(http.MethodPost)
	authed.HandleFunc("/ledgers/{id}/balances", s.handleBalances).Methods(http.MethodGet)
	authed.HandleFunc("/ledgers/{id}/settlement", s.handleSettlement).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
