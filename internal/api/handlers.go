package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/splitbook/splitbook/internal/auth"
	"github.com/splitbook/splitbook/internal/ledger"
	"github.com/splitbook/splitbook/internal/middleware"
	"github.com/splitbook/splitbook/internal/models"
	"github.com/splitbook/splitbook/internal/service"
	"github.com/splitbook/splitbook/internal/storage"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type sessionResponse struct {
	Account accountResponse `json:"account"`
	Token   string          `json:"token"`
}

type createLedgerRequest struct {
	Name string `json:"name"`
}

type ledgerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

type addMemberRequest struct {
	Name string `json:"name"`
}

// expenseRequest covers both split modes. Split is "equal" or "exact";
// equal uses Participants, exact uses Shares tokens of the form
// "name:amount".
type expenseRequest struct {
	Split        string   `json:"split"`
	Payer        string   `json:"payer"`
	Amount       float64  `json:"amount"`
	Participants []string `json:"participants,omitempty"`
	Shares       []string `json:"shares,omitempty"`
}

type expenseResponse struct {
	Payer  string             `json:"payer"`
	Amount float64            `json:"amount"`
	Shares map[string]float64 `json:"shares"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	account, token, err := s.authSvc.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Account: toAccountResponse(account), Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	account, token, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Account: toAccountResponse(account), Token: token})
}

func (s *Server) handleCreateLedger(w http.ResponseWriter, r *http.Request) {
	var req createLedgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	l, err := s.ledgerSvc.CreateLedger(r.Context(), middleware.GetAccountID(r.Context()), req.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLedgerResponse(l))
}

func (s *Server) handleListLedgers(w http.ResponseWriter, r *http.Request) {
	ledgers, err := s.ledgerSvc.ListLedgers(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := make([]ledgerResponse, 0, len(ledgers))
	for _, l := range ledgers {
		resp = append(resp, toLedgerResponse(l))
	}
	writeJSON(w, http.StatusOK, map[string][]ledgerResponse{"ledgers": resp})
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	err := s.ledgerSvc.AddMember(r.Context(), middleware.GetAccountID(r.Context()), mux.Vars(r)["id"], req.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	callerID := middleware.GetAccountID(r.Context())
	ledgerID := mux.Vars(r)["id"]

	var e models.Expense
	var err error
	switch req.Split {
	case "equal":
		e, err = s.ledgerSvc.RecordEqual(r.Context(), callerID, ledgerID, req.Payer, req.Amount, req.Participants)
	case "exact":
		e, err = s.ledgerSvc.RecordExact(r.Context(), callerID, ledgerID, req.Payer, req.Amount, req.Shares)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", `split must be "equal" or "exact"`)
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseResponse{Payer: e.Payer, Amount: e.Amount, Shares: e.Shares})
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	net, err := s.ledgerSvc.Balances(r.Context(), middleware.GetAccountID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]map[string]float64{"balances": net})
}

func (s *Server) handleSettlement(w http.ResponseWriter, r *http.Request) {
	txns, err := s.ledgerSvc.Settlement(r.Context(), middleware.GetAccountID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string][]models.Transaction{"transactions": txns})
}

// errorResponse is the JSON error body. Kind is a stable machine-readable
// name for the validation failure.
type errorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Kind: kind, Error: msg})
}

// writeServiceError maps domain errors onto HTTP statuses and kinds.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrUnknownMember):
		writeError(w, http.StatusBadRequest, "unknown_member", err.Error())
	case errors.Is(err, ledger.ErrNoParticipants):
		writeError(w, http.StatusBadRequest, "no_participants", err.Error())
	case errors.Is(err, ledger.ErrNoShares):
		writeError(w, http.StatusBadRequest, "no_shares", err.Error())
	case errors.Is(err, ledger.ErrBadShareToken):
		writeError(w, http.StatusBadRequest, "bad_share_token", err.Error())
	case errors.Is(err, ledger.ErrShareMismatch):
		writeError(w, http.StatusBadRequest, "share_mismatch", err.Error())
	case errors.Is(err, service.ErrEmptyName), errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	default:
		slog.Error("Internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		CreatedAt:   a.CreatedAt,
	}
}

func toLedgerResponse(l *models.Ledger) ledgerResponse {
	return ledgerResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt}
}
