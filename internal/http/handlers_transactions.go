package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"financas/internal/core"
)

// transactionRequest is the wire shape for entry and update. Amount
// accepts a JSON number or a numeric string with comma or dot separator;
// Date accepts a plain day or the RFC 3339 form responses are written in,
// so a transaction fetched from the API round-trips into an update. ID is
// tolerated but ignored: the path segment is authoritative.
type transactionRequest struct {
	ID           string                 `json:"id"`
	Description  string                 `json:"description"`
	Amount       core.Money             `json:"amount"`
	Date         string                 `json:"date"`
	Type         core.TransactionType   `json:"type"`
	Category     string                 `json:"category"`
	Status       core.TransactionStatus `json:"status"`
	CardID       string                 `json:"cardId"`
	Installments installmentsField      `json:"installments"`
	AmountMode   string                 `json:"amountMode"`
}

// installmentsField is the requested member count. The same key carries
// the installment descriptor object in responses; on a round-trip that
// shape means "no expansion", not an error.
type installmentsField struct {
	count int
}

func (f *installmentsField) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		f.count = n
	}
	return nil
}

var requestDateLayouts = []string{"2006-01-02", time.RFC3339}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	var date time.Time
	var err error
	for _, layout := range requestDateLayouts {
		if date, err = time.Parse(layout, req.Date); err == nil {
			break
		}
	}
	if err != nil {
		return core.Transaction{}, err
	}

	status := req.Status
	if status == "" {
		status = core.Pending
	}

	return core.Transaction{
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		Date:        date,
		Type:        req.Type,
		Category:    sanitizeInput(req.Category),
		Status:      status,
		CardID:      req.CardID,
	}, nil
}

func (req transactionRequest) amountMode() core.AmountMode {
	if req.AmountMode == string(core.AmountTotal) {
		return core.AmountTotal
	}
	return core.AmountPerInstallment
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	target := parseTargetMonth(r)
	key := monthKey(target)

	if cached, ok := s.monthCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	transactions, err := s.ledger.ListMonth(r.Context(), target)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if transactions == nil {
		transactions = []core.Transaction{}
	}

	s.monthCache.Set(key, transactions)
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := req.toTransaction()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	members, err := s.ledger.CreateTransaction(r.Context(), t, req.Installments.count, req.amountMode())
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, members)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := req.toTransaction()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}
	t.ID = id

	if err := s.ledger.UpdateTransaction(r.Context(), t); err != nil {
		slog.ErrorContext(r.Context(), "Update transaction failed", "id", id, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed", "id", id, "error", err)
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	t, err := s.ledger.ToggleStatus(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Toggle status failed", "id", id, "error", err)
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, t)
}
