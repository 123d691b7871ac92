package http

import (
	"log/slog"
	"net/http"

	"financas/internal/core"
)

type cardRequest struct {
	Name       string     `json:"name"`
	Limit      core.Money `json:"limit"`
	ClosingDay int        `json:"closingDay"`
	DueDay     int        `json:"dueDay"`
	Color      string     `json:"color"`
}

func (req cardRequest) toCard() core.CreditCard {
	return core.CreditCard{
		Name:       sanitizeInput(req.Name),
		Limit:      req.Limit,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
		Color:      sanitizeInput(req.Color),
	}
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.ledger.ListCards(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List cards failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list cards")
		return
	}
	if cards == nil {
		cards = []core.CreditCard{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := s.ledger.CreateCard(r.Context(), req.toCard())
	if err != nil {
		slog.ErrorContext(r.Context(), "Create card failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card := req.toCard()
	card.ID = id

	if err := s.ledger.UpdateCard(r.Context(), card); err != nil {
		slog.ErrorContext(r.Context(), "Update card failed", "id", id, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ledger.DeleteCard(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete card failed", "id", id, "error", err)
		writeError(w, http.StatusNotFound, "card not found")
		return
	}

	// Transactions referencing the card are kept; month views fall back
	// to calendar-date classification for them.
	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCardInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	target := parseTargetMonth(r)

	invoice, err := s.ledger.Invoice(r.Context(), id, target)
	if err != nil {
		slog.ErrorContext(r.Context(), "Card invoice failed", "id", id, "error", err)
		writeError(w, http.StatusNotFound, "card not found")
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}
