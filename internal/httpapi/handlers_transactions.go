package httpapi

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.ledger.Transactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeServiceError(w, err)
		return
	}
	views := make([]transactionView, 0, len(txns))
	for _, t := range txns {
		views = append(views, viewTransaction(t))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var p transactionPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.parseTransaction(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.AddTransaction(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewTransaction(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var p transactionPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.parseTransaction(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	t.ID = r.PathValue("id")

	if err := s.ledger.UpdateTransaction(r.Context(), t); err != nil {
		slog.ErrorContext(r.Context(), "Update transaction failed", "error", err, "id", t.ID)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewTransaction(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed", "error", err, "id", id)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
