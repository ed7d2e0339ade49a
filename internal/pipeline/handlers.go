package pipeline

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/zombor/receipt-hook/internal/mail"
	"github.com/zombor/receipt-hook/internal/receipt"
)

const maxEventSize = 1 << 20

// writeJSON writes v with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a generic JSON error body
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// handleEvent runs the pipeline for the posted SES event
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventSize))
	if err != nil {
		slog.Error("Error reading event body", "error", err)
		writeError(w, http.StatusBadRequest, "Error reading event")
		return
	}

	result, err := s.processor.Process(r.Context(), raw)
	if err != nil {
		var (
			invalid    *mail.InvalidEventError
			extraction *receipt.FieldExtractionError
		)
		switch {
		case errors.As(err, &invalid):
			writeError(w, http.StatusBadRequest, "Invalid SES event")
		case errors.As(err, &extraction):
			writeError(w, http.StatusUnprocessableEntity, "Receipt layout not recognized")
		default:
			writeError(w, http.StatusBadGateway, "Step returned error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListInvocations returns all journal entries
func (s *Server) handleListInvocations(w http.ResponseWriter, r *http.Request) {
	invocations, err := s.journal.ListInvocations()
	if err != nil {
		slog.Error("Error listing invocations", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]*Invocation, 0, len(invocations))
		for _, inv := range invocations {
			if inv.Status == status {
				filtered = append(filtered, inv)
			}
		}
		invocations = filtered
	}

	writeJSON(w, http.StatusOK, invocations)
}

// handleGetInvocation returns one journal entry
func (s *Server) handleGetInvocation(w http.ResponseWriter, r *http.Request) {
	inv, err := s.journal.GetInvocation(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invocation not found")
			return
		}
		slog.Error("Error getting invocation", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, inv)
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
