package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/dmitrijs2005/oculog/internal/devapi/logs"
	"github.com/dmitrijs2005/oculog/internal/netx"
)

const (
	kindInvalidCredentials = "invalid_credentials"
	kindUnauthorized       = "unauthorized"
	kindEmailExists        = "email_already_exists"
	kindNotFound           = "not_found"
	kindDuplicateDate      = "duplicate_date"
	kindValidation         = "validation_error"
	kindServerError        = "server_error"
)

type errorBody struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string, data map[string]any) {
	writeJSON(w, status, errorBody{Type: kind, Message: message, Data: data})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, netx.MaxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body", nil)
		return false
	}
	return true
}

// writeServiceError maps log and validation failures onto the error envelope.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *common.ValidationError
	var dup *logs.DuplicateDateError

	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusUnprocessableEntity, kindValidation, ve.Error(), map[string]any{"field": ve.Field})
	case errors.As(err, &dup):
		writeError(w, http.StatusConflict, kindDuplicateDate, dup.Error(), map[string]any{
			"existing_log_id": dup.ExistingID.String(),
			"log_date":        dup.Date,
		})
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, "Log not found", nil)
	default:
		s.logger.Error(r.Context(), "Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, kindServerError, "Internal server error", nil)
	}
}
