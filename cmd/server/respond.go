package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jain13abhi/dockfinity-costing-app/internal/backup"
	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
	"github.com/jain13abhi/dockfinity-costing-app/internal/store"
)

// maxBodyBytes caps JSON and workbook uploads.
const maxBodyBytes = 8 << 20

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type errorBody struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields,omitempty"`
	Stage  string       `json:"stage,omitempty"`
	Rows   []string     `json:"rows,omitempty"`
}

var errBadRequest = errors.New("bad request")

// writeJSON encodes before writing the header so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody{Error: "internal error"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writeError maps err onto a status code: malformed input is 400, an
// unsatisfiable yield is 422, a missing record is 404 and the rest is 500.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *costing.DomainError
	switch {
	case errors.Is(err, costing.ErrValidation):
		body := errorBody{Error: err.Error()}
		for _, fe := range costing.FieldErrors(err) {
			body.Fields = append(body.Fields, fieldError{Field: fe.Field, Reason: fe.Reason})
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.As(err, &de):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Stage: de.Stage})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, errBadRequest), errors.Is(err, backup.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
