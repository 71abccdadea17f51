// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the inkwell API.
// Handlers are grouped by resource (categories, posts) and receive the
// services they call through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/middleware"
	"inkwell/internal/service"
)

// maxBodyBytes caps request bodies. The longest post content is 100,000
// characters, which is at most 400,000 bytes of UTF-8.
const maxBodyBytes = 1 << 20

// errorPayload is the body of every error response.
type errorPayload struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// deleted is the body returned by successful deletes.
type deleted struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// statusFor maps a service error kind to its HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindBusinessRule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err in the error envelope. Unclassified errors are
// logged and reported as a generic internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) || svcErr.Kind == service.KindInternal {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: errorDetail{
			Code:    string(service.KindInternal),
			Message: "Internal server error",
		}})
		return
	}

	slog.Debug("request rejected", "kind", svcErr.Kind, "error", svcErr.Message, "path", r.URL.Path)

	detail := errorDetail{Code: string(svcErr.Kind), Message: svcErr.Message}
	if svcErr.Kind == service.KindValidation {
		detail.Field = svcErr.Field
	}
	writeJSON(w, statusFor(svcErr.Kind), errorPayload{Error: detail})
}

func invalid(field, message string) *service.Error {
	return &service.Error{Kind: service.KindValidation, Field: field, Message: message}
}

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxErr):
			return invalid("", "Request body is too large")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return invalid(typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
		case errors.Is(err, io.EOF):
			return invalid("", "Request body is required")
		default:
			return invalid("", "Invalid JSON body")
		}
	}
	if dec.More() {
		return invalid("", "Request body must contain a single JSON object")
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("id", "ID must be a positive integer")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. A missing or empty
// parameter yields nil.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalid(name, name+" must be an integer")
	}
	return &n, nil
}
