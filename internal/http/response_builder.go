// Package http exposes the household records and their derived views as a
// JSON API.
//
// This file implements the Builder Pattern for constructing JSON responses
// so every handler writes status, headers and body the same way.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"household/internal/core"
	"household/internal/log"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a response header.
func (b *JSONResponseBuilder) Header(key, value string) *JSONResponseBuilder {
	b.headers[key] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Error sets an error body with the given status.
func (b *JSONResponseBuilder) Error(code int, msg string) *JSONResponseBuilder {
	b.statusCode = code
	b.body = errorBody{Error: msg}
	return b
}

// Send writes the response. A nil body with 204 writes no content.
func (b *JSONResponseBuilder) Send(w http.ResponseWriter) {
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	if b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

type errorBody struct {
	Error string `json:"error"`
}

// listBody wraps every collection response.
type listBody[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newListBody[T any](items []T) listBody[T] {
	if items == nil {
		items = []T{}
	}
	return listBody[T]{Items: items, Count: len(items)}
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateID):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs and sends err. Internal failures are not echoed to the
// client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := log.FromContext(r.Context())
	msg := err.Error()
	if status == http.StatusInternalServerError {
		route := r.Pattern
		if route == "" {
			route = r.URL.Path
		}
		log.NewStructuredLogger(logger).LogError(r.Context(), "Request failed", err, log.ComponentHTTP, route, log.ErrorTypeInternal)
		msg = "internal error"
	} else {
		logger.DebugContext(r.Context(), "Request rejected", log.FieldError, err, log.FieldStatusCode, status)
	}
	NewJSONResponse().Error(status, msg).Send(w)
}
