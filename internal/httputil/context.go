package httputil

import (
	"context"
	"net/http"

	"assetgallery/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	callerKey    contextKey = "caller"
	requestIDKey contextKey = "requestID"
)

// WithCaller adds the authenticated caller to the request context
func WithCaller(r *http.Request, caller *models.Caller) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, caller)
	return r.WithContext(ctx)
}

// GetCaller retrieves the caller from context, nil if unauthenticated
func GetCaller(r *http.Request) *models.Caller {
	caller, _ := r.Context().Value(callerKey).(*models.Caller)
	return caller
}

// WithRequestID adds a request id to the request context
func WithRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, id)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the request id, empty string if not set
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
