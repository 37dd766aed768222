package transport

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/investbank/pipeline-client/internal/core/domain"
	"github.com/investbank/pipeline-client/internal/core/ports"
	"github.com/investbank/pipeline-client/internal/transport/metrics"
)

// remoteErrorBody decodes the backend's error envelope. The stub backend
// uses {"error": ...}; the production Spring backend uses {"message": ...}.
// Both are accepted.
type remoteErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b remoteErrorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

// faultHandler is the inbound interceptor: it maps failed responses to the
// client error taxonomy and applies the single side effect this layer owns,
// the forced logout on 401.
type faultHandler struct {
	invalidator ports.SessionInvalidator
	log         zerolog.Logger
}

// handle converts a non-2xx response into a typed error. It never swallows
// a failure: every call returns a non-nil error carrying the backend's
// message when one was provided.
//
// A 401 on a non-auth endpoint clears the session before the error is
// returned; auth endpoints handle their own 401s (a rejected login must not
// destroy an unrelated stored session). A 403 is logged and passed through
// with the session intact: it reflects a role mismatch for one operation,
// not an invalid session.
func (f *faultHandler) handle(ctx context.Context, method, path string, status int, body []byte) error {
	var envelope remoteErrorBody
	_ = json.Unmarshal(body, &envelope)
	msg := envelope.text()

	switch status {
	case 401:
		if !isAuthEndpoint(path) {
			f.log.Warn().Str("path", path).Msg("session rejected by backend, forcing logout")
			metrics.ForcedLogoutsTotal.Inc()
			if f.invalidator != nil {
				if err := f.invalidator.Logout(ctx); err != nil {
					f.log.Error().Err(err).Msg("forced logout failed")
				}
			}
		}
		metrics.RequestsTotal.WithLabelValues(method, "unauthorized").Inc()
		return &domain.AuthenticationError{Message: msg}
	case 403:
		f.log.Error().Str("method", method).Str("path", path).Str("reason", msg).Msg("access denied")
		metrics.RequestsTotal.WithLabelValues(method, "forbidden").Inc()
		return &domain.ForbiddenError{Message: msg}
	default:
		metrics.RequestsTotal.WithLabelValues(method, "remote_error").Inc()
		return &domain.RemoteError{Status: status, Message: msg}
	}
}

// isAuthEndpoint reports whether path belongs to the authentication surface,
// which is exempt from the forced-logout side effect.
func isAuthEndpoint(path string) bool {
	return strings.HasPrefix(path, "/auth/")
}
