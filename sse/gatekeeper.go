package sse

import (
	"net/http"
	"strings"

	"github.com/kbukum/ssekit/auth"
	"github.com/kbukum/ssekit/errors"
)

// BearerGatekeeper returns a Gatekeeper admitting only requests that carry a
// bearer token accepted by the validator. It is a ready-made implementation
// of the admission hook; bring your own Gatekeeper for other schemes.
func BearerGatekeeper(validator auth.TokenValidator) Gatekeeper {
	return func(r *http.Request) error {
		header := r.Header.Get("Authorization")
		if header == "" {
			return errors.Unauthorized("Authorization header required")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return errors.Unauthorized("Invalid authorization header format")
		}
		if _, err := validator.ValidateToken(parts[1]); err != nil {
			return errors.InvalidToken().WithCause(err)
		}
		return nil
	}
}
