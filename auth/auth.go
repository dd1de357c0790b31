package auth

// TokenValidator validates a token string and returns the parsed claims.
// The SSE bearer gatekeeper and the auth middleware depend on this
// interface rather than a specific implementation.
//
// The returned value can be any type (typically a project-specific claims
// struct). Implementations:
//   - Service.AsValidator() — validates JWT tokens
//   - Custom validators (API keys, opaque tokens) via TokenValidatorFunc
type TokenValidator interface {
	ValidateToken(token string) (any, error)
}

// TokenValidatorFunc adapts an ordinary function to the TokenValidator
// interface:
//
//	validator := auth.TokenValidatorFunc(func(token string) (any, error) {
//	    return myCustomValidation(token)
//	})
type TokenValidatorFunc func(token string) (any, error)

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(token string) (any, error) {
	return f(token)
}
