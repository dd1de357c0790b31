package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines supported JWT signing algorithms.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
	RS256 SigningMethod = "RS256"
)

// Config configures the JWT token service.
type Config struct {
	// Secret is the HMAC signing key (required for HS* methods).
	Secret string

	// PrivateKey is the RSA private key (required for RS256).
	PrivateKey *rsa.PrivateKey

	// PublicKey is the RSA public key for verification.
	// If not set, it is derived from PrivateKey.
	PublicKey *rsa.PublicKey

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod

	// Issuer is the "iss" claim (optional, verified when set).
	Issuer string

	// Audience is the "aud" claim (optional, verified when set).
	Audience string

	// TokenTTL is the lifetime applied by Issue (default: 15m).
	TokenTTL time.Duration
}

func (c *Config) applyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 15 * time.Minute
	}
}

func (c *Config) validate() error {
	switch c.Method {
	case HS256, HS384, HS512:
		if c.Secret == "" {
			return errors.New("jwt: secret is required for HMAC signing methods")
		}
	case RS256:
		if c.PrivateKey == nil && c.PublicKey == nil {
			return errors.New("jwt: key material is required for RS256")
		}
	default:
		return errors.New("jwt: unsupported signing method: " + string(c.Method))
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	case RS256:
		return gojwt.SigningMethodRS256
	default:
		return gojwt.SigningMethodHS256
	}
}

func (c *Config) signKey() interface{} {
	if c.Method == RS256 {
		return c.PrivateKey
	}
	return []byte(c.Secret)
}

func (c *Config) verifyKey() interface{} {
	if c.Method == RS256 {
		if c.PublicKey != nil {
			return c.PublicKey
		}
		if c.PrivateKey != nil {
			return &c.PrivateKey.PublicKey
		}
		return nil
	}
	return []byte(c.Secret)
}

// Service issues and validates JWT tokens with registered claims.
type Service struct {
	cfg Config
}

// NewService creates a JWT service from the given config.
func NewService(cfg *Config) (*Service, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: *cfg}, nil
}

// Issue creates a signed token for the given subject with standard time
// claims derived from the config.
func (s *Service) Issue(subject string) (string, error) {
	now := time.Now()
	claims := gojwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	if s.cfg.Issuer != "" {
		claims.Issuer = s.cfg.Issuer
	}
	if s.cfg.Audience != "" {
		claims.Audience = gojwt.ClaimStrings{s.cfg.Audience}
	}

	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString(s.cfg.signKey())
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its registered claims.
// It verifies the signature, expiry, and issuer/audience when configured.
func (s *Service) Parse(tokenString string) (*gojwt.RegisteredClaims, error) {
	claims := &gojwt.RegisteredClaims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("jwt: invalid token")
	}
	return claims, nil
}

// AsValidator adapts the service to the TokenValidator interface.
func (s *Service) AsValidator() TokenValidator {
	return TokenValidatorFunc(func(token string) (any, error) {
		return s.Parse(token)
	})
}

func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	expected := s.cfg.signingMethod()
	if token.Method.Alg() != expected.Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return s.cfg.verifyKey(), nil
}

func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience))
	}
	return opts
}
