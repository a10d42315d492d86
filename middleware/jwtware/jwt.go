// Package jwtware provides the bearer token stages of the request pipeline.
//
// TokenExtractor runs on every route: it copies a "Bearer <token>" value from
// the Authorization header into the request locals and never fails.
// New builds the opt-in stage that verifies that token, resolves its subject
// to an identity and stores the identity before the handler runs.
package jwtware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

const (
	DefaultTokenContextKey = "token"
	DefaultContextKey      = "user"
	DefaultAuthScheme      = "Bearer"

	TextCodeTokenMissing = "TOKEN_MISSING"
)

// ErrTokenMissing is returned by the user extractor when the request carried no token
var ErrTokenMissing = goerrors.New("token missing", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing).
	WithCode(goerrors.CodeUnauthorized)

// TokenValidator verifies a raw token and returns its subject.
// It mirrors the token service of the root package without importing it.
type TokenValidator interface {
	Subject(tokenString string) (string, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (string, error)

// Subject satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Subject(tokenString string) (string, error) {
	return f(tokenString)
}

// IdentityResolver loads the identity for a verified subject.
type IdentityResolver func(ctx context.Context, subject string) (any, error)

// ValidationListener is invoked after the identity was resolved.
type ValidationListener func(c *fiber.Ctx, subject string, identity any) error

type Config struct {
	Filter          func(*fiber.Ctx) bool
	ErrorHandler    fiber.ErrorHandler
	TokenValidator  TokenValidator
	Resolver        IdentityResolver
	ContextKey      string
	TokenContextKey string
	Header          string
	AuthScheme      string

	// ContextEnricher propagates the identity to the request user context.
	ContextEnricher func(ctx context.Context, identity any) context.Context

	ValidationListeners []ValidationListener
}

// TokenExtractor stores the bearer token found in the request, if any.
// Absence of a token is not an error: read only routes need no identity.
func TokenExtractor(config ...Config) fiber.Handler {
	cfg := extractorConfig(config...)
	return func(c *fiber.Ctx) error {
		if token := BearerToken(c.Get(cfg.Header), cfg.AuthScheme); token != "" {
			c.Locals(cfg.TokenContextKey, token)
		}
		return c.Next()
	}
}

// New returns the user extractor stage. It requires a token left by
// TokenExtractor, verifies it and resolves the identity; any failure is
// handed to the error handler and the route handler never runs.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		token := TokenFromLocals(c, cfg.TokenContextKey)
		if token == "" {
			return cfg.ErrorHandler(c, ErrTokenMissing)
		}

		subject, err := cfg.TokenValidator.Subject(token)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		identity, err := cfg.Resolver(c.UserContext(), subject)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		for _, listener := range cfg.ValidationListeners {
			if listener == nil {
				continue
			}
			if err := listener(c, subject, identity); err != nil {
				return cfg.ErrorHandler(c, err)
			}
		}

		c.Locals(cfg.ContextKey, identity)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), identity))
		}

		return c.Next()
	}
}

// GetDefaultConfig fills defaults for the user extractor. It panics when
// the validator or resolver are missing.
func GetDefaultConfig(config ...Config) Config {
	cfg := extractorConfig(config...)

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return err
		}
	}

	if cfg.TokenValidator == nil {
		panic("BLOGLIST: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.Resolver == nil {
		panic("BLOGLIST: JWT middleware configuration: Resolver is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	return cfg
}

func extractorConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenContextKey == "" {
		cfg.TokenContextKey = DefaultTokenContextKey
	}

	if cfg.Header == "" {
		cfg.Header = fiber.HeaderAuthorization
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultAuthScheme
	}

	return cfg
}

// BearerToken returns the token of an "<scheme> <token>" header value.
// The scheme is matched case-insensitively.
func BearerToken(header, authScheme string) string {
	authScheme = strings.TrimSpace(authScheme)
	l := len(authScheme)
	if l == 0 || len(header) <= l+1 {
		return ""
	}
	if !strings.EqualFold(header[:l], authScheme) || header[l] != ' ' {
		return ""
	}
	return strings.TrimSpace(header[l+1:])
}

// TokenFromLocals returns the raw token stored under key, or ""
func TokenFromLocals(c *fiber.Ctx, key string) string {
	if key == "" {
		key = DefaultTokenContextKey
	}
	token, _ := c.Locals(key).(string)
	return token
}
