package jwtware_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-bloglist/middleware/jwtware"
)

var errBadToken = errors.New("bad token")

type identity struct {
	subject string
}

func validator(valid string) jwtware.TokenValidator {
	return jwtware.TokenValidatorFunc(func(token string) (string, error) {
		if token != valid {
			return "", errBadToken
		}
		return "user-123", nil
	})
}

func resolver(known string) jwtware.IdentityResolver {
	return func(ctx context.Context, subject string) (any, error) {
		if subject != known {
			return nil, errors.New("identity not found")
		}
		return &identity{subject: subject}, nil
	}
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusUnauthorized
			if errors.Is(err, jwtware.ErrTokenMissing) {
				status = fiber.StatusTeapot
			}
			return c.Status(status).SendString(err.Error())
		},
	})
	app.Use(jwtware.TokenExtractor())
	app.Get("/", handlers...)
	return app
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"BEARER abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Bearer", ""},
		{"Bearer ", ""},
		{"Bearerabc", ""},
		{"Basic dXNlcjpwYXNz", ""},
		{"", ""},
	}

	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			assert.Equal(t, tc.want, jwtware.BearerToken(tc.header, jwtware.DefaultAuthScheme))
		})
	}

	assert.Equal(t, "", jwtware.BearerToken("Bearer abc", ""))
}

func TestTokenExtractor(t *testing.T) {
	var seen string
	app := newApp(func(c *fiber.Ctx) error {
		seen = jwtware.TokenFromLocals(c, "")
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("stores bearer token", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAuthorization, "bearer raw-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "raw-token", seen)
	})

	t.Run("missing header is not a failure", func(t *testing.T) {
		seen = "stale"
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "", seen)
	})

	t.Run("other scheme is ignored", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic dXNlcjpwYXNz")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "", seen)
	})
}

func TestUserExtractor(t *testing.T) {
	var handlerRan bool
	var listenerSubject string
	var got *identity

	extractor := jwtware.New(jwtware.Config{
		TokenValidator: validator("good"),
		Resolver:       resolver("user-123"),
		ValidationListeners: []jwtware.ValidationListener{
			nil,
			func(c *fiber.Ctx, subject string, _ any) error {
				listenerSubject = subject
				return nil
			},
		},
		ContextEnricher: func(ctx context.Context, id any) context.Context {
			return context.WithValue(ctx, identity{}, id)
		},
	})

	app := newApp(extractor, func(c *fiber.Ctx) error {
		handlerRan = true
		got, _ = c.Locals(jwtware.DefaultContextKey).(*identity)
		if c.UserContext().Value(identity{}) == nil {
			return errors.New("user context not enriched")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantRan    bool
	}{
		{"valid token", "Bearer good", fiber.StatusNoContent, true},
		{"missing token", "", fiber.StatusTeapot, false},
		{"invalid token", "Bearer bad", fiber.StatusUnauthorized, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handlerRan = false
			got = nil

			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantRan, handlerRan)

			if tc.wantRan {
				require.NotNil(t, got)
				assert.Equal(t, "user-123", got.subject)
				assert.Equal(t, "user-123", listenerSubject)
			}
		})
	}
}

func TestUserExtractor_ResolverFailure(t *testing.T) {
	var handlerRan bool
	app := newApp(jwtware.New(jwtware.Config{
		TokenValidator: validator("good"),
		Resolver:       resolver("someone-else"),
	}), func(c *fiber.Ctx) error {
		handlerRan = true
		return nil
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, handlerRan)
}

func TestUserExtractor_ListenerRejects(t *testing.T) {
	app := newApp(jwtware.New(jwtware.Config{
		TokenValidator: validator("good"),
		Resolver:       resolver("user-123"),
		ValidationListeners: []jwtware.ValidationListener{
			func(c *fiber.Ctx, subject string, _ any) error {
				return errors.New("blocked")
			},
		},
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUserExtractor_Filter(t *testing.T) {
	app := newApp(jwtware.New(jwtware.Config{
		TokenValidator: validator("good"),
		Resolver:       resolver("user-123"),
		Filter:         func(*fiber.Ctx) bool { return true },
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetDefaultConfig(t *testing.T) {
	assert.Panics(t, func() { jwtware.GetDefaultConfig() })
	assert.Panics(t, func() {
		jwtware.GetDefaultConfig(jwtware.Config{TokenValidator: validator("good")})
	})

	cfg := jwtware.GetDefaultConfig(jwtware.Config{
		TokenValidator: validator("good"),
		Resolver:       resolver("user-123"),
	})
	assert.Equal(t, jwtware.DefaultContextKey, cfg.ContextKey)
	assert.Equal(t, jwtware.DefaultTokenContextKey, cfg.TokenContextKey)
	assert.Equal(t, jwtware.DefaultAuthScheme, cfg.AuthScheme)
	assert.Equal(t, fiber.HeaderAuthorization, cfg.Header)
	assert.NotNil(t, cfg.ErrorHandler)
}
