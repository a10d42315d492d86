package bloglist

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/goliatone/go-bloglist/middleware/jwtware"
)

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok && raw != nil
}

// ContextEnricher adapts WithContext for jwtware.Config.ContextEnricher
func ContextEnricher(ctx context.Context, identity any) context.Context {
	if user, ok := identity.(*User); ok {
		return WithContext(ctx, user)
	}
	return ctx
}

// RequestContext is the per request view handlers work with. It is built
// once the pipeline stages ran and is never mutated afterwards.
type RequestContext struct {
	Params   map[string]string
	Token    string
	Identity *User
}

// RequestContextFrom reads the values the pipeline attached to c. The
// identity is taken from the locals, then from the user context. Strings
// are copied so the result outlives the request.
func RequestContextFrom(c *fiber.Ctx, params ...string) RequestContext {
	rc := RequestContext{
		Token: utils.CopyString(jwtware.TokenFromLocals(c, jwtware.DefaultTokenContextKey)),
	}

	if user, ok := c.Locals(jwtware.DefaultContextKey).(*User); ok && user != nil {
		rc.Identity = user
	} else if user, ok := FromContext(c.UserContext()); ok {
		rc.Identity = user
	}

	if len(params) > 0 {
		rc.Params = make(map[string]string, len(params))
		for _, p := range params {
			rc.Params[p] = utils.CopyString(c.Params(p))
		}
	}

	return rc
}

// RequesterID returns the authenticated user id, uuid.Nil when anonymous
func (rc RequestContext) RequesterID() uuid.UUID {
	if rc.Identity == nil {
		return uuid.Nil
	}
	return rc.Identity.ID
}

// ParamID parses the named path parameter as a resource id
func (rc RequestContext) ParamID(name string) (uuid.UUID, error) {
	return ParseID(rc.Params[name])
}

// ParseID parses a resource identifier
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrMalformedID
	}
	return id, nil
}
