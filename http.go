package bloglist

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-bloglist/middleware/jwtware"
)

const msgInternalError = "internal server error"

var statusByTextCode = map[string]int{
	TextCodeValidation:       fiber.StatusBadRequest,
	TextCodeDuplicate:        fiber.StatusBadRequest,
	TextCodeMalformedID:      fiber.StatusBadRequest,
	TextCodeMalformedBody:    fiber.StatusBadRequest,
	TextCodeTokenMissing:     fiber.StatusUnauthorized,
	TextCodeTokenInvalid:     fiber.StatusUnauthorized,
	TextCodeTokenExpired:     fiber.StatusUnauthorized,
	TextCodeIdentityNotFound: fiber.StatusUnauthorized,
	TextCodeOwnershipDenied:  fiber.StatusUnauthorized,
	TextCodeInvalidLogin:     fiber.StatusUnauthorized,
	TextCodeNotFound:         fiber.StatusNotFound,
	TextCodeUnrouted:         fiber.StatusNotFound,
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor returns the HTTP status err translates to
func StatusFor(err error) int {
	status, _ := translate(err)
	return status
}

func translate(err error) (int, string) {
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr != nil {
		if status, ok := statusByTextCode[richErr.TextCode]; ok {
			return status, richErr.Message
		}
		return fiber.StatusInternalServerError, msgInternalError
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return fiber.StatusNotFound, ErrUnknownEndpoint.Message
		case fiber.StatusUnprocessableEntity, fiber.StatusBadRequest:
			return fiber.StatusBadRequest, ErrMalformedBody.Message
		}
		if fiberErr.Code < fiber.StatusInternalServerError {
			return fiberErr.Code, fiberErr.Message
		}
	}

	return fiber.StatusInternalServerError, msgInternalError
}

// ErrorHandler is the fiber error handler of the API. Known failures are
// written as {"error": message}; anything else is logged and answered
// with a generic 500.
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	logger = normalizeLogger(logger, "bloglist.http")
	return func(c *fiber.Ctx, err error) error {
		status, message := translate(err)

		if status >= fiber.StatusInternalServerError {
			logger.Error("unhandled request error",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		} else {
			logger.Debug("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"error", message,
			)
		}

		return c.Status(status).JSON(ErrorResponse{Error: message})
	}
}

// UnknownEndpoint answers every request that matched no route
func UnknownEndpoint(c *fiber.Ctx) error {
	return ErrUnknownEndpoint
}

// Pipeline holds the request stages shared by all routes. It is built once
// at startup and handed to the route registration.
type Pipeline struct {
	tokens   TokenService
	provider *UserProvider
	logger   Logger
	recorder AuthFailureRecorder
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets the pipeline logger
func WithPipelineLogger(logger Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = normalizeLogger(logger, "bloglist.pipeline")
	}
}

// WithAuthFailureRecorder counts requests rejected by the user extractor
func WithAuthFailureRecorder(r AuthFailureRecorder) PipelineOption {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

func NewPipeline(tokens TokenService, provider *UserProvider, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		tokens:   tokens,
		provider: provider,
		logger:   defaultLogger("bloglist.pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TokenExtractor is the stage installed on every route
func (p *Pipeline) TokenExtractor() fiber.Handler {
	return jwtware.TokenExtractor()
}

// UserExtractor is the opt-in stage of the mutation routes
func (p *Pipeline) UserExtractor() fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenValidator: jwtware.TokenValidatorFunc(p.subject),
		Resolver: func(ctx context.Context, subject string) (any, error) {
			return p.provider.FindIdentityByID(ctx, subject)
		},
		ContextEnricher: ContextEnricher,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			p.logger.Debug("user extractor rejected request", "path", c.Path(), "error", err)
			p.recordFailure(err)
			return err
		},
	})
}

func (p *Pipeline) subject(token string) (string, error) {
	claims, err := p.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserID(), nil
}

func (p *Pipeline) recordFailure(err error) {
	if p.recorder != nil {
		p.recorder.RecordAuthFailure(TextCodeOf(err))
	}
}
