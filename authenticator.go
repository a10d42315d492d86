package bloglist

import (
	"context"
	"time"
)

// LoginResponse is returned to clients on a successful login
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Auther verifies credentials and issues tokens
type Auther struct {
	provider     *UserProvider
	tokenService TokenService
	ttl          time.Duration
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider *UserProvider, tokens TokenService) *Auther {
	return &Auther{
		provider:     provider,
		tokenService: tokens,
		ttl:          tokens.DefaultTTL(),
		logger:       defaultLogger("bloglist.auth"),
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = normalizeLogger(logger, "bloglist.auth")
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithTokenTTL overrides the lifetime of issued tokens. Zero disables expiry.
func (s *Auther) WithTokenTTL(ttl time.Duration) *Auther {
	s.ttl = ttl
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

func (s *Auther) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Warn("Login verify identity error", "username", username, "error", err)
		emitActivity(ctx, s.activitySink, s.logger, ActivityEvent{
			EventType: ActivityEventLoginFailure,
			Metadata: map[string]any{
				"username": username,
				"error":    err.Error(),
			},
		})
		return nil, err
	}

	userID := user.ID.String()
	token, err := s.tokenService.Issue(userID, user.Username, s.ttl)
	if err != nil {
		s.logger.Error("Login token issue error", "error", err)
		return nil, err
	}

	emitActivity(ctx, s.activitySink, s.logger, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		UserID:    userID,
		ObjectID:  userID,
		Metadata:  map[string]any{"username": user.Username},
	})

	return &LoginResponse{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}
