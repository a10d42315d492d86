package bloglist

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

const (
	msgUsernameTooShort = "username must be at least 3 characters long"
	msgNameRequired     = "name is required"
	msgPasswordTooShort = "password must be at least 3 characters long"
)

var (
	_ command.Message                        = RegisterUserMessage{}
	_ command.Commander[RegisterUserMessage] = (*RegisterUserHandler)(nil)
)

type RegisterUserMessage struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	UseHashid bool   `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate checks the fields in order and reports the first failure only.
func (e RegisterUserMessage) Validate() error {
	if err := validation.Validate(e.Username,
		validation.Required.Error(msgUsernameTooShort),
		validation.RuneLength(3, 0).Error(msgUsernameTooShort),
	); err != nil {
		return NewValidationError(msgUsernameTooShort)
	}

	if err := validation.Validate(e.Name,
		validation.Required.Error(msgNameRequired),
	); err != nil {
		return NewValidationError(msgNameRequired)
	}

	if err := validation.Validate(e.Password,
		validation.Required.Error(msgPasswordTooShort),
		validation.RuneLength(3, 0).Error(msgPasswordTooShort),
	); err != nil {
		return NewValidationError(msgPasswordTooShort)
	}

	return nil
}

// RegisterUserHandler creates user identities
type RegisterUserHandler struct {
	users    UserStore
	hasher   PasswordAuthenticator
	activity ActivitySink
	logger   Logger
	timeout  time.Duration
}

// RegisterUserOption configures a RegisterUserHandler
type RegisterUserOption func(*RegisterUserHandler)

// WithRegisterActivitySink records user.registered events
func WithRegisterActivitySink(sink ActivitySink) RegisterUserOption {
	return func(h *RegisterUserHandler) {
		h.activity = normalizeActivitySink(sink)
	}
}

// WithRegisterLogger sets the handler logger
func WithRegisterLogger(logger Logger) RegisterUserOption {
	return func(h *RegisterUserHandler) {
		h.logger = normalizeLogger(logger, "bloglist.register")
	}
}

// WithRegisterHasher replaces the bcrypt hasher
func WithRegisterHasher(hasher PasswordAuthenticator) RegisterUserOption {
	return func(h *RegisterUserHandler) {
		if hasher != nil {
			h.hasher = hasher
		}
	}
}

func NewRegisterUserHandler(users UserStore, opts ...RegisterUserOption) *RegisterUserHandler {
	h := &RegisterUserHandler{
		users:    users,
		hasher:   BcryptHasher{},
		activity: noopActivitySink{},
		logger:   defaultLogger("bloglist.register"),
		timeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute runs the registration as a command, dropping the created user
func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	_, err := h.Register(ctx, event)
	return err
}

// Register validates event and persists the new user
func (h *RegisterUserHandler) Register(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	existing, err := h.users.GetByUsername(ctx, event.Username)
	if err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}
	if err != nil && !IsNotFound(err) {
		return nil, err
	}

	hash, err := h.hasher.HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     event.Username,
		Name:         event.Name,
		PasswordHash: hash,
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(event.Username); err == nil {
			user.ID = id
		} else {
			h.logger.Warn("hashid generation failed, falling back to random id", "error", err)
		}
	}

	user, err = h.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	emitActivity(ctx, h.activity, h.logger, ActivityEvent{
		EventType: ActivityEventUserRegistered,
		UserID:    user.ID.String(),
		ObjectID:  user.ID.String(),
		Metadata:  map[string]any{"username": user.Username},
	})

	return user, nil
}
