package bloglist

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Logger is the logging contract used across the package. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
}

// PasswordAuthenticator hashes and compares passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// UserStore is the storage collaborator for user identities.
type UserStore interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	AppendBlog(ctx context.Context, userID, blogID uuid.UUID) error
}

// BlogStore is the storage collaborator for blogs.
type BlogStore interface {
	Create(ctx context.Context, blog *Blog) (*Blog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Blog, error)
	List(ctx context.Context) ([]*Blog, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Blog, error)
	UpdateLikes(ctx context.Context, id uuid.UUID, likes int) (*Blog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func defaultLogger(module string) Logger {
	return slog.Default().With("module", module)
}

func normalizeLogger(l Logger, module string) Logger {
	if l == nil {
		return defaultLogger(module)
	}
	return l
}
