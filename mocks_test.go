package bloglist_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/goliatone/go-bloglist"
)

// MockUsers implements bloglist.UserStore
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, user *bloglist.User) (*bloglist.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*bloglist.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id uuid.UUID) (*bloglist.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*bloglist.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (*bloglist.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*bloglist.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) List(ctx context.Context) ([]*bloglist.User, error) {
	args := m.Called(ctx)
	if u, ok := args.Get(0).([]*bloglist.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) AppendBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	args := m.Called(ctx, userID, blogID)
	return args.Error(0)
}

// MockHasher implements bloglist.PasswordAuthenticator
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) ComparePasswordAndHash(password, hash string) error {
	args := m.Called(password, hash)
	return args.Error(0)
}

// MockLogger implements bloglist.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// newQuietLogger accepts any log call
func newQuietLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything, mock.Anything).Maybe()
	l.On("Info", mock.Anything, mock.Anything).Maybe()
	l.On("Warn", mock.Anything, mock.Anything).Maybe()
	l.On("Error", mock.Anything, mock.Anything).Maybe()
	return l
}

type capturingSink struct {
	mu     sync.Mutex
	events []bloglist.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, evt bloglist.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return nil
}

func (c *capturingSink) Types() []bloglist.ActivityEventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bloglist.ActivityEventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.EventType)
	}
	return out
}
