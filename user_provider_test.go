package bloglist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-bloglist"
)

func TestUserProvider_VerifyIdentity(t *testing.T) {
	ctx := context.Background()

	hash, err := bloglist.HashPassword("salainen")
	require.NoError(t, err)

	user := &bloglist.User{ID: uuid.New(), Username: "mluukkai", Name: "Matti", PasswordHash: hash}

	t.Run("valid credentials", func(t *testing.T) {
		users := new(MockUsers)
		users.On("GetByUsername", ctx, "mluukkai").Return(user, nil).Once()

		got, err := bloglist.NewUserProvider(users).VerifyIdentity(ctx, "mluukkai", "salainen")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUsers)
		users.On("GetByUsername", ctx, "mluukkai").Return(user, nil).Once()

		_, err := bloglist.NewUserProvider(users).VerifyIdentity(ctx, "mluukkai", "wrong")
		assert.Equal(t, bloglist.ErrMismatchedHashAndPassword, err)
	})

	t.Run("unknown user still compares a hash", func(t *testing.T) {
		users := new(MockUsers)
		hasher := new(MockHasher)
		users.On("GetByUsername", ctx, "ghost").Return(nil, bloglist.ErrRecordNotFound).Once()
		hasher.On("ComparePasswordAndHash", "salainen", mock.AnythingOfType("string")).
			Return(bloglist.ErrMismatchedHashAndPassword).Once()

		_, err := bloglist.NewUserProvider(users).WithHasher(hasher).VerifyIdentity(ctx, "ghost", "salainen")
		assert.Equal(t, bloglist.ErrMismatchedHashAndPassword, err)
		hasher.AssertExpectations(t)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		users := new(MockUsers)
		users.On("GetByUsername", ctx, "mluukkai").Return(nil, errors.New("db down")).Once()

		_, err := bloglist.NewUserProvider(users).VerifyIdentity(ctx, "mluukkai", "salainen")
		require.Error(t, err)
		assert.Equal(t, 500, bloglist.StatusFor(err))
	})
}

func TestUserProvider_FindIdentityByID(t *testing.T) {
	ctx := context.Background()
	user := &bloglist.User{ID: uuid.New(), Username: "mluukkai"}

	users := new(MockUsers)
	users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	missing := uuid.New()
	users.On("GetByID", ctx, missing).Return(nil, bloglist.ErrRecordNotFound).Once()

	provider := bloglist.NewUserProvider(users).WithLogger(newQuietLogger())

	got, err := provider.FindIdentityByID(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Same(t, user, got)

	_, err = provider.FindIdentityByID(ctx, missing.String())
	assert.Equal(t, bloglist.ErrIdentityNotFound, err)

	_, err = provider.FindIdentityByID(ctx, "not-an-id")
	assert.Equal(t, bloglist.ErrIdentityNotFound, err)

	users.AssertExpectations(t)
}
