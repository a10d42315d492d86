package bloglist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-bloglist"
)

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, bloglist.Migrate(context.Background(), db, nil))
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()
	repo := bloglist.NewRepositoryManager(newTestDB(t))
	require.NoError(t, repo.Validate())
	users := repo.Users()

	created := seedUser(t, users, "mluukkai")
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("get by id and username", func(t *testing.T) {
		byID, err := users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "mluukkai", byID.Username)

		byName, err := users.GetByUsername(ctx, "mluukkai")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)
	})

	t.Run("missing records", func(t *testing.T) {
		_, err := users.GetByID(ctx, uuid.New())
		assert.True(t, bloglist.IsNotFound(err))

		_, err = users.GetByUsername(ctx, "ghost")
		assert.True(t, bloglist.IsNotFound(err))
	})

	t.Run("unique username", func(t *testing.T) {
		_, err := users.Create(ctx, &bloglist.User{Username: "mluukkai", Name: "dup", PasswordHash: "x"})
		assert.Equal(t, bloglist.ErrUsernameTaken, err)

		all, err := users.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("append blog keeps order and skips duplicates", func(t *testing.T) {
		b1, b2 := uuid.New(), uuid.New()
		require.NoError(t, users.AppendBlog(ctx, created.ID, b1))
		require.NoError(t, users.AppendBlog(ctx, created.ID, b2))
		require.NoError(t, users.AppendBlog(ctx, created.ID, b1))

		got, err := users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b1, b2}, got.BlogIDs)
		assert.True(t, got.HasBlog(b2))
	})

	t.Run("append blog to missing user", func(t *testing.T) {
		err := users.AppendBlog(ctx, uuid.New(), uuid.New())
		assert.True(t, bloglist.IsNotFound(err))
	})
}

func TestBlogsRepository(t *testing.T) {
	ctx := context.Background()
	repo := bloglist.NewRepositoryManager(newTestDB(t))
	blogs := repo.Blogs()

	owner := seedUser(t, repo.Users(), "mluukkai")

	first, err := blogs.Create(ctx, &bloglist.Blog{Title: "First", URL: "http://a", Author: "A", UserID: owner.ID})
	require.NoError(t, err)
	second, err := blogs.Create(ctx, &bloglist.Blog{Title: "Second", URL: "http://b", Likes: 4, UserID: owner.ID})
	require.NoError(t, err)

	t.Run("list populates owner", func(t *testing.T) {
		all, err := blogs.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		for _, b := range all {
			require.NotNil(t, b.Owner)
			assert.Equal(t, "mluukkai", b.Owner.Username)
		}
	})

	t.Run("list by ids", func(t *testing.T) {
		got, err := blogs.ListByIDs(ctx, []uuid.UUID{second.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Second", got[0].Title)

		none, err := blogs.ListByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("update likes", func(t *testing.T) {
		updated, err := blogs.UpdateLikes(ctx, first.ID, 9)
		require.NoError(t, err)
		assert.Equal(t, 9, updated.Likes)
		assert.Equal(t, owner.ID, updated.UserID)

		_, err = blogs.UpdateLikes(ctx, uuid.New(), 1)
		assert.Equal(t, bloglist.ErrBlogNotFound, err)
	})

	t.Run("update likes to zero", func(t *testing.T) {
		updated, err := blogs.UpdateLikes(ctx, first.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, updated.Likes)

		stored, err := blogs.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.Likes)
		assert.Equal(t, "First", stored.Title)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		require.NoError(t, blogs.Delete(ctx, second.ID))

		err := blogs.Delete(ctx, second.ID)
		assert.Equal(t, bloglist.ErrBlogNotFound, err)

		_, err = blogs.GetByID(ctx, second.ID)
		assert.True(t, bloglist.IsNotFound(err))
	})
}

func TestRepositoryManager_RunInTx(t *testing.T) {
	ctx := context.Background()
	repo := bloglist.NewRepositoryManager(newTestDB(t))
	rollback := errors.New("rollback")

	err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&bloglist.User{
			ID:           uuid.New(),
			Username:     "mluukkai",
			Name:         "Matti",
			PasswordHash: "hash",
		}).Exec(ctx)
		require.NoError(t, err)
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	all, err := repo.Users().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	err = repo.RunInTx(cctx, nil, func(ctx context.Context, tx bun.Tx) error {
		t.Fatal("transaction must not start on a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
