package bloglist_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-bloglist"
)

// newTestDB opens a private in-memory database with the schema applied
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, bloglist.Migrate(context.Background(), db, newQuietLogger()))
	return db
}

func seedUser(t *testing.T, users bloglist.UserStore, username string) *bloglist.User {
	t.Helper()

	user, err := users.Create(context.Background(), &bloglist.User{
		Username:     username,
		Name:         username + " name",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

// messageOf returns the client facing message of a rich error
func messageOf(t *testing.T, err error) string {
	t.Helper()

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr), "expected *goerrors.Error, got %T", err)
	return richErr.Message
}
