package bloglist

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	// Validate, MustValidate and RunInTx mirror repository.Validator and
	// repository.TransactionManager, which the pinned go-repository-bun
	// v0.0.5 does not export
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Users() UserStore
	Blogs() BlogStore
}

type mngr struct {
	db    *bun.DB
	users UserStore
	blogs BlogStore
}

// NewRepositoryManager builds the bun repositories for db
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:    db,
		users: NewUsersRepository(db),
		blogs: NewBlogsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.blogs == nil {
		return errors.New("repository blogs should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() UserStore {
	return m.users
}

func (m mngr) Blogs() BlogStore {
	return m.blogs
}
