package bloglist

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ UserStore = (*users)(nil)

// NewUsersRepository returns a UserStore backed by the generic bun repository.
// Usernames are the record identifier.
func NewUsersRepository(db *bun.DB) UserStore {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)

	user, err := a.Repository.CreateTx(ctx, tx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert user")
	}
	return user, nil
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := a.Repository.GetByID(ctx, id.String())
	if err != nil {
		return nil, recordError(err, ErrRecordNotFound, "failed to get user")
	}
	return user, nil
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	user, err := a.Repository.GetByIdentifier(ctx, username)
	if err != nil {
		return nil, recordError(err, ErrRecordNotFound, "failed to get user by username")
	}
	return user, nil
}

func (a *users) List(ctx context.Context) ([]*User, error) {
	records, _, err := a.Repository.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("usr.created_at ASC")
	})
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return []*User{}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list users")
	}
	if records == nil {
		records = []*User{}
	}
	return records, nil
}

// AppendBlog adds blogID to the user's blog references. The read and the
// write run in one transaction so concurrent appends do not drop ids.
func (a *users) AppendBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	return a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return a.AppendBlogTx(ctx, tx, userID, blogID)
	})
}

func (a *users) AppendBlogTx(ctx context.Context, tx bun.IDB, userID, blogID uuid.UUID) error {
	record, err := a.Repository.GetByIDTx(ctx, tx, userID.String())
	if err != nil {
		return recordError(err, ErrRecordNotFound, "failed to load blog owner")
	}

	if record.HasBlog(blogID) {
		return nil
	}
	record.BlogIDs = append(record.BlogIDs, blogID)

	if _, err := a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(userID.String())); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update blog owner")
	}
	return nil
}

// recordError maps a repository miss to notFound and wraps anything else
func recordError(err, notFound error, message string) error {
	if repository.IsRecordNotFound(err) {
		return notFound
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message)
}
