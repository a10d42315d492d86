package bloglist

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type blogs struct {
	repository.Repository[*Blog]
	db *bun.DB
}

var _ BlogStore = (*blogs)(nil)

// NewBlogsRepository returns a BlogStore backed by the generic bun repository
func NewBlogsRepository(db *bun.DB) BlogStore {
	repo := repository.NewRepository[*Blog](db, repository.ModelHandlers[*Blog]{
		NewRecord: func() *Blog { return &Blog{} },
		GetID: func(b *Blog) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Blog, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
	})

	return &blogs{
		Repository: repo,
		db:         db,
	}
}

func (r *blogs) Create(ctx context.Context, record *Blog) (*Blog, error) {
	prepareBlogDefaults(record)

	blog, err := r.Repository.Create(ctx, record)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert blog")
	}
	return blog, nil
}

func (r *blogs) GetByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	blog, err := r.Repository.GetByID(ctx, id.String())
	if err != nil {
		return nil, recordError(err, ErrRecordNotFound, "failed to get blog")
	}
	return blog, nil
}

// List returns every blog with its owner loaded
func (r *blogs) List(ctx context.Context) ([]*Blog, error) {
	return r.list(ctx, "failed to list blogs", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Relation("Owner").Order("b.created_at ASC")
	})
}

func (r *blogs) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Blog, error) {
	if len(ids) == 0 {
		return []*Blog{}, nil
	}

	return r.list(ctx, "failed to list blogs by id", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("b.id IN (?)", bun.In(ids))
	})
}

func (r *blogs) list(ctx context.Context, message string, criteria ...repository.SelectCriteria) ([]*Blog, error) {
	records, _, err := r.Repository.List(ctx, criteria...)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return []*Blog{}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, message)
	}
	if records == nil {
		records = []*Blog{}
	}
	return records, nil
}

// UpdateLikes sets the likes of a blog and returns the stored record
func (r *blogs) UpdateLikes(ctx context.Context, id uuid.UUID, likes int) (*Blog, error) {
	var updated *Blog
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := r.Repository.GetByIDTx(ctx, tx, id.String())
		if err != nil {
			return recordError(err, ErrBlogNotFound, "failed to get blog")
		}

		record.Likes = likes
		updated, err = r.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(id.String()))
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update blog likes")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the blog. A blog that is already gone reports ErrBlogNotFound.
func (r *blogs) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := r.Repository.GetByIDTx(ctx, tx, id.String())
		if err != nil {
			return recordError(err, ErrBlogNotFound, "failed to get blog")
		}

		if err := r.Repository.DeleteTx(ctx, tx, record); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete blog")
		}
		return nil
	})
}
