package bloglist

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. BlogIDs keeps the references to the blogs the
// user created, appended after each blog insert.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID   `bun:"id,pk,type:uuid" json:"id"`
	Username      string      `bun:"username,notnull,unique" json:"username"`
	Name          string      `bun:"name,notnull" json:"name"`
	PasswordHash  string      `bun:"password_hash,notnull" json:"-"`
	BlogIDs       []uuid.UUID `bun:"blog_ids" json:"-"`
	CreatedAt     time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"-"`
}

// Blog is the content item model
type Blog struct {
	bun.BaseModel `bun:"table:blogs,alias:b"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Author        string    `bun:"author" json:"author"`
	URL           string    `bun:"url,notnull" json:"url"`
	Likes         int       `bun:"likes,notnull" json:"likes"`
	UserID        uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user"`
	Owner         *User     `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"-"`
}

// OwnerSummary is the owner representation embedded in blog listings
type OwnerSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// BlogSummary is the blog representation embedded in user listings
type BlogSummary struct {
	ID     uuid.UUID `json:"id"`
	URL    string    `json:"url"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
}

// BlogWithOwner renders a blog with its owner populated. The User field
// shadows Blog.UserID in the JSON output.
type BlogWithOwner struct {
	*Blog
	User *OwnerSummary `json:"user,omitempty"`
}

// UserWithBlogs renders a user with the referenced blogs populated
type UserWithBlogs struct {
	*User
	Blogs []BlogSummary `json:"blogs"`
}

// NewBlogWithOwner builds the listing view of a blog
func NewBlogWithOwner(blog *Blog) BlogWithOwner {
	view := BlogWithOwner{Blog: blog}
	if blog.Owner != nil {
		view.User = &OwnerSummary{
			ID:       blog.Owner.ID,
			Username: blog.Owner.Username,
			Name:     blog.Owner.Name,
		}
	}
	return view
}

// Summary returns the reference view of a blog
func (b *Blog) Summary() BlogSummary {
	return BlogSummary{
		ID:     b.ID,
		URL:    b.URL,
		Title:  b.Title,
		Author: b.Author,
	}
}

// HasBlog reports whether the user references blogID
func (u *User) HasBlog(blogID uuid.UUID) bool {
	for _, id := range u.BlogIDs {
		if id == blogID {
			return true
		}
	}
	return false
}

func prepareUserDefaults(user *User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
}

func prepareBlogDefaults(blog *Blog) {
	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = time.Now().UTC()
	}
}
