package bloglist

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserController serves registration and the user listing
type UserController struct {
	controllerBase
	users     UserStore
	blogs     BlogStore
	register  *RegisterUserHandler
	useHashid bool
}

func NewUserController(repo RepositoryManager, register *RegisterUserHandler, opts ...ControllerOption) *UserController {
	if repo == nil {
		panic("Missing RepositoryManager in user controller...")
	}
	repo.MustValidate()

	base := newControllerBase("bloglist.users", opts...)
	if register == nil {
		register = NewRegisterUserHandler(repo.Users(),
			WithRegisterLogger(base.logger),
			WithRegisterActivitySink(base.activity),
		)
	}

	return &UserController{
		controllerBase: base,
		users:          repo.Users(),
		blogs:          repo.Blogs(),
		register:       register,
	}
}

// UseHashid toggles deterministic user ids
func (u *UserController) UseHashid(enabled bool) *UserController {
	u.useHashid = enabled
	return u
}

// Create registers a user and answers without password fields
func (u *UserController) Create(c *fiber.Ctx) error {
	payload := new(RegisterUserMessage)
	if err := bind(c, payload); err != nil {
		return err
	}
	payload.UseHashid = u.useHashid

	user, err := u.register.Register(c.UserContext(), *payload)
	if err != nil {
		return err
	}

	u.metrics.RecordUserCreated()

	return c.Status(fiber.StatusCreated).JSON(UserWithBlogs{
		User:  user,
		Blogs: []BlogSummary{},
	})
}

// List returns every user with the referenced blogs populated
func (u *UserController) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	records, err := u.users.List(ctx)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0)
	for _, record := range records {
		ids = append(ids, record.BlogIDs...)
	}

	blogs, err := u.blogs.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*Blog, len(blogs))
	for _, blog := range blogs {
		byID[blog.ID] = blog
	}

	out := make([]UserWithBlogs, 0, len(records))
	for _, record := range records {
		view := UserWithBlogs{User: record, Blogs: make([]BlogSummary, 0, len(record.BlogIDs))}
		for _, id := range record.BlogIDs {
			// deleted blogs stay referenced, skip them
			if blog, ok := byID[id]; ok {
				view.Blogs = append(view.Blogs, blog.Summary())
			}
		}
		out = append(out, view)
	}

	return c.JSON(out)
}
