package bloglist

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
)

const (
	msgTitleURLRequired = "Title and URL are required"
	msgLikesNegative    = "likes must be a non-negative number"
)

// CreateBlogPayload is the body of POST /api/blogs
type CreateBlogPayload struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

// Validate will validate the payload
func (r CreateBlogPayload) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.URL, validation.Required),
	)
	if err != nil {
		return NewValidationError(msgTitleURLRequired)
	}
	return validateLikes(r.Likes)
}

// UpdateLikesPayload is the body of PUT /api/blogs/:id
type UpdateLikesPayload struct {
	Likes *int `json:"likes"`
}

func (r UpdateLikesPayload) Validate() error {
	return validateLikes(r.Likes)
}

func validateLikes(likes *int) error {
	if likes == nil {
		return nil
	}
	if err := validation.Validate(*likes, validation.Min(0)); err != nil {
		return NewValidationError(msgLikesNegative)
	}
	return nil
}

// BlogController serves the blog resource
type BlogController struct {
	controllerBase
	blogs BlogStore
	users UserStore
}

func NewBlogController(repo RepositoryManager, opts ...ControllerOption) *BlogController {
	if repo == nil {
		panic("Missing RepositoryManager in blog controller...")
	}
	repo.MustValidate()

	return &BlogController{
		controllerBase: newControllerBase("bloglist.blogs", opts...),
		blogs:          repo.Blogs(),
		users:          repo.Users(),
	}
}

// List returns every blog with its owner
func (b *BlogController) List(c *fiber.Ctx) error {
	records, err := b.blogs.List(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]BlogWithOwner, 0, len(records))
	for _, record := range records {
		out = append(out, NewBlogWithOwner(record))
	}
	return c.JSON(out)
}

// Stats returns the aggregated statistics of all blogs
func (b *BlogController) Stats(c *fiber.Ctx) error {
	records, err := b.blogs.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(NewBlogStats(records))
}

// Get returns one blog, or 404 with no body when it does not exist
func (b *BlogController) Get(c *fiber.Ctx) error {
	rc := RequestContextFrom(c, "id")
	id, err := rc.ParamID("id")
	if err != nil {
		return err
	}

	record, err := b.blogs.GetByID(c.UserContext(), id)
	if err != nil {
		if IsNotFound(err) {
			// SendStatus would write the status text as the body
			c.Status(fiber.StatusNotFound)
			return nil
		}
		return err
	}
	return c.JSON(record)
}

// Create stores a blog owned by the requester and appends it to the
// owner's blog references. The two writes are independent.
func (b *BlogController) Create(c *fiber.Ctx) error {
	rc := RequestContextFrom(c)
	if outcome := Classify(rc, rc.RequesterID()); outcome != Allowed {
		b.metrics.RecordAuthFailure(outcome.String())
		return outcome.Err(rc)
	}

	payload := new(CreateBlogPayload)
	if err := bind(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record := &Blog{
		Title:  payload.Title,
		Author: payload.Author,
		URL:    payload.URL,
		UserID: rc.RequesterID(),
	}
	if payload.Likes != nil {
		record.Likes = *payload.Likes
	}

	ctx := c.UserContext()
	record, err := b.blogs.Create(ctx, record)
	if err != nil {
		return err
	}

	if err := b.users.AppendBlog(ctx, record.UserID, record.ID); err != nil {
		b.logger.Error("blog stored but owner reference not updated",
			"blog_id", record.ID.String(),
			"user_id", record.UserID.String(),
			"error", err,
		)
		return err
	}

	b.metrics.RecordBlogCreated()
	emitActivity(ctx, b.activity, b.logger, ActivityEvent{
		EventType: ActivityEventBlogCreated,
		UserID:    record.UserID.String(),
		ObjectID:  record.ID.String(),
		Metadata:  map[string]any{"title": record.Title},
	})

	return c.Status(fiber.StatusCreated).JSON(record)
}

// UpdateLikes sets the likes of a blog. Any caller may update likes.
// TODO: decide whether likes updates should require ownership like delete.
func (b *BlogController) UpdateLikes(c *fiber.Ctx) error {
	rc := RequestContextFrom(c, "id")
	id, err := rc.ParamID("id")
	if err != nil {
		return err
	}

	payload := new(UpdateLikesPayload)
	if err := bind(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	ctx := c.UserContext()
	if payload.Likes == nil {
		record, err := b.blogs.GetByID(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				return ErrBlogNotFound
			}
			return err
		}
		return c.JSON(record)
	}

	record, err := b.blogs.UpdateLikes(ctx, id, *payload.Likes)
	if err != nil {
		if IsNotFound(err) {
			return ErrBlogNotFound
		}
		return err
	}

	emitActivity(ctx, b.activity, b.logger, ActivityEvent{
		EventType: ActivityEventBlogLiked,
		UserID:    rc.RequesterID().String(),
		ObjectID:  record.ID.String(),
		Metadata:  map[string]any{"likes": record.Likes},
	})

	return c.JSON(record)
}

// Delete removes a blog owned by the requester
func (b *BlogController) Delete(c *fiber.Ctx) error {
	rc := RequestContextFrom(c, "id")
	id, err := rc.ParamID("id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	record, err := b.blogs.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return ErrBlogNotFound
		}
		return err
	}

	if outcome := Classify(rc, record.UserID); outcome != Allowed {
		b.metrics.RecordAuthFailure(outcome.String())
		if outcome == Forbidden {
			emitActivity(ctx, b.activity, b.logger, ActivityEvent{
				EventType: ActivityEventOwnershipDenied,
				UserID:    rc.RequesterID().String(),
				ObjectID:  record.ID.String(),
				Metadata:  map[string]any{"owner_id": record.UserID.String()},
			})
		}
		return outcome.Err(rc)
	}

	if err := b.blogs.Delete(ctx, record.ID); err != nil {
		return err
	}

	emitActivity(ctx, b.activity, b.logger, ActivityEvent{
		EventType: ActivityEventBlogDeleted,
		UserID:    rc.RequesterID().String(),
		ObjectID:  record.ID.String(),
	})

	c.Status(fiber.StatusNoContent)
	return nil
}
