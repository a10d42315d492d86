package bloglist

import (
	"github.com/gofiber/fiber/v2"
)

// APIRoutes holds the mount points of the JSON API
type APIRoutes struct {
	Blogs string
	Users string
	Login string
}

// DefaultAPIRoutes are the paths the API is served on
func DefaultAPIRoutes() *APIRoutes {
	return &APIRoutes{
		Blogs: "/api/blogs",
		Users: "/api/users",
		Login: "/api/login",
	}
}

// Controllers groups the handlers mounted by RegisterRoutes
type Controllers struct {
	Routes *APIRoutes
	Blogs  *BlogController
	Users  *UserController
	Login  *LoginController
}

// RegisterRoutes installs the token extractor on every route, mounts the
// controllers and finally the unknown endpoint handler. Only the blog
// create and delete routes run the user extractor.
func RegisterRoutes(app fiber.Router, p *Pipeline, ctrls Controllers) {
	if p == nil {
		panic("Missing Pipeline in route registration...")
	}

	if ctrls.Blogs == nil || ctrls.Users == nil || ctrls.Login == nil {
		panic("Missing controller in route registration...")
	}

	routes := ctrls.Routes
	if routes == nil {
		routes = DefaultAPIRoutes()
	}

	app.Use(p.TokenExtractor())

	blogs := app.Group(routes.Blogs)
	blogs.Get("/", ctrls.Blogs.List).Name("blogs.list")
	blogs.Get("/stats", ctrls.Blogs.Stats).Name("blogs.stats")
	blogs.Get("/:id", ctrls.Blogs.Get).Name("blogs.get")
	blogs.Post("/", p.UserExtractor(), ctrls.Blogs.Create).Name("blogs.create")
	blogs.Put("/:id", ctrls.Blogs.UpdateLikes).Name("blogs.update")
	blogs.Delete("/:id", p.UserExtractor(), ctrls.Blogs.Delete).Name("blogs.delete")

	users := app.Group(routes.Users)
	users.Get("/", ctrls.Users.List).Name("users.list")
	users.Post("/", ctrls.Users.Create).Name("users.create")

	app.Post(routes.Login, ctrls.Login.Login).Name("login.post")

	app.Use(UnknownEndpoint)
}

type controllerBase struct {
	logger   Logger
	activity ActivitySink
	metrics  *Metrics
}

// ControllerOption configures the shared collaborators of a controller
type ControllerOption func(*controllerBase)

func WithControllerLogger(logger Logger) ControllerOption {
	return func(b *controllerBase) {
		b.logger = logger
	}
}

func WithControllerActivitySink(sink ActivitySink) ControllerOption {
	return func(b *controllerBase) {
		b.activity = normalizeActivitySink(sink)
	}
}

func WithControllerMetrics(m *Metrics) ControllerOption {
	return func(b *controllerBase) {
		b.metrics = m
	}
}

func newControllerBase(module string, opts ...ControllerOption) controllerBase {
	b := controllerBase{activity: noopActivitySink{}}
	for _, opt := range opts {
		opt(&b)
	}
	b.logger = normalizeLogger(b.logger, module)
	return b
}

// bind decodes the JSON body into out. An empty body leaves out untouched.
func bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return ErrMalformedBody
	}
	return nil
}
