package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/goliatone/go-bloglist"
	"github.com/goliatone/go-bloglist/config"
)

type App struct {
	config   *config.Config
	logger   *slog.Logger
	bunDB    *bun.DB
	repo     bloglist.RepositoryManager
	registry *prometheus.Registry
	metrics  *bloglist.Metrics
	srv      *fiber.App
}

func (a *App) GetLogger(name string) *slog.Logger {
	return a.logger.With("module", name)
}

func main() {
	configPath := flag.String("config", os.Getenv("BLOGLIST_CONFIG"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	app := &App{
		config: cfg,
		logger: newLogger(cfg.Logging),
	}
	slog.SetDefault(app.logger)

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		app.logger.Error("persistence setup failed", "error", err)
		os.Exit(1)
	}
	defer app.bunDB.Close()

	WithMetrics(app)

	if err := WithHTTPServer(app); err != nil {
		app.logger.Error("http setup failed", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		app.logger.Info("server listening", "addr", addr)
		if err := app.srv.Listen(addr); err != nil {
			app.logger.Error("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.srv.ShutdownWithContext(shutdownCtx); err != nil {
		app.logger.Error("shutdown failed", "error", err)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(cfg.Level))

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("app", "bloglist")
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.config.ActiveDSN())
	if err != nil {
		return err
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if app.config.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := bloglist.Migrate(ctx, db, app.GetLogger("migrations")); err != nil {
		db.Close()
		return err
	}

	repo := bloglist.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		db.Close()
		return err
	}

	app.bunDB = db
	app.repo = repo

	return nil
}

func WithMetrics(app *App) {
	if !app.config.Metrics.Enabled {
		return
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = bloglist.NewMetrics(app.registry)
}

func WithHTTPServer(app *App) error {
	srv := fiber.New(fiber.Config{
		AppName:      "bloglist",
		ErrorHandler: bloglist.ErrorHandler(app.GetLogger("http")),
	})

	srv.Use(recover.New(recover.Config{EnableStackTrace: app.config.Debug}))
	srv.Use(cors.New())
	srv.Use(logger.New(logger.Config{
		Format: "${method} ${path} ${status} ${bytesSent} - ${latency}\n",
	}))

	if app.metrics != nil {
		srv.Use(app.metrics.Middleware())
		srv.Get(app.config.Metrics.Path, bloglist.MetricsHandler(app.registry))
	}

	activity := bloglist.NewLoggerActivitySink(app.GetLogger("activity"))

	tokens := bloglist.NewTokenServiceFromConfig(app.config.Auth, app.GetLogger("tokens"))
	provider := bloglist.NewUserProvider(app.repo.Users()).
		WithLogger(app.GetLogger("user_provider"))

	auther := bloglist.NewAuthenticator(provider, tokens).
		WithLogger(app.GetLogger("auth")).
		WithActivitySink(activity)

	pipeline := bloglist.NewPipeline(tokens, provider,
		bloglist.WithPipelineLogger(app.GetLogger("pipeline")),
		bloglist.WithAuthFailureRecorder(app.metrics),
	)

	opts := []bloglist.ControllerOption{
		bloglist.WithControllerActivitySink(activity),
		bloglist.WithControllerMetrics(app.metrics),
	}

	register := bloglist.NewRegisterUserHandler(app.repo.Users(),
		bloglist.WithRegisterLogger(app.GetLogger("register")),
		bloglist.WithRegisterActivitySink(activity),
	)

	bloglist.RegisterRoutes(srv, pipeline, bloglist.Controllers{
		Blogs: bloglist.NewBlogController(app.repo,
			append(opts, bloglist.WithControllerLogger(app.GetLogger("blogs")))...),
		Users: bloglist.NewUserController(app.repo, register,
			append(opts, bloglist.WithControllerLogger(app.GetLogger("users")))...).
			UseHashid(app.config.Persistence.UseHashid),
		Login: bloglist.NewLoginController(auther,
			append(opts, bloglist.WithControllerLogger(app.GetLogger("login")))...),
	})

	app.srv = srv

	return nil
}

func WaitExitSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
