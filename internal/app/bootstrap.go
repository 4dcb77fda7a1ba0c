package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"job-matcher/internal/config"
	"job-matcher/internal/delivery/http/handler"
	"job-matcher/internal/delivery/http/middleware"
	"job-matcher/internal/delivery/http/routes"
	"job-matcher/internal/pkg/jwt"
	"job-matcher/internal/usecase"
	"job-matcher/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"go.uber.org/zap"
)

type App struct {
	Fiber *fiber.App
}

// New assembles the HTTP app. Auth is enforced only when a JWT secret is configured.
func New(c *Container, matching usecase.MatchingUsecase) *App {
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		BodyLimit: 2 << 20,
	})

	registerGlobalMiddleware(f, c)

	var auth *middleware.AuthMiddleware
	if secret := strings.TrimSpace(c.Config.JWT.AccessSecret); secret != "" {
		auth = middleware.NewAuthMiddleware(jwt.NewHMACService(secret))
	}

	routes.NewRegistry(routes.Handlers{
		Health:  handler.NewHealthHandler(c.DB, c.Cache),
		Jobs:    handler.NewJobsHandler(c.JobUsecase),
		Resumes: handler.NewResumeHandler(c.ResumeUsecase),
		Matches: handler.NewMatchHandler(matching),
		WS:      ws.NewHandler(c.Hub, c.Logger.Named("ws")),
		Metrics: adaptor.HTTPHandler(c.Metrics.Handler()),
	}, auth).Register(f)

	return &App{Fiber: f}
}

// Bootstrap prepares the database, builds the container and starts the
// websocket hub. cleanup stops the hub and releases every connection.
func Bootstrap(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.App.MigrationsOnStart {
		migCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		err := c.Migrate(migCtx)
		cancel()
		if err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.App.SeedJobs {
		seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := c.Seed(seedCtx)
		cancel()
		if err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
	}

	matching, err := c.NewMatching(ctx, nil)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c, matching), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	app.Use(middleware.NewAccessLogMiddleware(c.Logger.Named("http"), c.Metrics).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger.Named("http")).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
