package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/nastly29/home-organizer/internal/config"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/handlers"
	"github.com/nastly29/home-organizer/internal/logging"
	"github.com/nastly29/home-organizer/internal/metrics"
	appmw "github.com/nastly29/home-organizer/internal/middleware"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/internal/sse"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.TxMaxAttempts = cfg.TxMaxAttempts
	db.TxTimeout = cfg.TxTimeout

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		slog.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	guard := services.NewGuard(db)
	userService := services.NewUserService(db)
	teamService := services.NewTeamService(db)
	taskService := services.NewTaskService(db, cfg.Timezone)
	dashboardService := services.NewDashboardService(db, cfg.Timezone)
	financeService := services.NewFinanceService(db, cfg.Timezone)
	eventService := services.NewEventService(db)
	shoppingService := services.NewShoppingService(db)

	hub := sse.NewHub()
	go hub.Run()

	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService, guard, hub)
	taskHandler := handlers.NewTaskHandler(taskService, guard, hub)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, guard)
	financeHandler := handlers.NewFinanceHandler(financeService, guard, hub)
	eventHandler := handlers.NewEventHandler(eventService, guard, hub)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService, guard, hub)
	streamHandler := handlers.NewStreamHandler(hub, guard)
	healthHandler := handlers.NewHealthHandler(db)

	limiter := newRateLimiter(ctx, cfg)
	defer limiter.Close()

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(appmw.RateLimit(limiter, cfg.RateLimitPerMinute, time.Minute))
	app.Use(middleware.BodyParser())

	api := app.Group("/api")

	protected := api.Group("")
	protected.Use(appmw.Auth(jwtService))

	protected.Post("/users/me/ensure", userHandler.Ensure)
	protected.Get("/users/me", userHandler.Me)

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Post("/teams/join", teamHandler.Join)
	protected.Get("/teams/:id", teamHandler.Get)
	protected.Patch("/teams/:id", teamHandler.Update)
	protected.Delete("/teams/:id", teamHandler.Delete)
	protected.Get("/teams/:id/members", teamHandler.Members)
	protected.Delete("/teams/:id/members/:uid", teamHandler.RemoveMember)
	protected.Post("/teams/:id/leave", teamHandler.Leave)
	protected.Post("/teams/:id/transfer-owner", teamHandler.TransferOwner)
	protected.Get("/teams/:id/chat-link", teamHandler.GetChatLink)
	protected.Patch("/teams/:id/chat-link", teamHandler.UpdateChatLink)

	protected.Get("/teams/:id/dashboard", dashboardHandler.Get)
	protected.Get("/teams/:id/stream", streamHandler.Connect)

	protected.Get("/teams/:id/tasks", taskHandler.List)
	protected.Post("/teams/:id/tasks", taskHandler.Create)
	protected.Patch("/teams/:id/tasks/:taskId", taskHandler.Update)
	protected.Delete("/teams/:id/tasks/:taskId", taskHandler.Delete)
	protected.Patch("/teams/:id/tasks/:taskId/toggle-complete", taskHandler.ToggleComplete)

	protected.Get("/teams/:id/finances", financeHandler.List)
	protected.Post("/teams/:id/finances", financeHandler.Create)
	protected.Patch("/teams/:id/finances/:itemId", financeHandler.Update)
	protected.Delete("/teams/:id/finances/:itemId", financeHandler.Delete)

	protected.Get("/teams/:id/events", eventHandler.List)
	protected.Post("/teams/:id/events", eventHandler.Create)
	protected.Patch("/teams/:id/events/:eventId", eventHandler.Update)
	protected.Delete("/teams/:id/events/:eventId", eventHandler.Delete)

	protected.Get("/teams/:id/shopping", shoppingHandler.List)
	protected.Post("/teams/:id/shopping", shoppingHandler.Create)
	protected.Patch("/teams/:id/shopping/:itemId", shoppingHandler.Update)
	protected.Delete("/teams/:id/shopping/:itemId", shoppingHandler.Delete)
	protected.Post("/teams/:id/shopping/:itemId/confirm", shoppingHandler.Confirm)

	api.Get("/health", healthHandler.Check)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepOrphanLinks(sweepCtx, teamService, cfg.LinkSweepInterval)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", appmw.Instrument(app))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env, "timezone", cfg.Timezone.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// newRateLimiter prefers Redis so limits hold across replicas, and falls back
// to process memory when Redis is not configured or unreachable.
func newRateLimiter(ctx context.Context, cfg *config.Config) appmw.RateLimiter {
	if cfg.Redis.Addr == "" {
		return appmw.NewMemoryRateLimiter()
	}
	limiter, err := appmw.NewRedisRateLimiter(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Warn("redis unavailable, using in-memory rate limiting", "addr", cfg.Redis.Addr, "error", err)
		return appmw.NewMemoryRateLimiter()
	}
	return limiter
}

func sweepOrphanLinks(ctx context.Context, teamService *services.TeamService, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := teamService.ReconcileOrphanLinks(ctx)
			if err != nil {
				slog.Error("orphan link sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("orphan links swept", "count", n)
			}
		}
	}
}
