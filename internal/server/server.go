// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config and creates the logger; Server.New() builds the rest:
//
//	sqlite.DB → PasswordService/TokenService → AuthService/PostService → handlers
//
// This is the "composition root" pattern — all dependencies are wired in one
// place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/greatnessmensah/blog-crud-app/internal/auth"
	"github.com/greatnessmensah/blog-crud-app/internal/config"
	"github.com/greatnessmensah/blog-crud-app/internal/handler"
	"github.com/greatnessmensah/blog-crud-app/internal/middleware"
	sqliteRepo "github.com/greatnessmensah/blog-crud-app/internal/repository/sqlite"
	"github.com/greatnessmensah/blog-crud-app/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down, we
// must close it to flush the WAL and release the file lock — handled in
// Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB // owned by server, closed on shutdown
}

// New creates a new Server from the given config.
//
// This is where the entire dependency chain is assembled:
//  1. Open the database (sqlite.New — runs migrations)
//  2. Build the auth primitives (bcrypt PasswordService, JWT TokenService)
//  3. Build the services with the repository interfaces
//  4. Build the handlers with the services
//  5. Wire handlers to routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete *sqlite.DB), handlers get services.
//
// IMPORT ALIAS:
// We import repository/sqlite as `sqliteRepo` to avoid confusion with the
// sqlite driver package. Import aliases are common in Go when package names
// would otherwise collide or be unclear.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /            → liveness check (no auth)
//	POST   /login       → issue access token (no auth)
//	POST   /users/      → register (no auth)
//	GET    /users/{id}  → get user (auth)
//	GET    /posts/      → list posts (auth)
//	POST   /posts/      → create post (auth)
//	GET    /posts/{id}  → get post (auth)
//	PUT    /posts/{id}  → update post — owner only (auth)
//	DELETE /posts/{id}  → delete post — owner only (auth)
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
//  1. RealIP — extracts real client IP from proxy headers
//  2. Recoverer — catches panics and returns 500 instead of crashing
//  3. Logger — logs each request with a request ID and timing info
//  4. RequireAuth — only on the protected route groups
func (s *Server) setupRoutes() error {
	// === Global Middleware ===
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500
	s.router.Use(middleware.Logger(s.logger))

	// === Auth primitives ===
	tokens, err := auth.NewTokenService(s.config.SecretKey, s.config.TokenTTL(), s.config.Algorithm)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === Services ===
	// s.db (sqlite.DB) implements both repository interfaces.
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	postService := service.NewPostService(s.db, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(authService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	requireAuth := auth.RequireAuth(tokens, s.db)

	// === Public routes ===
	s.router.Get("/", handler.HandleRoot)
	s.router.Post("/login", authHandler.HandleLogin)

	// === User routes ===
	// Registration is public; lookup requires a valid token.
	s.router.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.HandleRegister)
		r.With(requireAuth).Get("/{id}", userHandler.HandleGetByID)
	})

	// === Post routes (all protected) ===
	s.router.Route("/posts", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", postHandler.HandleList)
		r.Post("/", postHandler.HandleCreate)
		r.Get("/{id}", postHandler.HandleGetByID)
		r.Put("/{id}", postHandler.HandleUpdate)
		r.Delete("/{id}", postHandler.HandleDelete)
	})

	return nil
}

// Router exposes the configured chi router.
// Handler tests mount this in an httptest.Server to exercise the real
// middleware chain and route wiring.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases file lock)
//
// If we skip step 3, the database file might be left in an inconsistent
// state. The `defer s.db.Close()` ensures it happens even if something
// panics.
func (s *Server) Start() error {
	defer s.db.Close()

	// Create the HTTP server with sensible timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine (so it doesn't block)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DatabasePath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		// Server failed to start
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		// Received shutdown signal
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
