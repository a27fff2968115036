// Package server wires the application together: it owns the router, the
// database handle, and the route table, and runs the HTTP server with
// graceful shutdown.
//
// This is the composition root — every dependency is constructed in New
// and injected down. Nothing below this package reaches for globals: the
// storage handle is built here and passed to services, which are passed
// to handlers, which are bound to routes.
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
	"github.com/go-chi/cors"

	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/config"
	"github.com/sakif/blog-api/internal/handler"
	"github.com/sakif/blog-api/internal/middleware"
	sqliteRepo "github.com/sakif/blog-api/internal/repository/sqlite"
	"github.com/sakif/blog-api/internal/service"
)

// The guard's resolver is satisfied by the user repository directly.
var _ auth.UserResolver = (*sqliteRepo.UserDB)(nil)

// Server holds the router and the resources it must release on shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Handlers never touch the database; services never touch HTTP.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
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
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// Route table:
//
//	GET    /                       → welcome message
//	POST   /auth                   → password login
//	GET    /auth/github/login      → OAuth redirect        (if configured)
//	GET    /auth/github/callback   → OAuth completion      (if configured)
//	POST   /auth/logout            → clear token cookie
//	GET    /posts/                 → list with votes       (public)
//	GET    /posts/latest/          → newest post           (public)
//	GET    /posts/user/            → caller's posts        (guarded)
//	POST   /posts/                 → create                (guarded)
//	GET    /posts/{id}             → get with votes        (guarded)
//	PUT    /posts/{id}             → update                (guarded)
//	DELETE /posts/{id}             → delete                (guarded)
//	POST   /vote/                  → cast/withdraw vote    (guarded)
//	*      /comments/...           → comment CRUD          (public)
//	POST   /users/                 → register              (public)
//	GET    /users/, /users/{id}    → lookup                (public)
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	users := s.db.Users()
	posts := s.db.Posts()
	comments := s.db.Comments()
	votes := s.db.Votes()

	authService := service.NewAuthService(users, tokens, passwords, s.logger)
	userService := service.NewUserService(users, passwords, s.logger)
	postService := service.NewPostService(posts, s.config.EnforcePostOwnership, s.logger)
	commentService := service.NewCommentService(comments, s.logger)
	voteService := service.NewVoteService(votes, s.logger)

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	voteHandler := handler.NewVoteHandler(voteService, s.logger)

	requireUser := auth.RequireUser(tokens, users)

	// Global middleware, in order: request ID, real IP, panic recovery,
	// CORS, request logging.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	s.router.Use(middleware.Logger(s.logger))

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Welcome to my API"}`))
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	s.router.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.HandleList)
		r.Get("/latest/", postHandler.HandleLatest)

		// Guarded routes get their own group so the middleware applies
		// only where the contract requires it.
		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/user/", postHandler.HandleListByCaller)
			r.Post("/", postHandler.HandleCreate)
			r.Get("/{id}", postHandler.HandleGetByID)
			r.Put("/{id}", postHandler.HandleUpdate)
			r.Delete("/{id}", postHandler.HandleDelete)
		})
	})

	s.router.Route("/vote", func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/", voteHandler.HandleVote)
	})

	s.router.Route("/comments", func(r chi.Router) {
		r.Post("/", commentHandler.HandleCreate)
		r.Get("/", commentHandler.HandleList)
		r.Get("/{id}", commentHandler.HandleGetByID)
		r.Put("/{id}", commentHandler.HandleUpdate)
		r.Delete("/{id}", commentHandler.HandleDelete)
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.HandleCreate)
		r.Get("/", userHandler.HandleList)
		r.Get("/{id}", userHandler.HandleGetByID)
	})

	return nil
}

// Router exposes the configured mux. Tests mount it in httptest servers.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start calls it
// automatically; tests that only use Router must call it themselves.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database (flushes the WAL and releases the file
// lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
