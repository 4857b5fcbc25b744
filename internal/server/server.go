// Package server wires the app core behind a local JSON HTTP facade.
//
// DEPENDENCY INJECTION FLOW:
//
//	New() creates: sqlite.DB → SessionService + FavouritesService → handlers
//	                directory.Client ↗
//
// This is the composition root: every dependency is built here and nowhere
// else, and the single session.Context is shared by the services that need
// to know who is signed in.
package server

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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/sportify/internal/auth"
	"github.com/sakif/sportify/internal/catalog"
	"github.com/sakif/sportify/internal/config"
	"github.com/sakif/sportify/internal/directory"
	"github.com/sakif/sportify/internal/handler"
	"github.com/sakif/sportify/internal/middleware"
	sqliteRepo "github.com/sakif/sportify/internal/repository/sqlite"
	"github.com/sakif/sportify/internal/service"
	"github.com/sakif/sportify/internal/session"
)

// Server owns the HTTP router and the record store, which it closes on
// shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB

	session    *session.Context
	sessions   *service.SessionService
	favourites *service.FavouritesService
	tokens     *auth.TokenService
	catalog    catalog.Provider
}

// New opens the record store, wires the core, restores the saved session
// and sets up routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, auth.DefaultTokenTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	// A nil Directory interface (not a typed nil pointer) disables remote
	// login.
	var remote service.Directory
	if cfg.DirectoryEnabled {
		remote = directory.NewClient(cfg.DirectoryURL, cfg.DirectoryTimeout)
	} else {
		logger.Info("remote directory disabled, using local accounts only")
	}

	var provider catalog.Provider = catalog.NewMockProvider(cfg.CatalogDelay)
	if cfg.CatalogFile != "" {
		fp, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("catalog loaded from file", slog.String("path", cfg.CatalogFile))
		provider = fp
	}

	sess := session.NewContext()
	favourites := service.NewFavouritesService(db, sess, logger)
	sessions := service.NewSessionService(db, remote, auth.NewPasswordService(cfg.BcryptCost), sess, logger)
	sessions.Observe(favourites)

	s := &Server{
		router:     chi.NewRouter(),
		config:     cfg,
		logger:     logger,
		db:         db,
		session:    sess,
		sessions:   sessions,
		favourites: favourites,
		tokens:     tokens,
		catalog:    provider,
	}

	sessions.RestoreSession(context.Background())
	s.setupRoutes()

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the record store.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
// GET    /api/health                 → liveness
// POST   /api/auth/register          → create local account
// POST   /api/auth/login             → sign in, set cookie
// POST   /api/auth/logout            → sign out, clear cookie
// GET    /api/session                → active user or guest
// GET    /api/me                     → profile               [auth]
// PATCH  /api/me                     → edit profile          [auth]
// POST   /api/me/verify              → refresh from directory [auth]
// GET    /api/catalog                → list (?category=&q=)
// GET    /api/catalog/{id}           → item
// GET    /api/favourites             → favourites
// PUT    /api/favourites/{id}        → add favourite
// DELETE /api/favourites/{id}        → remove favourite
// POST   /api/favourites/{id}/toggle → flip favourite
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	authHandler := handler.NewAuthHandler(s.sessions, s.tokens, s.logger)
	catalogHandler := handler.NewCatalogHandler(s.catalog, s.favourites, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HandleHealth(s.session))

		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/session", authHandler.HandleSession)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.tokens, s.session))
			r.Get("/me", authHandler.HandleMe)
			r.Patch("/me", authHandler.HandleUpdateMe)
			r.Post("/me/verify", authHandler.HandleVerify)
		})

		r.Get("/catalog", catalogHandler.HandleList)
		r.Get("/catalog/{id}", catalogHandler.HandleGet)

		r.Get("/favourites", catalogHandler.HandleListFavourites)
		r.Put("/favourites/{id}", catalogHandler.HandleAddFavourite)
		r.Delete("/favourites/{id}", catalogHandler.HandleRemoveFavourite)
		r.Post("/favourites/{id}/toggle", catalogHandler.HandleToggleFavourite)
	})
}

// Start serves HTTP until SIGINT or SIGTERM, then shuts down gracefully:
// in-flight requests get 30 seconds, then the record store is closed.
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Bool("directory", s.config.DirectoryEnabled),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
