// Package server wires the application together: stores, services,
// handlers, middleware, and routes, plus server start and graceful shutdown.
// It is the composition root — every dependency is constructed here and
// injected downward; no other package creates its own collaborators.
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

	"github.com/tahmid/peakbook/internal/auth"
	"github.com/tahmid/peakbook/internal/config"
	"github.com/tahmid/peakbook/internal/handler"
	"github.com/tahmid/peakbook/internal/middleware"
	"github.com/tahmid/peakbook/internal/service"
	"github.com/tahmid/peakbook/internal/store"
	"github.com/tahmid/peakbook/internal/upload"
)

// Server holds the router and its configuration.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
}

// New builds the full dependency graph and the route table.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	users := store.NewUsers(cfg.UsersFile())
	mountains := store.NewMountains(cfg.MountainsFile())
	stager := upload.NewStager(cfg.StagingDir())
	files := upload.NewRoot(cfg.UploadDir)

	authService := service.NewAuthService(users, tokens, passwords, files, logger)
	userService := service.NewUserService(users, mountains, files, logger)
	mountainService := service.NewMountainService(mountains, users, files, logger)
	rankService := service.NewRankService(users, mountains, logger)
	searchService := service.NewSearchService(users, mountains, logger)

	authHandler := handler.NewAuthHandler(authService, stager, cfg.MaxPfpBytes, logger)
	userHandler := handler.NewUserHandler(userService, stager, cfg.MaxPfpBytes, logger)
	mountainHandler := handler.NewMountainHandler(mountainService, stager, cfg.MaxImageBytes, logger)
	rankHandler := handler.NewRankHandler(rankService, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))

	r.Route("/api", func(r chi.Router) {
		// Public routes.
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Get("/users/{username}", userHandler.HandlePublicProfile)
		r.Get("/mountains", mountainHandler.HandleList)
		r.Get("/ranks/highest-point", rankHandler.HandleHighestPoint)
		r.Get("/ranks/summited-count", rankHandler.HandleSummitedCount)
		r.Get("/search", searchHandler.HandleSearch)

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/users/{username}/pfp", userHandler.HandleUpdateProfileImage)

			r.Post("/users/wishlist", userHandler.HandleAddWishlist)
			r.Delete("/users/wishlist/{mountainId}", userHandler.HandleRemoveWishlist)
			r.Post("/users/summited", userHandler.HandleAddSummited)
			r.Delete("/users/summited/{mountainId}", userHandler.HandleRemoveSummited)

			r.Post("/mountains", mountainHandler.HandleCreate)
			r.Delete("/mountains/{id}", mountainHandler.HandleDelete)
			r.Patch("/mountains/{id}/images", mountainHandler.HandleAddImages)
			r.Delete("/admin/mountains/{mountainId}/pictures", mountainHandler.HandleDeletePicture)
		})
	})

	// Committed images are served back under the same relative paths the
	// records store. Each file server is rooted at its committed subtree, so
	// nothing outside it — the staging directory included — is reachable,
	// even through dot-dot paths.
	r.Handle("/uploads/mountains/*", http.StripPrefix("/uploads/mountains/",
		http.FileServer(http.Dir(cfg.MountainImagesDir()))))
	r.Handle("/uploads/pfp/*", http.StripPrefix("/uploads/pfp/",
		http.FileServer(http.Dir(cfg.ProfileImagesDir()))))

	return &Server{router: r, cfg: cfg, logger: logger}, nil
}

// Router exposes the mux, mainly for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully, giving in-flight requests up to 30 seconds to complete.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("dataDir", s.cfg.DataDir),
			slog.String("uploadDir", s.cfg.UploadDir),
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
