package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/soundcrate/soundcrate/internal/auth"
	"github.com/soundcrate/soundcrate/internal/db"
	"github.com/soundcrate/soundcrate/internal/library"
	"github.com/soundcrate/soundcrate/internal/playlist"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr   string
	DB     *db.DB
	Auth   *auth.Manager
	Logger zerolog.Logger
}

// Server is the HTTP server for the JSON API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	auth     *auth.Manager
	logger   zerolog.Logger
}

// NewServer creates a new API server wired to the given database.
func NewServer(cfg ServerConfig) *Server {
	librarySvc := library.New(cfg.DB.Library(), cfg.DB.Users(), cfg.DB.Songs())
	playlistSvc := playlist.New(cfg.DB.Playlists())

	handlers := NewHandlers(
		cfg.DB.Users(),
		cfg.DB.Artists(),
		cfg.DB.Albums(),
		cfg.DB.Songs(),
		librarySvc,
		playlistSvc,
		cfg.Auth,
	)

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: handlers,
		auth:     cfg.Auth,
		logger:   cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API routes. Everything except /api/auth
// requires a bearer token.
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, http.StatusOK, map[string]string{
			"name":   "soundcrate",
			"status": "running",
		})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(s.auth))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Get("/{id}", h.GetUser)
				r.Put("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeleteUser)
			})

			r.Route("/artists", func(r chi.Router) {
				r.Get("/search", h.SearchArtists)
				r.Get("/", h.ListArtists)
				r.Get("/{id}", h.GetArtist)
				r.Post("/", h.CreateArtist)
				r.Put("/{id}", h.UpdateArtist)
				r.Delete("/{id}", h.DeleteArtist)
			})

			r.Route("/albums", func(r chi.Router) {
				r.Get("/", h.ListAlbums)
				r.Get("/{id}", h.GetAlbum)
				r.Get("/artist/{artistID}", h.ListAlbumsByArtist)
				r.Post("/", h.CreateAlbum)
				r.Put("/{id}", h.UpdateAlbum)
				r.Delete("/{id}", h.DeleteAlbum)
			})

			r.Route("/songs", func(r chi.Router) {
				r.Get("/search", h.SearchSongs)
				r.Get("/genre/{genre}", h.ListSongsByGenre)
				r.Get("/", h.ListSongs)
				r.Get("/{id}", h.GetSong)
				r.Post("/", h.CreateSong)
				r.Put("/{id}", h.UpdateSong)
				r.Delete("/{id}", h.DeleteSong)
			})

			r.Route("/library", func(r chi.Router) {
				r.Get("/{userID}", h.GetLibrary)
				r.Get("/{userID}/stats", h.GetLibraryStats)
				r.Get("/{userID}/songs/{songID}", h.CheckLibrarySong)
				r.Post("/{userID}/songs/{songID}", h.AddLibrarySong)
				r.Delete("/{userID}/songs/{songID}", h.RemoveLibrarySong)
				r.Put("/{userID}/songs/{songID}/rating", h.RateLibrarySong)
			})

			r.Route("/playlists", func(r chi.Router) {
				r.Get("/user/{userID}", h.ListUserPlaylists)
				r.Get("/{id}", h.GetPlaylist)
				r.Post("/", h.CreatePlaylist)
				r.Put("/{id}", h.UpdatePlaylist)
				r.Delete("/{id}", h.DeletePlaylist)
				r.Post("/{id}/songs/{songID}", h.AddPlaylistSong)
				r.Delete("/{id}/songs/{songID}", h.RemovePlaylistSong)
				r.Put("/{id}/reorder", h.ReorderPlaylist)
			})
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Error: "route not found"})
	})
}

// Router returns the configured router, mostly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info().Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info().Msg("server stopped")
	return nil
}
