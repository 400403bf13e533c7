// Package api exposes the suggestion engine over HTTP for editors and
// dashboards that cannot embed the Go library directly.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

// RefreshFunc reloads the engine's schema from its configured source and
// reports which source served it.
type RefreshFunc func(ctx context.Context, force bool) (source string, err error)

// Server is the HTTP suggestion server.
type Server struct {
	engine     *kql.Engine
	refresh    RefreshFunc
	schemaFile string
	addr       string
	logger     *slog.Logger
}

// Config holds configuration for the suggestion server.
type Config struct {
	Engine *kql.Engine
	// Refresh is called to reload the schema, both for POST /schema/refresh
	// and when the watched schema file changes. Optional.
	Refresh RefreshFunc
	// SchemaFile enables hot reload: when set, the server watches the file
	// and refreshes the schema on change.
	SchemaFile string
	Addr       string
	Logger     *slog.Logger
}

// NewServer creates a new suggestion server instance.
func NewServer(cfg Config) *Server {
	return &Server{
		engine:     cfg.Engine,
		refresh:    cfg.Refresh,
		schemaFile: cfg.SchemaFile,
		addr:       cfg.Addr,
		logger:     cfg.Logger,
	}
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting suggestion server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	handlers := NewHandlers(s.engine, s.refresh, s.logger)
	SetupRoutes(r, handlers)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start schema file watcher if configured
	if s.schemaFile != "" && s.refresh != nil {
		eg.Go(func() error {
			return s.watchSchemaFile(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down suggestion server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchSchemaFile reloads the schema when the configured file changes.
// The watch is registered on the parent directory: editors that save via
// rename would otherwise drop a watch placed on the file itself.
func (s *Server) watchSchemaFile(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(s.schemaFile)); err != nil {
		s.logger.Error("failed to watch schema file", "file", s.schemaFile, "error", err)
		// Don't fail - continue without watching
	}

	target, err := filepath.Abs(s.schemaFile)
	if err != nil {
		target = s.schemaFile
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			name, err := filepath.Abs(event.Name)
			if err != nil {
				name = event.Name
			}
			if name != target {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("schema file changed, reloading", "file", event.Name)

				source, err := s.refresh(ctx, true)
				if err != nil {
					s.logger.Error("schema reload failed", "error", err)
					return
				}
				s.logger.Info("schema reloaded", "source", source)
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}
