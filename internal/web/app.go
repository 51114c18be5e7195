// Package web serves the browser UI: upload a workbook, pick a sheet,
// filter rows, configure a pivot and download the result.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ukaji3/expivot-go/internal/config"
	"github.com/ukaji3/expivot-go/pkg/expivot/output"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App represents the UI application
type App struct {
	cfg       config.Config
	router    *chi.Mux
	uploads   *uploadStore
	templates *template.Template
}

// NewApp creates a new UI application
func NewApp(cfg config.Config) (*App, error) {
	funcMap := template.FuncMap{
		"selected":    selected,
		"columnLabel": output.ColumnLabel,
		"add":         func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		cfg:       cfg,
		router:    chi.NewRouter(),
		uploads:   newUploadStore(cfg.MaxUploads, cfg.UploadTTL),
		templates: templates,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[web] listening on %s", a.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/upload", a.handleUpload)
	a.router.Get("/w/{id}", a.handleWorkspace)
	a.router.Get("/w/{id}/export.csv", a.handleExport)
	a.router.Get("/healthz", a.handleHealth)
}
