package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/calc3d/internal/bootstrap"
	"github.com/Simplici0/calc3d/internal/config"
	"github.com/Simplici0/calc3d/internal/logging"
	"github.com/Simplici0/calc3d/internal/pricing"
	"github.com/Simplici0/calc3d/internal/quote"
	"github.com/Simplici0/calc3d/internal/settings"
	"github.com/Simplici0/calc3d/web"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	settings *settings.Repository
	signer   *quote.Signer
	logger   *zap.Logger
	now      func() time.Time
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open settings store", zap.Error(err))
	}
	defer store.Close()

	secret := cfg.QuoteSecret
	if secret == "" {
		if secret, err = quote.RandomSecret(); err != nil {
			logger.Fatal("failed to generate quote secret", zap.Error(err))
		}
		logger.Warn("QUOTE_SECRET not set, export links will not survive a restart")
	}

	srv := &server{
		settings: settings.NewRepository(store, logger),
		signer:   quote.NewSigner(secret),
		logger:   logger,
		now:      time.Now,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("backend", cfg.SettingsBackend))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handleHome)
	r.Post("/quote/calc", s.handleQuoteCalc)
	r.Post("/quote/export/{format}", s.handleQuoteExport)
	r.Get("/settings", s.handleSettingsForm)
	r.Post("/settings", s.handleSettingsSubmit)
	r.Post("/settings/reset", s.handleSettingsReset)
	r.Get("/healthz", s.handleHealth)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

var templateFuncs = template.FuncMap{
	"currency": pricing.FormatCurrency,
	"number":   pricing.FormatNumber2,
	"percent":  func(v float64) string { return pricing.FormatNumber(v, 1) },
	"signed": func(v float64) string {
		if v > 0 {
			return "+" + pricing.FormatPercent(v)
		}
		return pricing.FormatPercent(v)
	},
}

// renderTemplate writes page inside the layout. Callers set a non-200 status
// with WriteHeader before calling it.
func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(web.Templates,
		"templates/layout.html",
		"templates/partials.html",
		"templates/"+page,
	)
	if err != nil {
		s.logger.Error("failed to parse template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error("failed to render template", zap.String("page", page), zap.Error(err))
	}
}
