package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/notequiz/backend/internal/config"
	"github.com/notequiz/backend/internal/generator"
	"github.com/notequiz/backend/internal/metrics"
	"github.com/notequiz/backend/internal/middleware"
	"github.com/notequiz/backend/internal/questions"
	"github.com/notequiz/backend/internal/tracing"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Service *questions.Service
	Router  *mux.Router
}

// NewService wires the configured model client into a question service.
func NewService(cfg *config.Config, log *zap.Logger) (*questions.Service, error) {
	llm, err := generator.NewLLMClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	gen := generator.NewGenerator(llm, generator.Options{
		Model:          cfg.LLM.Model,
		TopicsPerBatch: cfg.Generation.TopicsPerBatch,
		AvoidLimit:     cfg.Generation.AvoidLimit,
	}, log.Named("generator"))
	log.Info("llm client ready", zap.String("provider", cfg.LLM.Provider), zap.String("model", gen.ModelName()))
	return questions.NewService(gen, gen, cfg.Generation, log.Named("questions")), nil
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	svc, err := NewService(cfg, log)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	svc.SetMetrics(m)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(tracing.Middleware)
	r.Use(m.Middleware)
	r.Use(middleware.Logger(log.Named("http")))

	questions.NewHandler(svc, log.Named("handler")).RegisterRoutes(r)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", m.Handler()).Methods("GET")

	return &App{Config: cfg, Log: log, Metrics: m, Service: svc, Router: r}, nil
}

// Handler wraps the router in CORS.
func (a *App) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})
	return c.Handler(a.Router)
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server starting", zap.String("addr", srv.Addr), zap.String("provider", a.Config.LLM.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	a.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
