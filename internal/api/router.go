package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sesmlabs/fabric/internal/api/handlers"
	mw "github.com/sesmlabs/fabric/internal/api/middleware"
	"github.com/sesmlabs/fabric/internal/buildconfig"
	"github.com/sesmlabs/fabric/internal/config"
	"github.com/sesmlabs/fabric/internal/domain"
	"github.com/sesmlabs/fabric/internal/service"
	"github.com/sesmlabs/fabric/internal/store"
)

// App holds the router and background services for lifecycle
// management.
type App struct {
	Router  *chi.Mux
	Fabric  *service.FabricService
	Sweeper *service.SweeperService

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires stores, services and handlers from config.
func NewApp(logger *zap.Logger) *App {
	clock := domain.SystemClock{}

	episodicStore := store.NewEpisodicStore()
	knowledgeStore := store.NewKnowledgeStore(config.TrustInitial(), config.TrustReinforcementRate())

	promoter := service.NewPromotionEngine(knowledgeStore,
		time.Duration(config.PromotionWindowSeconds())*time.Second, logger)

	fabricSvc := service.NewFabricService(episodicStore, knowledgeStore, promoter, clock,
		service.FabricConfig{
			DefaultTTL: time.Duration(config.DefaultTTLSeconds()) * time.Second,
			MinTTL:     time.Duration(config.MinTTLSeconds()) * time.Second,
			MaxTTL:     time.Duration(config.MaxTTLSeconds()) * time.Second,
		}, logger)

	sweeper := service.NewSweeperService(episodicStore, clock, logger)
	sweeper.SetInterval(time.Duration(config.SweepIntervalSeconds()) * time.Second)

	memoryHandler := handlers.NewMemoryHandler(fabricSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Fabric:    fabricSvc,
		Sweeper:   sweeper,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		// The dashboard is served from its own origin and polls both
		// lists every 2 seconds.
		AllowedOrigins: config.CORSAllowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.RequestIDHeader},
	}))
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler)
	r.Get("/metrics", app.metricsHandler())

	r.Route("/memory", func(r chi.Router) {
		r.Post("/write", memoryHandler.Write)
		r.Get("/episodic", memoryHandler.ListEpisodic)
		r.Get("/knowledge", memoryHandler.ListKnowledge)
		r.Get("/all", memoryHandler.ListAll)
		r.Get("/knowledge/{id}", memoryHandler.GetKnowledge)
		r.Delete("/knowledge/{id}", memoryHandler.DeleteKnowledge)
	})

	return app
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildconfig.Version(),
	})
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		writeJSON(w, http.StatusOK, map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": float64(memStats.Alloc) / 1024 / 1024,
				"sys_mb":   float64(memStats.Sys) / 1024 / 1024,
				"num_gc":   memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"version":    buildconfig.Version(),
			"commit":     buildconfig.Commit(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.EpisodicStore  = (*store.EpisodicStore)(nil)
	_ domain.KnowledgeStore = (*store.KnowledgeStore)(nil)
)
