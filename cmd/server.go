package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/newrelic/go-agent/v3/integrations/nrgorilla"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"example.com/logistics/services/odv/internal/api"
	"example.com/logistics/services/odv/internal/cache"
	"example.com/logistics/services/odv/internal/db"
	"example.com/logistics/services/odv/internal/messagebus"
	"example.com/logistics/services/odv/internal/metrics"
	"example.com/logistics/services/odv/internal/model"
	"example.com/logistics/services/odv/internal/repository"
	"example.com/logistics/services/odv/internal/search"
	"example.com/logistics/services/odv/internal/service"
	"example.com/logistics/services/odv/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		// Load configuration
		cfg, err := loadConfig()
		if err != nil {
			logrus.Fatalf("Failed to load configuration: %v", err)
		}

		// Setup logger
		logger := logrus.New()
		if cfg.Logging.JSON {
			logger.SetFormatter(&logrus.JSONFormatter{})
		} else {
			logger.SetFormatter(&logrus.TextFormatter{
				FullTimestamp: true,
			})
		}

		// Set log level
		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)

		// Connect to database
		dbConn, err := db.Connect(&cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}

		// Run migrations
		if err := db.Migrate(dbConn); err != nil {
			logger.Fatalf("Failed to run database migrations: %v", err)
		}

		// Initialize cache
		cacheClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}

		// Initialize message bus
		messageBusClient, err := messagebus.NewClient(&cfg.ServiceBus)
		if err != nil {
			logger.Fatalf("Failed to initialize message bus: %v", err)
		}

		// Initialize search
		searchClient, err := search.NewClient(cfg.Elasticsearch)
		if err != nil {
			logger.Fatalf("Failed to initialize Elasticsearch: %v", err)
		}

		// Initialize New Relic
		nrApp, err := telemetry.InitNewRelic(cfg.NewRelic)
		if err != nil {
			logger.Warnf("Failed to initialize New Relic: %v", err)
		}

		// Create repositories
		servicioRepo := repository.NewServicioRepository(dbConn)
		catalogRepo := repository.NewCatalogRepository(dbConn)

		// Create services
		servicioService := service.NewServicioService(
			servicioRepo,
			catalogRepo,
			cacheClient,
			messageBusClient,
			searchClient,
			cfg.ServiceBus.ERPQueue,
		)
		catalogService := service.NewCatalogService(catalogRepo, cacheClient)

		// Create API handler
		handler := api.NewHandler(servicioService, catalogService)

		// Refresh workload gauges in the background
		gaugeCtx, stopGauges := context.WithCancel(context.Background())
		defer stopGauges()
		go refreshGauges(gaugeCtx, servicioRepo, logger)

		// Create middleware
		middleware := api.NewMiddleware(logger)

		// Create router
		router := mux.NewRouter()

		// Apply middleware
		if nrApp != nil {
			router.Use(nrgorilla.Middleware(nrApp))
		}
		router.Use(middleware.Logger)
		router.Use(middleware.Recover)
		router.Use(middleware.CORS(cfg.Server.CorsWhiteList))
		router.Use(api.MetricsMiddleware)

		// Register routes
		handler.RegisterRoutes(router.PathPrefix("/api/v1").Subrouter())

		// Setup server
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		server := &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		// Start server in a goroutine
		go func() {
			logger.Infof("Starting server on %s", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatalf("Failed to start server: %v", err)
			}
		}()

		// Wait for interrupt signal
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		// Create context with timeout for graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Shutdown server
		logger.Info("Shutting down server...")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Fatalf("Server shutdown failed: %v", err)
		}

		// Close message bus
		if err := messageBusClient.Close(shutdownCtx); err != nil {
			logger.Fatalf("Message bus closure failed: %v", err)
		}

		logger.Info("Server shutdown complete")
	},
}

// refreshGauges periodically updates the workload gauges exposed on the
// metrics endpoint
func refreshGauges(ctx context.Context, repo repository.ServicioRepository, logger *logrus.Logger) {
	collector := metrics.GetMetricsCollector()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		activos, err := repo.FindByEstado(ctx, model.EstadoEnProceso)
		if err != nil {
			logger.WithError(err).Warn("Failed to refresh servicios activos gauge")
		} else {
			collector.SetServiciosActivos(len(activos))
		}

		porValidar, err := repo.FindByEstado(ctx, model.EstadoPorValidar)
		if err != nil {
			logger.WithError(err).Warn("Failed to refresh pendiente devolucion gauge")
		} else {
			pendientes := 0
			for _, s := range porValidar {
				if s.PendienteDevolucion {
					pendientes++
				}
			}
			collector.SetPendientesDevolucion(pendientes)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
