package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gst-service/internal/config"
	"gst-service/internal/events"
	"gst-service/internal/handlers"
	"gst-service/internal/metrics"
	"gst-service/internal/middleware"
	"gst-service/internal/services"
	"gst-service/internal/validation"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration and logger
	cfg := config.Load()
	logger := cfg.NewLogger()
	if envErr != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	// Register field validators as binding tags
	if err := validation.RegisterBindings(); err != nil {
		logger.Fatalf("Failed to register validators: %v", err)
	}

	// Initialize metrics
	serviceMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Initialize event publisher (optional - service works without NATS)
	var publisher services.EventPublisher
	var natsPublisher *events.Publisher
	if cfg.NATSURL != "" {
		p, err := events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Warnf("Failed to initialize event publisher: %v. Events will not be published.", err)
		} else {
			natsPublisher = p
			publisher = p
			logger.Info("Event publisher initialized")
		}
	} else {
		logger.Info("NATS_URL not configured, event publishing disabled")
	}

	// Initialize services
	taxCalculator := services.NewTaxCalculator(logger, serviceMetrics, publisher)

	// Initialize handlers
	taxHandler := handlers.NewTaxHandler(taxCalculator, serviceMetrics)

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, logger, taxHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("GST service starting on port %s (env: %s)", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	if natsPublisher != nil {
		natsPublisher.Close()
	}

	logger.Info("Server shutdown complete")
}

// setupRouter configures the HTTP router
func setupRouter(cfg *config.Config, logger *logrus.Logger, taxHandler *handlers.TaxHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	// Health checks
	router.GET("/health", handlers.HealthCheck)
	router.GET("/livez", handlers.LivenessCheck)
	router.GET("/readyz", handlers.ReadinessCheck)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		tax := v1.Group("/tax")
		{
			tax.POST("/compute", taxHandler.CalculateTax)
		}

		bills := v1.Group("/bills")
		{
			bills.POST("/eligibility", taxHandler.CheckBillEligibility)
		}

		v1.GET("/identifiers/:id", taxHandler.GetIdentifier)

		v1.POST("/validate", taxHandler.ValidateFields)
		v1.POST("/validate/:field", taxHandler.ValidateField)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	return corsCfg
}
