package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	alertdomain "github.com/gemdesk/inventory-service/internal/alert/domain"
	"github.com/gemdesk/inventory-service/internal/app"
	categoryhttp "github.com/gemdesk/inventory-service/internal/category/delivery/http"
	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	exportdomain "github.com/gemdesk/inventory-service/internal/export/domain"
	"github.com/gemdesk/inventory-service/internal/export/manager"
	itemhttp "github.com/gemdesk/inventory-service/internal/item/delivery/http"
	itemdomain "github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/kafka"
	"github.com/gemdesk/inventory-service/pkg/database"
	"github.com/gemdesk/inventory-service/pkg/logger"
	"github.com/gemdesk/inventory-service/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "inventory-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting inventory service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "inventorydb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&categorydomain.Category{},
		&itemdomain.InventoryItem{},
		&itemdomain.InventoryMovement{},
		&exportdomain.ExportJob{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka producer (optional; alerts degrade to log-only without it)
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to connect to Kafka, low stock events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
			logger.Logger.Info().Str("brokers", brokers).Msg("Kafka producer connected")
		}
	}

	// Redis client (optional; tree responses are served uncached without it)
	var redisClient *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to connect to Redis, tree caching disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
			logger.Logger.Info().Str("addr", addr).Msg("Redis connected")
		}
	}

	classifierCfg := classifierConfigFromEnv()
	exportOpts := manager.DefaultOptions(getEnv("EXPORT_DIR", "/tmp/inventory-exports"))
	if workers := getEnv("EXPORT_WORKERS", ""); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			exportOpts.Workers = n
		}
	}
	if timeout := getEnv("EXPORT_JOB_TIMEOUT", ""); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			exportOpts.StaleAfter = d
		}
	}

	// Initialize handlers with Wire DI
	handlers, err := app.InitializeHandlers(db, redisClient, publisher, classifierCfg, exportOpts)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handlers")
	}

	handlers.Exports.Start()
	defer handlers.Exports.Stop()

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8082")
	startHTTPServer(handlers, sqlDB, httpPort, exportOpts.Dir)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

// classifierConfigFromEnv loads the alert classification policy, falling back
// to defaults on malformed values
func classifierConfigFromEnv() alertdomain.ClassifierConfig {
	cfg := alertdomain.DefaultClassifierConfig()

	parse := func(key string, target *float64) {
		if raw := getEnv(key, ""); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				*target = v
			}
		}
	}
	parse("ALERT_CRITICAL_FRACTION", &cfg.CriticalFraction)
	parse("ALERT_LOW_FRACTION", &cfg.LowFraction)
	parse("ALERT_WARNING_FRACTION", &cfg.WarningFraction)

	if err := cfg.Validate(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Invalid classifier config, using defaults")
		return alertdomain.DefaultClassifierConfig()
	}
	return cfg
}

func startHTTPServer(handlers *app.Handlers, db *sql.DB, port string, exportDir string) {
	// Setup router
	router := mux.NewRouter()

	middlewareConfig := itemhttp.DefaultMiddlewareConfig()
	itemhttp.RegisterMiddlewares(router, middlewareConfig)

	// Register routes
	handlers.Category.RegisterRoutes(router, itemhttp.AdminMiddleware)
	handlers.Item.RegisterRoutes(router)
	handlers.Alert.RegisterRoutes(router)
	handlers.Export.RegisterRoutes(router, itemhttp.AdminMiddleware, exportDir)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			http.Error(w, `{"success":false,"error":"Database unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Inventory service is healthy"}`))
	}).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	categoryhttp.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// CORS middleware
	corsHandler := itemhttp.SetupCORS(middlewareConfig)

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Str("swagger_endpoint", "/swagger/").
		Msg("HTTP server started")

	go func() {
		if err := http.ListenAndServe(":"+port, corsHandler(router)); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
