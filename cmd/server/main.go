package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "github.com/assignon/verzendconnect/internal/api/http"
	"github.com/assignon/verzendconnect/internal/availability"
	"github.com/assignon/verzendconnect/internal/config"
	"github.com/assignon/verzendconnect/internal/jobs"
	"github.com/assignon/verzendconnect/internal/logger"
	"github.com/assignon/verzendconnect/internal/repository"
	"github.com/assignon/verzendconnect/internal/repository/memory"
	"github.com/assignon/verzendconnect/internal/repository/postgres"
	"github.com/assignon/verzendconnect/internal/scheduler"
	"github.com/assignon/verzendconnect/internal/service"
)

type repositories struct {
	items         repository.ItemRepository
	records       repository.RecordRepository
	movements     repository.MovementRepository
	notifications repository.NotificationRepository
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	_ = godotenv.Load() // Load .env file if it exists

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting rental inventory service...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Rental configuration", "default_min_lead_days", cfg.Rental.DefaultMinLeadDays)

	// Initialize storage backend
	var repos repositories
	switch cfg.Storage.Type {
	case "memory":
		logger.Info("Using in-memory storage")
		store := memory.NewStore()
		repos = repositories{
			items:         store.ItemRepository,
			records:       store.RecordRepository,
			movements:     store.MovementRepository,
			notifications: store.NotificationRepository,
		}
	default:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		repos = repositories{
			items:         store.ItemRepository,
			records:       store.RecordRepository,
			movements:     store.MovementRepository,
			notifications: store.NotificationRepository,
		}
	}

	// Initialize Services
	availCfg := availability.Config{DefaultMinLeadDays: cfg.Rental.DefaultMinLeadDays}
	itemSvc := service.NewItemService(repos.items, repos.movements)
	rentalSvc := service.NewRentalService(availCfg, repos.items, repos.records, repos.notifications)
	noteSvc := service.NewNotificationService(repos.notifications)

	// Start the overdue-detection schedule alongside the server
	jobRunner := jobs.NewJobRunner(rentalSvc, repos.notifications, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Set up HTTP server
	router := httpapi.NewRouter(itemSvc, rentalSvc, noteSvc)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
