package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"bizledger/config"
	"bizledger/logger"
	"bizledger/notification"
	"bizledger/repository"
	"bizledger/routes"
	"bizledger/schema"
	"bizledger/service"
	"bizledger/worker"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := config.LoadConfig()
	logger.Init(&cfg.Log)

	// Initialize database connection (UTC for consistent timestamps)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		logger.Log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Log.Info("Database connection established")

	// Create missing tables, then verify the columns the recompute job needs
	schema.InitializeDatabase(db)
	schema.ValidateRequiredColumns(db, nil)

	// Redis backs the rules cache and the recompute job lock. The service
	// degrades to uncached, unlocked operation without it.
	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Log.Infof("Redis configured at %s", cfg.Redis.Address)
	} else {
		logger.Log.Warn("REDIS_ADDR not set, running without rules cache or job lock")
	}

	// Initialize repositories
	rulesRepo := repository.NewRulesRepository(db, rdb)
	customerRepo := repository.NewCustomerRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	followUpRepo := repository.NewFollowUpRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	roleRepo := repository.NewRoleRepository(db)

	// Initialize services
	rulesService := service.NewRulesService(rulesRepo, roleRepo)
	roleService := service.NewRoleService(roleRepo)
	customerService := service.NewCustomerService(customerRepo, rulesRepo)
	leadService := service.NewLeadService(leadRepo, customerRepo)
	quotationService := service.NewQuotationService(quotationRepo, invoiceRepo, customerRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo)
	debtorService := service.NewDebtorService(invoiceRepo, customerRepo, rulesRepo, followUpRepo)
	exportService := service.NewExportService(debtorService)

	dispatcher := notification.NewWebhookDispatcher(
		cfg.Channel.WebhookURL,
		time.Duration(cfg.Channel.TimeoutSeconds)*time.Second,
	)
	templateService := service.NewTemplateService(templateRepo, customerRepo, invoiceRepo, dispatcher)

	// Background jobs: nightly recompute plus the follow-up due scan
	recomputeWorker := worker.NewRecomputeWorker(
		debtorService,
		rulesRepo,
		rdb,
		cfg.Jobs.RecomputeCron,
		cfg.Jobs.FollowupScanCron,
		time.Duration(cfg.Jobs.LockTTLSeconds)*time.Second,
	)
	if err := recomputeWorker.Start(); err != nil {
		logger.Log.Fatalf("Failed to start recompute worker: %v", err)
	}
	defer recomputeWorker.Stop()

	// Setup routes
	router := routes.SetupRoutes(
		cfg.Auth.JWTSecret,
		leadService,
		quotationService,
		customerService,
		invoiceService,
		debtorService,
		exportService,
		templateService,
		rulesService,
		roleService,
	)

	// Add CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Log.Infof("Server starting on %s", addr)
	logger.Log.Fatal(http.ListenAndServe(addr, corsHandler(router)))
}
