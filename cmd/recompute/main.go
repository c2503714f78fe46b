// recompute runs one category recompute pass outside the nightly schedule.
// Usage: from project root, run: go run ./cmd/recompute [tenant-id]
// With no argument it recomputes every tenant that has rules configured.
// Requires .env (or env) with DB_* settings.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"bizledger/config"
	"bizledger/repository"
	"bizledger/schema"
	"bizledger/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found")
	}
	cfg := config.LoadConfig()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("DB open: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("DB ping: %v", err)
	}
	schema.ValidateRequiredColumns(db, nil)

	// No redis: the one-shot tool runs uncached and unlocked.
	rulesRepo := repository.NewRulesRepository(db, nil)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	followUpRepo := repository.NewFollowUpRepository(db)
	debtorService := service.NewDebtorService(invoiceRepo, customerRepo, rulesRepo, followUpRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	now := time.Now().UTC()

	var tenants []string
	if len(os.Args) > 1 {
		tenants = []string{os.Args[1]}
	} else {
		tenants, err = rulesRepo.ListTenantIDs(ctx)
		if err != nil {
			log.Fatalf("List tenants: %v", err)
		}
	}

	for _, tenantID := range tenants {
		result, err := debtorService.Recompute(ctx, tenantID, now)
		if err != nil {
			log.Printf("tenant %s: recompute failed: %v", tenantID, err)
			continue
		}
		fmt.Printf("tenant %s: evaluated=%d excluded=%d upgraded=%d unchanged=%d advisory=%t\n",
			tenantID, result.Evaluated, result.Excluded, result.Upgraded, result.Unchanged, result.Advisory)
	}
}
