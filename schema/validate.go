package schema

import (
	"database/sql"
	"strings"

	"bizledger/logger"
)

// RequiredColumn defines a required column for a table.
type RequiredColumn struct {
	Table  string
	Column string
}

// DefaultRequiredColumns returns the columns the recompute job cannot run
// without. Deployments that predate the recovery settings tables fail fast
// here instead of at 2am when the cron fires.
var DefaultRequiredColumns = []RequiredColumn{
	{Table: "category_rules", Column: "partial_payment_threshold_percent"},
	{Table: "category_rules", Column: "grace_days"},
	{Table: "customers", Column: "category_manual"},
	{Table: "customers", Column: "last_follow_up_at"},
	{Table: "recovery_settings", Column: "auto_upgrade_enabled"},
}

// ValidateRequiredColumns checks that all required columns exist. On failure,
// logs a fatal error listing missing columns.
func ValidateRequiredColumns(db *sql.DB, required []RequiredColumn) {
	if len(required) == 0 {
		required = DefaultRequiredColumns
	}
	var missing []string
	for _, rc := range required {
		exists, err := columnExists(db, rc.Table, rc.Column)
		if err != nil {
			logger.Log.Fatalf("[SCHEMA] Failed to check column %s.%s: %v", rc.Table, rc.Column, err)
		}
		if !exists {
			missing = append(missing, rc.Table+"."+rc.Column)
		}
	}
	if len(missing) > 0 {
		logger.Log.Fatalf("[SCHEMA] Missing required columns (run migrations to fix): %s", strings.Join(missing, ", "))
	}
	logger.Log.Info("[SCHEMA] Required columns verified")
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM information_schema.COLUMNS
		 WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
