// Package schema: safe database initialization — create only missing tables, never drop or overwrite.

package schema

import (
	"database/sql"

	"bizledger/logger"
)

type tableDef struct {
	name string
	ddl  string
}

// Ordered so foreign-key targets come first.
var tables = []tableDef{
	{"category_rules", `
CREATE TABLE IF NOT EXISTS category_rules (
    tenant_id VARCHAR(64) PRIMARY KEY,
    alpha_days INT NOT NULL,
    beta_days INT NOT NULL,
    gamma_days INT NOT NULL,
    delta_days INT NOT NULL,
    partial_payment_threshold_percent DECIMAL(5, 2) NOT NULL,
    grace_days INT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"followup_rules", `
CREATE TABLE IF NOT EXISTS followup_rules (
    tenant_id VARCHAR(64) PRIMARY KEY,
    alpha_days INT NOT NULL,
    beta_days INT NOT NULL,
    gamma_days INT NOT NULL,
    delta_days INT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"recovery_settings", `
CREATE TABLE IF NOT EXISTS recovery_settings (
    tenant_id VARCHAR(64) PRIMARY KEY,
    auto_upgrade_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"customers", `
CREATE TABLE IF NOT EXISTS customers (
    customer_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    tenant_id VARCHAR(64) NOT NULL,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NULL,
    phone VARCHAR(30) NULL,
    credit_limit DECIMAL(14, 2) NOT NULL DEFAULT 0,
    category ENUM('alpha', 'beta', 'gamma', 'delta') NOT NULL DEFAULT 'alpha',
    category_manual BOOLEAN NOT NULL DEFAULT FALSE,
    last_follow_up_at TIMESTAMP NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    INDEX idx_customers_tenant (tenant_id),
    INDEX idx_customers_tenant_category (tenant_id, category)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"leads", `
CREATE TABLE IF NOT EXISTS leads (
    lead_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    tenant_id VARCHAR(64) NOT NULL,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NULL,
    phone VARCHAR(30) NULL,
    source VARCHAR(100) NULL,
    notes TEXT NULL,
    status ENUM('new', 'contacted', 'qualified', 'converted', 'lost') NOT NULL DEFAULT 'new',
    converted_customer_id BIGINT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    FOREIGN KEY (converted_customer_id) REFERENCES customers(customer_id) ON DELETE SET NULL,
    INDEX idx_leads_tenant (tenant_id),
    INDEX idx_leads_tenant_status (tenant_id, status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"invoices", `
CREATE TABLE IF NOT EXISTS invoices (
    invoice_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    tenant_id VARCHAR(64) NOT NULL,
    invoice_number VARCHAR(50) UNIQUE NOT NULL,
    customer_id BIGINT NOT NULL,
    status ENUM('open', 'partial', 'paid', 'void') NOT NULL DEFAULT 'open',
    total DECIMAL(14, 2) NOT NULL,
    paid_amount DECIMAL(14, 2) NOT NULL DEFAULT 0,
    issue_date TIMESTAMP NOT NULL,
    due_date TIMESTAMP NOT NULL,
    paid_at TIMESTAMP NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id) ON DELETE RESTRICT,
    INDEX idx_invoices_tenant (tenant_id),
    INDEX idx_invoices_tenant_status (tenant_id, status),
    INDEX idx_invoices_due_date (due_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"quotations", `
CREATE TABLE IF NOT EXISTS quotations (
    quotation_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    tenant_id VARCHAR(64) NOT NULL,
    quotation_number VARCHAR(50) UNIQUE NOT NULL,
    customer_id BIGINT NOT NULL,
    status ENUM('draft', 'sent', 'accepted', 'declined') NOT NULL DEFAULT 'draft',
    total DECIMAL(14, 2) NOT NULL,
    invoice_id BIGINT NULL,
    valid_until TIMESTAMP NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id) ON DELETE RESTRICT,
    FOREIGN KEY (invoice_id) REFERENCES invoices(invoice_id) ON DELETE SET NULL,
    INDEX idx_quotations_tenant (tenant_id),
    INDEX idx_quotations_tenant_status (tenant_id, status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"quotation_items", `
CREATE TABLE IF NOT EXISTS quotation_items (
    item_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    quotation_id BIGINT NOT NULL,
    description VARCHAR(500) NOT NULL,
    quantity DECIMAL(12, 3) NOT NULL,
    unit_price DECIMAL(14, 2) NOT NULL,
    amount DECIMAL(14, 2) NOT NULL,
    FOREIGN KEY (quotation_id) REFERENCES quotations(quotation_id) ON DELETE CASCADE,
    INDEX idx_quotation_items_quotation (quotation_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"receipts", `
CREATE TABLE IF NOT EXISTS receipts (
    receipt_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    tenant_id VARCHAR(64) NOT NULL,
    receipt_number VARCHAR(50) UNIQUE NOT NULL,
    invoice_id BIGINT NOT NULL,
    amount DECIMAL(14, 2) NOT NULL,
    method VARCHAR(50) NULL,
    received_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (invoice_id) REFERENCES invoices(invoice_id) ON DELETE RESTRICT,
    INDEX idx_receipts_tenant (tenant_id),
    INDEX idx_receipts_invoice (invoice_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"follow_up_log", `
CREATE TABLE IF NOT EXISTS follow_up_log (
    follow_up_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    tenant_id VARCHAR(64) NOT NULL,
    customer_id BIGINT NOT NULL,
    invoice_id BIGINT NULL,
    channel ENUM('email', 'whatsapp', 'call') NOT NULL,
    notes TEXT NULL,
    logged_by BIGINT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id) ON DELETE CASCADE,
    INDEX idx_follow_up_log_tenant_customer (tenant_id, customer_id),
    INDEX idx_follow_up_log_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"communication_templates", `
CREATE TABLE IF NOT EXISTS communication_templates (
    template_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    tenant_id VARCHAR(64) NOT NULL,
    name VARCHAR(255) NOT NULL,
    channel ENUM('email', 'whatsapp', 'call') NOT NULL,
    subject VARCHAR(500) NULL,
    body TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    INDEX idx_templates_tenant_channel (tenant_id, channel)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"roles", `
CREATE TABLE IF NOT EXISTS roles (
    role_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    tenant_id VARCHAR(64) NOT NULL,
    name VARCHAR(100) NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    matrix JSON NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uq_roles_tenant_name (tenant_id, name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},

	{"table_preferences", `
CREATE TABLE IF NOT EXISTS table_preferences (
    user_id BIGINT NOT NULL,
    tenant_id VARCHAR(64) NOT NULL,
    table_key VARCHAR(100) NOT NULL,
    payload JSON NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, tenant_id, table_key)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
}

// InitializeDatabase ensures all tables exist. Checks
// INFORMATION_SCHEMA.TABLES and creates only the missing ones; it never
// drops, recreates or removes data.
func InitializeDatabase(db *sql.DB) {
	for _, t := range tables {
		exists, err := tableExists(db, t.name)
		if err != nil {
			logger.Log.Fatalf("[SCHEMA] Failed to check if table %s exists: %v", t.name, err)
		}
		if exists {
			logger.Log.Debugf("[SCHEMA] %s table exists", t.name)
			continue
		}
		if _, err := db.Exec(t.ddl); err != nil {
			logger.Log.Fatalf("[SCHEMA] Failed to create table %s: %v", t.name, err)
		}
		logger.Log.Infof("[SCHEMA] created %s table", t.name)
	}
}

func tableExists(db *sql.DB, table string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM information_schema.TABLES
		 WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`,
		table,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
