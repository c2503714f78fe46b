package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"bizledger/handler"
	"bizledger/middleware"
	"bizledger/models"
	"bizledger/service"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	jwtSecret string,
	leadService *service.LeadService,
	quotationService *service.QuotationService,
	customerService *service.CustomerService,
	invoiceService *service.InvoiceService,
	debtorService *service.DebtorService,
	exportService *service.ExportService,
	templateService *service.TemplateService,
	rulesService *service.RulesService,
	roleService *service.RoleService,
) *mux.Router {
	router := mux.NewRouter()

	// Initialize handlers
	leadHandler := handler.NewLeadHandler(leadService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	customerHandler := handler.NewCustomerHandler(customerService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	debtorHandler := handler.NewDebtorHandler(debtorService, exportService)
	templateHandler := handler.NewTemplateHandler(templateService)
	settingsHandler := handler.NewSettingsHandler(rulesService)
	roleHandler := handler.NewRoleHandler(roleService)

	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)
	rbac := middleware.NewRBACMiddleware(roleService)

	// protect wraps a handler with authentication plus a permission check
	protect := func(module models.Module, action models.Action, fn http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAuth(rbac.RequirePermission(module, action)(fn))
	}

	// Health check (unauthenticated)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	apiV1 := router.PathPrefix("/api/v1").Subrouter()

	// Lead routes
	leads := apiV1.PathPrefix("/leads").Subrouter()
	leads.Handle("", protect(models.ModuleLeads, models.ActionView, leadHandler.ListLeads)).Methods("GET")
	leads.Handle("", protect(models.ModuleLeads, models.ActionCreate, leadHandler.CreateLead)).Methods("POST")
	leads.Handle("/{id}", protect(models.ModuleLeads, models.ActionView, leadHandler.GetLead)).Methods("GET")
	leads.Handle("/{id}/status", protect(models.ModuleLeads, models.ActionUpdate, leadHandler.UpdateLeadStatus)).Methods("POST")

	// Quotation routes. Accepting a quotation creates its invoice.
	quotations := apiV1.PathPrefix("/quotations").Subrouter()
	quotations.Handle("", protect(models.ModuleQuotations, models.ActionView, quotationHandler.ListQuotations)).Methods("GET")
	quotations.Handle("", protect(models.ModuleQuotations, models.ActionCreate, quotationHandler.CreateQuotation)).Methods("POST")
	quotations.Handle("/{id}", protect(models.ModuleQuotations, models.ActionView, quotationHandler.GetQuotation)).Methods("GET")
	quotations.Handle("/{id}/status", protect(models.ModuleQuotations, models.ActionUpdate, quotationHandler.UpdateQuotationStatus)).Methods("POST")

	// Customer routes
	customers := apiV1.PathPrefix("/customers").Subrouter()
	customers.Handle("", protect(models.ModuleCustomers, models.ActionView, customerHandler.ListCustomers)).Methods("GET")
	customers.Handle("", protect(models.ModuleCustomers, models.ActionCreate, customerHandler.CreateCustomer)).Methods("POST")
	customers.Handle("/{id}", protect(models.ModuleCustomers, models.ActionView, customerHandler.GetCustomer)).Methods("GET")
	customers.Handle("/{id}/category", protect(models.ModuleCustomers, models.ActionUpdate, customerHandler.SetCategory)).Methods("PUT")
	customers.Handle("/{id}/followups", protect(models.ModuleDebtors, models.ActionView, debtorHandler.ListFollowUps)).Methods("GET")
	customers.Handle("/{id}/followups", protect(models.ModuleDebtors, models.ActionCreate, debtorHandler.LogFollowUp)).Methods("POST")

	// Invoice and receipt routes
	invoices := apiV1.PathPrefix("/invoices").Subrouter()
	invoices.Handle("", protect(models.ModuleInvoices, models.ActionView, invoiceHandler.ListInvoices)).Methods("GET")
	invoices.Handle("", protect(models.ModuleInvoices, models.ActionCreate, invoiceHandler.CreateInvoice)).Methods("POST")
	invoices.Handle("/{id}", protect(models.ModuleInvoices, models.ActionView, invoiceHandler.GetInvoice)).Methods("GET")
	invoices.Handle("/{id}/void", protect(models.ModuleInvoices, models.ActionDelete, invoiceHandler.VoidInvoice)).Methods("POST")
	invoices.Handle("/{id}/receipts", protect(models.ModuleReceipts, models.ActionView, invoiceHandler.ListReceipts)).Methods("GET")
	invoices.Handle("/{id}/receipts", protect(models.ModuleReceipts, models.ActionCreate, invoiceHandler.RecordReceipt)).Methods("POST")

	// Debtor routes
	debtors := apiV1.PathPrefix("/debtors").Subrouter()
	debtors.Handle("", protect(models.ModuleDebtors, models.ActionView, debtorHandler.ListDebtors)).Methods("GET")
	debtors.Handle("/export", protect(models.ModuleDebtors, models.ActionView, debtorHandler.ExportDebtors)).Methods("GET")
	debtors.Handle("/recompute", protect(models.ModuleDebtors, models.ActionUpdate, debtorHandler.Recompute)).Methods("POST")

	// Communication template routes
	templates := apiV1.PathPrefix("/templates").Subrouter()
	templates.Handle("", protect(models.ModuleTemplates, models.ActionView, templateHandler.ListTemplates)).Methods("GET")
	templates.Handle("", protect(models.ModuleTemplates, models.ActionCreate, templateHandler.CreateTemplate)).Methods("POST")
	templates.Handle("/{id}", protect(models.ModuleTemplates, models.ActionView, templateHandler.GetTemplate)).Methods("GET")
	templates.Handle("/{id}", protect(models.ModuleTemplates, models.ActionUpdate, templateHandler.UpdateTemplate)).Methods("PUT")
	templates.Handle("/{id}", protect(models.ModuleTemplates, models.ActionDelete, templateHandler.DeleteTemplate)).Methods("DELETE")
	templates.Handle("/{id}/send", protect(models.ModuleTemplates, models.ActionCreate, templateHandler.SendTemplate)).Methods("POST")

	// Settings routes (category rules, follow-up cadence, recovery settings)
	settings := apiV1.PathPrefix("/settings").Subrouter()
	settings.Handle("/provision", protect(models.ModuleSettings, models.ActionCreate, settingsHandler.ProvisionTenant)).Methods("POST")
	settings.Handle("/category-rules", protect(models.ModuleSettings, models.ActionView, settingsHandler.GetCategoryRules)).Methods("GET")
	settings.Handle("/category-rules", protect(models.ModuleSettings, models.ActionUpdate, settingsHandler.UpdateCategoryRules)).Methods("PUT")
	settings.Handle("/followup-rules", protect(models.ModuleSettings, models.ActionView, settingsHandler.GetFollowupRules)).Methods("GET")
	settings.Handle("/followup-rules", protect(models.ModuleSettings, models.ActionUpdate, settingsHandler.UpdateFollowupRules)).Methods("PUT")
	settings.Handle("/recovery", protect(models.ModuleSettings, models.ActionView, settingsHandler.GetRecoverySettings)).Methods("GET")
	settings.Handle("/recovery", protect(models.ModuleSettings, models.ActionUpdate, settingsHandler.UpdateRecoverySettings)).Methods("PUT")

	// Role routes
	roles := apiV1.PathPrefix("/roles").Subrouter()
	roles.Handle("", protect(models.ModuleRoles, models.ActionView, roleHandler.ListRoles)).Methods("GET")
	roles.Handle("", protect(models.ModuleRoles, models.ActionCreate, roleHandler.CreateRole)).Methods("POST")
	roles.Handle("/{id}", protect(models.ModuleRoles, models.ActionView, roleHandler.GetRole)).Methods("GET")
	roles.Handle("/{id}", protect(models.ModuleRoles, models.ActionDelete, roleHandler.DeleteRole)).Methods("DELETE")

	// Per-user table preferences (auth only, no module permission)
	preferences := apiV1.PathPrefix("/preferences").Subrouter()
	preferences.Handle("/{table}", authMiddleware.RequireAuth(http.HandlerFunc(roleHandler.GetPreference))).Methods("GET")
	preferences.Handle("/{table}", authMiddleware.RequireAuth(http.HandlerFunc(roleHandler.SavePreference))).Methods("PUT")

	return router
}
