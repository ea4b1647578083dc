package persistence

import (
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/organization"
	"github.com/erp/backoffice/internal/domain/settings"
	"github.com/erp/backoffice/internal/domain/stock"
)

// AllModels lists every persisted type in dependency order. Production schemas
// come from the SQL migrations; AutoMigrate over this list is for tests.
func AllModels() []any {
	return []any{
		&identity.User{},
		&ledger.AccountCategory{},
		&ledger.ChartOfAccount{},
		&ledger.FinancialYear{},
		&ledger.JournalEntry{},
		&ledger.JournalItem{},
		&settings.CompanySetting{},
		&settings.TaxSetting{},
		&stock.Warehouse{},
		&stock.Product{},
		&stock.StockBalance{},
		&stock.StockMovement{},
		&organization.Department{},
		&organization.Designation{},
		&organization.Employee{},
		&audit.AuditLog{},
	}
}
