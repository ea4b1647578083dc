// Package scope defines the unit-of-work contract shared by the application
// services. Every mutating use case runs inside TransactionScope.Execute so
// that the domain writes and their audit entries commit together.
package scope

import (
	"context"

	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/organization"
	"github.com/erp/backoffice/internal/domain/settings"
	"github.com/erp/backoffice/internal/domain/stock"
)

// Repositories groups the repositories bound to one database handle.
// Inside Execute the handle is the open transaction.
type Repositories interface {
	Categories() ledger.AccountCategoryRepository
	Accounts() ledger.AccountRepository
	FinancialYears() ledger.FinancialYearRepository
	JournalEntries() ledger.JournalEntryRepository

	Products() stock.ProductRepository
	Warehouses() stock.WarehouseRepository
	Balances() stock.BalanceRepository
	Movements() stock.MovementRepository

	CompanySettings() settings.CompanySettingRepository
	TaxSettings() settings.TaxSettingRepository

	Users() identity.UserRepository
	Departments() organization.DepartmentRepository
	Designations() organization.DesignationRepository
	Employees() organization.EmployeeRepository

	Audit() audit.Repository
}

// TransactionScope runs fn in a single database transaction. fn's error rolls
// everything back, including audit entries written through repos.Audit().
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
