package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/organization"
	"github.com/erp/backoffice/internal/domain/settings"
	"github.com/erp/backoffice/internal/domain/stock"
	"gorm.io/gorm"
)

// gormRepositories binds every repository to the same *gorm.DB
type gormRepositories struct {
	db *gorm.DB
}

// NewRepositories returns repositories bound to db. Pass a transaction handle
// to make them transactional.
func NewRepositories(db *gorm.DB) scope.Repositories {
	return &gormRepositories{db: db}
}

func (r *gormRepositories) Categories() ledger.AccountCategoryRepository {
	return NewGormAccountCategoryRepository(r.db)
}

func (r *gormRepositories) Accounts() ledger.AccountRepository {
	return NewGormAccountRepository(r.db)
}

func (r *gormRepositories) FinancialYears() ledger.FinancialYearRepository {
	return NewGormFinancialYearRepository(r.db)
}

func (r *gormRepositories) JournalEntries() ledger.JournalEntryRepository {
	return NewGormJournalEntryRepository(r.db)
}

func (r *gormRepositories) Products() stock.ProductRepository {
	return NewGormProductRepository(r.db)
}

func (r *gormRepositories) Warehouses() stock.WarehouseRepository {
	return NewGormWarehouseRepository(r.db)
}

func (r *gormRepositories) Balances() stock.BalanceRepository {
	return NewGormStockBalanceRepository(r.db)
}

func (r *gormRepositories) Movements() stock.MovementRepository {
	return NewGormStockMovementRepository(r.db)
}

func (r *gormRepositories) CompanySettings() settings.CompanySettingRepository {
	return NewGormCompanySettingRepository(r.db)
}

func (r *gormRepositories) TaxSettings() settings.TaxSettingRepository {
	return NewGormTaxSettingRepository(r.db)
}

func (r *gormRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.db)
}

func (r *gormRepositories) Departments() organization.DepartmentRepository {
	return NewGormDepartmentRepository(r.db)
}

func (r *gormRepositories) Designations() organization.DesignationRepository {
	return NewGormDesignationRepository(r.db)
}

func (r *gormRepositories) Employees() organization.EmployeeRepository {
	return NewGormEmployeeRepository(r.db)
}

func (r *gormRepositories) Audit() audit.Repository {
	return NewGormAuditLogRepository(r.db)
}

// GormTransactionScope implements scope.TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a transaction; a returned error or panic rolls back
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos scope.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

var _ scope.TransactionScope = (*GormTransactionScope)(nil)
