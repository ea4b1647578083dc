package ledger

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountCategoryRepository persists account categories
type AccountCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AccountCategory, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]AccountCategory, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, c *AccountCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountAccounts(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// AccountRepository persists chart-of-account rows
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ChartOfAccount, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ChartOfAccount, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ChartOfAccount, int64, error)
	FindActive(ctx context.Context) ([]ChartOfAccount, error)
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, a *ChartOfAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountJournalItems(ctx context.Context, accountID uuid.UUID) (int64, error)
	// SumPosted returns debit and credit totals over posted entries, optionally up to asOf.
	SumPosted(ctx context.Context, accountID uuid.UUID, asOf *time.Time) (debit, credit decimal.Decimal, err error)
	SumPostedByAccount(ctx context.Context, asOf *time.Time) (map[uuid.UUID]AccountTotals, error)
}

// AccountTotals holds raw posted totals for one account
type AccountTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// FinancialYearRepository persists financial years
type FinancialYearRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialYear, error)
	FindAll(ctx context.Context) ([]FinancialYear, error)
	FindActive(ctx context.Context) (*FinancialYear, error)
	FindContaining(ctx context.Context, date time.Time) (*FinancialYear, error)
	Save(ctx context.Context, fy *FinancialYear) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeactivateAll(ctx context.Context) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	CountActive(ctx context.Context) (int64, error)
	CountJournalEntries(ctx context.Context, yearID uuid.UUID) (int64, error)
	CountJournalEntriesOutside(ctx context.Context, yearID uuid.UUID, start, end time.Time) (int64, error)
}

// JournalFilter narrows a journal entry listing
type JournalFilter struct {
	shared.Filter
	FinancialYearID *uuid.UUID
	Status          JournalStatus
	From            *time.Time
	To              *time.Time
}

// JournalEntryRepository persists journal entries with their items
type JournalEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)
	FindAll(ctx context.Context, filter JournalFilter) ([]JournalEntry, int64, error)
	Create(ctx context.Context, e *JournalEntry) error
	// Update rewrites the header and replaces all items.
	Update(ctx context.Context, e *JournalEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCreator(ctx context.Context, userID uuid.UUID) (int64, error)
}
