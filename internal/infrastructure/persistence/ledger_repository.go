package persistence

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAccountCategoryRepository implements ledger.AccountCategoryRepository
type GormAccountCategoryRepository struct {
	db *gorm.DB
}

// NewGormAccountCategoryRepository creates a new GormAccountCategoryRepository
func NewGormAccountCategoryRepository(db *gorm.DB) *GormAccountCategoryRepository {
	return &GormAccountCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormAccountCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.AccountCategory, error) {
	var c ledger.AccountCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// FindAll lists categories; Filters["type"] narrows by account type
func (r *GormAccountCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.AccountCategory, int64, error) {
	query := r.db.WithContext(ctx).Model(&ledger.AccountCategory{})
	query = searchLike(query, filter.Search, "name", "description")
	if t, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", t)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []ledger.AccountCategory
	if err := paginate(query, filter, CategorySortFields, "name").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExistsByName checks name uniqueness, ignoring excludeID
func (r *GormAccountCategoryRepository) ExistsByName(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&ledger.AccountCategory{}).Where("LOWER(name) = LOWER(?)", name)
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a category
func (r *GormAccountCategoryRepository) Save(ctx context.Context, c *ledger.AccountCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes a category
func (r *GormAccountCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.AccountCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountAccounts counts chart-of-account rows under the category
func (r *GormAccountCategoryRepository) CountAccounts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ledger.ChartOfAccount{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// GormAccountRepository implements ledger.AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account with its category
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.ChartOfAccount, error) {
	var a ledger.ChartOfAccount
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

// FindByIDs loads several accounts with their categories
func (r *GormAccountRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ledger.ChartOfAccount, error) {
	var accounts []ledger.ChartOfAccount
	if len(ids) == 0 {
		return accounts, nil
	}
	err := r.db.WithContext(ctx).Preload("Category").Where("id IN ?", ids).Find(&accounts).Error
	return accounts, err
}

// FindAll lists accounts; Filters accepts category_id and is_active
func (r *GormAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.ChartOfAccount, int64, error) {
	query := r.db.WithContext(ctx).Model(&ledger.ChartOfAccount{})
	query = searchLike(query, filter.Search, "account_code", "name")
	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			query = query.Where("category_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []ledger.ChartOfAccount
	if err := paginate(query.Preload("Category"), filter, AccountSortFields, "account_code").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindActive returns every active account ordered by code
func (r *GormAccountRepository) FindActive(ctx context.Context) ([]ledger.ChartOfAccount, error) {
	var accounts []ledger.ChartOfAccount
	err := r.db.WithContext(ctx).Preload("Category").Where("is_active = ?", true).Order("account_code ASC").Find(&accounts).Error
	return accounts, err
}

// ExistsByCode checks account code uniqueness
func (r *GormAccountRepository) ExistsByCode(ctx context.Context, code string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&ledger.ChartOfAccount{}).Where("account_code = ?", code)
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, a *ledger.ChartOfAccount) error {
	return r.db.WithContext(ctx).Omit("Category").Save(a).Error
}

// Delete removes an account
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.ChartOfAccount{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountJournalItems counts journal lines posted or drafted against the account
func (r *GormAccountRepository) CountJournalItems(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ledger.JournalItem{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

type postedTotals struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

func (r *GormAccountRepository) postedItems(ctx context.Context, asOf *time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("journal_items AS ji").
		Joins("JOIN journal_entries AS je ON je.id = ji.journal_entry_id").
		Where("je.status = ?", ledger.JournalStatusPosted)
	if asOf != nil {
		query = query.Where("je.entry_date <= ?", ledger.DateOnly(*asOf))
	}
	return query
}

// SumPosted totals debit and credit over posted entries for one account
func (r *GormAccountRepository) SumPosted(ctx context.Context, accountID uuid.UUID, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var totals postedTotals
	err := r.postedItems(ctx, asOf).
		Select("COALESCE(SUM(ji.debit), 0) AS debit, COALESCE(SUM(ji.credit), 0) AS credit").
		Where("ji.account_id = ?", accountID).
		Scan(&totals).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return totals.Debit, totals.Credit, nil
}

// SumPostedByAccount totals posted debit and credit grouped by account
func (r *GormAccountRepository) SumPostedByAccount(ctx context.Context, asOf *time.Time) (map[uuid.UUID]ledger.AccountTotals, error) {
	var rows []postedTotals
	err := r.postedItems(ctx, asOf).
		Select("ji.account_id AS account_id, COALESCE(SUM(ji.debit), 0) AS debit, COALESCE(SUM(ji.credit), 0) AS credit").
		Group("ji.account_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]ledger.AccountTotals, len(rows))
	for _, row := range rows {
		out[row.AccountID] = ledger.AccountTotals{Debit: row.Debit, Credit: row.Credit}
	}
	return out, nil
}

// GormFinancialYearRepository implements ledger.FinancialYearRepository
type GormFinancialYearRepository struct {
	db *gorm.DB
}

// NewGormFinancialYearRepository creates a new GormFinancialYearRepository
func NewGormFinancialYearRepository(db *gorm.DB) *GormFinancialYearRepository {
	return &GormFinancialYearRepository{db: db}
}

// FindByID finds a financial year by ID
func (r *GormFinancialYearRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.FinancialYear, error) {
	var fy ledger.FinancialYear
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&fy).Error; err != nil {
		return nil, translateError(err)
	}
	return &fy, nil
}

// FindAll returns every financial year, newest first
func (r *GormFinancialYearRepository) FindAll(ctx context.Context) ([]ledger.FinancialYear, error) {
	var years []ledger.FinancialYear
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&years).Error
	return years, err
}

// FindActive returns the active year or ErrNotFound
func (r *GormFinancialYearRepository) FindActive(ctx context.Context) (*ledger.FinancialYear, error) {
	var fy ledger.FinancialYear
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&fy).Error; err != nil {
		return nil, translateError(err)
	}
	return &fy, nil
}

// FindContaining returns the year whose range includes date
func (r *GormFinancialYearRepository) FindContaining(ctx context.Context, date time.Time) (*ledger.FinancialYear, error) {
	var fy ledger.FinancialYear
	d := ledger.DateOnly(date)
	if err := r.db.WithContext(ctx).Where("start_date <= ? AND end_date >= ?", d, d).First(&fy).Error; err != nil {
		return nil, translateError(err)
	}
	return &fy, nil
}

// Save creates or updates a financial year
func (r *GormFinancialYearRepository) Save(ctx context.Context, fy *ledger.FinancialYear) error {
	return r.db.WithContext(ctx).Save(fy).Error
}

// Delete removes a financial year
func (r *GormFinancialYearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.FinancialYear{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeactivateAll clears the active flag on every row
func (r *GormFinancialYearRepository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&ledger.FinancialYear{}).
		Where("is_active = ?", true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}

// SetActive sets the active flag on one row
func (r *GormFinancialYearRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).Model(&ledger.FinancialYear{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountActive counts active rows
func (r *GormFinancialYearRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ledger.FinancialYear{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// CountJournalEntries counts entries booked in the year
func (r *GormFinancialYearRepository) CountJournalEntries(ctx context.Context, yearID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ledger.JournalEntry{}).Where("financial_year_id = ?", yearID).Count(&count).Error
	return count, err
}

// CountJournalEntriesOutside counts the year's entries dated before start or after end
func (r *GormFinancialYearRepository) CountJournalEntriesOutside(ctx context.Context, yearID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ledger.JournalEntry{}).
		Where("financial_year_id = ? AND (entry_date < ? OR entry_date > ?)", yearID, ledger.DateOnly(start), ledger.DateOnly(end)).
		Count(&count).Error
	return count, err
}

// GormJournalEntryRepository implements ledger.JournalEntryRepository
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByID loads an entry with its items
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	var e ledger.JournalEntry
	if err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translateError(err)
	}
	return &e, nil
}

// FindAll lists entries with their items
func (r *GormJournalEntryRepository) FindAll(ctx context.Context, filter ledger.JournalFilter) ([]ledger.JournalEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&ledger.JournalEntry{})
	query = searchLike(query, filter.Search, "entry_number", "description")
	if filter.FinancialYearID != nil {
		query = query.Where("financial_year_id = ?", *filter.FinancialYearID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("entry_date >= ?", ledger.DateOnly(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("entry_date <= ?", ledger.DateOnly(*filter.To))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []ledger.JournalEntry
	if err := paginate(query.Preload("Items"), filter.Filter, JournalSortFields, "entry_date").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Create inserts the entry and its items
func (r *GormJournalEntryRepository) Create(ctx context.Context, e *ledger.JournalEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// Update rewrites the header and replaces every item
func (r *GormJournalEntryRepository) Update(ctx context.Context, e *ledger.JournalEntry) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Items").Save(e).Error; err != nil {
		return err
	}
	if err := db.Where("journal_entry_id = ?", e.ID).Delete(&ledger.JournalItem{}).Error; err != nil {
		return err
	}
	if len(e.Items) == 0 {
		return nil
	}
	return db.Create(&e.Items).Error
}

// Delete removes the entry and its items
func (r *GormJournalEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("journal_entry_id = ?", id).Delete(&ledger.JournalItem{}).Error; err != nil {
		return err
	}
	result := db.Delete(&ledger.JournalEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByCreator counts entries created by a user
func (r *GormJournalEntryRepository) CountByCreator(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ledger.JournalEntry{}).Where("created_by = ?", userID).Count(&count).Error
	return count, err
}

var (
	_ ledger.AccountCategoryRepository = (*GormAccountCategoryRepository)(nil)
	_ ledger.AccountRepository         = (*GormAccountRepository)(nil)
	_ ledger.FinancialYearRepository   = (*GormFinancialYearRepository)(nil)
	_ ledger.JournalEntryRepository    = (*GormJournalEntryRepository)(nil)
)
