package ledger

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalStatus is the posting state of a journal entry
type JournalStatus string

const (
	JournalStatusDraft  JournalStatus = "draft"
	JournalStatusPosted JournalStatus = "posted"
)

// JournalEntry is a double-entry posting. Only posted entries count toward balances.
type JournalEntry struct {
	shared.BaseEntity
	EntryNumber     string        `gorm:"type:varchar(30);not null;uniqueIndex" json:"entry_number"`
	EntryDate       time.Time     `gorm:"type:date;not null;index" json:"entry_date"`
	FinancialYearID uuid.UUID     `gorm:"type:uuid;not null;index" json:"financial_year_id"`
	Description     string        `gorm:"type:text" json:"description"`
	Status          JournalStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	CreatedBy       *uuid.UUID    `gorm:"type:uuid;index" json:"created_by,omitempty"`
	PostedAt        *time.Time    `json:"posted_at,omitempty"`
	Items           []JournalItem `gorm:"foreignKey:JournalEntryID" json:"items"`
}

// TableName returns the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// JournalItem is one debit or credit line of an entry
type JournalItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	JournalEntryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"journal_entry_id"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Debit          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"debit"`
	Credit         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"credit"`
	Memo           string          `gorm:"type:varchar(255)" json:"memo"`
}

// TableName returns the table name for GORM
func (JournalItem) TableName() string {
	return "journal_items"
}

// JournalLine is the input form of a JournalItem
type JournalLine struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// NewEntryNumber returns a unique, date-prefixed voucher number
func NewEntryNumber(date time.Time) string {
	return "JV-" + date.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// NewJournalEntry creates a balanced draft entry inside the given financial year
func NewJournalEntry(year *FinancialYear, date time.Time, description string, lines []JournalLine, createdBy uuid.UUID) (*JournalEntry, error) {
	e := &JournalEntry{
		BaseEntity:  shared.NewBaseEntity(),
		EntryNumber: NewEntryNumber(date),
		Status:      JournalStatusDraft,
	}
	if createdBy != uuid.Nil {
		e.CreatedBy = &createdBy
	}
	if err := e.apply(year, date, description, lines); err != nil {
		return nil, err
	}
	return e, nil
}

// Revise replaces the date, description and lines of a draft entry
func (e *JournalEntry) Revise(year *FinancialYear, date time.Time, description string, lines []JournalLine) error {
	if e.Status != JournalStatusDraft {
		return shared.NewDomainError("JOURNAL_ENTRY_POSTED", "Posted journal entries cannot be changed")
	}
	if err := e.apply(year, date, description, lines); err != nil {
		return err
	}
	e.Touch()
	return nil
}

func (e *JournalEntry) apply(year *FinancialYear, date time.Time, description string, lines []JournalLine) error {
	if year == nil {
		return shared.NewDomainError("FINANCIAL_YEAR_REQUIRED", "A financial year is required")
	}
	if !year.Contains(date) {
		return shared.NewDomainError("ENTRY_DATE_OUTSIDE_YEAR", "Entry date is outside financial year "+year.Name)
	}
	if len(lines) < 2 {
		return shared.NewDomainError("JOURNAL_TOO_FEW_LINES", "A journal entry needs at least two lines")
	}
	items := make([]JournalItem, 0, len(lines))
	for _, l := range lines {
		if l.AccountID == uuid.Nil {
			return shared.NewDomainError("INVALID_ACCOUNT", "Every line needs an account")
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Debit and credit cannot be negative")
		}
		if !shared.FitsScale(l.Debit) || !shared.FitsScale(l.Credit) {
			return shared.NewDomainError("INVALID_AMOUNT", "Amounts can have at most 4 decimal places")
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return shared.NewDomainError("INVALID_AMOUNT", "Each line must have either a debit or a credit")
		}
		items = append(items, JournalItem{
			ID:             uuid.New(),
			JournalEntryID: e.ID,
			AccountID:      l.AccountID,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Memo:           strings.TrimSpace(l.Memo),
		})
	}
	e.EntryDate = DateOnly(date)
	e.FinancialYearID = year.ID
	e.Description = strings.TrimSpace(description)
	e.Items = items
	if !e.IsBalanced() {
		return shared.NewDomainError("JOURNAL_NOT_BALANCED", "Total debit must equal total credit")
	}
	return nil
}

// Totals returns the sum of debit and credit lines
func (e *JournalEntry) Totals() (debit, credit decimal.Decimal) {
	for _, it := range e.Items {
		debit = debit.Add(it.Debit)
		credit = credit.Add(it.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether debits equal credits and are non-zero
func (e *JournalEntry) IsBalanced() bool {
	d, c := e.Totals()
	return d.IsPositive() && d.Equal(c)
}

// AccountIDs returns the distinct accounts referenced by the entry's lines
func (e *JournalEntry) AccountIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(e.Items))
	ids := make([]uuid.UUID, 0, len(e.Items))
	for _, it := range e.Items {
		if _, ok := seen[it.AccountID]; ok {
			continue
		}
		seen[it.AccountID] = struct{}{}
		ids = append(ids, it.AccountID)
	}
	return ids
}

// Post moves a balanced draft to posted
func (e *JournalEntry) Post() error {
	if e.Status == JournalStatusPosted {
		return shared.NewDomainError("JOURNAL_ENTRY_POSTED", "Journal entry is already posted")
	}
	if !e.IsBalanced() {
		return shared.NewDomainError("JOURNAL_NOT_BALANCED", "Total debit must equal total credit")
	}
	now := time.Now()
	e.Status = JournalStatusPosted
	e.PostedAt = &now
	e.Touch()
	return nil
}

// CanDelete allows removal of drafts only
func (e *JournalEntry) CanDelete() error {
	if e.Status == JournalStatusPosted {
		return shared.NewDomainError("JOURNAL_ENTRY_POSTED", "Posted journal entries cannot be deleted")
	}
	return nil
}
