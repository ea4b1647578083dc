package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// JournalMetrics receives posting activity
type JournalMetrics interface {
	RecordJournalPosted(ctx context.Context, amount decimal.Decimal)
}

// JournalService manages journal entries from draft to posted
type JournalService struct {
	repos   scope.Repositories
	tx      scope.TransactionScope
	logger  *zap.Logger
	metrics JournalMetrics
}

// NewJournalService creates a new JournalService
func NewJournalService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *JournalService {
	return &JournalService{repos: repos, tx: tx, logger: logger}
}

// SetMetrics attaches a metrics sink
func (s *JournalService) SetMetrics(m JournalMetrics) {
	s.metrics = m
}

// JournalInput carries a journal entry's header and lines. When
// FinancialYearID is nil the year containing EntryDate is used.
type JournalInput struct {
	FinancialYearID *uuid.UUID
	EntryDate       time.Time
	Description     string
	Lines           []ledger.JournalLine
}

// List returns a page of entries
func (s *JournalService) List(ctx context.Context, filter ledger.JournalFilter) (shared.Paginated[ledger.JournalEntry], error) {
	filter.Filter = filter.Filter.Normalize()
	items, total, err := s.repos.JournalEntries().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.JournalEntry]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one entry with its items
func (s *JournalService) Get(ctx context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	e, err := s.repos.JournalEntries().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "JOURNAL_ENTRY_NOT_FOUND", "Journal entry not found")
	}
	return e, nil
}

// Create records a balanced draft entry
func (s *JournalService) Create(ctx context.Context, actor audit.Actor, input JournalInput) (*ledger.JournalEntry, error) {
	var entry *ledger.JournalEntry
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		year, err := s.resolveYear(ctx, repos, input)
		if err != nil {
			return err
		}
		entry, err = ledger.NewJournalEntry(year, input.EntryDate, input.Description, input.Lines, actor.ID)
		if err != nil {
			return err
		}
		if err := checkAccounts(ctx, repos, entry); err != nil {
			return err
		}
		if err := repos.JournalEntries().Create(ctx, entry); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectJournalEntry, entry.ID, entry))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Journal entry created",
		zap.String("journal_entry_id", entry.ID.String()),
		zap.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// Update revises a draft entry
func (s *JournalService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input JournalInput) (*ledger.JournalEntry, error) {
	var entry *ledger.JournalEntry
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		entry, err = repos.JournalEntries().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "JOURNAL_ENTRY_NOT_FOUND", "Journal entry not found")
		}
		before := *entry
		before.Items = append([]ledger.JournalItem(nil), entry.Items...)
		year, err := s.resolveYear(ctx, repos, input)
		if err != nil {
			return err
		}
		if err := entry.Revise(year, input.EntryDate, input.Description, input.Lines); err != nil {
			return err
		}
		if err := checkAccounts(ctx, repos, entry); err != nil {
			return err
		}
		if err := repos.JournalEntries().Update(ctx, entry); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectJournalEntry, entry.ID, before, entry))
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Post makes a draft entry count toward account balances
func (s *JournalService) Post(ctx context.Context, actor audit.Actor, id uuid.UUID) (*ledger.JournalEntry, error) {
	var entry *ledger.JournalEntry
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		entry, err = repos.JournalEntries().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "JOURNAL_ENTRY_NOT_FOUND", "Journal entry not found")
		}
		if err := entry.Post(); err != nil {
			return err
		}
		if err := checkAccounts(ctx, repos, entry); err != nil {
			return err
		}
		if err := repos.JournalEntries().Update(ctx, entry); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Entry{
			Actor:       actor,
			SubjectType: audit.SubjectJournalEntry,
			SubjectID:   entry.ID,
			Action:      audit.ActionPosted,
			OldValues:   audit.Payload{"status": string(ledger.JournalStatusDraft)},
			NewValues:   audit.Payload{"status": string(entry.Status)},
		})
	})
	if err != nil {
		return nil, err
	}

	debit, _ := entry.Totals()
	if s.metrics != nil {
		s.metrics.RecordJournalPosted(ctx, debit)
	}
	s.logger.Info("Journal entry posted",
		zap.String("journal_entry_id", entry.ID.String()),
		zap.String("amount", debit.String()))
	return entry, nil
}

// Delete removes a draft entry
func (s *JournalService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return s.tx.Execute(ctx, func(repos scope.Repositories) error {
		entry, err := repos.JournalEntries().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "JOURNAL_ENTRY_NOT_FOUND", "Journal entry not found")
		}
		if err := entry.CanDelete(); err != nil {
			return err
		}
		if err := repos.JournalEntries().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectJournalEntry, id, entry))
	})
}

func (s *JournalService) resolveYear(ctx context.Context, repos scope.Repositories, input JournalInput) (*ledger.FinancialYear, error) {
	var (
		year *ledger.FinancialYear
		err  error
	)
	if input.FinancialYearID != nil {
		year, err = repos.FinancialYears().FindByID(ctx, *input.FinancialYearID)
		if err != nil {
			return nil, notFound(err, "FINANCIAL_YEAR_NOT_FOUND", "Financial year not found")
		}
		return year, nil
	}
	year, err = repos.FinancialYears().FindContaining(ctx, input.EntryDate)
	if err != nil {
		if shared.ErrorCode(err) == shared.ErrNotFound.Code {
			return nil, nil
		}
		return nil, err
	}
	return year, nil
}

// checkAccounts verifies that every line posts to an existing active account
func checkAccounts(ctx context.Context, repos scope.Repositories, entry *ledger.JournalEntry) error {
	ids := entry.AccountIDs()
	accounts, err := repos.Accounts().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	active := make(map[uuid.UUID]bool, len(accounts))
	for _, a := range accounts {
		active[a.ID] = a.IsActive
	}
	for _, id := range ids {
		if !active[id] {
			return shared.NewDomainError("INVALID_ACCOUNT", fmt.Sprintf("Account %s is missing or inactive", id))
		}
	}
	return nil
}
