package ledger

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FinancialYearService manages financial years and the active-year switch
type FinancialYearService struct {
	repos  scope.Repositories
	tx     scope.TransactionScope
	logger *zap.Logger
}

// NewFinancialYearService creates a new FinancialYearService
func NewFinancialYearService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *FinancialYearService {
	return &FinancialYearService{repos: repos, tx: tx, logger: logger}
}

// FinancialYearInput carries the editable fields of a financial year
type FinancialYearInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	// Activate makes the new year the active one in the same transaction
	Activate bool
}

// List returns every financial year, newest first
func (s *FinancialYearService) List(ctx context.Context) ([]ledger.FinancialYear, error) {
	return s.repos.FinancialYears().FindAll(ctx)
}

// Get returns one financial year
func (s *FinancialYearService) Get(ctx context.Context, id uuid.UUID) (*ledger.FinancialYear, error) {
	fy, err := s.repos.FinancialYears().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "FINANCIAL_YEAR_NOT_FOUND", "Financial year not found")
	}
	return fy, nil
}

// GetActive returns the active financial year
func (s *FinancialYearService) GetActive(ctx context.Context) (*ledger.FinancialYear, error) {
	fy, err := s.repos.FinancialYears().FindActive(ctx)
	if err != nil {
		return nil, notFound(err, "NO_ACTIVE_FINANCIAL_YEAR", "No financial year is active")
	}
	return fy, nil
}

// Create adds a financial year whose range overlaps no existing year
func (s *FinancialYearService) Create(ctx context.Context, actor audit.Actor, input FinancialYearInput) (*ledger.FinancialYear, error) {
	fy, err := ledger.NewFinancialYear(input.Name, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := s.checkOverlap(ctx, repos, fy); err != nil {
			return err
		}
		if input.Activate {
			if err := repos.FinancialYears().DeactivateAll(ctx); err != nil {
				return err
			}
			fy.IsActive = true
		}
		if err := repos.FinancialYears().Save(ctx, fy); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectFinancialYear, fy.ID, fy))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Financial year created",
		zap.String("financial_year_id", fy.ID.String()),
		zap.String("name", fy.Name),
		zap.Bool("active", fy.IsActive))
	return fy, nil
}

// Update edits a financial year; the record itself is excluded from the overlap check
func (s *FinancialYearService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input FinancialYearInput) (*ledger.FinancialYear, error) {
	var fy *ledger.FinancialYear
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		fy, err = repos.FinancialYears().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "FINANCIAL_YEAR_NOT_FOUND", "Financial year not found")
		}
		before := *fy
		if err := fy.Update(input.Name, input.StartDate, input.EndDate); err != nil {
			return err
		}
		if err := s.checkOverlap(ctx, repos, fy); err != nil {
			return err
		}
		if !fy.StartDate.Equal(before.StartDate) || !fy.EndDate.Equal(before.EndDate) {
			outside, err := repos.FinancialYears().CountJournalEntriesOutside(ctx, fy.ID, fy.StartDate, fy.EndDate)
			if err != nil {
				return err
			}
			if outside > 0 {
				s.logger.Warn("Financial year range excludes journal entries",
					zap.String("financial_year_id", fy.ID.String()),
					zap.Int64("entries", outside))
				return shared.NewDomainError("FINANCIAL_YEAR_ENTRIES_OUTSIDE",
					"Journal entries of this financial year fall outside the new date range")
			}
		}
		if err := repos.FinancialYears().Save(ctx, fy); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectFinancialYear, fy.ID, before, fy))
	})
	if err != nil {
		return nil, err
	}
	return fy, nil
}

func (s *FinancialYearService) checkOverlap(ctx context.Context, repos scope.Repositories, fy *ledger.FinancialYear) error {
	existing, err := repos.FinancialYears().FindAll(ctx)
	if err != nil {
		return err
	}
	if conflict := ledger.FindOverlap(fy, existing); conflict != nil {
		s.logger.Warn("Financial year overlaps",
			zap.String("name", fy.Name),
			zap.String("conflict", conflict.Name))
		return ledger.ErrFinancialYearOverlap(conflict)
	}
	return nil
}

// Activate makes id the only active financial year
func (s *FinancialYearService) Activate(ctx context.Context, actor audit.Actor, id uuid.UUID) (*ledger.FinancialYear, error) {
	var fy *ledger.FinancialYear
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		fy, err = repos.FinancialYears().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "FINANCIAL_YEAR_NOT_FOUND", "Financial year not found")
		}
		if err := repos.FinancialYears().DeactivateAll(ctx); err != nil {
			return err
		}
		if err := repos.FinancialYears().SetActive(ctx, id, true); err != nil {
			return err
		}
		fy.IsActive = true
		return repos.Audit().Record(ctx, audit.Entry{
			Actor:       actor,
			SubjectType: audit.SubjectFinancialYear,
			SubjectID:   id,
			Action:      audit.ActionActivated,
			NewValues:   audit.Payload{"is_active": true},
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Financial year activated", zap.String("financial_year_id", id.String()))
	return fy, nil
}

// Deactivate clears the active flag; having no active year is allowed
func (s *FinancialYearService) Deactivate(ctx context.Context, actor audit.Actor, id uuid.UUID) (*ledger.FinancialYear, error) {
	var fy *ledger.FinancialYear
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		fy, err = repos.FinancialYears().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "FINANCIAL_YEAR_NOT_FOUND", "Financial year not found")
		}
		if !fy.IsActive {
			return nil
		}
		if err := repos.FinancialYears().SetActive(ctx, id, false); err != nil {
			return err
		}
		fy.IsActive = false
		return repos.Audit().Record(ctx, audit.Entry{
			Actor:       actor,
			SubjectType: audit.SubjectFinancialYear,
			SubjectID:   id,
			Action:      audit.ActionDeactivated,
			OldValues:   audit.Payload{"is_active": true},
			NewValues:   audit.Payload{"is_active": false},
		})
	})
	if err != nil {
		return nil, err
	}
	return fy, nil
}

// Delete removes an inactive financial year without journal entries
func (s *FinancialYearService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return s.tx.Execute(ctx, func(repos scope.Repositories) error {
		fy, err := repos.FinancialYears().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "FINANCIAL_YEAR_NOT_FOUND", "Financial year not found")
		}
		if err := fy.CanDelete(); err != nil {
			return err
		}
		count, err := repos.FinancialYears().CountJournalEntries(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError("FINANCIAL_YEAR_IN_USE", "Financial year has journal entries")
		}
		if err := repos.FinancialYears().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectFinancialYear, id, fy))
	})
}
