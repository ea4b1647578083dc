package ledger

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountService manages the chart of accounts and derives balances
type AccountService struct {
	repos  scope.Repositories
	tx     scope.TransactionScope
	logger *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *AccountService {
	return &AccountService{repos: repos, tx: tx, logger: logger}
}

// AccountBalance is the computed balance of one account
type AccountBalance struct {
	AccountID   uuid.UUID          `json:"account_id"`
	AccountCode string             `json:"account_code"`
	Name        string             `json:"name"`
	Type        ledger.AccountType `json:"type"`
	NormalSide  ledger.NormalSide  `json:"normal_side"`
	Debit       decimal.Decimal    `json:"total_debit"`
	Credit      decimal.Decimal    `json:"total_credit"`
	Balance     decimal.Decimal    `json:"balance"`
	AsOf        *time.Time         `json:"as_of,omitempty"`
}

// TrialBalanceRow is one account line of a trial balance. Net debit
// balances land in the debit column and net credit balances in the credit column.
type TrialBalanceRow struct {
	AccountID   uuid.UUID          `json:"account_id"`
	AccountCode string             `json:"account_code"`
	Name        string             `json:"name"`
	Type        ledger.AccountType `json:"type"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
	Balance     decimal.Decimal    `json:"balance"`
}

// TrialBalance lists every active account with its posted totals
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
	AsOf        *time.Time        `json:"as_of,omitempty"`
}

// List returns a page of accounts
func (s *AccountService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ledger.ChartOfAccount], error) {
	filter = filter.Normalize()
	items, total, err := s.repos.Accounts().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.ChartOfAccount]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one account with its category
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*ledger.ChartOfAccount, error) {
	a, err := s.repos.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "ACCOUNT_NOT_FOUND", "Account not found")
	}
	return a, nil
}

// Create adds an account under an existing category
func (s *AccountService) Create(ctx context.Context, actor audit.Actor, input ledger.AccountDetails) (*ledger.ChartOfAccount, error) {
	account, err := ledger.NewChartOfAccount(input)
	if err != nil {
		return nil, err
	}

	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := s.checkAccount(ctx, repos, account); err != nil {
			return err
		}
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectAccount, account.ID, account))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account created", zap.String("account_id", account.ID.String()), zap.String("code", account.AccountCode))
	return account, nil
}

// Update edits an account
func (s *AccountService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input ledger.AccountDetails) (*ledger.ChartOfAccount, error) {
	var account *ledger.ChartOfAccount
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		account, err = repos.Accounts().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "ACCOUNT_NOT_FOUND", "Account not found")
		}
		before := *account
		before.Category = nil
		if err := account.Update(input); err != nil {
			return err
		}
		account.Category = nil
		if err := s.checkAccount(ctx, repos, account); err != nil {
			return err
		}
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectAccount, account.ID, before, account))
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// checkAccount verifies code uniqueness and loads the category
func (s *AccountService) checkAccount(ctx context.Context, repos scope.Repositories, account *ledger.ChartOfAccount) error {
	exists, err := repos.Accounts().ExistsByCode(ctx, account.AccountCode, account.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ACCOUNT_CODE_EXISTS", "An account with this code already exists")
	}
	category, err := repos.Categories().FindByID(ctx, account.CategoryID)
	if err != nil {
		return notFound(err, "CATEGORY_NOT_FOUND", "Account category not found")
	}
	account.Category = category
	return nil
}

// Delete removes an account nothing posts to
func (s *AccountService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return s.tx.Execute(ctx, func(repos scope.Repositories) error {
		account, err := repos.Accounts().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "ACCOUNT_NOT_FOUND", "Account not found")
		}
		items, err := repos.Accounts().CountJournalItems(ctx, id)
		if err != nil {
			return err
		}
		if items > 0 {
			s.logger.Warn("Account delete rejected", zap.String("account_id", id.String()), zap.Int64("journal_items", items))
			return shared.NewDomainError("ACCOUNT_HAS_JOURNAL_ITEMS", "Account has journal items")
		}
		taxes, err := repos.TaxSettings().CountByAccount(ctx, id)
		if err != nil {
			return err
		}
		if taxes > 0 {
			return shared.NewDomainError("ACCOUNT_HAS_TAX_SETTINGS", "Account is used by tax settings")
		}
		if err := repos.Accounts().Delete(ctx, id); err != nil {
			return err
		}
		account.Category = nil
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectAccount, id, account))
	})
}

// Balance computes an account's balance from posted journal items,
// optionally restricted to entries dated on or before asOf.
func (s *AccountService) Balance(ctx context.Context, id uuid.UUID, asOf *time.Time) (*AccountBalance, error) {
	account, err := s.repos.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "ACCOUNT_NOT_FOUND", "Account not found")
	}
	asOf = dateOnlyPtr(asOf)
	debit, credit, err := s.repos.Accounts().SumPosted(ctx, id, asOf)
	if err != nil {
		return nil, err
	}
	t := account.Type()
	return &AccountBalance{
		AccountID:   account.ID,
		AccountCode: account.AccountCode,
		Name:        account.Name,
		Type:        t,
		NormalSide:  t.NormalSide(),
		Debit:       debit,
		Credit:      credit,
		Balance:     ledger.SignedBalance(t, debit, credit),
		AsOf:        asOf,
	}, nil
}

// TrialBalance lists all active accounts with their posted totals
func (s *AccountService) TrialBalance(ctx context.Context, asOf *time.Time) (*TrialBalance, error) {
	asOf = dateOnlyPtr(asOf)
	accounts, err := s.repos.Accounts().FindActive(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.repos.Accounts().SumPostedByAccount(ctx, asOf)
	if err != nil {
		return nil, err
	}

	tb := &TrialBalance{
		Rows:        make([]TrialBalanceRow, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		AsOf:        asOf,
	}
	for _, a := range accounts {
		sum := totals[a.ID]
		net := sum.Debit.Sub(sum.Credit)
		row := TrialBalanceRow{
			AccountID:   a.ID,
			AccountCode: a.AccountCode,
			Name:        a.Name,
			Type:        a.Type(),
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Balance:     ledger.SignedBalance(a.Type(), sum.Debit, sum.Credit),
		}
		if net.IsPositive() {
			row.Debit = net
		} else {
			row.Credit = net.Neg()
		}
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)
	return tb, nil
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := ledger.DateOnly(*t)
	return &d
}
