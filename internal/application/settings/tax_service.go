package settings

import (
	"context"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/settings"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaxService manages tax settings
type TaxService struct {
	repos  scope.Repositories
	tx     scope.TransactionScope
	logger *zap.Logger
}

// NewTaxService creates a new TaxService
func NewTaxService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *TaxService {
	return &TaxService{repos: repos, tx: tx, logger: logger}
}

// List returns a page of tax settings
func (s *TaxService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[settings.TaxSetting], error) {
	filter = filter.Normalize()
	items, total, err := s.repos.TaxSettings().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[settings.TaxSetting]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one tax setting
func (s *TaxService) Get(ctx context.Context, id uuid.UUID) (*settings.TaxSetting, error) {
	t, err := s.repos.TaxSettings().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "TAX_SETTING_NOT_FOUND", "Tax setting not found")
	}
	return t, nil
}

// Create adds a tax setting posted to a liability account
func (s *TaxService) Create(ctx context.Context, actor audit.Actor, input settings.TaxDetails) (*settings.TaxSetting, error) {
	var tax *settings.TaxSetting
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		accountType, err := taxAccountType(ctx, repos, input.AccountID)
		if err != nil {
			return err
		}
		tax, err = settings.NewTaxSetting(input, accountType)
		if err != nil {
			return err
		}
		if err := checkTaxName(ctx, repos, tax); err != nil {
			return err
		}
		if err := repos.TaxSettings().Save(ctx, tax); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectTaxSetting, tax.ID, tax))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Tax setting created", zap.String("tax_setting_id", tax.ID.String()), zap.String("rate", tax.Rate.String()))
	return tax, nil
}

// Update edits a tax setting
func (s *TaxService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input settings.TaxDetails) (*settings.TaxSetting, error) {
	var tax *settings.TaxSetting
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		tax, err = repos.TaxSettings().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "TAX_SETTING_NOT_FOUND", "Tax setting not found")
		}
		accountType, err := taxAccountType(ctx, repos, input.AccountID)
		if err != nil {
			return err
		}
		before := *tax
		if err := tax.Update(input, accountType); err != nil {
			return err
		}
		if err := checkTaxName(ctx, repos, tax); err != nil {
			return err
		}
		if err := repos.TaxSettings().Save(ctx, tax); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectTaxSetting, tax.ID, before, tax))
	})
	if err != nil {
		return nil, err
	}
	return tax, nil
}

// Delete removes a tax setting no product refers to
func (s *TaxService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return s.tx.Execute(ctx, func(repos scope.Repositories) error {
		tax, err := repos.TaxSettings().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "TAX_SETTING_NOT_FOUND", "Tax setting not found")
		}
		count, err := repos.Products().CountByTaxSetting(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			s.logger.Warn("Tax setting delete rejected", zap.String("tax_setting_id", id.String()), zap.Int64("products", count))
			return shared.NewDomainError("TAX_SETTING_IN_USE", "Tax setting is assigned to products")
		}
		if err := repos.TaxSettings().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectTaxSetting, id, tax))
	})
}

func taxAccountType(ctx context.Context, repos scope.Repositories, accountID uuid.UUID) (ledger.AccountType, error) {
	if accountID == uuid.Nil {
		return "", shared.NewDomainError("INVALID_ACCOUNT", "Tax account is required")
	}
	account, err := repos.Accounts().FindByID(ctx, accountID)
	if err != nil {
		return "", notFound(err, "ACCOUNT_NOT_FOUND", "Account not found")
	}
	if account.Category == nil {
		return "", shared.NewDomainError("CATEGORY_NOT_FOUND", "Account category not found")
	}
	return account.Category.Type, nil
}

func checkTaxName(ctx context.Context, repos scope.Repositories, t *settings.TaxSetting) error {
	exists, err := repos.TaxSettings().ExistsByName(ctx, t.Name, t.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("TAX_NAME_EXISTS", "A tax setting with this name already exists")
	}
	return nil
}
