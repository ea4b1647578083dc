package ledger

import (
	"context"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService manages account categories
type CategoryService struct {
	repos  scope.Repositories
	tx     scope.TransactionScope
	logger *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *CategoryService {
	return &CategoryService{repos: repos, tx: tx, logger: logger}
}

// CategoryInput carries the editable fields of a category
type CategoryInput struct {
	Name        string
	Type        ledger.AccountType
	Description string
}

// List returns a page of categories
func (s *CategoryService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ledger.AccountCategory], error) {
	filter = filter.Normalize()
	items, total, err := s.repos.Categories().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.AccountCategory]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one category
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*ledger.AccountCategory, error) {
	c, err := s.repos.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "CATEGORY_NOT_FOUND", "Account category not found")
	}
	return c, nil
}

// Create adds a category
func (s *CategoryService) Create(ctx context.Context, actor audit.Actor, input CategoryInput) (*ledger.AccountCategory, error) {
	category, err := ledger.NewAccountCategory(input.Name, input.Type, input.Description)
	if err != nil {
		return nil, err
	}

	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		exists, err := repos.Categories().ExistsByName(ctx, category.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("CATEGORY_NAME_EXISTS", "An account category with this name already exists")
		}
		if err := repos.Categories().Save(ctx, category); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectAccountCategory, category.ID, category))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account category created", zap.String("category_id", category.ID.String()), zap.String("name", category.Name))
	return category, nil
}

// Update edits a category
func (s *CategoryService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input CategoryInput) (*ledger.AccountCategory, error) {
	var category *ledger.AccountCategory
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		category, err = repos.Categories().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "CATEGORY_NOT_FOUND", "Account category not found")
		}
		before := *category
		if err := category.Update(input.Name, input.Type, input.Description); err != nil {
			return err
		}
		exists, err := repos.Categories().ExistsByName(ctx, category.Name, category.ID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("CATEGORY_NAME_EXISTS", "An account category with this name already exists")
		}
		if err := repos.Categories().Save(ctx, category); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectAccountCategory, category.ID, before, category))
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category that no account references
func (s *CategoryService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return s.tx.Execute(ctx, func(repos scope.Repositories) error {
		category, err := repos.Categories().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "CATEGORY_NOT_FOUND", "Account category not found")
		}
		count, err := repos.Categories().CountAccounts(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			s.logger.Warn("Category delete rejected", zap.String("category_id", id.String()), zap.Int64("accounts", count))
			return shared.NewDomainError("CATEGORY_HAS_ACCOUNTS", "Account category is used by chart of accounts")
		}
		if err := repos.Categories().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectAccountCategory, id, category))
	})
}
