package stock

import (
	"context"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService manages products
type ProductService struct {
	repos  scope.Repositories
	tx     scope.TransactionScope
	logger *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *ProductService {
	return &ProductService{repos: repos, tx: tx, logger: logger}
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[stock.Product], error) {
	filter = filter.Normalize()
	items, total, err := s.repos.Products().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[stock.Product]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*stock.Product, error) {
	p, err := s.repos.Products().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "PRODUCT_NOT_FOUND", "Product not found")
	}
	return p, nil
}

// Create adds a product
func (s *ProductService) Create(ctx context.Context, actor audit.Actor, input stock.ProductDetails) (*stock.Product, error) {
	product, err := stock.NewProduct(input)
	if err != nil {
		return nil, err
	}
	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := checkProduct(ctx, repos, product); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectProduct, product.ID, product))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	return product, nil
}

// Update edits a product
func (s *ProductService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input stock.ProductDetails) (*stock.Product, error) {
	var product *stock.Product
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		product, err = repos.Products().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "PRODUCT_NOT_FOUND", "Product not found")
		}
		before := *product
		if err := product.Update(input); err != nil {
			return err
		}
		if err := checkProduct(ctx, repos, product); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectProduct, product.ID, before, product))
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func checkProduct(ctx context.Context, repos scope.Repositories, p *stock.Product) error {
	exists, err := repos.Products().ExistsBySKU(ctx, p.SKU, p.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("PRODUCT_SKU_EXISTS", "A product with this SKU already exists")
	}
	if p.TaxSettingID != nil {
		if _, err := repos.TaxSettings().FindByID(ctx, *p.TaxSettingID); err != nil {
			return notFound(err, "TAX_SETTING_NOT_FOUND", "Tax setting not found")
		}
	}
	return nil
}

// Delete removes a product without stock history
func (s *ProductService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return s.tx.Execute(ctx, func(repos scope.Repositories) error {
		product, err := repos.Products().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "PRODUCT_NOT_FOUND", "Product not found")
		}
		count, err := repos.Movements().CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError("PRODUCT_HAS_MOVEMENTS", "Product has stock movements")
		}
		if err := repos.Products().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectProduct, id, product))
	})
}
