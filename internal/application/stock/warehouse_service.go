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

// WarehouseService manages warehouses
type WarehouseService struct {
	repos  scope.Repositories
	tx     scope.TransactionScope
	logger *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *WarehouseService {
	return &WarehouseService{repos: repos, tx: tx, logger: logger}
}

// WarehouseInput carries the editable fields of a warehouse
type WarehouseInput struct {
	Code     string
	Name     string
	Address  string
	IsActive bool
}

// List returns a page of warehouses
func (s *WarehouseService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[stock.Warehouse], error) {
	filter = filter.Normalize()
	items, total, err := s.repos.Warehouses().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[stock.Warehouse]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one warehouse
func (s *WarehouseService) Get(ctx context.Context, id uuid.UUID) (*stock.Warehouse, error) {
	w, err := s.repos.Warehouses().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "WAREHOUSE_NOT_FOUND", "Warehouse not found")
	}
	return w, nil
}

// Create adds a warehouse
func (s *WarehouseService) Create(ctx context.Context, actor audit.Actor, input WarehouseInput) (*stock.Warehouse, error) {
	warehouse, err := stock.NewWarehouse(input.Code, input.Name, input.Address, input.IsActive)
	if err != nil {
		return nil, err
	}
	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := checkWarehouseCode(ctx, repos, warehouse); err != nil {
			return err
		}
		if err := repos.Warehouses().Save(ctx, warehouse); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectWarehouse, warehouse.ID, warehouse))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Warehouse created", zap.String("warehouse_id", warehouse.ID.String()), zap.String("code", warehouse.Code))
	return warehouse, nil
}

// Update edits a warehouse
func (s *WarehouseService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input WarehouseInput) (*stock.Warehouse, error) {
	var warehouse *stock.Warehouse
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		warehouse, err = repos.Warehouses().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "WAREHOUSE_NOT_FOUND", "Warehouse not found")
		}
		before := *warehouse
		if err := warehouse.Update(input.Code, input.Name, input.Address, input.IsActive); err != nil {
			return err
		}
		if err := checkWarehouseCode(ctx, repos, warehouse); err != nil {
			return err
		}
		if err := repos.Warehouses().Save(ctx, warehouse); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectWarehouse, warehouse.ID, before, warehouse))
	})
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

func checkWarehouseCode(ctx context.Context, repos scope.Repositories, w *stock.Warehouse) error {
	exists, err := repos.Warehouses().ExistsByCode(ctx, w.Code, w.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("WAREHOUSE_CODE_EXISTS", "A warehouse with this code already exists")
	}
	return nil
}

// Delete removes a warehouse with no movements and no stock on hand
func (s *WarehouseService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	return s.tx.Execute(ctx, func(repos scope.Repositories) error {
		warehouse, err := repos.Warehouses().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "WAREHOUSE_NOT_FOUND", "Warehouse not found")
		}
		movements, err := repos.Movements().CountByWarehouse(ctx, id)
		if err != nil {
			return err
		}
		if movements > 0 {
			s.logger.Warn("Warehouse delete rejected", zap.String("warehouse_id", id.String()), zap.Int64("movements", movements))
			return shared.NewDomainError("WAREHOUSE_HAS_MOVEMENTS", "Warehouse has stock movements")
		}
		held, err := repos.Balances().CountNonZeroByWarehouse(ctx, id)
		if err != nil {
			return err
		}
		if held > 0 {
			return shared.NewDomainError("WAREHOUSE_HAS_STOCK", "Warehouse still holds stock")
		}
		if err := repos.Warehouses().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectWarehouse, id, warehouse))
	})
}
