package settings

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanySettingRepository persists the singleton company row
type CompanySettingRepository interface {
	// GetOrCreate returns the singleton row, inserting the defaults when the table is empty.
	GetOrCreate(ctx context.Context) (*CompanySetting, error)
	Save(ctx context.Context, c *CompanySetting) error
}

// TaxSettingRepository persists tax settings
type TaxSettingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TaxSetting, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]TaxSetting, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, t *TaxSetting) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}
