package persistence

import (
	"context"
	"strings"

	"github.com/erp/backoffice/internal/domain/settings"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCompanySettingRepository implements settings.CompanySettingRepository
type GormCompanySettingRepository struct {
	db *gorm.DB
}

// NewGormCompanySettingRepository creates a new GormCompanySettingRepository
func NewGormCompanySettingRepository(db *gorm.DB) *GormCompanySettingRepository {
	return &GormCompanySettingRepository{db: db}
}

// GetOrCreate returns the singleton row. The insert is keyed on the unique
// singleton key so two first readers still end up with one row.
func (r *GormCompanySettingRepository) GetOrCreate(ctx context.Context) (*settings.CompanySetting, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "singleton_key"}},
		DoNothing: true,
	}).Create(settings.DefaultCompanySetting()).Error; err != nil {
		return nil, err
	}

	var c settings.CompanySetting
	if err := db.Where("singleton_key = ?", settings.CompanySettingKey).First(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// Save updates the singleton row
func (r *GormCompanySettingRepository) Save(ctx context.Context, c *settings.CompanySetting) error {
	c.SingletonKey = settings.CompanySettingKey
	return r.db.WithContext(ctx).Save(c).Error
}

// GormTaxSettingRepository implements settings.TaxSettingRepository
type GormTaxSettingRepository struct {
	db *gorm.DB
}

// NewGormTaxSettingRepository creates a new GormTaxSettingRepository
func NewGormTaxSettingRepository(db *gorm.DB) *GormTaxSettingRepository {
	return &GormTaxSettingRepository{db: db}
}

// FindByID finds a tax setting by ID
func (r *GormTaxSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.TaxSetting, error) {
	var t settings.TaxSetting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// FindAll lists tax settings; Filters accepts is_active
func (r *GormTaxSettingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]settings.TaxSetting, int64, error) {
	query := r.db.WithContext(ctx).Model(&settings.TaxSetting{})
	query = searchLike(query, filter.Search, "name")
	if v, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []settings.TaxSetting
	if err := paginate(query, filter, TaxSettingSortFields, "name").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExistsByName checks tax name uniqueness
func (r *GormTaxSettingRepository) ExistsByName(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&settings.TaxSetting{}).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a tax setting
func (r *GormTaxSettingRepository) Save(ctx context.Context, t *settings.TaxSetting) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete removes a tax setting
func (r *GormTaxSettingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&settings.TaxSetting{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByAccount counts tax settings posting to the account
func (r *GormTaxSettingRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&settings.TaxSetting{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

var (
	_ settings.CompanySettingRepository = (*GormCompanySettingRepository)(nil)
	_ settings.TaxSettingRepository     = (*GormTaxSettingRepository)(nil)
)
