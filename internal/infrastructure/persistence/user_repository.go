package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var u identity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var u identity.User
	if err := r.db.WithContext(ctx).Where("email = ?", identity.NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// FindAll lists users
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&identity.User{})
	query = searchLike(query, filter.Search, "name", "email")
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []identity.User
	if err := paginate(query, filter.Filter, UserSortFields, "name").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ExistsByEmail checks email uniqueness
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&identity.User{}).Where("email = ?", identity.NormalizeEmail(email))
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Delete removes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
