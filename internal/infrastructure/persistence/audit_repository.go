package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.Repository. Bound to a transaction
// handle, its writes commit or roll back with the surrounding mutation.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Record appends an audit entry
func (r *GormAuditLogRepository) Record(ctx context.Context, entry audit.Entry) error {
	return r.db.WithContext(ctx).Create(audit.NewAuditLog(entry)).Error
}

// FindByID finds one audit entry
func (r *GormAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.AuditLog, error) {
	var log audit.AuditLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error; err != nil {
		return nil, translateError(err)
	}
	return &log, nil
}

// List returns audit entries matching the filter, newest first by default
func (r *GormAuditLogRepository) List(ctx context.Context, filter audit.ListFilter) ([]audit.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.AuditLog{})
	if filter.SubjectType != "" {
		query = query.Where("subject_type = ?", filter.SubjectType)
	}
	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []audit.AuditLog
	if err := paginate(query, filter.Filter, AuditSortFields, "created_at").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

var _ audit.Repository = (*GormAuditLogRepository)(nil)
