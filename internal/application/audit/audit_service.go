// Package audit serves the read side of the audit log.
package audit

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditService lists and fetches audit entries. Entries are written by the
// other services inside their own transactions, never through this one.
type AuditService struct {
	repos  scope.Repositories
	logger *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(repos scope.Repositories, logger *zap.Logger) *AuditService {
	return &AuditService{repos: repos, logger: logger}
}

// List returns a page of audit entries, newest first unless asked otherwise
func (s *AuditService) List(ctx context.Context, filter audit.ListFilter) (shared.Paginated[audit.AuditLog], error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return shared.Paginated[audit.AuditLog]{}, shared.NewDomainError("INVALID_DATE_RANGE", "From must not be after To")
	}
	filter.Filter = filter.Filter.Normalize()

	logs, total, err := s.repos.Audit().List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list audit logs", zap.Error(err))
		return shared.Paginated[audit.AuditLog]{}, err
	}
	return shared.NewPaginated(logs, total, filter.Page, filter.PageSize), nil
}

// Get returns one audit entry
func (s *AuditService) Get(ctx context.Context, id uuid.UUID) (*audit.AuditLog, error) {
	log, err := s.repos.Audit().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("AUDIT_LOG_NOT_FOUND", "Audit log not found")
		}
		return nil, err
	}
	return log, nil
}
