package settings

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/settings"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogoKeyPrefix is the object storage folder holding company logos
const LogoKeyPrefix = "company/logo/"

// logoURLExpiry bounds presigned logo URLs
const logoURLExpiry = 15 * time.Minute

var logoContentTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// ObjectStorage is the presigned-URL object store used for uploaded files
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// CompanyView is the company row plus a temporary logo URL
type CompanyView struct {
	*settings.CompanySetting
	LogoURL string `json:"logo_url,omitempty"`
}

// LogoUpload is a presigned upload slot for a new logo
type LogoUpload struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// CompanyService reads and edits the singleton company setting
type CompanyService struct {
	repos   scope.Repositories
	tx      scope.TransactionScope
	storage ObjectStorage
	logger  *zap.Logger
}

// NewCompanyService creates a new CompanyService. storage may be nil when no
// object store is configured; logo operations then fail with STORAGE_UNAVAILABLE.
func NewCompanyService(repos scope.Repositories, tx scope.TransactionScope, storage ObjectStorage, logger *zap.Logger) *CompanyService {
	return &CompanyService{repos: repos, tx: tx, storage: storage, logger: logger}
}

// Get returns the company setting, creating the default row on first use
func (s *CompanyService) Get(ctx context.Context) (*CompanyView, error) {
	c, err := s.repos.CompanySettings().GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c), nil
}

// Update validates and stores the editable company fields
func (s *CompanyService) Update(ctx context.Context, actor audit.Actor, input settings.CompanyDetails) (*CompanyView, error) {
	var company *settings.CompanySetting
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		company, err = repos.CompanySettings().GetOrCreate(ctx)
		if err != nil {
			return err
		}
		before := *company
		if err := company.Update(input); err != nil {
			return err
		}
		if err := repos.CompanySettings().Save(ctx, company); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectCompanySetting, company.ID, before, company))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Company settings updated", zap.String("actor", actor.Email))
	return s.view(ctx, company), nil
}

// RequestLogoUpload returns a presigned PUT URL for a new logo image
func (s *CompanyService) RequestLogoUpload(ctx context.Context, contentType string) (*LogoUpload, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}
	ext, ok := logoContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Logo must be a PNG, JPEG, WebP or SVG image")
	}
	key := LogoKeyPrefix + uuid.New().String() + ext
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, logoURLExpiry)
	if err != nil {
		return nil, err
	}
	return &LogoUpload{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// ConfirmLogo points the company at an uploaded logo once the object exists.
// The previous logo object is removed afterwards on a best-effort basis.
func (s *CompanyService) ConfirmLogo(ctx context.Context, actor audit.Actor, storageKey string) (*CompanyView, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}
	storageKey = strings.TrimSpace(storageKey)
	if !strings.HasPrefix(storageKey, LogoKeyPrefix) || path.Clean(storageKey) != storageKey {
		return nil, shared.NewDomainError("INVALID_LOGO", "Logo storage key is not valid")
	}
	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("LOGO_NOT_UPLOADED", "Logo has not been uploaded")
	}

	var company *settings.CompanySetting
	var previous string
	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		company, err = repos.CompanySettings().GetOrCreate(ctx)
		if err != nil {
			return err
		}
		previous = company.LogoKey
		if err := company.SetLogo(storageKey); err != nil {
			return err
		}
		if err := repos.CompanySettings().Save(ctx, company); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Entry{
			Actor:       actor,
			SubjectType: audit.SubjectCompanySetting,
			SubjectID:   company.ID,
			Action:      audit.ActionLogoUpdated,
			OldValues:   audit.Payload{"logo_key": previous},
			NewValues:   audit.Payload{"logo_key": storageKey},
		})
	})
	if err != nil {
		return nil, err
	}

	if previous != "" && previous != storageKey {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete previous logo", zap.String("key", previous), zap.Error(err))
		}
	}
	return s.view(ctx, company), nil
}

func (s *CompanyService) view(ctx context.Context, c *settings.CompanySetting) *CompanyView {
	v := &CompanyView{CompanySetting: c}
	if c.LogoKey == "" || s.storage == nil {
		return v
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, c.LogoKey, logoURLExpiry)
	if err != nil {
		s.logger.Warn("Failed to sign logo URL", zap.String("key", c.LogoKey), zap.Error(err))
		return v
	}
	v.LogoURL = url
	return v
}
