// Package identity models back-office users, their roles and permissions.
package identity

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost used for new password hashes
var PasswordHashCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a back-office account
type User struct {
	shared.BaseEntity
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password
func NewUser(name, email, password string, role Role) (*User, error) {
	u := &User{BaseEntity: shared.NewBaseEntity(), IsActive: true}
	if err := u.apply(name, email, role); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes name, email and role. actorID is the user performing the change.
func (u *User) UpdateProfile(actorID uuid.UUID, name, email string, role Role) error {
	if actorID == u.ID && role != u.Role {
		return shared.NewDomainError("CANNOT_CHANGE_OWN_ROLE", "You cannot change your own role")
	}
	if err := u.apply(name, email, role); err != nil {
		return err
	}
	u.Touch()
	return nil
}

func (u *User) apply(name, email string, role Role) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name must be 1-100 characters")
	}
	email = NormalizeEmail(email)
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role is not valid")
	}
	u.Name = name
	u.Email = email
	u.Role = role
	return nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetActive changes the active flag. Users cannot change their own status.
func (u *User) SetActive(actorID uuid.UUID, active bool) error {
	if active == u.IsActive {
		return nil
	}
	if actorID == u.ID {
		return shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot change the status of your own account")
	}
	u.IsActive = active
	u.Touch()
	return nil
}

// ToggleStatus flips the active flag. Users cannot toggle their own account.
func (u *User) ToggleStatus(actorID uuid.UUID) error {
	return u.SetActive(actorID, !u.IsActive)
}

// CanDelete rejects self-deletion. Dependent rows are checked by the caller.
func (u *User) CanDelete(actorID uuid.UUID) error {
	if actorID == u.ID {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}
	return nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserFilter narrows a user listing
type UserFilter struct {
	shared.Filter
	Role     Role
	IsActive *bool
}

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter UserFilter) ([]User, int64, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
