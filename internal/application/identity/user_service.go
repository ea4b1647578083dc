// Package identity implements user administration and authentication.
package identity

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRevoker invalidates every token issued to a user so far
type SessionRevoker interface {
	RevokeUserSessions(ctx context.Context, userID uuid.UUID) error
}

// UserService handles user management operations
type UserService struct {
	repos    scope.Repositories
	tx       scope.TransactionScope
	sessions SessionRevoker
	logger   *zap.Logger
}

// NewUserService creates a new user service. sessions may be nil, in which
// case deactivated users keep their tokens until they expire.
func NewUserService(repos scope.Repositories, tx scope.TransactionScope, sessions SessionRevoker, logger *zap.Logger) *UserService {
	return &UserService{repos: repos, tx: tx, sessions: sessions, logger: logger}
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, filter identity.UserFilter) (shared.Paginated[identity.User], error) {
	filter.Filter = filter.Filter.Normalize()
	users, total, err := s.repos.Users().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[identity.User]{}, err
	}
	return shared.NewPaginated(users, total, filter.Page, filter.PageSize), nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	u, err := s.repos.Users().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "USER_NOT_FOUND", "User not found")
	}
	return u, nil
}

// Create adds a user with a unique email
func (s *UserService) Create(ctx context.Context, actor audit.Actor, input CreateUserInput) (*identity.User, error) {
	u, err := identity.NewUser(input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		return nil, err
	}
	u.IsActive = input.IsActive

	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := checkEmail(ctx, repos, u); err != nil {
			return err
		}
		if err := repos.Users().Save(ctx, u); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectUser, u.ID, u))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)))
	return u, nil
}

// Update edits a user. Actors cannot change their own role or deactivate themselves.
func (s *UserService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input UpdateUserInput) (*identity.User, error) {
	var (
		u      *identity.User
		revoke bool
	)
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		u, err = repos.Users().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "USER_NOT_FOUND", "User not found")
		}
		before := *u

		if err := u.UpdateProfile(actor.ID, input.Name, input.Email, input.Role); err != nil {
			s.logger.Warn("User update rejected", zap.String("user_id", id.String()), zap.Error(err))
			return err
		}
		if err := u.SetActive(actor.ID, input.IsActive); err != nil {
			s.logger.Warn("User update rejected", zap.String("user_id", id.String()), zap.Error(err))
			return err
		}
		if input.Password != "" {
			if err := u.SetPassword(input.Password); err != nil {
				return err
			}
		}
		if err := checkEmail(ctx, repos, u); err != nil {
			return err
		}
		if err := repos.Users().Save(ctx, u); err != nil {
			return err
		}

		revoke = before.Role != u.Role || (before.IsActive && !u.IsActive) || input.Password != ""
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectUser, u.ID, before, u))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User updated", zap.String("user_id", u.ID.String()))
	if revoke {
		s.revokeSessions(ctx, u.ID)
	}
	return u, nil
}

// ToggleStatus flips a user's active flag
func (s *UserService) ToggleStatus(ctx context.Context, actor audit.Actor, id uuid.UUID) (*identity.User, error) {
	var u *identity.User
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		u, err = repos.Users().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "USER_NOT_FOUND", "User not found")
		}
		if err := u.ToggleStatus(actor.ID); err != nil {
			s.logger.Warn("User status toggle rejected",
				zap.String("user_id", id.String()),
				zap.String("actor_id", actor.ID.String()))
			return err
		}
		if err := repos.Users().Save(ctx, u); err != nil {
			return err
		}

		action := audit.ActionDeactivated
		if u.IsActive {
			action = audit.ActionActivated
		}
		return repos.Audit().Record(ctx, audit.Entry{
			Actor:       actor,
			SubjectType: audit.SubjectUser,
			SubjectID:   u.ID,
			Action:      action,
			OldValues:   audit.Payload{"is_active": !u.IsActive},
			NewValues:   audit.Payload{"is_active": u.IsActive},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User status changed",
		zap.String("user_id", u.ID.String()),
		zap.Bool("is_active", u.IsActive))
	if !u.IsActive {
		s.revokeSessions(ctx, u.ID)
	}
	return u, nil
}

// Delete removes a user who has no employee record and no journal entries
func (s *UserService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		u, err := repos.Users().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "USER_NOT_FOUND", "User not found")
		}
		if err := u.CanDelete(actor.ID); err != nil {
			s.logger.Warn("User delete rejected", zap.String("user_id", id.String()), zap.Error(err))
			return err
		}

		linked, err := repos.Employees().ExistsByUser(ctx, id, uuid.Nil)
		if err != nil {
			return err
		}
		if linked {
			s.logger.Warn("User delete rejected", zap.String("user_id", id.String()), zap.String("reason", "employee"))
			return shared.NewDomainError("USER_LINKED_TO_EMPLOYEE", "User is linked to an employee")
		}
		entries, err := repos.JournalEntries().CountByCreator(ctx, id)
		if err != nil {
			return err
		}
		if entries > 0 {
			s.logger.Warn("User delete rejected", zap.String("user_id", id.String()), zap.Int64("journal_entries", entries))
			return shared.NewDomainError("USER_HAS_JOURNAL_ENTRIES", "User has created journal entries")
		}

		if err := repos.Users().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectUser, id, u))
	})
	if err != nil {
		return err
	}

	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	s.revokeSessions(ctx, id)
	return nil
}

// Roles lists the assignable roles with their permissions
func (s *UserService) Roles() []RoleOption {
	roles := identity.AllRoles()
	out := make([]RoleOption, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleOption{Value: r, Permissions: r.PermissionStrings()})
	}
	return out
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.RevokeUserSessions(ctx, userID); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func checkEmail(ctx context.Context, repos scope.Repositories, u *identity.User) error {
	exists, err := repos.Users().ExistsByEmail(ctx, u.Email, u.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("USER_EMAIL_EXISTS", "Email is already registered")
	}
	return nil
}

// notFound turns a repository miss into a coded domain error
func notFound(err error, code, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(code, message)
	}
	return err
}
