package identity

import "slices"

// Role is the fixed set of user roles
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
	RoleManager    Role = "manager"
	RoleUser       Role = "user"
)

// AllRoles returns every role, most privileged first
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleAccountant, RoleManager, RoleUser}
}

// IsValid returns true for a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAccountant, RoleManager, RoleUser:
		return true
	}
	return false
}

// Permission is an enumerated capability checked before a handler runs
type Permission string

const (
	PermLedgerRead    Permission = "ledger:read"
	PermLedgerWrite   Permission = "ledger:write"
	PermJournalPost   Permission = "journal:post"
	PermStockRead     Permission = "stock:read"
	PermStockWrite    Permission = "stock:write"
	PermSettingsWrite Permission = "settings:write"
	PermUsersManage   Permission = "users:manage"
	PermHRManage      Permission = "hr:manage"
	PermAuditRead     Permission = "audit:read"
)

// AllPermissions returns every permission
func AllPermissions() []Permission {
	return []Permission{
		PermLedgerRead, PermLedgerWrite, PermJournalPost,
		PermStockRead, PermStockWrite,
		PermSettingsWrite, PermUsersManage, PermHRManage, PermAuditRead,
	}
}

var rolePermissions = map[Role][]Permission{
	RoleAdmin: AllPermissions(),
	RoleAccountant: {
		PermLedgerRead, PermLedgerWrite, PermJournalPost,
		PermStockRead, PermSettingsWrite, PermAuditRead,
	},
	RoleManager: {
		PermLedgerRead, PermStockRead, PermStockWrite,
		PermHRManage, PermAuditRead,
	},
	RoleUser: {
		PermLedgerRead, PermStockRead,
	},
}

// Permissions returns the permissions granted to the role
func (r Role) Permissions() []Permission {
	return slices.Clone(rolePermissions[r])
}

// Can reports whether the role grants p
func (r Role) Can(p Permission) bool {
	return slices.Contains(rolePermissions[r], p)
}

// PermissionStrings returns the role's permissions as plain strings, the form carried in tokens
func (r Role) PermissionStrings() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
