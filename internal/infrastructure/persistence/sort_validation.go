package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

func withCommon(fields ...string) map[string]bool {
	m := make(map[string]bool, len(CommonSortFields)+len(fields))
	for k := range CommonSortFields {
		m[k] = true
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// Allowed sort fields per table
var (
	CategorySortFields    = withCommon("name", "type")
	AccountSortFields     = withCommon("account_code", "name", "is_active")
	JournalSortFields     = withCommon("entry_number", "entry_date", "status")
	ProductSortFields     = withCommon("sku", "name", "is_active")
	WarehouseSortFields   = withCommon("code", "name", "is_active")
	BalanceSortFields     = withCommon("quantity", "average_cost")
	MovementSortFields    = withCommon("movement_date", "type", "quantity", "reference_number")
	TaxSettingSortFields  = withCommon("name", "rate", "is_active")
	UserSortFields        = withCommon("name", "email", "role", "is_active", "last_login_at")
	DepartmentSortFields  = withCommon("name")
	DesignationSortFields = withCommon("name", "department_id")
	EmployeeSortFields    = withCommon("employee_code", "name", "joined_at")
	AuditSortFields       = map[string]bool{"created_at": true, "action": true, "subject_type": true}
)
