package persistence

import (
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// translateError maps gorm's not-found sentinel to the domain error
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// paginate applies a whitelisted ORDER BY plus OFFSET/LIMIT
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// searchLike adds a case-insensitive OR search over the given columns
func searchLike(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		clauses[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// excludeID skips the row being edited in uniqueness checks
func excludeID(query *gorm.DB, id uuid.UUID) *gorm.DB {
	if id != uuid.Nil {
		return query.Where("id <> ?", id)
	}
	return query
}
