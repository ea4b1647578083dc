// Package organization implements department, designation and employee management.
package organization

import (
	"errors"

	"github.com/erp/backoffice/internal/domain/shared"
)

// notFound turns a repository miss into a coded domain error
func notFound(err error, code, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(code, message)
	}
	return err
}
