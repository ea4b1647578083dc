// Package ledger implements the accounting use cases: categories, chart of
// accounts, financial years, journal entries and balance reporting.
package ledger

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
