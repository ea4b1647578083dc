// Package stock implements product and warehouse maintenance and the
// quantity-changing use cases: receive, issue, adjust and transfer.
package stock

import (
	"errors"

	"github.com/erp/backoffice/internal/domain/shared"
)

func notFound(err error, code, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(code, message)
	}
	return err
}
