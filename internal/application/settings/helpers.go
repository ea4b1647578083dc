// Package settings implements the company configuration and tax rate use cases.
package settings

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
