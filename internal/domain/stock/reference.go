package stock

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Reference prefixes per movement kind
const (
	PrefixTransfer   = "TRF"
	PrefixPurchase   = "PUR"
	PrefixSale       = "SAL"
	PrefixAdjustment = "ADJ"
)

// Transfer leg suffixes
const (
	SuffixOut = "-OUT"
	SuffixIn  = "-IN"
)

// NewReference returns PREFIX-YYYYMMDD-XXXXXXXX
func NewReference(prefix string, date time.Time) string {
	if date.IsZero() {
		date = time.Now()
	}
	return prefix + "-" + date.Format("20060102") + "-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// BaseReference strips a transfer leg suffix
func BaseReference(ref string) string {
	if s, ok := strings.CutSuffix(ref, SuffixOut); ok {
		return s
	}
	if s, ok := strings.CutSuffix(ref, SuffixIn); ok {
		return s
	}
	return ref
}

// ValidateUserReference rejects caller-supplied references that would collide
// with transfer or adjustment numbering
func ValidateUserReference(ref string) error {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	for _, prefix := range []string{PrefixTransfer, PrefixAdjustment} {
		if strings.HasPrefix(ref, prefix+"-") {
			return shared.NewDomainError("INVALID_REFERENCE", "Reference prefix "+prefix+"- is reserved")
		}
	}
	return nil
}

// IsTransferLeg reports whether m is one leg of the transfer numbered base
func IsTransferLeg(m *StockMovement, base string) bool {
	switch m.Type {
	case MovementTransferOut:
		return m.ReferenceNumber == base+SuffixOut
	case MovementTransferIn:
		return m.ReferenceNumber == base+SuffixIn
	}
	return false
}
