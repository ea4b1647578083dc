package ledger

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
)

// FinancialYear is a bounded accounting period. At most one is active.
type FinancialYear struct {
	shared.BaseEntity
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	IsActive  bool      `gorm:"not null;default:false;index" json:"is_active"`
}

// TableName returns the table name for GORM
func (FinancialYear) TableName() string {
	return "financial_years"
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewFinancialYear creates a validated, inactive financial year
func NewFinancialYear(name string, start, end time.Time) (*FinancialYear, error) {
	fy := &FinancialYear{BaseEntity: shared.NewBaseEntity()}
	if err := fy.apply(name, start, end); err != nil {
		return nil, err
	}
	return fy, nil
}

// Update changes the name and date range
func (fy *FinancialYear) Update(name string, start, end time.Time) error {
	if err := fy.apply(name, start, end); err != nil {
		return err
	}
	fy.Touch()
	return nil
}

func (fy *FinancialYear) apply(name string, start, end time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return shared.NewDomainError("INVALID_NAME", "Financial year name must be 1-50 characters")
	}
	start, end = DateOnly(start), DateOnly(end)
	if !end.After(start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date must be after start date")
	}
	fy.Name = name
	fy.StartDate = start
	fy.EndDate = end
	return nil
}

// Overlaps reports whether the two closed date ranges intersect:
// a.start <= b.end AND a.end >= b.start
func (fy *FinancialYear) Overlaps(other *FinancialYear) bool {
	return RangesOverlap(fy.StartDate, fy.EndDate, other.StartDate, other.EndDate)
}

// RangesOverlap applies the closed interval intersection test on calendar dates
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	aStart, aEnd = DateOnly(aStart), DateOnly(aEnd)
	bStart, bEnd = DateOnly(bStart), DateOnly(bEnd)
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// Contains reports whether the date falls inside the year, inclusive
func (fy *FinancialYear) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(fy.StartDate) && !d.After(fy.EndDate)
}

// FindOverlap returns the first existing year that intersects the candidate,
// ignoring the candidate's own row.
func FindOverlap(candidate *FinancialYear, existing []FinancialYear) *FinancialYear {
	for i := range existing {
		if existing[i].ID == candidate.ID {
			continue
		}
		if candidate.Overlaps(&existing[i]) {
			return &existing[i]
		}
	}
	return nil
}

// ErrFinancialYearOverlap builds the rejection naming the conflicting year
func ErrFinancialYearOverlap(conflict *FinancialYear) error {
	return shared.NewDomainError("FINANCIAL_YEAR_OVERLAP",
		"Date range overlaps financial year "+conflict.Name+
			" ("+conflict.StartDate.Format("2006-01-02")+" to "+conflict.EndDate.Format("2006-01-02")+")")
}

// CanDelete checks the state-based delete guard. Journal usage is checked by the caller.
func (fy *FinancialYear) CanDelete() error {
	if fy.IsActive {
		return shared.NewDomainError("FINANCIAL_YEAR_ACTIVE", "The active financial year cannot be deleted")
	}
	return nil
}
