package ledger_test

import (
	"context"
	"testing"
	"time"

	ledgerapp "github.com/erp/backoffice/internal/application/ledger"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testActor = audit.Actor{ID: uuid.New(), Email: "admin@example.com"}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newYearService(t *testing.T) (*ledgerapp.FinancialYearService, *testutil.SQLiteDB) {
	db := testutil.NewSQLiteDB(t)
	return ledgerapp.NewFinancialYearService(db.Repos, db.Scope, zap.NewNop()), db
}

func countAudit(t *testing.T, db *testutil.SQLiteDB, subject audit.SubjectType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(&audit.AuditLog{}).Where("subject_type = ?", subject).Count(&n).Error)
	return n
}

func TestFinancialYearService_Create_Overlap(t *testing.T) {
	svc, db := newYearService(t)
	ctx := context.Background()

	fy2023, err := svc.Create(ctx, testActor, ledgerapp.FinancialYearInput{
		Name: "FY 2023", StartDate: date(2023, 1, 1), EndDate: date(2023, 12, 31),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, testActor, ledgerapp.FinancialYearInput{
		Name: "Overlapping", StartDate: date(2023, 6, 1), EndDate: date(2024, 6, 1),
	})
	require.Error(t, err)
	assert.Equal(t, "FINANCIAL_YEAR_OVERLAP", shared.ErrorCode(err))
	assert.Contains(t, err.Error(), "FY 2023")

	_, err = svc.Create(ctx, testActor, ledgerapp.FinancialYearInput{
		Name: "FY 2024", StartDate: date(2024, 1, 1), EndDate: date(2024, 12, 31),
	})
	require.NoError(t, err)

	years, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, years, 2)
	assert.Equal(t, int64(2), countAudit(t, db, audit.SubjectFinancialYear))

	t.Run("update excludes the edited year", func(t *testing.T) {
		updated, err := svc.Update(ctx, testActor, fy2023.ID, ledgerapp.FinancialYearInput{
			Name: "FY 2023 (revised)", StartDate: date(2023, 1, 1), EndDate: date(2023, 12, 31),
		})
		require.NoError(t, err)
		assert.Equal(t, "FY 2023 (revised)", updated.Name)
	})

	t.Run("update into a neighbour is rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, testActor, fy2023.ID, ledgerapp.FinancialYearInput{
			Name: "FY 2023", StartDate: date(2023, 1, 1), EndDate: date(2024, 1, 1),
		})
		assert.Equal(t, "FINANCIAL_YEAR_OVERLAP", shared.ErrorCode(err))
	})
}

func TestFinancialYearService_Create_InvalidRange(t *testing.T) {
	svc, db := newYearService(t)

	_, err := svc.Create(context.Background(), testActor, ledgerapp.FinancialYearInput{
		Name: "Backwards", StartDate: date(2024, 12, 31), EndDate: date(2024, 1, 1),
	})
	assert.Equal(t, "INVALID_DATE_RANGE", shared.ErrorCode(err))
	assert.Zero(t, countAudit(t, db, audit.SubjectFinancialYear))
}

func TestFinancialYearService_Activate(t *testing.T) {
	svc, db := newYearService(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for i, y := range []int{2022, 2023, 2024} {
		fy, err := svc.Create(ctx, testActor, ledgerapp.FinancialYearInput{
			Name:      "FY " + string(rune('A'+i)),
			StartDate: date(y, 1, 1),
			EndDate:   date(y, 12, 31),
			Activate:  i == 0,
		})
		require.NoError(t, err)
		ids = append(ids, fy.ID)
	}

	_, err := svc.Activate(ctx, testActor, ids[2])
	require.NoError(t, err)

	count, err := db.Repos.FinancialYears().CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[2], active.ID)

	_, err = svc.Activate(ctx, testActor, uuid.New())
	assert.Equal(t, "FINANCIAL_YEAR_NOT_FOUND", shared.ErrorCode(err))

	active, err = svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[2], active.ID, "failed activation must not change the active year")

	_, err = svc.Deactivate(ctx, testActor, ids[2])
	require.NoError(t, err)
	_, err = svc.GetActive(ctx)
	assert.Equal(t, "NO_ACTIVE_FINANCIAL_YEAR", shared.ErrorCode(err))
}

func TestFinancialYearService_Delete(t *testing.T) {
	svc, db := newYearService(t)
	ctx := context.Background()

	active, err := svc.Create(ctx, testActor, ledgerapp.FinancialYearInput{
		Name: "FY 2024", StartDate: date(2024, 1, 1), EndDate: date(2024, 12, 31), Activate: true,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, testActor, active.ID)
	assert.Equal(t, "FINANCIAL_YEAR_ACTIVE", shared.ErrorCode(err))

	old, err := svc.Create(ctx, testActor, ledgerapp.FinancialYearInput{
		Name: "FY 2023", StartDate: date(2023, 1, 1), EndDate: date(2023, 12, 31),
	})
	require.NoError(t, err)

	require.NoError(t, db.DB.Create(&ledger.JournalEntry{
		BaseEntity:      shared.NewBaseEntity(),
		EntryNumber:     "JV-TEST-1",
		EntryDate:       date(2023, 5, 1),
		FinancialYearID: old.ID,
		Status:          ledger.JournalStatusDraft,
	}).Error)

	err = svc.Delete(ctx, testActor, old.ID)
	assert.Equal(t, "FINANCIAL_YEAR_IN_USE", shared.ErrorCode(err))

	_, err = svc.Get(ctx, old.ID)
	assert.NoError(t, err)
}

func TestFinancialYearService_Update_KeepsEntriesInsideRange(t *testing.T) {
	svc, db := newYearService(t)
	ctx := context.Background()

	fy, err := svc.Create(ctx, testActor, ledgerapp.FinancialYearInput{
		Name: "FY 2024", StartDate: date(2024, 1, 1), EndDate: date(2024, 12, 31),
	})
	require.NoError(t, err)

	require.NoError(t, db.DB.Create(&ledger.JournalEntry{
		BaseEntity:      shared.NewBaseEntity(),
		EntryNumber:     "JV-TEST-2",
		EntryDate:       date(2024, 11, 1),
		FinancialYearID: fy.ID,
		Status:          ledger.JournalStatusPosted,
	}).Error)

	_, err = svc.Update(ctx, testActor, fy.ID, ledgerapp.FinancialYearInput{
		Name: "FY 2024", StartDate: date(2024, 1, 1), EndDate: date(2024, 6, 30),
	})
	assert.Equal(t, "FINANCIAL_YEAR_ENTRIES_OUTSIDE", shared.ErrorCode(err))

	_, err = svc.Update(ctx, testActor, fy.ID, ledgerapp.FinancialYearInput{
		Name: "FY 2024", StartDate: date(2024, 12, 1), EndDate: date(2025, 3, 31),
	})
	assert.Equal(t, "FINANCIAL_YEAR_ENTRIES_OUTSIDE", shared.ErrorCode(err))

	stored, err := svc.Get(ctx, fy.ID)
	require.NoError(t, err)
	assert.True(t, stored.EndDate.Equal(date(2024, 12, 31)), "range is unchanged")

	updated, err := svc.Update(ctx, testActor, fy.ID, ledgerapp.FinancialYearInput{
		Name: "FY 2024 (extended)", StartDate: date(2024, 1, 1), EndDate: date(2025, 1, 31),
	})
	require.NoError(t, err)
	assert.Equal(t, "FY 2024 (extended)", updated.Name)

	_, err = svc.Update(ctx, testActor, fy.ID, ledgerapp.FinancialYearInput{
		Name: "FY 2024", StartDate: date(2024, 11, 1), EndDate: date(2024, 11, 30),
	})
	assert.NoError(t, err, "entry on the boundary stays inside")
}
