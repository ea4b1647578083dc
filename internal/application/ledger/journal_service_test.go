package ledger_test

import (
	"context"
	"testing"

	ledgerapp "github.com/erp/backoffice/internal/application/ledger"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postedRecorder struct {
	amounts []decimal.Decimal
}

func (r *postedRecorder) RecordJournalPosted(_ context.Context, amount decimal.Decimal) {
	r.amounts = append(r.amounts, amount)
}

func TestJournalService_Lifecycle(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	metrics := &postedRecorder{}
	f.journals.SetMetrics(metrics)

	fy, err := f.years.Create(ctx, testActor, ledgerapp.FinancialYearInput{
		Name: "FY 2024", StartDate: date(2024, 1, 1), EndDate: date(2024, 12, 31),
	})
	require.NoError(t, err)

	rent := f.account(t, "5000", ledger.AccountTypeExpense)
	cash := f.account(t, "1000", ledger.AccountTypeAsset)

	lines := []ledger.JournalLine{
		{AccountID: rent.ID, Debit: decimal.NewFromInt(40)},
		{AccountID: cash.ID, Credit: decimal.NewFromInt(40)},
	}

	t.Run("unbalanced entry is rejected", func(t *testing.T) {
		_, err := f.journals.Create(ctx, testActor, ledgerapp.JournalInput{
			EntryDate: date(2024, 2, 1),
			Lines: []ledger.JournalLine{
				{AccountID: rent.ID, Debit: decimal.NewFromInt(40)},
				{AccountID: cash.ID, Credit: decimal.NewFromInt(30)},
			},
		})
		assert.Equal(t, "JOURNAL_NOT_BALANCED", shared.ErrorCode(err))
	})

	t.Run("date outside every year has no financial year", func(t *testing.T) {
		_, err := f.journals.Create(ctx, testActor, ledgerapp.JournalInput{EntryDate: date(2030, 2, 1), Lines: lines})
		assert.Equal(t, "FINANCIAL_YEAR_REQUIRED", shared.ErrorCode(err))
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		category, err := f.categories.Create(ctx, testActor, ledgerapp.CategoryInput{Name: "Dormant", Type: ledger.AccountTypeAsset})
		require.NoError(t, err)
		dormant, err := f.accounts.Create(ctx, testActor, ledger.AccountDetails{
			AccountCode: "1999", Name: "Dormant", CategoryID: category.ID, IsActive: false,
		})
		require.NoError(t, err)

		_, err = f.journals.Create(ctx, testActor, ledgerapp.JournalInput{
			EntryDate: date(2024, 2, 1),
			Lines: []ledger.JournalLine{
				{AccountID: rent.ID, Debit: decimal.NewFromInt(5)},
				{AccountID: dormant.ID, Credit: decimal.NewFromInt(5)},
			},
		})
		assert.Equal(t, "INVALID_ACCOUNT", shared.ErrorCode(err))
	})

	entry, err := f.journals.Create(ctx, testActor, ledgerapp.JournalInput{
		FinancialYearID: &fy.ID,
		EntryDate:       date(2024, 2, 1),
		Description:     "February rent",
		Lines:           lines,
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.JournalStatusDraft, entry.Status)
	assert.Len(t, entry.Items, 2)

	revised, err := f.journals.Update(ctx, testActor, entry.ID, ledgerapp.JournalInput{
		EntryDate:   date(2024, 2, 2),
		Description: "February rent (revised)",
		Lines: []ledger.JournalLine{
			{AccountID: rent.ID, Debit: decimal.NewFromInt(45)},
			{AccountID: cash.ID, Credit: decimal.NewFromInt(45)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "February rent (revised)", revised.Description)

	stored, err := f.journals.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)

	posted, err := f.journals.Post(ctx, testActor, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.JournalStatusPosted, posted.Status)
	require.Len(t, metrics.amounts, 1)
	assert.True(t, metrics.amounts[0].Equal(decimal.NewFromInt(45)))

	_, err = f.journals.Post(ctx, testActor, entry.ID)
	assert.Equal(t, "JOURNAL_ENTRY_POSTED", shared.ErrorCode(err))

	err = f.journals.Delete(ctx, testActor, entry.ID)
	assert.Equal(t, "JOURNAL_ENTRY_POSTED", shared.ErrorCode(err))

	page, err := f.journals.List(ctx, ledger.JournalFilter{Filter: shared.DefaultFilter(), Status: ledger.JournalStatusPosted})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestJournalService_DeleteDraft(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.years.Create(ctx, testActor, ledgerapp.FinancialYearInput{
		Name: "FY 2024", StartDate: date(2024, 1, 1), EndDate: date(2024, 12, 31),
	})
	require.NoError(t, err)
	a := f.account(t, "1000", ledger.AccountTypeAsset)
	b := f.account(t, "3000", ledger.AccountTypeEquity)

	entry, err := f.journals.Create(ctx, testActor, ledgerapp.JournalInput{
		EntryDate: date(2024, 1, 1),
		Lines: []ledger.JournalLine{
			{AccountID: a.ID, Debit: decimal.NewFromInt(1000)},
			{AccountID: b.ID, Credit: decimal.NewFromInt(1000)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.journals.Delete(ctx, testActor, entry.ID))

	var items int64
	require.NoError(t, f.db.DB.Model(&ledger.JournalItem{}).Where("journal_entry_id = ?", entry.ID).Count(&items).Error)
	assert.Zero(t, items)

	_, err = f.journals.Get(ctx, entry.ID)
	assert.Equal(t, "JOURNAL_ENTRY_NOT_FOUND", shared.ErrorCode(err))
}
