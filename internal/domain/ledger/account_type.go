// Package ledger models the chart of accounts, financial years and journal postings.
package ledger

import "github.com/shopspring/decimal"

// AccountType classifies ledger accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// NormalSide is the side on which an account type increases
type NormalSide string

const (
	NormalSideDebit  NormalSide = "debit"
	NormalSideCredit NormalSide = "credit"
)

// AllAccountTypes returns every account type in chart order
func AllAccountTypes() []AccountType {
	return []AccountType{
		AccountTypeAsset,
		AccountTypeLiability,
		AccountTypeEquity,
		AccountTypeRevenue,
		AccountTypeExpense,
	}
}

// IsValid reports whether the type is one of the known account types
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalSide returns debit for assets and expenses, credit otherwise
func (t AccountType) NormalSide() NormalSide {
	if t == AccountTypeAsset || t == AccountTypeExpense {
		return NormalSideDebit
	}
	return NormalSideCredit
}

// SignedBalance applies the account type's sign convention to debit/credit totals
func SignedBalance(t AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if t.NormalSide() == NormalSideDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
