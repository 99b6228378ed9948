package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finledger/internal/core"
)

func TestAddTransactionNormalizesKind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	accounts := NewAccountService(repo)
	ledger := NewLedgerService(repo)
	require.NoError(t, accounts.Register(ctx, "alice", "p1"))

	tx, err := ledger.AddTransaction(ctx, "alice", " INCOME ", "5000", "Salary", "2025-04-01")
	require.NoError(t, err)
	assert.Equal(t, core.Income, tx.Kind)
	assert.Equal(t, int64(500000), tx.Amount.Cents)
	assert.Positive(t, tx.ID)
	assert.NotEmpty(t, tx.CreatedAt)
}

func TestAddTransactionRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	accounts := NewAccountService(repo)
	ledger := NewLedgerService(repo)
	require.NoError(t, accounts.Register(ctx, "alice", "p1"))

	_, err := ledger.AddTransaction(ctx, "alice", "transfer", "10", "X", "2025-04-01")
	assert.ErrorIs(t, err, core.ErrInvalidKind)

	_, err = ledger.AddTransaction(ctx, "alice", "income", "ten", "X", "2025-04-01")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestListTransactionsIncludesEachExactlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	accounts := NewAccountService(repo)
	ledger := NewLedgerService(repo)
	require.NoError(t, accounts.Register(ctx, "alice", "p1"))

	_, err := ledger.AddTransaction(ctx, "alice", "income", "5000", "Salary", "2025-04-01")
	require.NoError(t, err)
	_, err = ledger.AddTransaction(ctx, "alice", "expense", "1200", "Rent", "2025-04-05")
	require.NoError(t, err)

	txs, err := ledger.ListTransactions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "Salary", txs[0].Category)
	assert.Equal(t, "2025-04-01", txs[0].Date)
	assert.Equal(t, "Rent", txs[1].Category)
	assert.Equal(t, "2025-04-05", txs[1].Date)
}

func TestSetBudgetValidatesPeriod(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	accounts := NewAccountService(repo)
	ledger := NewLedgerService(repo)
	require.NoError(t, accounts.Register(ctx, "alice", "p1"))

	assert.ErrorIs(t, ledger.SetBudget(ctx, "alice", "Rent", "100", 13, 2025), core.ErrInvalidPeriod)
	assert.ErrorIs(t, ledger.SetBudget(ctx, "alice", "Rent", "100", 0, 2025), core.ErrInvalidPeriod)
	assert.ErrorIs(t, ledger.SetBudget(ctx, "alice", "Rent", "abc", 4, 2025), core.ErrInvalidAmount)
	assert.NoError(t, ledger.SetBudget(ctx, "alice", "Rent", "1500", 4, 2025))
}

func TestMonthlyReportScenario(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	accounts := NewAccountService(repo)
	ledger := NewLedgerService(repo)

	require.NoError(t, accounts.Register(ctx, "alice", "p1"))
	_, err := ledger.AddTransaction(ctx, "alice", "income", "5000", "Salary", "2025-04-01")
	require.NoError(t, err)
	_, err = ledger.AddTransaction(ctx, "alice", "expense", "1200", "Rent", "2025-04-05")
	require.NoError(t, err)

	report, err := ledger.MonthlyReport(ctx, "alice", 4, 2025)
	require.NoError(t, err)

	require.Len(t, report.Income, 1)
	assert.Equal(t, "Salary", report.Income[0].Category)
	assert.Equal(t, int64(500000), report.Income[0].Amount.Cents)

	require.Len(t, report.Expenses, 1)
	assert.Equal(t, "Rent", report.Expenses[0].Category)
	assert.Equal(t, int64(120000), report.Expenses[0].Amount.Cents)
	assert.Nil(t, report.Expenses[0].Budget, "no budget set for Rent")

	assert.Equal(t, int64(500000), report.TotalIncome.Cents)
	assert.Equal(t, int64(120000), report.TotalExpense.Cents)
	assert.Equal(t, int64(380000), report.Savings.Cents)
}

func TestMonthlyReportWithBudget(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	accounts := NewAccountService(repo)
	ledger := NewLedgerService(repo)

	require.NoError(t, accounts.Register(ctx, "alice", "p1"))
	_, err := ledger.AddTransaction(ctx, "alice", "expense", "1200", "Rent", "2025-04-05")
	require.NoError(t, err)
	require.NoError(t, ledger.SetBudget(ctx, "alice", "Rent", "1500", 4, 2025))
	// A budget in another period must not leak into the report.
	require.NoError(t, ledger.SetBudget(ctx, "alice", "Rent", "9999", 5, 2025))

	report, err := ledger.MonthlyReport(ctx, "alice", 4, 2025)
	require.NoError(t, err)
	require.Len(t, report.Expenses, 1)
	require.NotNil(t, report.Expenses[0].Budget)
	assert.Equal(t, int64(150000), report.Expenses[0].Budget.Cents)
}

func TestMonthlyReportEmptyPeriod(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	accounts := NewAccountService(repo)
	ledger := NewLedgerService(repo)
	require.NoError(t, accounts.Register(ctx, "alice", "p1"))

	report, err := ledger.MonthlyReport(ctx, "alice", 2, 2025)
	require.NoError(t, err)
	assert.Empty(t, report.Income)
	assert.Empty(t, report.Expenses)
	assert.Zero(t, report.TotalIncome.Cents)
	assert.Zero(t, report.TotalExpense.Cents)
	assert.Zero(t, report.Savings.Cents)

	_, err = ledger.MonthlyReport(ctx, "alice", 0, 2025)
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)
}
