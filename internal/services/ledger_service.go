package services

import (
	"context"
	"fmt"
	"strings"

	"finledger/internal/core"
	"finledger/internal/storage"
)

// LedgerService records transactions and budgets and assembles the monthly
// report.
type LedgerService struct {
	repo *storage.Repository
}

func NewLedgerService(repo *storage.Repository) *LedgerService {
	return &LedgerService{repo: repo}
}

// AddTransaction validates the kind and amount and persists the row. The
// date string is stored as supplied; the report matches on its month and
// year components.
func (s *LedgerService) AddTransaction(ctx context.Context, username, kind, amount, category, date string) (core.Transaction, error) {
	k, err := core.ParseKind(kind)
	if err != nil {
		return core.Transaction{}, err
	}
	m, err := core.ParseAmount(amount)
	if err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.repo.CreateTransaction(ctx, core.Transaction{
		Username: username,
		Kind:     k,
		Amount:   m,
		Category: strings.TrimSpace(category),
		Date:     strings.TrimSpace(date),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns the user's full ledger in insertion order.
func (s *LedgerService) ListTransactions(ctx context.Context, username string) ([]core.Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// SetBudget stores the budget ceiling for a category and period, replacing
// any previous value.
func (s *LedgerService) SetBudget(ctx context.Context, username, category, amount string, month, year int) error {
	period := core.Period{Month: month, Year: year}
	if err := period.Validate(); err != nil {
		return err
	}
	m, err := core.ParseAmount(amount)
	if err != nil {
		return err
	}

	err = s.repo.UpsertBudget(ctx, core.Budget{
		Username: username,
		Category: strings.TrimSpace(category),
		Amount:   m,
		Month:    month,
		Year:     year,
	})
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

// MonthlyReport aggregates the user's transactions for the period and joins
// expense categories against their budgets. A period with no transactions
// yields an empty report, not an error.
func (s *LedgerService) MonthlyReport(ctx context.Context, username string, month, year int) (core.MonthlyReport, error) {
	period := core.Period{Month: month, Year: year}
	if err := period.Validate(); err != nil {
		return core.MonthlyReport{}, err
	}

	sums, err := s.repo.SumByCategoryKind(ctx, username, period)
	if err != nil {
		return core.MonthlyReport{}, fmt.Errorf("aggregate transactions: %w", err)
	}
	budgets, err := s.repo.ListBudgets(ctx, username, period)
	if err != nil {
		return core.MonthlyReport{}, fmt.Errorf("load budgets: %w", err)
	}

	return core.BuildMonthlyReport(period, sums, budgets), nil
}
