package shell

import (
	"fmt"

	"github.com/olekukonko/tablewriter"

	"finledger/internal/core"
)

// noBudget marks expense categories without a budget ceiling.
const noBudget = "—"

func (s *Shell) renderTransactions(txs []core.Transaction) {
	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Amount", "Type", "Category", "Date", "Created At"})
	for _, t := range txs {
		table.Append([]string{
			t.Amount.Format(s.currency),
			string(t.Kind),
			t.Category,
			t.Date,
			t.CreatedAt,
		})
	}
	table.Render()
}

func (s *Shell) renderReport(report core.MonthlyReport) {
	fmt.Fprintln(s.out, "\n--- Monthly Income Report ---")
	income := tablewriter.NewWriter(s.out)
	income.SetHeader([]string{"Category", "Amount"})
	for _, line := range report.Income {
		income.Append([]string{line.Category, line.Amount.Format(s.currency)})
	}
	income.Render()

	fmt.Fprintln(s.out, "\n--- Monthly Expense Report ---")
	expenses := tablewriter.NewWriter(s.out)
	expenses.SetHeader([]string{"Category", "Amount", "Budget"})
	for _, line := range report.Expenses {
		budget := noBudget
		if line.Budget != nil {
			budget = line.Budget.Format(s.currency)
		}
		expenses.Append([]string{line.Category, line.Amount.Format(s.currency), budget})
	}
	expenses.Render()

	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "Total Income: %s\n", report.TotalIncome.Format(s.currency))
	fmt.Fprintf(s.out, "Total Expense: %s\n", report.TotalExpense.Format(s.currency))
	fmt.Fprintf(s.out, "Savings: %s\n", report.Savings.Format(s.currency))
}
