package core

// CategorySum is one row of the grouped monthly aggregate: the total amount
// of all transactions sharing a category and kind within the period.
type CategorySum struct {
	Category string
	Kind     Kind
	Total    Money
}

// IncomeLine is one row of the income table.
type IncomeLine struct {
	Category string
	Amount   Money
}

// ExpenseLine is one row of the expense table. Budget is nil when no budget
// was set for the category in the period; renderers show a placeholder.
type ExpenseLine struct {
	Category string
	Amount   Money
	Budget   *Money
}

// MonthlyReport is the computed income/expense summary for one period.
type MonthlyReport struct {
	Period       Period
	Income       []IncomeLine
	Expenses     []ExpenseLine
	TotalIncome  Money
	TotalExpense Money
	Savings      Money
}

// BuildMonthlyReport partitions grouped category sums into income and
// expense lines, attaches the matching budget ceiling to each expense
// category, and computes the period totals. It is a pure function: an empty
// input yields an empty report with zero totals.
func BuildMonthlyReport(period Period, sums []CategorySum, budgets map[string]Money) MonthlyReport {
	report := MonthlyReport{Period: period}
	for _, s := range sums {
		if s.Kind == Income {
			report.TotalIncome = report.TotalIncome.Add(s.Total)
			report.Income = append(report.Income, IncomeLine{
				Category: s.Category,
				Amount:   s.Total,
			})
			continue
		}
		report.TotalExpense = report.TotalExpense.Add(s.Total)
		line := ExpenseLine{Category: s.Category, Amount: s.Total}
		if b, ok := budgets[s.Category]; ok {
			budget := b
			line.Budget = &budget
		}
		report.Expenses = append(report.Expenses, line)
	}
	report.Savings = report.TotalIncome.Sub(report.TotalExpense)
	return report
}
