package insights

// BudgetFacts is what the aggregator needs to know about one budget: the
// stored row plus the freshly computed spent total for its category and
// period.
type BudgetFacts struct {
	ID       int64
	Name     string
	Category string
	Amount   float64
	Spent    float64
	Period   string
}

// BudgetStatus is the per-budget line of the overview.
type BudgetStatus struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Amount         float64 `json:"amount"`
	Spent          float64 `json:"spent"`
	Remaining      float64 `json:"remaining"`
	PercentageUsed float64 `json:"percentage_used"`
	Status         string  `json:"status"`
	Period         string  `json:"period"`
}

// BudgetSummary totals the overview across budgets.
type BudgetSummary struct {
	TotalBudgeted     float64 `json:"total_budgeted"`
	TotalSpent        float64 `json:"total_spent"`
	TotalRemaining    float64 `json:"total_remaining"`
	OverallPercentage float64 `json:"overall_percentage"`
}

// BudgetOverview is the /api/budgets/overview response body.
type BudgetOverview struct {
	Budgets []BudgetStatus `json:"budgets"`
	Summary BudgetSummary  `json:"summary"`
}

// StatusFor classifies utilization: spending over the full amount is
// over_budget, over 80% of it is warning, anything else on_track. A zero
// amount counts as 0% used, not a division error.
func StatusFor(amount, spent float64) (percentage float64, status string) {
	if amount > 0 {
		percentage = spent / amount * 100
	}
	status = "on_track"
	if percentage > 100 {
		status = "over_budget"
	} else if percentage > 80 {
		status = "warning"
	}
	return percentage, status
}

// BuildOverview computes per-budget status lines and the cross-budget
// summary. Order of the input is preserved.
func BuildOverview(budgets []BudgetFacts) BudgetOverview {
	out := BudgetOverview{Budgets: []BudgetStatus{}}
	var totalBudgeted, totalSpent float64

	for _, b := range budgets {
		pct, status := StatusFor(b.Amount, b.Spent)
		out.Budgets = append(out.Budgets, BudgetStatus{
			ID:             b.ID,
			Name:           b.Name,
			Category:       b.Category,
			Amount:         b.Amount,
			Spent:          b.Spent,
			Remaining:      b.Amount - b.Spent,
			PercentageUsed: round2(pct),
			Status:         status,
			Period:         b.Period,
		})
		totalBudgeted += b.Amount
		totalSpent += b.Spent
	}

	overall := 0.0
	if totalBudgeted > 0 {
		overall = totalSpent / totalBudgeted * 100
	}
	out.Summary = BudgetSummary{
		TotalBudgeted:     totalBudgeted,
		TotalSpent:        totalSpent,
		TotalRemaining:    totalBudgeted - totalSpent,
		OverallPercentage: round2(overall),
	}
	return out
}
