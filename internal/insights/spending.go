package insights

import (
	"sort"
	"time"
)

// ExpenseRecord is the slice of a transaction the analyzer cares about.
type ExpenseRecord struct {
	Category string
	Amount   float64
	Date     time.Time
}

// CategoryShare is one entry of the top-categories list.
type CategoryShare struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// SpendingAnalysis is the /api/bank/spending-analysis response body.
type SpendingAnalysis struct {
	PeriodDays        int                `json:"period_days"`
	TotalSpending     float64            `json:"total_spending"`
	DailyAverage      float64            `json:"daily_average"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	TopCategories     []CategoryShare    `json:"top_categories"`
	DailySpending     map[string]float64 `json:"daily_spending"`
}

// AnalyzeSpending aggregates expenses per category and per calendar day
// and ranks the top five categories by amount. Ties break alphabetically
// so the ranking is stable.
func AnalyzeSpending(expenses []ExpenseRecord, days int) SpendingAnalysis {
	byCategory := make(map[string]float64)
	byDay := make(map[string]float64)

	var total float64
	for _, e := range expenses {
		byCategory[e.Category] += e.Amount
		byDay[e.Date.Format("2006-01-02")] += e.Amount
		total += e.Amount
	}

	dailyAvg := 0.0
	if days > 0 {
		dailyAvg = total / float64(days)
	}

	cats := make([]CategoryShare, 0, len(byCategory))
	for cat, amount := range byCategory {
		pct := 0.0
		if total > 0 {
			pct = amount / total * 100
		}
		cats = append(cats, CategoryShare{Category: cat, Amount: amount, Percentage: pct})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Amount != cats[j].Amount {
			return cats[i].Amount > cats[j].Amount
		}
		return cats[i].Category < cats[j].Category
	})
	if len(cats) > 5 {
		cats = cats[:5]
	}

	return SpendingAnalysis{
		PeriodDays:        days,
		TotalSpending:     total,
		DailyAverage:      dailyAvg,
		CategoryBreakdown: byCategory,
		TopCategories:     cats,
		DailySpending:     byDay,
	}
}
