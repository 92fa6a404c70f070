// Package insights computes derived financial views (health score, budget
// status, spending analysis) as pure functions over already-loaded rows,
// so every number is reproducible from its inputs.
package insights

import "math"

// HealthInput carries the raw aggregates the scorer works from. Income and
// Expenses cover the trailing 90 days; EmergencyFund is the sum of savings
// account balances.
type HealthInput struct {
	TotalBalance  float64
	EmergencyFund float64
	Income        float64
	Expenses      float64
}

// ComponentScore is one weighted ingredient of the overall score.
type ComponentScore struct {
	Score float64 `json:"score"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Recommendation is an actionable hint attached to a weak component.
type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// HealthSummary echoes the derived aggregates alongside the score.
type HealthSummary struct {
	TotalBalance        float64 `json:"total_balance"`
	MonthlyIncome       float64 `json:"monthly_income"`
	MonthlyExpenses     float64 `json:"monthly_expenses"`
	SavingsRate         float64 `json:"savings_rate"`
	EmergencyFundMonths float64 `json:"emergency_fund_months"`
}

// HealthScore is the full scoring document served to clients.
type HealthScore struct {
	OverallScore    float64                   `json:"overall_score"`
	HealthLevel     string                    `json:"health_level"`
	Color           string                    `json:"color"`
	Components      map[string]ComponentScore `json:"components"`
	Recommendations []Recommendation          `json:"recommendations"`
	Summary         HealthSummary             `json:"summary"`
}

// Component weights. Savings behavior counts most, raw balance least.
const (
	savingsWeight   = 0.40
	emergencyWeight = 0.35
	balanceWeight   = 0.25
)

// ScoreHealth computes the financial health score. Component scales:
// a 50% savings rate, six months of emergency fund, or a $10k balance
// each max out their component at 100.
func ScoreHealth(in HealthInput) HealthScore {
	savingsRate := 0.0
	if in.Income > 0 {
		savingsRate = (in.Income - in.Expenses) / in.Income * 100
	}

	monthlyExpenses := 1.0
	if in.Expenses > 0 {
		monthlyExpenses = in.Expenses / 3
	}
	emergencyMonths := in.EmergencyFund / monthlyExpenses

	savingsScore := math.Min(savingsRate*2, 100)
	emergencyScore := math.Min(emergencyMonths*16.67, 100)
	balanceScore := math.Min(in.TotalBalance/10000*100, 100)

	overall := savingsScore*savingsWeight + emergencyScore*emergencyWeight + balanceScore*balanceWeight

	level, color := healthLevel(overall)

	recs := []Recommendation{}
	if savingsRate < 20 {
		recs = append(recs, Recommendation{
			Type:        "savings",
			Title:       "Increase Savings Rate",
			Description: "Aim to save at least 20% of your income for better financial security.",
			Priority:    "high",
		})
	}
	if emergencyMonths < 3 {
		recs = append(recs, Recommendation{
			Type:        "emergency_fund",
			Title:       "Build Emergency Fund",
			Description: "Work towards saving 3-6 months of expenses for emergencies.",
			Priority:    "high",
		})
	}
	if in.TotalBalance < 5000 {
		recs = append(recs, Recommendation{
			Type:        "balance",
			Title:       "Increase Account Balances",
			Description: "Focus on building your account balances for financial stability.",
			Priority:    "medium",
		})
	}

	return HealthScore{
		OverallScore: round1(overall),
		HealthLevel:  level,
		Color:        color,
		Components: map[string]ComponentScore{
			"savings_rate": {
				Score: round1(savingsScore),
				Value: round1(savingsRate),
				Label: "Savings Rate",
			},
			"emergency_fund": {
				Score: round1(emergencyScore),
				Value: round1(emergencyMonths),
				Label: "Emergency Fund (months)",
			},
			"total_balance": {
				Score: round1(balanceScore),
				Value: in.TotalBalance,
				Label: "Total Balance",
			},
		},
		Recommendations: recs,
		Summary: HealthSummary{
			TotalBalance:        in.TotalBalance,
			MonthlyIncome:       in.Income / 3,
			MonthlyExpenses:     monthlyExpenses,
			SavingsRate:         savingsRate,
			EmergencyFundMonths: emergencyMonths,
		},
	}
}

func healthLevel(score float64) (string, string) {
	switch {
	case score >= 80:
		return "Excellent", "emerald"
	case score >= 60:
		return "Good", "blue"
	case score >= 40:
		return "Fair", "yellow"
	default:
		return "Needs Improvement", "red"
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
