package insights

import (
	"math"
	"testing"
)

func TestScoreHealthGood(t *testing.T) {
	// 90-day income 12000, expenses 7500 -> savings rate 37.5 -> score 75.
	// Emergency fund 9000 over 2500/month -> 3.6 months -> score 60.012.
	// Balance 20000 caps the balance component at 100.
	got := ScoreHealth(HealthInput{
		TotalBalance:  20000,
		EmergencyFund: 9000,
		Income:        12000,
		Expenses:      7500,
	})

	if got.OverallScore != 76.0 {
		t.Fatalf("overall = %v, want 76.0", got.OverallScore)
	}
	if got.HealthLevel != "Good" || got.Color != "blue" {
		t.Fatalf("level = %q/%q, want Good/blue", got.HealthLevel, got.Color)
	}
	if got.Components["savings_rate"].Score != 75.0 {
		t.Fatalf("savings score = %v", got.Components["savings_rate"].Score)
	}
	if got.Components["emergency_fund"].Value != 3.6 {
		t.Fatalf("emergency months = %v", got.Components["emergency_fund"].Value)
	}
	if got.Components["total_balance"].Score != 100.0 {
		t.Fatalf("balance score = %v", got.Components["total_balance"].Score)
	}
	if len(got.Recommendations) != 0 {
		t.Fatalf("recommendations = %+v, want none", got.Recommendations)
	}
}

func TestScoreHealthExcellent(t *testing.T) {
	got := ScoreHealth(HealthInput{
		TotalBalance:  20000,
		EmergencyFund: 15000,
		Income:        12000,
		Expenses:      4500,
	})

	if got.OverallScore != 100.0 {
		t.Fatalf("overall = %v, want 100.0", got.OverallScore)
	}
	if got.HealthLevel != "Excellent" || got.Color != "emerald" {
		t.Fatalf("level = %q/%q", got.HealthLevel, got.Color)
	}
}

func TestScoreHealthNeedsImprovement(t *testing.T) {
	got := ScoreHealth(HealthInput{
		TotalBalance:  2000,
		EmergencyFund: 0,
		Income:        9000,
		Expenses:      9000,
	})

	if got.OverallScore != 5.0 {
		t.Fatalf("overall = %v, want 5.0", got.OverallScore)
	}
	if got.HealthLevel != "Needs Improvement" || got.Color != "red" {
		t.Fatalf("level = %q/%q", got.HealthLevel, got.Color)
	}
	if len(got.Recommendations) != 3 {
		t.Fatalf("recommendations = %d, want all 3", len(got.Recommendations))
	}
	types := map[string]bool{}
	for _, r := range got.Recommendations {
		types[r.Type] = true
	}
	for _, want := range []string{"savings", "emergency_fund", "balance"} {
		if !types[want] {
			t.Fatalf("missing recommendation %q", want)
		}
	}
}

func TestScoreHealthFair(t *testing.T) {
	// Rate 25 -> 50 -> 20; 2 months -> 33.34 -> 11.669; balance 4000 -> 40 -> 10.
	got := ScoreHealth(HealthInput{
		TotalBalance:  4000,
		EmergencyFund: 3000,
		Income:        6000,
		Expenses:      4500,
	})

	if got.OverallScore != 41.7 {
		t.Fatalf("overall = %v, want 41.7", got.OverallScore)
	}
	if got.HealthLevel != "Fair" || got.Color != "yellow" {
		t.Fatalf("level = %q/%q", got.HealthLevel, got.Color)
	}
	// Savings is fine; emergency fund and balance both trigger.
	if len(got.Recommendations) != 2 {
		t.Fatalf("recommendations = %+v, want 2", got.Recommendations)
	}
}

func TestScoreHealthZeroIncome(t *testing.T) {
	got := ScoreHealth(HealthInput{Expenses: 3000})

	if got.Components["savings_rate"].Value != 0 {
		t.Fatalf("savings rate = %v, want 0 with no income", got.Components["savings_rate"].Value)
	}
	if got.HealthLevel != "Needs Improvement" {
		t.Fatalf("level = %q", got.HealthLevel)
	}
}

func TestScoreHealthZeroExpenses(t *testing.T) {
	// No expenses: monthly expenses falls back to 1 so months stays finite.
	got := ScoreHealth(HealthInput{EmergencyFund: 500, Income: 3000})

	if math.IsInf(got.Summary.EmergencyFundMonths, 0) || math.IsNaN(got.Summary.EmergencyFundMonths) {
		t.Fatalf("emergency months = %v", got.Summary.EmergencyFundMonths)
	}
	if got.Components["emergency_fund"].Score != 100.0 {
		t.Fatalf("emergency score = %v", got.Components["emergency_fund"].Score)
	}
}
