package insights

import "testing"

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name       string
		amount     float64
		spent      float64
		wantPct    float64
		wantStatus string
	}{
		{"on track", 500, 200, 40, "on_track"},
		{"warning above 80", 500, 450, 90, "warning"},
		{"exactly 80 stays on track", 500, 400, 80, "on_track"},
		{"exactly 100 is warning not over", 500, 500, 100, "warning"},
		{"over budget", 500, 520, 104, "over_budget"},
		{"zero amount", 0, 50, 0, "on_track"},
		{"nothing spent", 500, 0, 0, "on_track"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pct, status := StatusFor(tc.amount, tc.spent)
			if pct != tc.wantPct || status != tc.wantStatus {
				t.Fatalf("StatusFor(%v, %v) = %v, %q; want %v, %q",
					tc.amount, tc.spent, pct, status, tc.wantPct, tc.wantStatus)
			}
		})
	}
}

func TestBuildOverview(t *testing.T) {
	ov := BuildOverview([]BudgetFacts{
		{ID: 1, Name: "Food", Category: "groceries", Amount: 500, Spent: 520, Period: "monthly"},
		{ID: 2, Name: "Fun", Category: "entertainment", Amount: 200, Spent: 80, Period: "monthly"},
	})

	if len(ov.Budgets) != 2 {
		t.Fatalf("budgets = %d", len(ov.Budgets))
	}
	food := ov.Budgets[0]
	if food.Status != "over_budget" || food.PercentageUsed != 104.0 || food.Remaining != -20 {
		t.Fatalf("food line = %+v", food)
	}
	fun := ov.Budgets[1]
	if fun.Status != "on_track" || fun.PercentageUsed != 40.0 {
		t.Fatalf("fun line = %+v", fun)
	}

	s := ov.Summary
	if s.TotalBudgeted != 700 || s.TotalSpent != 600 || s.TotalRemaining != 100 {
		t.Fatalf("summary = %+v", s)
	}
	if s.OverallPercentage != 85.71 {
		t.Fatalf("overall percentage = %v, want 85.71", s.OverallPercentage)
	}
}

func TestBuildOverviewEmpty(t *testing.T) {
	ov := BuildOverview(nil)

	if ov.Budgets == nil || len(ov.Budgets) != 0 {
		t.Fatalf("budgets = %v, want empty non-nil slice", ov.Budgets)
	}
	if ov.Summary.OverallPercentage != 0 {
		t.Fatalf("overall percentage = %v", ov.Summary.OverallPercentage)
	}
}
