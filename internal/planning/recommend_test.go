package planning

import (
	"errors"
	"strings"
	"testing"

	"github.com/rutero-ai/rutero/internal/dataset"
)

func TestRecommendBudgetPrefixNeverOverflows(t *testing.T) {
	store := testStore(t, madridActivities())
	rec, err := Recommend(store, "Madrid", nil, 50, true)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	var running float64
	for _, s := range rec.Selected {
		running += s.CostUSD
	}
	if running > 50 {
		t.Fatalf("selected prefix costs %v, above the 50 budget", running)
	}
}

func TestRecommendFreeActivitiesRankFirst(t *testing.T) {
	store := testStore(t, madridActivities())
	rec, err := Recommend(store, "Madrid", nil, 1000, true)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(rec.Selected) != 6 {
		t.Fatalf("budget 1000 should keep all 6, got %d", len(rec.Selected))
	}
	if rec.Selected[0].CostUSD != 0 {
		t.Fatalf("free activity should rank first, got %q ($%v)", rec.Selected[0].Name, rec.Selected[0].CostUSD)
	}
	if rec.Selected[0].ValueScore != 2.0 {
		t.Fatalf("free value score = %v, want 2.0", rec.Selected[0].ValueScore)
	}
	// Paid activities follow in ascending cost, since score is 1/cost.
	for i := 2; i < len(rec.Selected); i++ {
		if rec.Selected[i].CostUSD < rec.Selected[i-1].CostUSD {
			t.Fatalf("paid ranking not by inverse cost: %v before %v", rec.Selected[i-1].CostUSD, rec.Selected[i].CostUSD)
		}
	}
}

func TestRecommendPrefixCutoffDropsLaterItems(t *testing.T) {
	// Value order is B(5), A(10), C(30): A overflows a budget of 12, and
	// the cutoff drops C as well even though B+C never fits either way.
	store := testStore(t, []dataset.ActivityRecord{
		{City: "Rome", Name: "A", Category: "culture", CostUSD: 10},
		{City: "Rome", Name: "B", Category: "culture", CostUSD: 5},
		{City: "Rome", Name: "C", Category: "culture", CostUSD: 30},
	})
	rec, err := Recommend(store, "Rome", nil, 12, true)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(rec.Selected) != 1 || rec.Selected[0].Name != "B" {
		t.Fatalf("expected only B to survive the cutoff, got %+v", rec.Selected)
	}
}

func TestRecommendDisplayOrderAndCap(t *testing.T) {
	acts := []dataset.ActivityRecord{}
	for _, r := range []struct {
		name string
		cat  string
		cost float64
	}{
		{"L1", "culture", 30}, {"L2", "adventure", 5}, {"L3", "gastronomy", 5},
		{"L4", "culture", 0}, {"L5", "sports", 12}, {"L6", "culture", 8},
		{"L7", "adventure", 22}, {"L8", "entertainment", 18}, {"L9", "culture", 3},
		{"L10", "gastronomy", 40}, {"L11", "sports", 2}, {"L12", "culture", 60},
	} {
		acts = append(acts, dataset.ActivityRecord{City: "London", Name: r.name, Category: r.cat, CostUSD: r.cost})
	}
	store := testStore(t, acts)
	rec, err := Recommend(store, "London", nil, 0, false)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(rec.Displayed) != 10 {
		t.Fatalf("display should cap at 10, got %d", len(rec.Displayed))
	}
	for i := 1; i < len(rec.Displayed); i++ {
		prev, cur := rec.Displayed[i-1], rec.Displayed[i]
		if cur.CostUSD < prev.CostUSD {
			t.Fatalf("display not sorted by cost: %v before %v", prev.CostUSD, cur.CostUSD)
		}
		if cur.CostUSD == prev.CostUSD && cur.Category < prev.Category {
			t.Fatalf("cost tie not broken by category: %q before %q", prev.Category, cur.Category)
		}
	}
}

func TestRecommendOverageWarning(t *testing.T) {
	store := testStore(t, []dataset.ActivityRecord{
		{City: "Rio de Janeiro", Name: "Beach Day", Category: "adventure", CostUSD: 0},
		{City: "Rio de Janeiro", Name: "Sugarloaf Cable Car", Category: "adventure", CostUSD: 28},
	})
	rec, err := Recommend(store, "Rio de Janeiro", nil, 30, true)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.DisplayedCost != 28 {
		t.Fatalf("displayed cost = %v, want 28", rec.DisplayedCost)
	}
	if rec.OverBudget() != 0 {
		t.Fatalf("28 fits a 30 budget, overage = %v", rec.OverBudget())
	}
	out := rec.Render()
	if !strings.Contains(out, "Budget-Conscious Recommendations (within $30 USD):") {
		t.Fatalf("missing budget header:\n%s", out)
	}
	if !strings.Contains(out, "Great Value: Free activity") {
		t.Fatalf("free annotation missing:\n%s", out)
	}
}

func TestRecommendUnknownCity(t *testing.T) {
	store := testStore(t, madridActivities())
	_, err := Recommend(store, "Gotham", nil, 0, false)
	var notFound *NoActivitiesError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NoActivitiesError, got %v", err)
	}
}

func TestRecommendEmptyCategoryFilterIsNotAnError(t *testing.T) {
	store := testStore(t, madridActivities())
	rec, err := Recommend(store, "Madrid", &Preferences{Categories: []string{"skiing"}}, 0, false)
	if err != nil {
		t.Fatalf("category filter emptying the set must not error: %v", err)
	}
	if len(rec.Displayed) != 0 {
		t.Fatalf("expected empty display, got %d", len(rec.Displayed))
	}
}

func TestRecommendGoodValueAnnotation(t *testing.T) {
	store := testStore(t, madridActivities())
	rec, err := Recommend(store, "Madrid", nil, 0, false)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	out := rec.Render()
	if !strings.Contains(out, "Good Value: Affordable option") {
		t.Fatalf("sub-$20 activity should carry the good-value tag:\n%s", out)
	}
	if !strings.Contains(out, "Top Recommendations:") {
		t.Fatalf("missing no-budget header:\n%s", out)
	}
}
