package planning

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rutero-ai/rutero/internal/dataset"
)

func TestAllocateFixedSplit(t *testing.T) {
	store := testStore(t, madridActivities())
	bd, err := Allocate(store, 2000, 500, 5, "Madrid")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if bd.Remaining != 1500 {
		t.Fatalf("remaining = %v, want 1500", bd.Remaining)
	}
	if bd.Activities != 600 || bd.Food != 450 || bd.Accommodation != 300 || bd.Misc != 150 {
		t.Fatalf("split = %v/%v/%v/%v, want 600/450/300/150", bd.Activities, bd.Food, bd.Accommodation, bd.Misc)
	}
	if bd.ActivitiesPerDay != 120 || bd.FoodPerDay != 90 {
		t.Fatalf("per-day = %v/%v, want 120/90", bd.ActivitiesPerDay, bd.FoodPerDay)
	}
}

func TestAllocateSharesSumToRemaining(t *testing.T) {
	store := testStore(t, nil)
	for _, c := range []struct{ total, flight float64 }{
		{1000, 0}, {1234.56, 321.99}, {500, 500}, {100, 33.33},
	} {
		bd, err := Allocate(store, c.total, c.flight, 3, "Paris")
		if err != nil {
			t.Fatalf("allocate(%v, %v): %v", c.total, c.flight, err)
		}
		sum := bd.Activities + bd.Food + bd.Accommodation + bd.Misc
		if math.Abs(sum-bd.Remaining) > 1e-9 {
			t.Fatalf("shares sum to %v, remaining is %v", sum, bd.Remaining)
		}
	}
}

func TestAllocateFlightExceedsBudget(t *testing.T) {
	store := testStore(t, nil)
	bd, err := Allocate(store, 1000, 1200, 5, "Madrid")
	if bd != nil {
		t.Fatalf("no breakdown expected, got %+v", bd)
	}
	var exceeded *BudgetExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("expected BudgetExceededError, got %v", err)
	}
	if got := err.Error(); got != "Error: Flight cost ($1200.00) exceeds total budget ($1000.00)" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestAllocateZeroDays(t *testing.T) {
	store := testStore(t, nil)
	bd, err := Allocate(store, 1000, 200, 0, "Madrid")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if bd.ActivitiesPerDay != 0 || bd.FoodPerDay != 0 {
		t.Fatalf("per-day figures should be 0 for 0 days, got %v/%v", bd.ActivitiesPerDay, bd.FoodPerDay)
	}
}

func TestAllocateAffordableSample(t *testing.T) {
	store := testStore(t, madridActivities())
	// Remaining 500, activities 200, 20/day keeps Prado (15), Royal Palace
	// (12) and Retiro (0).
	bd, err := Allocate(store, 1000, 500, 10, "Madrid")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(bd.Affordable) != 3 {
		t.Fatalf("affordable sample = %d entries, want 3", len(bd.Affordable))
	}
	for _, a := range bd.Affordable {
		if a.CostUSD > bd.ActivitiesPerDay {
			t.Fatalf("%q costs %v, above the %v daily allowance", a.Name, a.CostUSD, bd.ActivitiesPerDay)
		}
	}
}

func TestAllocateRenderSuggestsFreeActivitiesWhenNoneFit(t *testing.T) {
	store := testStore(t, []dataset.ActivityRecord{
		{City: "Paris", Name: "Louvre", Category: "culture", CostUSD: 22},
	})
	bd, err := Allocate(store, 120, 100, 4, "Paris")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	out := bd.Render()
	if !strings.Contains(out, "(Consider free activities or adjust budget)") {
		t.Fatalf("missing empty-sample hint:\n%s", out)
	}
	if !strings.Contains(out, "Optimized Budget Breakdown for Paris (4 days):") {
		t.Fatalf("missing header:\n%s", out)
	}
}
