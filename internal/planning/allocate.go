package planning

import (
	"fmt"
	"strings"

	"github.com/rutero-ai/rutero/internal/dataset"
)

// BudgetBreakdown splits the budget left after flights into fixed shares:
// activities 40%, food 30%, accommodation 20%, miscellaneous 10%. The four
// shares always sum back to Remaining.
type BudgetBreakdown struct {
	City          string
	Days          int
	TotalBudget   float64
	FlightCost    float64
	Remaining     float64
	Activities    float64
	Food          float64
	Accommodation float64
	Misc          float64

	ActivitiesPerDay float64
	FoodPerDay       float64

	// Affordable holds up to 5 city activities priced at or under the daily
	// activity allowance.
	Affordable []dataset.ActivityRecord
}

// Allocate distributes totalBudget minus flightCost across expense
// categories. It fails with BudgetExceededError when the flight alone costs
// more than the total budget.
func Allocate(store *dataset.Store, totalBudget, flightCost float64, days int, city string) (*BudgetBreakdown, error) {
	remaining := totalBudget - flightCost
	if remaining < 0 {
		return nil, &BudgetExceededError{FlightCost: flightCost, TotalBudget: totalBudget}
	}

	bd := &BudgetBreakdown{
		City:          city,
		Days:          days,
		TotalBudget:   totalBudget,
		FlightCost:    flightCost,
		Remaining:     remaining,
		Activities:    remaining * 0.4,
		Food:          remaining * 0.3,
		Accommodation: remaining * 0.2,
		Misc:          remaining * 0.1,
	}
	if days > 0 {
		bd.ActivitiesPerDay = bd.Activities / float64(days)
		bd.FoodPerDay = bd.Food / float64(days)
	}

	for _, a := range store.ActivitiesByCity(city) {
		if a.CostUSD <= bd.ActivitiesPerDay {
			bd.Affordable = append(bd.Affordable, a)
			if len(bd.Affordable) == 5 {
				break
			}
		}
	}
	return bd, nil
}

// Render formats the breakdown with the affordability sample.
func (bd *BudgetBreakdown) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Optimized Budget Breakdown for %s (%d days):\n\n", titleCase(bd.City), bd.Days)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Total Budget: $%.2f USD\n", bd.TotalBudget)
	fmt.Fprintf(&b, "Flight Cost: $%.2f USD\n", bd.FlightCost)
	fmt.Fprintf(&b, "Remaining Budget: $%.2f USD\n\n", bd.Remaining)

	b.WriteString("Recommended Allocation:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&b, "Activities: $%.2f ($%.2f per day)\n", bd.Activities, bd.ActivitiesPerDay)
	fmt.Fprintf(&b, "Food & Dining: $%.2f ($%.2f per day)\n", bd.Food, bd.FoodPerDay)
	fmt.Fprintf(&b, "Accommodation: $%.2f\n", bd.Accommodation)
	fmt.Fprintf(&b, "Miscellaneous: $%.2f\n\n", bd.Misc)

	fmt.Fprintf(&b, "\nActivities within daily budget ($%.2f):\n", bd.ActivitiesPerDay)
	if len(bd.Affordable) == 0 {
		b.WriteString("  (Consider free activities or adjust budget)\n")
	} else {
		for _, a := range bd.Affordable {
			fmt.Fprintf(&b, "  - %s: %s\n", a.Name, a.CostString())
		}
	}
	return b.String()
}
