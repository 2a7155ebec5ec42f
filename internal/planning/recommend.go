package planning

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rutero-ai/rutero/internal/dataset"
)

// ScoredActivity pairs an activity with its value score: 2.0 for free
// activities, otherwise 1/max(cost,1).
type ScoredActivity struct {
	dataset.ActivityRecord
	ValueScore float64
}

// Recommendation is the ranked recommendation output. Selected is the
// value-ordered budget prefix; Displayed is the same set re-sorted ascending
// by (cost, category) and capped at ten entries. The two orders disagree on
// purpose, so DisplayedCost can exceed the budget even though the selection
// walk never did.
type Recommendation struct {
	City          string
	Budget        float64
	HasBudget     bool
	Selected      []ScoredActivity
	Displayed     []dataset.ActivityRecord
	DisplayedCost float64
}

// OverBudget reports how far the displayed total exceeds the budget, 0 when
// it fits or no budget was given.
func (r *Recommendation) OverBudget() float64 {
	if r.HasBudget && r.DisplayedCost > r.Budget {
		return r.DisplayedCost - r.Budget
	}
	return 0
}

func valueScore(cost float64) float64 {
	if cost > 0 {
		if cost < 1 {
			cost = 1
		}
		return 1 / cost
	}
	return 2.0
}

// Recommend ranks a city's activities by value and, when a budget is given,
// keeps the maximal value-ordered prefix that fits it. A category preference
// that empties the set is not an error; only an unknown city is.
func Recommend(store *dataset.Store, city string, prefs *Preferences, budget float64, hasBudget bool) (*Recommendation, error) {
	byCity := store.ActivitiesByCity(city)
	if len(byCity) == 0 {
		return nil, &NoActivitiesError{City: city}
	}
	filtered := byCity
	if prefs != nil {
		filtered = dataset.FilterByCategory(filtered, prefs.Categories)
	}

	rec := &Recommendation{City: city, Budget: budget, HasBudget: hasBudget}
	scored := make([]ScoredActivity, 0, len(filtered))
	for _, a := range filtered {
		scored = append(scored, ScoredActivity{ActivityRecord: a, ValueScore: valueScore(a.CostUSD)})
	}

	if hasBudget {
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].ValueScore != scored[j].ValueScore {
				return scored[i].ValueScore > scored[j].ValueScore
			}
			return scored[i].CostUSD < scored[j].CostUSD
		})
		// Prefix cutoff, not a knapsack: the first activity that overflows
		// the budget ends the selection even if cheaper ones follow.
		var running float64
		cut := len(scored)
		for i, s := range scored {
			if running+s.CostUSD > budget {
				cut = i
				break
			}
			running += s.CostUSD
		}
		scored = scored[:cut]
	}
	rec.Selected = scored

	display := make([]dataset.ActivityRecord, 0, len(scored))
	for _, s := range scored {
		display = append(display, s.ActivityRecord)
	}
	sort.SliceStable(display, func(i, j int) bool {
		if display[i].CostUSD != display[j].CostUSD {
			return display[i].CostUSD < display[j].CostUSD
		}
		return display[i].Category < display[j].Category
	})
	if len(display) > 10 {
		display = display[:10]
	}
	rec.Displayed = display
	for _, a := range display {
		rec.DisplayedCost += a.CostUSD
	}
	return rec, nil
}

// Render formats the recommendation list with value annotations.
func (r *Recommendation) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Personalized Recommendations for %s:\n\n", titleCase(r.City))
	if r.HasBudget {
		fmt.Fprintf(&b, "Budget-Conscious Recommendations (within $%g USD):\n", r.Budget)
	} else {
		b.WriteString("Top Recommendations:\n")
	}
	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	b.WriteString("Ranked Activity Recommendations:\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i, a := range r.Displayed {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Name)
		fmt.Fprintf(&b, "   Cost: %s | Category: %s\n", a.CostString(), a.Category)
		fmt.Fprintf(&b, "   %s\n", a.Description)
		if a.CostUSD == 0 {
			b.WriteString("   Great Value: Free activity\n")
		} else if a.CostUSD < 20 {
			b.WriteString("   Good Value: Affordable option\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nTotal Cost of Top Recommendations: $%.2f USD\n", r.DisplayedCost)
	if over := r.OverBudget(); over > 0 {
		fmt.Fprintf(&b, "Note: Total exceeds budget by $%.2f USD\n", over)
	}
	return b.String()
}
