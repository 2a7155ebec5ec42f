package planning

import (
	"fmt"
	"strings"

	"github.com/rutero-ai/rutero/internal/dataset"
)

// Preferences narrows activity selection for the planning functions.
// MaxCost applies only when HasMaxCost is true; a zero ceiling is a valid
// "free activities only" request.
type Preferences struct {
	Categories []string
	MaxCost    float64
	HasMaxCost bool
}

// DayPlan is one day of an itinerary.
type DayPlan struct {
	Day        int
	Activities []dataset.ActivityRecord
	Cost       float64
}

// Itinerary is the partitioned day-by-day plan for a city visit. TotalCost
// sums the full filtered activity set, not the bucketed subset, so backfilled
// days can push the per-day sums above it.
type Itinerary struct {
	City      string
	Days      []DayPlan
	TotalCost float64
}

// PlanItinerary partitions a city's activities into contiguous per-day
// buckets. Bucket sizes differ by at most one; when there are fewer
// activities than days, empty buckets are backfilled with one cyclic-indexed
// activity so every day has at least one entry.
func PlanItinerary(store *dataset.Store, city string, days int, activityNames []string, prefs *Preferences) (*Itinerary, error) {
	if days < 1 {
		days = 1
	}
	byCity := store.ActivitiesByCity(city)
	if len(byCity) == 0 {
		return nil, &NoActivitiesError{City: city}
	}

	filtered := dataset.FilterByName(byCity, activityNames)
	if prefs != nil {
		filtered = dataset.FilterByCategory(filtered, prefs.Categories)
		if prefs.HasMaxCost {
			filtered = dataset.FilterByMaxCost(filtered, prefs.MaxCost)
		}
	}
	if len(filtered) == 0 {
		return nil, &NoMatchError{City: city}
	}

	it := &Itinerary{City: city, Days: make([]DayPlan, 0, days)}
	base := len(filtered) / days
	extra := len(filtered) % days
	start := 0
	for day := 1; day <= days; day++ {
		size := base
		if day <= extra {
			size++
		}
		bucket := filtered[start : start+size]
		start += size
		if len(bucket) == 0 {
			// Fewer activities than days: repeat one from the filtered
			// set, cycling by day index.
			i := (day - 1) % len(filtered)
			bucket = filtered[i : i+1]
		}
		plan := DayPlan{Day: day, Activities: bucket}
		for _, a := range bucket {
			plan.Cost += a.CostUSD
		}
		it.Days = append(it.Days, plan)
	}
	for _, a := range filtered {
		it.TotalCost += a.CostUSD
	}
	return it, nil
}

// Render formats the itinerary as the day-by-day text handed back to the
// reasoning loop.
func (it *Itinerary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Optimized %d-Day Itinerary for %s:\n\n", len(it.Days), titleCase(it.City))
	for _, day := range it.Days {
		fmt.Fprintf(&b, "Day %d:\n", day.Day)
		b.WriteString(strings.Repeat("-", 50) + "\n")
		for _, a := range day.Activities {
			fmt.Fprintf(&b, "  - %s (%s)\n", a.Name, a.CostString())
			fmt.Fprintf(&b, "    Category: %s\n", a.Category)
			fmt.Fprintf(&b, "    Ideal weather: %s\n", a.IdealWeather)
			fmt.Fprintf(&b, "    %s\n\n", a.Description)
		}
		fmt.Fprintf(&b, "  Day %d Total Cost: $%.2f USD\n\n", day.Day, day.Cost)
	}
	fmt.Fprintf(&b, "Total Estimated Cost for All Activities: $%.2f USD\n", it.TotalCost)
	return b.String()
}
