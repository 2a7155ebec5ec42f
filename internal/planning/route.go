package planning

import "github.com/rutero-ai/rutero/internal/dataset"

// categoryOrder is the fixed visit priority used in place of geographic
// distance. Changing it changes every optimized route.
var categoryOrder = []string{"culture", "adventure", "gastronomy", "sports", "entertainment"}

// OptimizeRoute reorders activities by category priority. Within each
// category the input order is preserved, and activities whose category is not
// in the priority list are appended last in input order. The result is always
// a permutation of the input.
func OptimizeRoute(activities []dataset.ActivityRecord, city string) []dataset.ActivityRecord {
	ordered := make([]dataset.ActivityRecord, 0, len(activities))
	taken := make([]bool, len(activities))
	for _, cat := range categoryOrder {
		for i, a := range activities {
			if !taken[i] && a.Category == cat {
				ordered = append(ordered, a)
				taken[i] = true
			}
		}
	}
	for i, a := range activities {
		if !taken[i] {
			ordered = append(ordered, a)
		}
	}
	return ordered
}
