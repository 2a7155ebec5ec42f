package planning

import "fmt"

// NoActivitiesError indicates the city filter matched nothing.
type NoActivitiesError struct {
	City string
}

func (e *NoActivitiesError) Error() string {
	return fmt.Sprintf("No activities found for %s", e.City)
}

// NoMatchError indicates name/category/cost filters emptied a non-empty city set.
type NoMatchError struct {
	City string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("No activities match the criteria for %s", e.City)
}

// BudgetExceededError indicates the flight alone costs more than the total budget.
type BudgetExceededError struct {
	FlightCost  float64
	TotalBudget float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("Error: Flight cost ($%.2f) exceeds total budget ($%.2f)", e.FlightCost, e.TotalBudget)
}
