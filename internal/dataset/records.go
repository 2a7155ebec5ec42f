package dataset

import "fmt"

// ActivityRecord is one row of the activities reference table. Records are
// immutable after load.
type ActivityRecord struct {
	City         string  `json:"city"`
	Name         string  `json:"activity_name"`
	Category     string  `json:"category"`
	CostUSD      float64 `json:"cost_usd"`
	IdealWeather string  `json:"ideal_weather"`
	Description  string  `json:"description"`
}

// CostString renders the cost the way the tools present it to users.
func (a ActivityRecord) CostString() string {
	if a.CostUSD > 0 {
		return fmt.Sprintf("$%g", a.CostUSD)
	}
	return "Free"
}

// FlightRecord is one row of the flights reference table. All flights depart
// from Buenos Aires.
type FlightRecord struct {
	Destination   string  `json:"destination"`
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number"`
	PriceUSD      float64 `json:"price_usd"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	DurationHours float64 `json:"duration_hours"`
}
