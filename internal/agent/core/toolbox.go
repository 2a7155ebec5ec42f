package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rutero-ai/rutero/internal/capability"
	"github.com/rutero-ai/rutero/internal/dataset"
	"github.com/rutero-ai/rutero/internal/planning"
	"github.com/rutero-ai/rutero/internal/services/currency"
	"github.com/rutero-ai/rutero/internal/services/weather"
)

// Tool pairs a capability descriptor with its implementation. Domain
// conditions (unknown city, empty result, exceeded budget) come back as
// descriptive text, not as errors; only malformed arguments error out.
type Tool struct {
	capability.Descriptor
	Run func(ctx context.Context, args json.RawMessage) (string, error)
}

// Toolbox binds every capability implementation to the shared dataset and
// service clients.
type Toolbox struct {
	store    *dataset.Store
	weather  *weather.Client
	currency *currency.Client
}

func NewToolbox(store *dataset.Store, w *weather.Client, c *currency.Client) *Toolbox {
	return &Toolbox{store: store, weather: w, currency: c}
}

func decodeArgs(name string, raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode %s arguments: %w", name, err)
	}
	return nil
}

// SearchFlights lists flights from Buenos Aires to a destination.
func (tb *Toolbox) SearchFlights() Tool {
	return Tool{
		Descriptor: capability.Descriptor{
			Name:        "search_flights",
			Description: "Search for flights to a specific destination from Buenos Aires. Optionally filter by maximum price in USD.",
			Parameters: capability.ObjectSchema(map[string]any{
				"destination": map[string]any{"type": "string", "description": "The destination city"},
				"max_price":   map[string]any{"type": "number", "description": "Optional maximum price filter in USD"},
			}, "destination"),
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var a struct {
				Destination string  `json:"destination"`
				MaxPrice    float64 `json:"max_price"`
			}
			if err := decodeArgs("search_flights", args, &a); err != nil {
				return "", err
			}
			flights := tb.store.FlightsTo(a.Destination, a.MaxPrice)
			if len(flights) == 0 {
				return fmt.Sprintf("No flights found to %s", a.Destination), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Found %d flights to %s:\n", len(flights), a.Destination)
			for _, f := range flights {
				fmt.Fprintf(&b, "- %s %s: $%g (%s - %s, %gh)\n",
					f.Airline, f.FlightNumber, f.PriceUSD, f.DepartureTime, f.ArrivalTime, f.DurationHours)
			}
			return b.String(), nil
		},
	}
}

// SearchActivities lists a city's activities, optionally by category.
func (tb *Toolbox) SearchActivities() Tool {
	return Tool{
		Descriptor: capability.Descriptor{
			Name:        "search_activities",
			Description: "Search for activities and attractions in a specific city. Optionally filter by category (culture, adventure, gastronomy, sports, entertainment).",
			Parameters: capability.ObjectSchema(map[string]any{
				"city":     map[string]any{"type": "string", "description": "The city name"},
				"category": map[string]any{"type": "string", "description": "Optional category filter"},
			}, "city"),
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var a struct {
				City     string `json:"city"`
				Category string `json:"category"`
			}
			if err := decodeArgs("search_activities", args, &a); err != nil {
				return "", err
			}
			activities := tb.store.ActivitiesByCity(a.City)
			if a.Category != "" {
				activities = dataset.FilterByCategory(activities, []string{a.Category})
			}
			if len(activities) == 0 {
				return fmt.Sprintf("No activities found in %s", a.City), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Found %d activities in %s:\n", len(activities), a.City)
			for _, act := range activities {
				fmt.Fprintf(&b, "- %s: %s (%s, ideal weather: %s)\n", act.Name, act.CostString(), act.Category, act.IdealWeather)
				fmt.Fprintf(&b, "  %s\n", act.Description)
			}
			return b.String(), nil
		},
	}
}

// SearchActivityDescriptions runs a full-text search over activity
// descriptions, for queries that name an interest rather than a category.
func (tb *Toolbox) SearchActivityDescriptions() Tool {
	return Tool{
		Descriptor: capability.Descriptor{
			Name:        "search_activity_descriptions",
			Description: "Full-text search over activity descriptions across all cities, for interest-based queries like 'street food' or 'modern art'.",
			Parameters: capability.ObjectSchema(map[string]any{
				"query": map[string]any{"type": "string", "description": "Free-text interest query"},
				"limit": map[string]any{"type": "integer", "description": "Maximum number of results, default 5"},
			}, "query"),
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var a struct {
				Query string `json:"query"`
				Limit int    `json:"limit"`
			}
			if err := decodeArgs("search_activity_descriptions", args, &a); err != nil {
				return "", err
			}
			if a.Limit <= 0 {
				a.Limit = 5
			}
			matches, err := tb.store.SearchDescriptions(a.Query, a.Limit)
			if err != nil {
				return "", fmt.Errorf("search descriptions: %w", err)
			}
			if len(matches) == 0 {
				return fmt.Sprintf("No activities match %q", a.Query), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Found %d activities matching %q:\n", len(matches), a.Query)
			for _, act := range matches {
				fmt.Fprintf(&b, "- %s (%s): %s, %s\n", act.Name, act.City, act.CostString(), act.Category)
				fmt.Fprintf(&b, "  %s\n", act.Description)
			}
			return b.String(), nil
		},
	}
}

// PlanItinerary builds a day-by-day itinerary.
func (tb *Toolbox) PlanItinerary() Tool {
	return Tool{
		Descriptor: capability.Descriptor{
			Name:        "plan_itinerary",
			Description: "Plan an optimized day-by-day itinerary for a trip, distributing a city's activities across the given number of days.",
			Parameters: capability.ObjectSchema(map[string]any{
				"city":       map[string]any{"type": "string", "description": "The destination city"},
				"days":       map[string]any{"type": "integer", "description": "Number of days for the trip"},
				"activities": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Optional activity names to include"},
				"preferences": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"categories": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"max_cost":   map[string]any{"type": "number"},
					},
				},
			}, "city", "days"),
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var a struct {
				City        string   `json:"city"`
				Days        int      `json:"days"`
				Activities  []string `json:"activities"`
				Preferences *struct {
					Categories []string `json:"categories"`
					MaxCost    *float64 `json:"max_cost"`
				} `json:"preferences"`
			}
			if err := decodeArgs("plan_itinerary", args, &a); err != nil {
				return "", err
			}
			var prefs *planning.Preferences
			if a.Preferences != nil {
				prefs = &planning.Preferences{Categories: a.Preferences.Categories}
				if a.Preferences.MaxCost != nil {
					prefs.MaxCost = *a.Preferences.MaxCost
					prefs.HasMaxCost = true
				}
			}
			it, err := planning.PlanItinerary(tb.store, a.City, a.Days, a.Activities, prefs)
			if err != nil {
				return err.Error(), nil
			}
			return it.Render(), nil
		},
	}
}

// OptimizeRoute reorders a city's activities by category priority.
func (tb *Toolbox) OptimizeRoute() Tool {
	return Tool{
		Descriptor: capability.Descriptor{
			Name:        "optimize_route",
			Description: "Optimize the visiting order of a city's activities to minimize travel time, grouping them by category.",
			Parameters: capability.ObjectSchema(map[string]any{
				"city":       map[string]any{"type": "string", "description": "The city name"},
				"activities": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Optional activity names to restrict the route to"},
			}, "city"),
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var a struct {
				City       string   `json:"city"`
				Activities []string `json:"activities"`
			}
			if err := decodeArgs("optimize_route", args, &a); err != nil {
				return "", err
			}
			activities := dataset.FilterByName(tb.store.ActivitiesByCity(a.City), a.Activities)
			if len(activities) == 0 {
				return fmt.Sprintf("No activities found for %s", a.City), nil
			}
			ordered := planning.OptimizeRoute(activities, a.City)
			var b strings.Builder
			fmt.Fprintf(&b, "Optimized route for %s:\n", a.City)
			for i, act := range ordered {
				fmt.Fprintf(&b, "%d. %s (%s, %s)\n", i+1, act.Name, act.Category, act.CostString())
			}
			return b.String(), nil
		},
	}
}

// GetRecommendations ranks activities by value.
func (tb *Toolbox) GetRecommendations() Tool {
	return Tool{
		Descriptor: capability.Descriptor{
			Name:        "get_recommendations",
			Description: "Get personalized activity recommendations for a city, ranked by value and optionally constrained by a budget in USD.",
			Parameters: capability.ObjectSchema(map[string]any{
				"city":   map[string]any{"type": "string", "description": "The destination city"},
				"budget": map[string]any{"type": "number", "description": "Optional total budget in USD"},
				"days":   map[string]any{"type": "integer", "description": "Optional number of days available"},
				"preferences": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"categories": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
				},
			}, "city"),
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var a struct {
				City        string   `json:"city"`
				Budget      *float64 `json:"budget"`
				Days        int      `json:"days"`
				Preferences *struct {
					Categories []string `json:"categories"`
				} `json:"preferences"`
			}
			if err := decodeArgs("get_recommendations", args, &a); err != nil {
				return "", err
			}
			var prefs *planning.Preferences
			if a.Preferences != nil {
				prefs = &planning.Preferences{Categories: a.Preferences.Categories}
			}
			var budget float64
			if a.Budget != nil {
				budget = *a.Budget
			}
			rec, err := planning.Recommend(tb.store, a.City, prefs, budget, a.Budget != nil)
			if err != nil {
				return err.Error(), nil
			}
			return rec.Render(), nil
		},
	}
}

// GetWeather fetches a multi-day forecast.
func (tb *Toolbox) GetWeather() Tool {
	return Tool{
		Descriptor: capability.Descriptor{
			Name:        "get_weather",
			Description: "Get a daily weather forecast for a city to plan activities, including temperatures, conditions and activity advice.",
			Parameters: capability.ObjectSchema(map[string]any{
				"city": map[string]any{"type": "string", "description": "The city name"},
				"days": map[string]any{"type": "integer", "description": "Number of days to forecast, default 5"},
			}, "city"),
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var a struct {
				City string `json:"city"`
				Days int    `json:"days"`
			}
			if err := decodeArgs("get_weather", args, &a); err != nil {
				return "", err
			}
			return tb.weather.Forecast(ctx, a.City, a.Days), nil
		},
	}
}

// ConvertUSDToARS converts an amount to Argentine pesos.
func (tb *Toolbox) ConvertUSDToARS() Tool {
	return Tool{
		Descriptor: capability.Descriptor{
			Name:        "convert_usd_to_ars",
			Description: "Convert a USD amount to Argentine Pesos using the current exchange rate.",
			Parameters: capability.ObjectSchema(map[string]any{
				"amount_usd": map[string]any{"type": "number", "description": "Amount in USD to convert"},
			}, "amount_usd"),
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var a struct {
				AmountUSD float64 `json:"amount_usd"`
			}
			if err := decodeArgs("convert_usd_to_ars", args, &a); err != nil {
				return "", err
			}
			return tb.currency.ConvertUSDToARS(ctx, a.AmountUSD), nil
		},
	}
}

// OptimizeBudget splits the post-flight budget across expense categories.
func (tb *Toolbox) OptimizeBudget() Tool {
	return Tool{
		Descriptor: capability.Descriptor{
			Name:        "optimize_budget",
			Description: "Optimize budget distribution across flight, activities, food, accommodation and miscellaneous expenses.",
			Parameters: capability.ObjectSchema(map[string]any{
				"total_budget": map[string]any{"type": "number", "description": "Total available budget in USD"},
				"flight_cost":  map[string]any{"type": "number", "description": "Cost of flights in USD"},
				"days":         map[string]any{"type": "integer", "description": "Number of days for the trip"},
				"city":         map[string]any{"type": "string", "description": "Destination city"},
			}, "total_budget", "flight_cost", "days", "city"),
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var a struct {
				TotalBudget float64 `json:"total_budget"`
				FlightCost  float64 `json:"flight_cost"`
				Days        int     `json:"days"`
				City        string  `json:"city"`
			}
			if err := decodeArgs("optimize_budget", args, &a); err != nil {
				return "", err
			}
			bd, err := planning.Allocate(tb.store, a.TotalBudget, a.FlightCost, a.Days, a.City)
			if err != nil {
				return err.Error(), nil
			}
			return bd.Render(), nil
		},
	}
}
