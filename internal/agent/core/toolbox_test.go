package core

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func runTool(t *testing.T, tool Tool, args string) string {
	t.Helper()
	out, err := tool.Run(context.Background(), json.RawMessage(args))
	if err != nil {
		t.Fatalf("%s: %v", tool.Name, err)
	}
	return out
}

func TestToolboxSearchFlights(t *testing.T) {
	tb := testToolbox(t)

	out := runTool(t, tb.SearchFlights(), `{"destination":"Madrid"}`)
	if !strings.HasPrefix(out, "Found 2 flights to Madrid:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "- Iberia IB6842: $950 (22:05 - 14:30, 12.5h)") {
		t.Fatalf("missing flight line:\n%s", out)
	}

	out = runTool(t, tb.SearchFlights(), `{"destination":"Madrid","max_price":900}`)
	if !strings.Contains(out, "Found 1 flights to Madrid") || !strings.Contains(out, "AR1132") {
		t.Fatalf("price filter failed:\n%s", out)
	}

	out = runTool(t, tb.SearchFlights(), `{"destination":"Tokyo"}`)
	if out != "No flights found to Tokyo" {
		t.Fatalf("unexpected empty-result text: %q", out)
	}
}

func TestToolboxSearchActivities(t *testing.T) {
	tb := testToolbox(t)

	out := runTool(t, tb.SearchActivities(), `{"city":"Madrid"}`)
	if !strings.HasPrefix(out, "Found 3 activities in Madrid:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "- Retiro Park Walk: Free (adventure, ideal weather: sunny)") {
		t.Fatalf("missing free activity line:\n%s", out)
	}
	if !strings.Contains(out, "  Stroll through the park") {
		t.Fatalf("descriptions should be indented:\n%s", out)
	}

	out = runTool(t, tb.SearchActivities(), `{"city":"Madrid","category":"culture"}`)
	if !strings.Contains(out, "Found 1 activities in Madrid") || !strings.Contains(out, "Prado Museum") {
		t.Fatalf("category filter failed:\n%s", out)
	}

	out = runTool(t, tb.SearchActivities(), `{"city":"Oslo"}`)
	if out != "No activities found in Oslo" {
		t.Fatalf("unexpected empty-result text: %q", out)
	}
}

func TestToolboxSearchActivityDescriptions(t *testing.T) {
	tb := testToolbox(t)

	out := runTool(t, tb.SearchActivityDescriptions(), `{"query":"museum"}`)
	if !strings.Contains(out, "Prado Museum (Madrid): $15, culture") {
		t.Fatalf("expected description match:\n%s", out)
	}

	out = runTool(t, tb.SearchActivityDescriptions(), `{"query":"zzzznothing"}`)
	if out != `No activities match "zzzznothing"` {
		t.Fatalf("unexpected empty-match text: %q", out)
	}
}

func TestToolboxPlanItinerary(t *testing.T) {
	tb := testToolbox(t)

	out := runTool(t, tb.PlanItinerary(), `{"city":"Madrid","days":3}`)
	if !strings.Contains(out, "Optimized 3-Day Itinerary for Madrid:") {
		t.Fatalf("unexpected itinerary:\n%s", out)
	}
	if !strings.Contains(out, "Total Estimated Cost for All Activities: $50.00 USD") {
		t.Fatalf("trip total missing:\n%s", out)
	}

	// Domain failures come back as text, not errors.
	out = runTool(t, tb.PlanItinerary(), `{"city":"Oslo","days":3}`)
	if out != "No activities found for Oslo" {
		t.Fatalf("unexpected unknown-city text: %q", out)
	}
}

func TestToolboxOptimizeRoute(t *testing.T) {
	tb := testToolbox(t)

	out := runTool(t, tb.OptimizeRoute(), `{"city":"Madrid"}`)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := []string{
		"Optimized route for Madrid:",
		"1. Prado Museum (culture, $15)",
		"2. Retiro Park Walk (adventure, Free)",
		"3. Tapas Route (gastronomy, $35)",
	}
	if len(lines) != len(want) {
		t.Fatalf("route output:\n%s", out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestToolboxGetRecommendations(t *testing.T) {
	tb := testToolbox(t)

	out := runTool(t, tb.GetRecommendations(), `{"city":"Madrid","budget":40}`)
	if !strings.Contains(out, "Budget-Conscious Recommendations (within $40 USD):") {
		t.Fatalf("unexpected heading:\n%s", out)
	}
	if !strings.Contains(out, "Retiro Park Walk") {
		t.Fatalf("free activity should be recommended:\n%s", out)
	}

	out = runTool(t, tb.GetRecommendations(), `{"city":"Oslo"}`)
	if out != "No activities found for Oslo" {
		t.Fatalf("unexpected unknown-city text: %q", out)
	}
}

func TestToolboxGetWeather(t *testing.T) {
	tb := testToolbox(t)

	out := runTool(t, tb.GetWeather(), `{"city":"Madrid","days":1}`)
	if !strings.Contains(out, "1-Day Weather Forecast for Madrid:") {
		t.Fatalf("unexpected forecast:\n%s", out)
	}

	out = runTool(t, tb.GetWeather(), `{"city":"Atlantis","days":1}`)
	if out != "Weather data not available for Atlantis" {
		t.Fatalf("unexpected unknown-city text: %q", out)
	}
}

func TestToolboxConvertUSDToARS(t *testing.T) {
	tb := testToolbox(t)

	out := runTool(t, tb.ConvertUSDToARS(), `{"amount_usd":100}`)
	if out != "$100.00 USD = $100000.00 ARS (rate: 1000.00)" {
		t.Fatalf("unexpected conversion: %q", out)
	}
}

func TestToolboxOptimizeBudget(t *testing.T) {
	tb := testToolbox(t)

	out := runTool(t, tb.OptimizeBudget(), `{"total_budget":2000,"flight_cost":500,"days":5,"city":"Madrid"}`)
	for _, want := range []string{
		"Optimized Budget Breakdown for Madrid (5 days):",
		"Remaining Budget: $1500.00 USD",
		"Activities: $600.00 ($120.00 per day)",
		"Food & Dining: $450.00 ($90.00 per day)",
		"Accommodation: $300.00",
		"Miscellaneous: $150.00",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("breakdown missing %q:\n%s", want, out)
		}
	}

	out = runTool(t, tb.OptimizeBudget(), `{"total_budget":1000,"flight_cost":1200,"days":5,"city":"Madrid"}`)
	if out != "Error: Flight cost ($1200.00) exceeds total budget ($1000.00)" {
		t.Fatalf("unexpected exceeded-budget text: %q", out)
	}
}

func TestToolboxMalformedArgumentsError(t *testing.T) {
	tb := testToolbox(t)

	if _, err := tb.SearchFlights().Run(context.Background(), json.RawMessage(`{"max_price":"cheap"}`)); err == nil {
		t.Fatalf("malformed arguments must return a real error")
	}
}
