package dataset

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//go:embed data/activities.csv data/flights.csv
var embedded embed.FS

// Store holds the activity and flight reference tables, loaded once at
// startup. Reads are lock-free; the tables never change for the process
// lifetime.
type Store struct {
	activities []ActivityRecord
	flights    []FlightRecord
	search     *descriptionIndex
}

// Load builds a Store from the embedded CSV tables.
func Load() (*Store, error) {
	af, err := embedded.Open("data/activities.csv")
	if err != nil {
		return nil, fmt.Errorf("open activities table: %w", err)
	}
	defer af.Close()
	activities, err := readActivities(af)
	if err != nil {
		return nil, err
	}

	ff, err := embedded.Open("data/flights.csv")
	if err != nil {
		return nil, fmt.Errorf("open flights table: %w", err)
	}
	defer ff.Close()
	flights, err := readFlights(ff)
	if err != nil {
		return nil, err
	}

	return NewFromRecords(activities, flights)
}

// NewFromRecords builds a Store over the given rows. Used by the Postgres
// loader and by tests that need a controlled dataset.
func NewFromRecords(activities []ActivityRecord, flights []FlightRecord) (*Store, error) {
	s := &Store{activities: activities, flights: flights}
	idx, err := newDescriptionIndex(activities)
	if err != nil {
		return nil, fmt.Errorf("build description index: %w", err)
	}
	s.search = idx
	return s, nil
}

// Activities returns the full activity table.
func (s *Store) Activities() []ActivityRecord { return s.activities }

// Flights returns the full flight table.
func (s *Store) Flights() []FlightRecord { return s.flights }

// ActivitiesByCity returns activities whose city matches the given name by
// case-insensitive substring.
func (s *Store) ActivitiesByCity(city string) []ActivityRecord {
	var out []ActivityRecord
	for _, a := range s.activities {
		if containsFold(a.City, city) {
			out = append(out, a)
		}
	}
	return out
}

// FlightsTo returns flights to the destination, optionally capped at
// maxPrice (ignored when maxPrice <= 0). Destination matching is a
// case-insensitive substring.
func (s *Store) FlightsTo(destination string, maxPrice float64) []FlightRecord {
	var out []FlightRecord
	for _, f := range s.flights {
		if !containsFold(f.Destination, destination) {
			continue
		}
		if maxPrice > 0 && f.PriceUSD > maxPrice {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FilterByName keeps activities whose name substring-matches any of the
// given names.
func FilterByName(records []ActivityRecord, names []string) []ActivityRecord {
	if len(names) == 0 {
		return records
	}
	var out []ActivityRecord
	for _, a := range records {
		for _, n := range names {
			if containsFold(a.Name, n) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// FilterByCategory keeps activities whose category substring-matches any of
// the given categories.
func FilterByCategory(records []ActivityRecord, categories []string) []ActivityRecord {
	if len(categories) == 0 {
		return records
	}
	var out []ActivityRecord
	for _, a := range records {
		for _, c := range categories {
			if containsFold(a.Category, c) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// FilterByMaxCost drops activities priced above max.
func FilterByMaxCost(records []ActivityRecord, max float64) []ActivityRecord {
	var out []ActivityRecord
	for _, a := range records {
		if a.CostUSD <= max {
			out = append(out, a)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func readActivities(r io.Reader) ([]ActivityRecord, error) {
	rows, err := readTable(r, []string{"city", "activity_name", "category", "cost_usd", "ideal_weather", "description"})
	if err != nil {
		return nil, fmt.Errorf("activities table: %w", err)
	}
	out := make([]ActivityRecord, 0, len(rows))
	for i, row := range rows {
		cost, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("activities table row %d: bad cost_usd %q", i+2, row[3])
		}
		out = append(out, ActivityRecord{
			City:         row[0],
			Name:         row[1],
			Category:     row[2],
			CostUSD:      cost,
			IdealWeather: row[4],
			Description:  row[5],
		})
	}
	return out, nil
}

func readFlights(r io.Reader) ([]FlightRecord, error) {
	rows, err := readTable(r, []string{"destination", "airline", "flight_number", "price_usd", "departure_time", "arrival_time", "duration_hours"})
	if err != nil {
		return nil, fmt.Errorf("flights table: %w", err)
	}
	out := make([]FlightRecord, 0, len(rows))
	for i, row := range rows {
		price, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("flights table row %d: bad price_usd %q", i+2, row[3])
		}
		hours, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return nil, fmt.Errorf("flights table row %d: bad duration_hours %q", i+2, row[6])
		}
		out = append(out, FlightRecord{
			Destination:   row[0],
			Airline:       row[1],
			FlightNumber:  row[2],
			PriceUSD:      price,
			DepartureTime: row[4],
			ArrivalTime:   row[5],
			DurationHours: hours,
		})
	}
	return out, nil
}

func readTable(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(first[i]), col) {
			return nil, fmt.Errorf("unexpected column %d: got %q want %q", i, first[i], col)
		}
	}
	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
