package dataset

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/rutero-ai/rutero/config"
)

// NewPostgresStore loads both reference tables from Postgres into memory.
// The database is read exactly once; queries afterwards are served from the
// same in-memory Store as the CSV loader.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	activities, err := loadActivityRows(ctx, db)
	if err != nil {
		return nil, err
	}
	flights, err := loadFlightRows(ctx, db)
	if err != nil {
		return nil, err
	}
	return NewFromRecords(activities, flights)
}

func loadActivityRows(ctx context.Context, db *sql.DB) ([]ActivityRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT city, activity_name, category, cost_usd, ideal_weather, description FROM activities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()
	var out []ActivityRecord
	for rows.Next() {
		var a ActivityRecord
		if err := rows.Scan(&a.City, &a.Name, &a.Category, &a.CostUSD, &a.IdealWeather, &a.Description); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func loadFlightRows(ctx context.Context, db *sql.DB) ([]FlightRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT destination, airline, flight_number, price_usd, departure_time, arrival_time, duration_hours FROM flights ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer rows.Close()
	var out []FlightRecord
	for rows.Next() {
		var f FlightRecord
		if err := rows.Scan(&f.Destination, &f.Airline, &f.FlightNumber, &f.PriceUSD, &f.DepartureTime, &f.ArrivalTime, &f.DurationHours); err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
