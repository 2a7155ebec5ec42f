// Package weather wraps the Open-Meteo forecast API behind the fixed
// city-coordinate and weather-code tables used for activity planning.
package weather

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/cache"
	"github.com/rutero-ai/rutero/internal/httpx"
)

// cityCoords is the closed set of cities the planner can forecast. Anything
// else gets an explicit "not available" answer, never an error.
var cityCoords = map[string][2]float64{
	"madrid":         {40.4168, -3.7038},
	"new york":       {40.7128, -74.0060},
	"miami":          {25.7617, -80.1918},
	"santiago":       {-33.4489, -70.6693},
	"lima":           {-12.0464, -77.0428},
	"rio de janeiro": {-22.9068, -43.1729},
	"paris":          {48.8566, 2.3522},
	"barcelona":      {41.3851, 2.1734},
	"rome":           {41.9028, 12.4964},
	"london":         {51.5074, -0.1278},
}

type codeInfo struct {
	condition string
	advice    string
}

var weatherCodes = map[int]codeInfo{
	0:  {"sunny", "Perfect for outdoor activities, sightseeing, and walking tours"},
	1:  {"mostly sunny", "Great for outdoor activities and sightseeing"},
	2:  {"partly cloudy", "Good for outdoor activities, some cloud cover"},
	3:  {"cloudy", "Suitable for indoor activities and museums"},
	45: {"foggy", "Be careful with outdoor activities, reduced visibility"},
	48: {"foggy", "Be careful with outdoor activities, reduced visibility"},
	51: {"light rain", "Indoor activities recommended, bring umbrella"},
	53: {"light rain", "Indoor activities recommended, bring umbrella"},
	55: {"moderate rain", "Indoor activities recommended, avoid outdoor plans"},
	61: {"rain", "Indoor activities recommended, avoid outdoor plans"},
	63: {"rain", "Indoor activities recommended, avoid outdoor plans"},
	65: {"heavy rain", "Indoor activities only, avoid outdoor plans"},
	71: {"snow", "Indoor activities recommended, winter conditions"},
	73: {"snow", "Indoor activities recommended, winter conditions"},
	75: {"heavy snow", "Indoor activities only, winter conditions"},
	77: {"snow grains", "Indoor activities recommended, winter conditions"},
	80: {"rain showers", "Indoor activities recommended, bring umbrella"},
	81: {"rain showers", "Indoor activities recommended, bring umbrella"},
	82: {"heavy rain showers", "Indoor activities only, avoid outdoor plans"},
	85: {"snow showers", "Indoor activities recommended, winter conditions"},
	86: {"heavy snow showers", "Indoor activities only, winter conditions"},
	95: {"thunderstorm", "Indoor activities only, avoid outdoor plans"},
	96: {"thunderstorm with hail", "Indoor activities only, avoid outdoor plans"},
	99: {"thunderstorm with heavy hail", "Indoor activities only, avoid outdoor plans"},
}

// Describe translates an Open-Meteo weather code into a condition name and
// activity advice.
func Describe(code int) (string, string) {
	if info, ok := weatherCodes[code]; ok {
		return info.condition, info.advice
	}
	return "unknown", "Check weather conditions before planning"
}

// Coordinates resolves a known city to latitude and longitude.
func Coordinates(city string) (float64, float64, bool) {
	c, ok := cityCoords[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return 0, 0, false
	}
	return c[0], c[1], true
}

type forecastResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		WeatherCode      []int     `json:"weather_code"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Client fetches daily forecasts.
type Client struct {
	http    *httpx.Client
	baseURL string
	cache   cache.Cache
	logger  *log.Logger
}

func NewClient(cfg config.WeatherConfig, c cache.Cache) *Client {
	if c == nil {
		c = cache.Noop{}
	}
	return &Client{
		http:    httpx.NewClient(cfg.Timeout, 1, 0),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		cache:   c,
		logger:  log.New(log.Writer(), "[WEATHER] ", log.LstdFlags),
	}
}

// Forecast returns the formatted daily forecast for a city. Unknown cities
// and upstream failures both degrade to explanatory text.
func (c *Client) Forecast(ctx context.Context, city string, days int) string {
	if days <= 0 {
		days = 5
	}
	lat, lon, ok := Coordinates(city)
	if !ok {
		return fmt.Sprintf("Weather data not available for %s", city)
	}

	key := fmt.Sprintf("weather:%s:%d", strings.ToLower(city), days)
	if cached, ok := c.cache.Get(ctx, key); ok {
		return cached
	}

	url := fmt.Sprintf("%s/forecast?latitude=%g&longitude=%g&daily=temperature_2m_max,temperature_2m_min,weather_code,precipitation_sum&timezone=auto&forecast_days=%d",
		c.baseURL, lat, lon, days)
	var resp forecastResponse
	if err := c.http.DoJSON(ctx, "GET", url, nil, nil, &resp); err != nil {
		c.logger.Printf("forecast %s: %v", city, err)
		return fmt.Sprintf("Weather forecast not available for %s", city)
	}
	if len(resp.Daily.Time) == 0 {
		return fmt.Sprintf("Weather forecast not available for %s", city)
	}

	text := renderForecast(city, days, resp)
	c.cache.Set(ctx, key, text)
	return text
}

func renderForecast(city string, days int, resp forecastResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d-Day Weather Forecast for %s:\n\n", days, titleCase(city))
	daily := resp.Daily
	for i, date := range daily.Time {
		condition, advice := Describe(at(daily.WeatherCode, i))
		fmt.Fprintf(&b, "%s:\n", formatDate(date))
		fmt.Fprintf(&b, "   Temperature: %g°C - %g°C\n", at(daily.TemperatureMin, i), at(daily.TemperatureMax, i))
		fmt.Fprintf(&b, "   Weather: %s\n", condition)
		if p := at(daily.PrecipitationSum, i); p > 0 {
			fmt.Fprintf(&b, "   Precipitation: %gmm\n", p)
		}
		fmt.Fprintf(&b, "   Activity Advice: %s\n\n", advice)
	}
	return b.String()
}

// at guards against upstream arrays of uneven length.
func at[T int | float64](xs []T, i int) T {
	var zero T
	if i < 0 || i >= len(xs) {
		return zero
	}
	return xs[i]
}

func formatDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 02")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
