// Package currency converts USD amounts to Argentine pesos via the
// exchangerate-api.com endpoint, falling back to a fixed approximate rate
// when the endpoint is unreachable.
package currency

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/cache"
	"github.com/rutero-ai/rutero/internal/httpx"
)

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Client converts USD to ARS.
type Client struct {
	http         *httpx.Client
	baseURL      string
	fallbackRate float64
	cache        cache.Cache
	logger       *log.Logger
}

func NewClient(cfg config.CurrencyConfig, c cache.Cache) *Client {
	if c == nil {
		c = cache.Noop{}
	}
	fallback := cfg.FallbackRate
	if fallback <= 0 {
		fallback = 1000
	}
	return &Client{
		http:         httpx.NewClient(cfg.Timeout, 1, 0),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		fallbackRate: fallback,
		cache:        c,
		logger:       log.New(log.Writer(), "[CURRENCY] ", log.LstdFlags),
	}
}

// rate returns the live USD to ARS rate, or the fallback with live=false.
func (c *Client) rate(ctx context.Context) (float64, bool) {
	if cached, ok := c.cache.Get(ctx, "currency:usd-ars"); ok {
		if r, err := strconv.ParseFloat(cached, 64); err == nil {
			return r, true
		}
	}
	var resp ratesResponse
	if err := c.http.DoJSON(ctx, "GET", c.baseURL+"/latest/USD", nil, nil, &resp); err != nil {
		c.logger.Printf("fetch rates: %v", err)
		return c.fallbackRate, false
	}
	r, ok := resp.Rates["ARS"]
	if !ok {
		return c.fallbackRate, false
	}
	c.cache.Set(ctx, "currency:usd-ars", strconv.FormatFloat(r, 'f', -1, 64))
	return r, true
}

// ConvertUSDToARS converts an amount and renders the result. A fallback
// conversion is always labeled approximate.
func (c *Client) ConvertUSDToARS(ctx context.Context, amountUSD float64) string {
	rate, live := c.rate(ctx)
	amountARS := amountUSD * rate
	if live {
		return fmt.Sprintf("$%.2f USD = $%.2f ARS (rate: %.2f)", amountUSD, amountARS, rate)
	}
	return fmt.Sprintf("$%.2f USD = $%.2f ARS (approximate rate: %g)", amountUSD, amountARS, rate)
}
