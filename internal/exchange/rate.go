package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"go-invoice-api/internal/logger"
)

const DefaultFallback = 83

// Provider fetches the USD to INR rate from an exchangerate-api style
// endpoint. Every call is a fresh request; any failure yields Fallback.
type Provider struct {
	url      string
	client   *http.Client
	fallback decimal.Decimal
	log      *logger.Logger
}

func NewProvider(url string, timeout time.Duration, fallback float64, log *logger.Logger) *Provider {
	if fallback <= 0 {
		fallback = DefaultFallback
	}
	return &Provider{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		fallback: decimal.NewFromFloat(fallback),
		log:      log.With("component", "ExchangeRateProvider"),
	}
}

// Fallback is the rate returned whenever the live lookup fails.
func (p *Provider) Fallback() decimal.Decimal { return p.fallback }

func (p *Provider) Rate(ctx context.Context) decimal.Decimal {
	rate, err := p.fetch(ctx)
	if err != nil {
		p.log.Warn("exchange rate lookup failed, using fallback", "error", err, "fallback", p.fallback.String())
		return p.fallback
	}
	return rate
}

type latestResponse struct {
	Rates map[string]json.Number `json:"rates"`
}

func (p *Provider) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode: %w", err)
	}
	raw, ok := body.Rates["INR"]
	if !ok {
		return decimal.Zero, fmt.Errorf("INR rate missing")
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse INR rate %q: %w", raw, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive INR rate %s", rate)
	}
	return rate, nil
}
