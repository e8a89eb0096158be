package fxrate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/pkg/money"
)

// Compile-time assertion that ExchangeRateAPIProvider implements port.RateProvider.
var _ port.RateProvider = (*ExchangeRateAPIProvider)(nil)

// rateScale matches the precision of the usd_rate column.
const rateScale = 12

// ExchangeRateAPIProvider reads historical USD-based tables from
// ExchangeRate-API (https://www.exchangerate-api.com).
type ExchangeRateAPIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewExchangeRateAPIProvider creates a client for the v6 API.
func NewExchangeRateAPIProvider(apiKey, baseURL string, timeout time.Duration) *ExchangeRateAPIProvider {
	return &ExchangeRateAPIProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// historyResponse is the subset of the history endpoint's payload we use.
type historyResponse struct {
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type"`
}

// SettlementRate fetches the table for date. The table quotes units of
// currency per USD, so the settlement multiplier is its inverse.
func (p *ExchangeRateAPIProvider) SettlementRate(ctx context.Context, currency money.Currency, date civil.Date) (decimal.Decimal, error) {
	if currency == money.USD {
		return decimal.NewFromInt(1), nil
	}

	url := fmt.Sprintf("%s/%s/history/USD/%d/%02d/%02d", p.baseURL, p.apiKey, date.Year, int(date.Month), date.Day)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("exchange rate API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("exchange rate API error (status %d) for %s", resp.StatusCode, date)
	}

	var result historyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Result != "success" {
		return decimal.Zero, fmt.Errorf("exchange rate API returned %q for %s: %s", result.Result, date, result.ErrorType)
	}

	units, ok := result.ConversionRates[currency.Code()]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s rate published for %s", currency, date)
	}
	if !units.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive %s rate %s published for %s", currency, units, date)
	}

	return decimal.NewFromInt(1).DivRound(units, rateScale), nil
}
