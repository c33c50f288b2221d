package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

const finnhubGBPUSD = "OANDA:GBP_USD"

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	return newFinnHubClient(apiKey, "")
}

func newFinnHubClient(apiKey, baseURL string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if baseURL != "" {
		cfg.Servers = finnhub.ServerConfigurations{{URL: baseURL}}
	}
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

func (c *FinnHubClient) GBPUSDSymbol() string {
	return finnhubGBPUSD
}

func (c *FinnHubClient) DailyBar(ctx context.Context, symbol string, date time.Time) (*Bar, error) {
	from, to := dayWindow(date)

	slog.Debug("finnhub candle request", "symbol", symbol, "from", from, "to", to)

	res, resp, err := c.client.StockCandles(ctx).Symbol(symbol).Resolution("D").From(from).To(to).Execute()
	if err != nil {
		return nil, c.wrap(resp, err)
	}

	if res.GetS() != "ok" {
		return nil, ErrNoData
	}

	opens, closes := res.GetO(), res.GetC()
	for i, ts := range res.GetT() {
		if ts < from || ts >= to || i >= len(opens) || i >= len(closes) {
			continue
		}
		return &Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Open:  float64(opens[i]),
			Close: float64(closes[i]),
		}, nil
	}

	return nil, ErrNoData
}

func (c *FinnHubClient) LatestClose(ctx context.Context, symbol string) (float64, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7).Unix()

	slog.Debug("finnhub forex candle request", "symbol", symbol)

	res, resp, err := c.client.ForexCandles(ctx).Symbol(symbol).Resolution("D").From(from).To(now.Unix()).Execute()
	if err != nil {
		return 0, c.wrap(resp, err)
	}

	closes := res.GetC()
	if res.GetS() != "ok" || len(closes) == 0 {
		return 0, ErrNoData
	}

	return float64(closes[len(closes)-1]), nil
}

// wrap turns SDK failures that carry an HTTP response into an APIError.
func (c *FinnHubClient) wrap(resp *http.Response, err error) error {
	if resp == nil || resp.StatusCode == http.StatusOK {
		return fmt.Errorf("finnhub fetch: %w", err)
	}

	apiErr := &APIError{Provider: c.Name(), StatusCode: resp.StatusCode}
	var sdkErr finnhub.GenericOpenAPIError
	if errors.As(err, &sdkErr) {
		apiErr.Body = string(sdkErr.Body())
	} else if resp.Body != nil {
		body, _ := io.ReadAll(resp.Body)
		apiErr.Body = string(body)
	}
	return apiErr
}
