package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	yahooBaseURL   = "https://query1.finance.yahoo.com"
	yahooGBPUSD    = "GBPUSD=X"
	yahooUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type YahooOption func(*YahooClient)

func WithYahooBaseURL(baseURL string) YahooOption {
	return func(c *YahooClient) {
		c.baseURL = baseURL
	}
}

func WithYahooHTTPClient(httpClient *http.Client) YahooOption {
	return func(c *YahooClient) {
		c.httpClient = httpClient
	}
}

func NewYahooClient(opts ...YahooOption) *YahooClient {
	c := &YahooClient{
		baseURL:    yahooBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *YahooClient) Name() string {
	return "Yahoo"
}

func (c *YahooClient) GBPUSDSymbol() string {
	return yahooGBPUSD
}

func (c *YahooClient) DailyBar(ctx context.Context, symbol string, date time.Time) (*Bar, error) {
	from, to := dayWindow(date)
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(from, 10))
	params.Set("period2", strconv.FormatInt(to, 10))
	params.Set("interval", "1d")

	chart, err := c.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	// Yahoo may answer a closed day with the next session's bar.
	for i, ts := range chart.Timestamp {
		if ts < from || ts >= to {
			continue
		}
		o, cl := chart.at(i)
		if o == nil || cl == nil {
			continue
		}
		return &Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Open:  *o,
			Close: *cl,
		}, nil
	}

	return nil, ErrNoData
}

func (c *YahooClient) LatestClose(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("range", "5d")
	params.Set("interval", "1d")

	chart, err := c.chart(ctx, symbol, params)
	if err != nil {
		return 0, err
	}

	for i := len(chart.Timestamp) - 1; i >= 0; i-- {
		if _, cl := chart.at(i); cl != nil {
			return *cl, nil
		}
	}

	return 0, ErrNoData
}

func (c *YahooClient) chart(ctx context.Context, symbol string, params url.Values) (*yahooResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	slog.Debug("yahoo chart request", "symbol", symbol, "params", params.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	// Yahoo answers unknown symbols and empty windows with 404.
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raw yahooResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}

	if len(raw.Chart.Result) == 0 {
		return nil, ErrNoData
	}
	return &raw.Chart.Result[0], nil
}

type yahooResponse struct {
	Chart struct {
		Result []yahooResult `json:"result"`
	} `json:"chart"`
}

type yahooResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []yahooQuote `json:"quote"`
	} `json:"indicators"`
}

type yahooQuote struct {
	Open  []*float64 `json:"open"`
	Close []*float64 `json:"close"`
}

func (r *yahooResult) at(i int) (*float64, *float64) {
	if len(r.Indicators.Quote) == 0 {
		return nil, nil
	}
	q := r.Indicators.Quote[0]
	var o, cl *float64
	if i < len(q.Open) {
		o = q.Open[i]
	}
	if i < len(q.Close) {
		cl = q.Close[i]
	}
	return o, cl
}
