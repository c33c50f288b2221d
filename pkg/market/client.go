package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketbot/internal/model"
)

// ErrNoData is returned by a Source when it has no daily bar for the requested day.
var ErrNoData = errors.New("no market data")

type Bar struct {
	Date  time.Time
	Open  float64
	Close float64
}

type Source interface {
	DailyBar(ctx context.Context, symbol string, date time.Time) (*Bar, error)
	LatestClose(ctx context.Context, symbol string) (float64, error)
	GBPUSDSymbol() string
	Name() string
}

// NoTradingDataError reports a symbol that did not trade on the given day.
type NoTradingDataError struct {
	Symbol string
	Date   time.Time
}

func (e *NoTradingDataError) Error() string {
	return fmt.Sprintf("no trading data for %s on %s, the market was probably closed that day",
		e.Symbol, model.FormatDate(e.Date))
}

func (e *NoTradingDataError) Unwrap() error {
	return ErrNoData
}

// APIError is a non-success response from a market data provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d\n%s", e.Provider, e.StatusCode, e.Body)
}

type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// IsUp reports whether symbol closed higher than it opened on date.
func (r *Resolver) IsUp(ctx context.Context, symbol string, date time.Time) (bool, error) {
	bar, err := r.source.DailyBar(ctx, symbol, date)
	if errors.Is(err, ErrNoData) {
		return false, &NoTradingDataError{Symbol: symbol, Date: date}
	}
	if err != nil {
		return false, fmt.Errorf("%s daily bar for %s: %w", r.source.Name(), symbol, err)
	}

	return bar.Close > bar.Open, nil
}

// GBPToUSD returns the most recent daily close of the GBP/USD pair.
func (r *Resolver) GBPToUSD(ctx context.Context) (float64, error) {
	rate, err := r.source.LatestClose(ctx, r.source.GBPUSDSymbol())
	if err != nil {
		return 0, fmt.Errorf("%s GBP/USD rate: %w", r.source.Name(), err)
	}
	return rate, nil
}

// dayWindow returns the unix bounds of the UTC calendar day containing date.
func dayWindow(date time.Time) (int64, int64) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return start.Unix(), start.AddDate(0, 0, 1).Unix()
}
