// Package humor rewrites monetary amounts into a more relatable unit.
package humor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FullRideUSD is the cost of four funded years at Harvard.
const FullRideUSD = 366280

const unit = "full rides to Harvard"

// An amount must not run into a word: "$5.5million" and "£1.2tn" are left
// alone rather than read as $5 and £1. See endsWord.
var moneyPattern = regexp.MustCompile(`([$£])(\d(?:[\d,]*\d)?(?:\.\d+)?)(bn|m)?`)

var magnitudes = map[string]float64{
	"":   1,
	"m":  1e6,
	"bn": 1e9,
}

type RateSource interface {
	GBPToUSD(ctx context.Context) (float64, error)
}

// Humorizer holds the GBP->USD rate for one run. The rate is fetched the
// first time a pound amount shows up and reused afterwards.
type Humorizer struct {
	rates   RateSource
	gbpUSD  float64
	fetched bool
}

func NewHumorizer(rates RateSource) *Humorizer {
	return &Humorizer{rates: rates}
}

func (h *Humorizer) Humorize(ctx context.Context, text string) (string, error) {
	matches := moneyPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		if !endsWord(text, m[1]) {
			continue
		}

		currency := text[m[2]:m[3]]
		figure := text[m[4]:m[5]]
		suffix := ""
		if m[6] >= 0 {
			suffix = text[m[6]:m[7]]
		}

		phrase, err := h.convert(ctx, currency, figure, suffix)
		if err != nil {
			return "", err
		}

		sb.WriteString(text[last:m[0]])
		sb.WriteString(phrase)
		last = m[1]
	}
	sb.WriteString(text[last:])

	return sb.String(), nil
}

// endsWord reports whether the amount ending at i is not followed by a letter,
// digit or underscore.
func endsWord(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

func (h *Humorizer) convert(ctx context.Context, currency, figure, suffix string) (string, error) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(figure, ",", ""), 64)
	if err != nil {
		return "", fmt.Errorf("parse amount %q: %w", figure, err)
	}

	if currency == "£" {
		rate, err := h.rate(ctx)
		if err != nil {
			return "", err
		}
		value *= rate
	}

	return FormatRides(value*magnitudes[suffix]/FullRideUSD) + " " + unit, nil
}

func (h *Humorizer) rate(ctx context.Context) (float64, error) {
	if h.fetched {
		return h.gbpUSD, nil
	}

	rate, err := h.rates.GBPToUSD(ctx)
	if err != nil {
		return 0, err
	}

	h.gbpUSD, h.fetched = rate, true
	return rate, nil
}

// FormatRides prints counts below one with a single significant digit and
// everything else with one decimal place.
func FormatRides(count float64) string {
	if count < 1 {
		return strconv.FormatFloat(count, 'g', 1, 64)
	}
	return strconv.FormatFloat(count, 'f', 1, 64)
}
