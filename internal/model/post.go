package model

import "time"

const (
	Author     = "MarketBot"
	DateLayout = "2006-01-02"
)

type Ticker struct {
	Description string
	Symbol      string
}

// Post is the front matter of a redirect-only blog post.
type Post struct {
	Author          string   `yaml:"author"`
	Title           string   `yaml:"title"`
	Summary         string   `yaml:"summary"`
	Image           string   `yaml:"image"`
	Tags            []string `yaml:"tags,flow"`
	Date            string   `yaml:"date"`
	RedirectTo      string   `yaml:"redirect_to"`
	RedirectEnabled bool     `yaml:"redirect_enabled"`
}

func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}
