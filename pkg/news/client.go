package news

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoArticles     = errors.New("no articles published in the requested window")
	ErrNoCleanArticle = errors.New("no clean candidate found")
)

type Article struct {
	Headline string
	Lede     string
	URL      string
	Tags     []string
}

type ArticleSource interface {
	RandomArticle(ctx context.Context, date time.Time) (*Article, error)
	Name() string
}

// APIError is a non-success response from a news provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("couldn't hit The Guardian API, received status %d\n%s", e.StatusCode, e.Body)
}
