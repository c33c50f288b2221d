package post

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"marketbot/internal/model"
	"marketbot/pkg/news"

	"gopkg.in/yaml.v3"
)

type MovementResolver interface {
	IsUp(ctx context.Context, symbol string, date time.Time) (bool, error)
}

type Humorizer interface {
	Humorize(ctx context.Context, text string) (string, error)
}

type Composer struct {
	market   MovementResolver
	articles news.ArticleSource
	humor    Humorizer
	rng      *rand.Rand
}

func NewComposer(market MovementResolver, articles news.ArticleSource, humor Humorizer, rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Composer{
		market:   market,
		articles: articles,
		humor:    humor,
		rng:      rng,
	}
}

// Generate builds the post for date and returns it rendered as markdown.
func (c *Composer) Generate(ctx context.Context, date time.Time) (string, error) {
	post, err := c.Compose(ctx, date)
	if err != nil {
		return "", err
	}
	return Render(post)
}

func (c *Composer) Compose(ctx context.Context, date time.Time) (*model.Post, error) {
	ticker := Tickers[c.rng.IntN(len(Tickers))]

	isUp, err := c.market.IsUp(ctx, ticker.Symbol, date)
	if err != nil {
		return nil, err
	}

	verbs, image := Downs, "down1.png"
	if isUp {
		verbs, image = Ups, "up1.png"
	}
	verb := verbs[c.rng.IntN(len(verbs))]

	slog.Info("market movement resolved", "ticker", ticker.Description, "symbol", ticker.Symbol, "up", isUp)

	article, err := c.articles.RandomArticle(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s article: %w", c.articles.Name(), err)
	}

	slog.Info("article selected", "url", article.URL, "headline", article.Headline)

	headline, err := c.humor.Humorize(ctx, article.Headline)
	if err != nil {
		return nil, fmt.Errorf("humorize headline: %w", err)
	}

	lede, err := c.humor.Humorize(ctx, article.Lede)
	if err != nil {
		return nil, fmt.Errorf("humorize lede: %w", err)
	}

	tags := make([]string, 0, len(article.Tags)+2)
	tags = append(tags, article.Tags...)
	tags = append(tags, ticker.Description, ticker.Symbol)

	return &model.Post{
		Author:          model.Author,
		Title:           strings.Join([]string{ticker.Description, verb, "as", headline}, " "),
		Summary:         lede,
		Image:           image,
		Tags:            tags,
		Date:            model.FormatDate(date),
		RedirectTo:      article.URL,
		RedirectEnabled: true,
	}, nil
}

// Render writes post as a front-matter-only markdown document.
func Render(post *model.Post) (string, error) {
	frontMatter, err := yaml.Marshal(post)
	if err != nil {
		return "", fmt.Errorf("render front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(frontMatter)
	sb.WriteString("---\n")
	return sb.String(), nil
}
