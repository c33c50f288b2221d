package post

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"marketbot/internal/humor"
	"marketbot/internal/model"
	"marketbot/pkg/market"
	"marketbot/pkg/news"

	"github.com/go-playground/assert/v2"
	"gopkg.in/yaml.v3"
)

var testDate = time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)

type fakeMarket struct {
	up      bool
	err     error
	symbols []string
}

func (f *fakeMarket) IsUp(ctx context.Context, symbol string, date time.Time) (bool, error) {
	f.symbols = append(f.symbols, symbol)
	return f.up, f.err
}

type fakeArticles struct {
	article *news.Article
	err     error
}

func (f *fakeArticles) RandomArticle(ctx context.Context, date time.Time) (*news.Article, error) {
	return f.article, f.err
}

func (f *fakeArticles) Name() string { return "Fake" }

type fakeRates struct {
	rate float64
}

func (f *fakeRates) GBPToUSD(ctx context.Context) (float64, error) {
	return f.rate, nil
}

func parseFrontMatter(t *testing.T, doc string) model.Post {
	t.Helper()

	assert.Equal(t, true, strings.HasPrefix(doc, "---\n"))
	assert.Equal(t, true, strings.HasSuffix(doc, "---\n"))

	body := strings.TrimSuffix(strings.TrimPrefix(doc, "---\n"), "---\n")
	var post model.Post
	err := yaml.Unmarshal([]byte(body), &post)
	assert.Equal(t, nil, err)
	return post
}

func stocksRally() *news.Article {
	return &news.Article{
		Headline: "Stocks rally",
		Lede:     "Markets cheered",
		URL:      "http://x",
		Tags:     []string{"Business"},
	}
}

func findTicker(symbol string) model.Ticker {
	for _, ticker := range Tickers {
		if ticker.Symbol == symbol {
			return ticker
		}
	}
	return model.Ticker{}
}

func TestGenerateUpDay(t *testing.T) {
	mkt := &fakeMarket{up: true}
	c := NewComposer(mkt, &fakeArticles{article: stocksRally()}, humor.NewHumorizer(&fakeRates{rate: 1.3}), rand.New(rand.NewPCG(1, 2)))

	doc, err := c.Generate(context.Background(), testDate)
	assert.Equal(t, nil, err)

	post := parseFrontMatter(t, doc)
	ticker := findTicker(mkt.symbols[0])

	matched := false
	for _, verb := range Ups {
		if post.Title == ticker.Description+" "+verb+" as Stocks rally" {
			matched = true
		}
	}
	assert.Equal(t, true, matched)
	assert.Equal(t, "http://x", post.RedirectTo)
	assert.Equal(t, "Markets cheered", post.Summary)
	assert.Equal(t, "MarketBot", post.Author)
	assert.Equal(t, "up1.png", post.Image)
	assert.Equal(t, "2024-03-14", post.Date)
	assert.Equal(t, true, post.RedirectEnabled)
	assert.Equal(t, []string{"Business", ticker.Description, ticker.Symbol}, post.Tags)
}

func TestComposeDownDay(t *testing.T) {
	c := NewComposer(&fakeMarket{up: false}, &fakeArticles{article: stocksRally()}, humor.NewHumorizer(&fakeRates{}), rand.New(rand.NewPCG(3, 4)))

	post, err := c.Compose(context.Background(), testDate)
	assert.Equal(t, nil, err)

	assert.Equal(t, "down1.png", post.Image)

	matched := false
	for _, verb := range Downs {
		if strings.Contains(post.Title, " "+verb+" as Stocks rally") {
			matched = true
		}
	}
	assert.Equal(t, true, matched)
}

func TestComposeHumorizesHeadlineAndLede(t *testing.T) {
	article := &news.Article{
		Headline: "Club spends $500m on striker",
		Lede:     "Via The Guardian: The £1bn stadium is finished.",
		URL:      "https://g/x",
		Tags:     []string{"Sport"},
	}
	c := NewComposer(&fakeMarket{up: true}, &fakeArticles{article: article}, humor.NewHumorizer(&fakeRates{rate: 1.5}), rand.New(rand.NewPCG(5, 6)))

	post, err := c.Compose(context.Background(), testDate)
	assert.Equal(t, nil, err)

	assert.Equal(t, true, strings.HasSuffix(post.Title, "as Club spends 1365.1 full rides to Harvard on striker"))
	assert.Equal(t, "Via The Guardian: The 4095.2 full rides to Harvard stadium is finished.", post.Summary)
}

func TestComposeCoversEveryTicker(t *testing.T) {
	mkt := &fakeMarket{up: true}
	c := NewComposer(mkt, &fakeArticles{article: stocksRally()}, humor.NewHumorizer(&fakeRates{}), rand.New(rand.NewPCG(7, 8)))

	for i := 0; i < 200; i++ {
		_, err := c.Compose(context.Background(), testDate)
		assert.Equal(t, nil, err)
	}

	seen := map[string]bool{}
	for _, symbol := range mkt.symbols {
		seen[symbol] = true
	}
	assert.Equal(t, len(Tickers), len(seen))
}

func TestComposeMarketError(t *testing.T) {
	noData := &market.NoTradingDataError{Symbol: "^N225", Date: testDate}
	c := NewComposer(&fakeMarket{err: noData}, &fakeArticles{article: stocksRally()}, humor.NewHumorizer(&fakeRates{}), nil)

	_, err := c.Generate(context.Background(), testDate)

	var target *market.NoTradingDataError
	assert.Equal(t, true, errors.As(err, &target))
}

func TestComposeArticleError(t *testing.T) {
	c := NewComposer(&fakeMarket{up: true}, &fakeArticles{err: news.ErrNoCleanArticle}, humor.NewHumorizer(&fakeRates{}), nil)

	_, err := c.Generate(context.Background(), testDate)

	assert.Equal(t, true, errors.Is(err, news.ErrNoCleanArticle))
}

func TestRenderQuotesAwkwardValues(t *testing.T) {
	post := &model.Post{
		Author:          model.Author,
		Title:           "FTSE dives as Budget: what it means",
		Summary:         `Via The Guardian: "Quoted" words, and a colon: here`,
		Image:           "down1.png",
		Tags:            []string{"News", "FTSE", "^FTSE"},
		Date:            "2024-03-14",
		RedirectTo:      "https://www.theguardian.com/x",
		RedirectEnabled: true,
	}

	doc, err := Render(post)
	assert.Equal(t, nil, err)

	assert.Equal(t, true, strings.Contains(doc, "tags: [News, FTSE, ^FTSE]\n"))
	assert.Equal(t, true, strings.Contains(doc, "redirect_enabled: true\n"))

	got := parseFrontMatter(t, doc)
	assert.Equal(t, *post, got)
}
