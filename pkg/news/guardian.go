package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketbot/internal/model"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	guardianBaseURL   = "https://content.guardianapis.com"
	guardianPageSize  = 50
	ledeAttribution   = "Via The Guardian: "
	guardianRateLimit = 5
)

// ExcludedSections are rarely narrative news, or too close to the joke to be funny.
var ExcludedSections = []string{
	"About",
	"Better Business",
	"Business",
	"Business to business",
	"Opinion",
	"Community",
	"Crosswords",
	"Global development",
	"Help",
	"Inequality",
	"Info",
	"Jobs",
	"Membership",
	"Money",
	"News",
	"Politics",
	"Search",
	"From the Guardian",
	"From the Observer",
	"Guardian holiday offers",
	"World news",
}

var errNoParagraph = errors.New("article body has no paragraph")

type GuardianClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	rng        *rand.Rand
}

type GuardianOption func(*GuardianClient)

func WithBaseURL(baseURL string) GuardianOption {
	return func(c *GuardianClient) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) GuardianOption {
	return func(c *GuardianClient) {
		c.httpClient = httpClient
	}
}

func WithRand(rng *rand.Rand) GuardianOption {
	return func(c *GuardianClient) {
		c.rng = rng
	}
}

func NewGuardianClient(apiKey string, opts ...GuardianOption) *GuardianClient {
	c := &GuardianClient{
		apiKey:     apiKey,
		baseURL:    guardianBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(guardianRateLimit), guardianRateLimit),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *GuardianClient) Name() string {
	return "Guardian"
}

// RandomArticle picks a random article published on date. Candidates whose
// headline or lede still carry markup are skipped; each candidate is tried once.
func (c *GuardianClient) RandomArticle(ctx context.Context, date time.Time) (*Article, error) {
	candidates, err := c.search(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s: %w", model.FormatDate(date), ErrNoArticles)
	}

	for _, i := range c.rng.Perm(len(candidates)) {
		content, err := c.content(ctx, candidates[i].APIURL)
		if err != nil {
			return nil, err
		}

		article, err := toArticle(content)
		if err != nil {
			slog.Debug("skipping article", "url", content.WebURL, "error", err)
			continue
		}

		if hasMarkup(article.Headline) || hasMarkup(article.Lede) {
			slog.Debug("skipping article with markup", "url", article.URL)
			continue
		}

		return article, nil
	}

	return nil, fmt.Errorf("%d candidates on %s: %w", len(candidates), model.FormatDate(date), ErrNoCleanArticle)
}

func (c *GuardianClient) search(ctx context.Context, date time.Time) ([]guardianResult, error) {
	excluded := make([]string, len(ExcludedSections))
	for i, section := range ExcludedSections {
		excluded[i] = "-" + section
	}

	params := url.Values{}
	params.Set("from-date", model.FormatDate(date))
	params.Set("to-date", model.FormatDate(date.AddDate(0, 0, 1)))
	params.Set("page-size", fmt.Sprint(guardianPageSize))
	params.Set("section", strings.Join(excluded, ","))

	var raw guardianSearchResponse
	if err := c.get(ctx, c.baseURL+"/search", params, &raw); err != nil {
		return nil, err
	}
	return raw.Response.Results, nil
}

func (c *GuardianClient) content(ctx context.Context, apiURL string) (*guardianContent, error) {
	params := url.Values{}
	params.Set("show-fields", "body")

	var raw guardianContentResponse
	if err := c.get(ctx, apiURL, params, &raw); err != nil {
		return nil, err
	}
	return &raw.Response.Content, nil
}

func (c *GuardianClient) get(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	slog.Debug("guardian request", "url", endpoint)

	params.Set("api-key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("guardian request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("guardian fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("guardian decode: %w", err)
	}
	return nil
}

func toArticle(content *guardianContent) (*Article, error) {
	lede, err := extractLede(content.Fields.Body)
	if err != nil {
		return nil, err
	}

	return &Article{
		Headline: CleanHeadline(content.WebTitle),
		Lede:     ledeAttribution + lede,
		URL:      content.WebURL,
		Tags:     []string{content.PillarName},
	}, nil
}

// extractLede returns the text of the first paragraph. Paragraphs with nested
// elements come back as raw HTML so the markup check rejects them.
func extractLede(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse article body: %w", err)
	}

	p := doc.Find("p").First()
	if p.Length() == 0 {
		return "", errNoParagraph
	}

	if p.Children().Length() > 0 {
		return p.Html()
	}
	return p.Text(), nil
}

type guardianSearchResponse struct {
	Response struct {
		Results []guardianResult `json:"results"`
	} `json:"response"`
}

type guardianResult struct {
	APIURL string `json:"apiUrl"`
}

type guardianContentResponse struct {
	Response struct {
		Content guardianContent `json:"content"`
	} `json:"response"`
}

type guardianContent struct {
	WebTitle   string `json:"webTitle"`
	WebURL     string `json:"webUrl"`
	PillarName string `json:"pillarName"`
	Fields     struct {
		Body string `json:"body"`
	} `json:"fields"`
}
