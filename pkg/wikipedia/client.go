package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrPageNotFound is returned by Summary when no page has the exact title.
var ErrPageNotFound = errors.New("page not found")

// DefaultBaseURL is the English Wikipedia MediaWiki API endpoint.
const DefaultBaseURL = "https://en.wikipedia.org/w/api.php"

// DefaultSearchLimit caps the number of candidate titles per search.
const DefaultSearchLimit = 10

// maxSummaryParagraphs bounds how much of the lead section is returned;
// models need the gist, not the whole article.
const maxSummaryParagraphs = 3

// Client talks to the MediaWiki Action API. The zero value is not
// usable; construct with NewClient.
type Client struct {
	baseURL     string
	searchLimit int
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different MediaWiki installation.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSearchLimit caps the number of titles returned by Search.
func WithSearchLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// NewClient creates a Wikipedia client with sane timeouts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		searchLimit: DefaultSearchLimit,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns candidate page titles for a free-text term.
func (c *Client) Search(ctx context.Context, term string) ([]string, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {term},
		"srlimit":  {fmt.Sprint(c.searchLimit)},
		"format":   {"json"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var result struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	titles := make([]string, 0, len(result.Query.Search))
	for _, hit := range result.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

// Summary returns the text of the lead section of an exactly titled
// page. The API serves rendered HTML; the lead paragraphs are extracted
// with goquery. Returns ErrPageNotFound when the title does not exist.
func (c *Client) Summary(ctx context.Context, exactTitle string) (string, error) {
	params := url.Values{
		"action":    {"parse"},
		"page":      {exactTitle},
		"prop":      {"text"},
		"redirects": {"1"},
		"format":    {"json"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}

	var result struct {
		Parse struct {
			Text struct {
				HTML string `json:"*"`
			} `json:"text"`
		} `json:"parse"`
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse page response: %w", err)
	}
	if result.Error != nil {
		if result.Error.Code == "missingtitle" || result.Error.Code == "invalidtitle" {
			return "", ErrPageNotFound
		}
		return "", result.Error
	}

	summary := extractLeadText(result.Parse.Text.HTML)
	if summary == "" {
		return "", ErrPageNotFound
	}
	return summary, nil
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "helpbot (https://github.com/helpbot)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// extractLeadText pulls the first few content paragraphs out of the
// rendered article HTML, skipping reference markers and empty shells.
func extractLeadText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	// Citation markers like [1] render as sup elements; drop them.
	doc.Find("sup.reference").Remove()

	sel := doc.Find("div.mw-parser-output > p")
	if sel.Length() == 0 {
		sel = doc.Find("p")
	}

	var paragraphs []string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		paragraphs = append(paragraphs, text)
		return len(paragraphs) < maxSummaryParagraphs
	})

	return strings.Join(paragraphs, "\n\n")
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("wikipedia api error %s: %s", e.Code, e.Info)
}
