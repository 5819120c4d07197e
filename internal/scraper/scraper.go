// Package scraper fetches Wikipedia articles and derives their title and
// body text from the page markup.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultUserAgent is sent on every fetch; Wikipedia serves stripped-down
// markup to unidentified clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/114.0.0.0 Safari/537.36"

// minParagraphLength filters navigation and caption noise out of the body.
// This is a heuristic, not a guarantee: short genuine paragraphs are lost
// and long boilerplate slips through, but it avoids a full layout model.
const minParagraphLength = 50

// IsArticleURL reports whether the URL matches the accepted article-path
// pattern. Checked before any network access.
func IsArticleURL(url string) bool {
	return strings.Contains(url, "wikipedia.org/wiki/")
}

// WikipediaScraper implements domain.ArticleScraper over HTTP.
type WikipediaScraper struct {
	client    *http.Client
	userAgent string
}

// NewWikipediaScraper creates a scraper with a fixed per-fetch timeout.
// An empty userAgent falls back to DefaultUserAgent.
func NewWikipediaScraper(timeout time.Duration, userAgent string) *WikipediaScraper {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &WikipediaScraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Scrape fetches the article and extracts (title, body, raw markup).
// The title is the first top-level heading; the body is the concatenation
// of all sufficiently long paragraphs under the main content region,
// falling back to all paragraphs when no main region is identifiable.
func (s *WikipediaScraper) Scrape(ctx context.Context, url string) (*domain.Article, error) {
	if !IsArticleURL(url) {
		return nil, domain.NewInvalidSourceError(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewFetchError(url, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Get().Error("Failed to fetch article", zap.String("url", url), zap.Error(err))
		return nil, domain.NewFetchError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Get().Error("Unexpected status fetching article",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return nil, domain.NewFetchError(url, &statusError{resp.StatusCode})
	}

	rawHTML, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewFetchError(url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(rawHTML)))
	if err != nil {
		return nil, domain.NewExtractionError("Could not parse article markup")
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return nil, domain.NewExtractionError("Could not find article title")
	}

	doc.Find("script, style").Remove()

	content := extractBody(doc)
	if content == "" {
		return nil, domain.NewExtractionError("Could not extract article content")
	}

	logger.Get().Info("Successfully scraped article",
		zap.String("title", title),
		zap.String("url", url),
		zap.Int("content_length", len(content)))

	return &domain.Article{
		Title:   title,
		Content: content,
		RawHTML: string(rawHTML),
	}, nil
}

func extractBody(doc *goquery.Document) string {
	main := doc.Find("div#mw-content-text")
	if main.Length() == 0 {
		main = doc.Find("div.mw-parser-output")
	}

	var paragraphs *goquery.Selection
	if main.Length() > 0 {
		paragraphs = main.Find("p")
	} else {
		paragraphs = doc.Find("p")
	}

	var parts []string
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) > minParagraphLength {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.code)
}
