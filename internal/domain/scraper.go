package domain

import "context"

// ArticleScraper fetches a source article and derives its title and body
// text, returning the raw markup alongside for optional audit storage.
type ArticleScraper interface {
	Scrape(ctx context.Context, url string) (*Article, error)
}
