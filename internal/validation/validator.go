package validation

import (
	"net/url"
	"strings"

	"wiki-quiz/internal/domain"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuizRequest checks that the submitted URL is a
// well-formed absolute http(s) URL. Source-pattern matching is the
// scraper's concern, not the request layer's.
func (v *Validator) ValidateGenerateQuizRequest(rawURL string) *domain.DomainError {
	if strings.TrimSpace(rawURL) == "" {
		return domain.NewInvalidInputError("url is required")
	}

	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return domain.NewInvalidInputError("url must be a well-formed absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.NewInvalidInputError("url scheme must be http or https")
	}

	return nil
}
