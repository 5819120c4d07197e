// Package quizgen adapts the Gemini API to the domain.TextGenerator port.
package quizgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// GeminiTextGenerator implements domain.TextGenerator over langchaingo's
// Google AI client. Errors from the model call are returned unclassified;
// quota detection happens in the generation service.
type GeminiTextGenerator struct {
	llm         llms.Model
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewGeminiTextGenerator creates a Gemini-backed text generator from an
// explicit configuration value; no ambient global state is consulted.
func NewGeminiTextGenerator(ctx context.Context, llmCfg config.LLMConfig) (domain.TextGenerator, error) {
	if llmCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if llmCfg.Model == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}

	logger.Get().Info("Initializing Gemini text generator", zap.String("model", llmCfg.Model))

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(llmCfg.APIKey),
		googleai.WithDefaultModel(llmCfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTextGenerator{
		llm:         llm,
		temperature: llmCfg.Temperature,
		maxTokens:   llmCfg.MaxTokens,
		timeout:     llmCfg.Timeout,
	}, nil
}

// Generate sends a rendered prompt to the model and returns the trimmed
// response text.
func (g *GeminiTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		logger.Get().Error("Gemini call failed", zap.Error(err))
		return "", err
	}

	return strings.TrimSpace(response), nil
}

var _ domain.TextGenerator = (*GeminiTextGenerator)(nil)
