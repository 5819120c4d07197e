package service

import (
	"context"
	"fmt"
	"strings"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/llmtext"
	"wiki-quiz/internal/logger"

	"go.uber.org/zap"
)

// Content truncation limits keep prompts under the model's token budget.
const (
	quizContentLimit    = 8000
	topicsContentLimit  = 8000
	summaryContentLimit = 4000
)

// quotaMarkers is the quota-related vocabulary inspected, case-insensitively,
// in model-call errors. A match means the model capability is unavailable for
// billing/quota reasons rather than a transient transport problem.
var quotaMarkers = []string{
	"quota",
	"resource exhausted",
	"resource_exhausted",
	"resourceexhausted",
	"exceeded",
}

// QuizGeneratorService drives the model calls that turn extracted article
// text into structured quiz data.
type QuizGeneratorService interface {
	GenerateQuiz(ctx context.Context, title, content string) (*domain.Quiz, error)
	GenerateRelatedTopics(ctx context.Context, title, content string) ([]string, error)
	GenerateSummary(ctx context.Context, title, content string) (string, error)
}

type quizGeneratorService struct {
	model domain.TextGenerator
}

// NewQuizGeneratorService creates a generation service backed by the given
// model capability.
func NewQuizGeneratorService(model domain.TextGenerator) QuizGeneratorService {
	return &quizGeneratorService{model: model}
}

// GenerateQuiz renders the quiz instruction template, invokes the model
// once, and normalizes the reply. A reply that never yields a questions
// object is a FormatError: the quiz is the product, there is no degraded
// form of it.
func (s *quizGeneratorService) GenerateQuiz(ctx context.Context, title, content string) (*domain.Quiz, error) {
	prompt := fmt.Sprintf(quizPromptTemplate, title, truncate(content, quizContentLimit))

	reply, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return nil, classifyModelError(err)
	}

	quiz, ok := llmtext.Decode[domain.Quiz](reply)
	if !ok || len(quiz.Questions) == 0 {
		logger.Get().Error("Invalid quiz response format",
			zap.Int("response_length", len(reply)),
			zap.String("response_preview", truncate(reply, 500)))
		return nil, domain.NewFormatError("Failed to generate valid quiz format")
	}

	if err := quiz.Validate(); err != nil {
		logger.Get().Error("Generated quiz failed validation", zap.Error(err))
		return nil, err
	}

	return &quiz, nil
}

// GenerateRelatedTopics renders the topics template and invokes the model
// once. Topics are a non-essential enrichment: normalization failures and
// non-quota model errors degrade to an empty list instead of failing the
// pipeline. Quota errors still propagate, since a quota condition affects
// every subsequent call and must not be masked.
func (s *quizGeneratorService) GenerateRelatedTopics(ctx context.Context, title, content string) ([]string, error) {
	prompt := fmt.Sprintf(relatedTopicsPromptTemplate, title, truncate(content, topicsContentLimit))

	reply, err := s.model.Generate(ctx, prompt)
	if err != nil {
		if classified := classifyModelError(err); classified.Code == domain.ErrQuotaExceeded {
			return nil, classified
		}
		logger.Get().Warn("Related topics generation failed, continuing without topics", zap.Error(err))
		return []string{}, nil
	}

	topics, ok := llmtext.Decode[relatedTopicsReply](reply)
	if !ok {
		logger.Get().Warn("Could not parse related topics from model reply",
			zap.String("response_preview", truncate(reply, 500)))
		return []string{}, nil
	}

	return topics.RelatedTopics, nil
}

// GenerateSummary renders the summary template and returns the model's
// plain-text reply. Like topics, the summary degrades on any non-quota
// failure, to a stock sentence naming the article.
func (s *quizGeneratorService) GenerateSummary(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf(summaryPromptTemplate, title, truncate(content, summaryContentLimit))

	reply, err := s.model.Generate(ctx, prompt)
	if err != nil {
		if classified := classifyModelError(err); classified.Code == domain.ErrQuotaExceeded {
			return "", classified
		}
		logger.Get().Warn("Summary generation failed, using fallback", zap.Error(err))
		return fmt.Sprintf("Article about %s", title), nil
	}

	return strings.TrimSpace(reply), nil
}

type relatedTopicsReply struct {
	RelatedTopics []string `json:"related_topics"`
}

func classifyModelError(err error) *domain.DomainError {
	lowered := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(lowered, marker) {
			return domain.NewQuotaExceededError(err)
		}
	}
	return domain.NewModelError(err)
}

// truncate cuts s to at most limit characters. Limits count characters,
// not bytes: article text is in whatever language the source wiki uses,
// and a byte slice could split a rune and hand the model invalid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
