package service

import (
	"context"
	"encoding/json"
	"time"

	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// previewLength is how many characters of the extracted body are persisted
// as the article preview.
const previewLength = 500

// QuizService is the request-level entry point for quiz generation and
// retrieval.
type QuizService interface {
	GenerateFromURL(ctx context.Context, url string) (*dto.GenerateQuizResponse, error)
	GetQuizByID(ctx context.Context, id int64) (*dto.QuizDetailResponse, error)
	GetHistory(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error)
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
}

type quizService struct {
	repo      domain.QuizRepository
	scraper   domain.ArticleScraper
	generator QuizGeneratorService
	cache     domain.Cache // nil when no cache is configured
	cacheTTL  time.Duration
	group     singleflight.Group
}

// NewQuizService creates the pipeline coordinator. recordCache may be nil;
// the record store alone is the source of truth, the cache only spares
// lookups of immutable records.
func NewQuizService(
	repo domain.QuizRepository,
	scraper domain.ArticleScraper,
	generator QuizGeneratorService,
	recordCache domain.Cache,
	cacheTTL time.Duration,
) QuizService {
	return &quizService{
		repo:      repo,
		scraper:   scraper,
		generator: generator,
		cache:     recordCache,
		cacheTTL:  cacheTTL,
	}
}

// GenerateFromURL runs the full pipeline for a source URL:
// cache check -> extract -> generate quiz -> generate topics -> persist.
// A URL already in the store short-circuits before any fetch or model call.
// Concurrent requests for the same URL are collapsed in-process via
// singleflight; the store's uniqueness constraint on url remains the
// correctness mechanism when collapsing is not possible.
func (s *quizService) GenerateFromURL(ctx context.Context, url string) (*dto.GenerateQuizResponse, error) {
	if existing, err := s.lookupByURL(ctx, url); err != nil {
		return nil, err
	} else if existing != nil {
		logger.Get().Info("Found cached quiz", zap.String("url", url), zap.Int64("id", existing.ID))
		return &dto.GenerateQuizResponse{QuizDetailResponse: *toDetailResponse(existing), Cached: true}, nil
	}

	result, err, _ := s.group.Do(url, func() (interface{}, error) {
		return s.runPipeline(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	record := result.(*domain.QuizRecord)
	return &dto.GenerateQuizResponse{QuizDetailResponse: *toDetailResponse(record), Cached: false}, nil
}

func (s *quizService) runPipeline(ctx context.Context, url string) (*domain.QuizRecord, error) {
	logger.Get().Info("Scraping article", zap.String("url", url))
	article, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	preview := truncate(article.Content, previewLength)

	logger.Get().Info("Generating quiz", zap.String("title", article.Title))
	quiz, err := s.generator.GenerateQuiz(ctx, article.Title, article.Content)
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Generating related topics", zap.String("title", article.Title))
	topics, err := s.generator.GenerateRelatedTopics(ctx, article.Title, article.Content)
	if err != nil {
		// Only quota conditions escape topic generation; they abort the
		// pipeline before anything is persisted.
		return nil, err
	}

	summary, err := s.generator.GenerateSummary(ctx, article.Title, article.Content)
	if err != nil {
		return nil, err
	}

	record := &domain.QuizRecord{
		URL:            url,
		Title:          article.Title,
		ArticlePreview: preview,
		Questions:      quiz.Questions,
		RelatedTopics:  topics,
		Summary:        summary,
		RawHTML:        article.RawHTML,
	}

	stored, created, err := s.repo.CreateOrGet(ctx, record)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to store quiz", err)
	}
	if !created {
		// A concurrent request won the creation race; its record wins and
		// this run's generation work is discarded.
		logger.Get().Info("Lost creation race, returning existing record",
			zap.String("url", url), zap.Int64("id", stored.ID))
	} else {
		logger.Get().Info("Quiz generated and stored", zap.String("url", url), zap.Int64("id", stored.ID))
	}

	s.cacheRecord(ctx, stored)
	return stored, nil
}

// GetQuizByID returns the full record for an id, or a NOT_FOUND error.
func (s *quizService) GetQuizByID(ctx context.Context, id int64) (*dto.QuizDetailResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cache.QuizByIDKey(id)); err == nil {
			var resp dto.QuizDetailResponse
			if jsonErr := json.Unmarshal([]byte(cached), &resp); jsonErr == nil {
				return &resp, nil
			}
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("Record cache read failed", zap.Error(err), zap.Int64("id", id))
		}
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to fetch quiz", err)
	}
	if record == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}

	s.cacheRecord(ctx, record)
	return toDetailResponse(record), nil
}

// GetHistory lists previously generated quizzes, newest first. Negative
// arguments are clamped to zero; an explicit zero limit yields zero rows.
// The default page size lives in the handler, not here.
func (s *quizService) GetHistory(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to count quizzes", err)
	}

	records, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to list quizzes", err)
	}

	items := make([]dto.QuizHistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, dto.QuizHistoryItem{
			ID:             r.ID,
			URL:            r.URL,
			Title:          r.Title,
			ArticlePreview: r.ArticlePreview,
			CreatedAt:      r.CreatedAt,
		})
	}

	return &dto.QuizHistoryResponse{Quizzes: items, TotalCount: total}, nil
}

// GetStats reports store-level statistics.
func (s *quizService) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to fetch statistics", err)
	}
	return &dto.StatsResponse{TotalQuizzes: total, DatabaseStatus: "operational"}, nil
}

// lookupByURL consults the record cache first, then the store. Cache
// failures degrade to a store lookup; store failures are fatal.
func (s *quizService) lookupByURL(ctx context.Context, url string) (*domain.QuizRecord, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cache.QuizByURLKey(url)); err == nil {
			var record domain.QuizRecord
			if jsonErr := json.Unmarshal([]byte(cached), &record); jsonErr == nil {
				return &record, nil
			}
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("Record cache read failed", zap.Error(err), zap.String("url", url))
		}
	}

	record, err := s.repo.GetByURL(ctx, url)
	if err != nil {
		return nil, domain.NewPersistenceError("Failed to look up quiz by URL", err)
	}
	if record != nil {
		s.cacheRecord(ctx, record)
	}
	return record, nil
}

// cacheRecord stores a record under both its URL and id keys. Records are
// immutable, so there is no invalidation concern; failures are logged and
// ignored.
func (s *quizService) cacheRecord(ctx context.Context, record *domain.QuizRecord) {
	if s.cache == nil {
		return
	}

	// The raw markup is audit data; keep it out of the cache payload.
	slim := *record
	slim.RawHTML = ""

	payload, err := json.Marshal(&slim)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.QuizByURLKey(record.URL), string(payload), s.cacheTTL); err != nil {
		logger.Get().Warn("Record cache write failed", zap.Error(err), zap.String("url", record.URL))
		return
	}

	detail, err := json.Marshal(toDetailResponse(record))
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.QuizByIDKey(record.ID), string(detail), s.cacheTTL); err != nil {
		logger.Get().Warn("Record cache write failed", zap.Error(err), zap.Int64("id", record.ID))
	}
}

func toDetailResponse(record *domain.QuizRecord) *dto.QuizDetailResponse {
	questions := make([]dto.QuestionPayload, 0, len(record.Questions))
	for _, q := range record.Questions {
		questions = append(questions, dto.QuestionPayload{
			Question:    q.Text,
			Options:     q.Options,
			Answer:      q.Answer,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
		})
	}

	topics := record.RelatedTopics
	if topics == nil {
		topics = []string{}
	}

	return &dto.QuizDetailResponse{
		ID:             record.ID,
		URL:            record.URL,
		Title:          record.Title,
		ArticlePreview: record.ArticlePreview,
		QuizData:       dto.QuizData{Questions: questions},
		RelatedTopics:  topics,
		Summary:        record.Summary,
		CreatedAt:      record.CreatedAt,
	}
}
