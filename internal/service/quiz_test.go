package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"wiki-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const octopusURL = "https://en.wikipedia.org/wiki/Octopus"

func octopusArticle() *domain.Article {
	return &domain.Article{
		Title:   "Octopus",
		Content: strings.Repeat("octopus is ", 60)[:600],
		RawHTML: "<html><h1>Octopus</h1></html>",
	}
}

func topicsReplyJSON() string {
	return "Certainly! Here are the topics:\n```json\n{\"related_topics\": [\"Mollusc\", \"Cephalopod\", \"Camouflage\", \"Marine biology\", \"Invertebrate\"]}\n```\nLet me know if you need more."
}

func TestGenerateFromURL_FullPipeline(t *testing.T) {
	repo := newMemoryQuizRepository()
	scraperMock := new(MockArticleScraper)
	scraperMock.On("Scrape", mock.Anything, octopusURL).Return(octopusArticle(), nil)

	model := &fakeTextGenerator{replies: []string{
		validQuizJSON(6),
		topicsReplyJSON(),
		"A short summary of the octopus.",
	}}

	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	resp, err := svc.GenerateFromURL(context.Background(), octopusURL)
	require.NoError(t, err)

	assert.False(t, resp.Cached)
	assert.Equal(t, octopusURL, resp.URL)
	assert.Equal(t, "Octopus", resp.Title)
	assert.Len(t, resp.ArticlePreview, 500)
	assert.Len(t, resp.QuizData.Questions, 6)
	assert.Len(t, resp.RelatedTopics, 5)
	assert.Equal(t, "A short summary of the octopus.", resp.Summary)
	assert.NotZero(t, resp.ID)

	stored, err := repo.GetByURL(context.Background(), octopusURL)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, resp.ID, stored.ID)
	assert.Equal(t, "<html><h1>Octopus</h1></html>", stored.RawHTML)
}

func TestGenerateFromURL_ShortBodyKeptWholeAsPreview(t *testing.T) {
	repo := newMemoryQuizRepository()
	scraperMock := new(MockArticleScraper)
	scraperMock.On("Scrape", mock.Anything, octopusURL).Return(&domain.Article{
		Title:   "Octopus",
		Content: "A body that is shorter than the five hundred character preview.",
	}, nil)

	model := &fakeTextGenerator{replies: []string{validQuizJSON(5), topicsReplyJSON(), "s"}}
	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	resp, err := svc.GenerateFromURL(context.Background(), octopusURL)
	require.NoError(t, err)
	assert.Equal(t, "A body that is shorter than the five hundred character preview.", resp.ArticlePreview)
}

func TestGenerateFromURL_MultiBytePreviewKeepsWholeCharacters(t *testing.T) {
	repo := newMemoryQuizRepository()
	scraperMock := new(MockArticleScraper)
	scraperMock.On("Scrape", mock.Anything, octopusURL).Return(&domain.Article{
		Title:   "章魚",
		Content: strings.Repeat("章魚是聰明的海洋軟體動物", 60),
	}, nil)

	model := &fakeTextGenerator{replies: []string{validQuizJSON(5), topicsReplyJSON(), "s"}}
	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	resp, err := svc.GenerateFromURL(context.Background(), octopusURL)
	require.NoError(t, err)

	// the preview is 500 characters, not 500 bytes of possibly split runes
	assert.True(t, utf8.ValidString(resp.ArticlePreview))
	assert.Equal(t, 500, utf8.RuneCountInString(resp.ArticlePreview))

	stored, err := repo.GetByURL(context.Background(), octopusURL)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, utf8.ValidString(stored.ArticlePreview))
}

func TestGenerateFromURL_CachedRecordShortCircuits(t *testing.T) {
	existing := &domain.QuizRecord{
		ID:        7,
		URL:       octopusURL,
		Title:     "Octopus",
		Questions: []domain.Question{{Text: "Q?", Options: []string{"a", "b", "c", "d"}, Answer: "a", Difficulty: "easy", Explanation: "e"}},
		CreatedAt: time.Now().UTC(),
	}

	repo := new(MockQuizRepository)
	repo.On("GetByURL", mock.Anything, octopusURL).Return(existing, nil)

	scraperMock := new(MockArticleScraper)
	model := &fakeTextGenerator{}

	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	resp, err := svc.GenerateFromURL(context.Background(), octopusURL)
	require.NoError(t, err)

	assert.True(t, resp.Cached)
	assert.Equal(t, int64(7), resp.ID)
	scraperMock.AssertNotCalled(t, "Scrape")
	assert.Zero(t, model.calls, "a cached URL must trigger no model call")
	repo.AssertNotCalled(t, "CreateOrGet")
}

func TestGenerateFromURL_ScraperErrorPropagates(t *testing.T) {
	repo := new(MockQuizRepository)
	repo.On("GetByURL", mock.Anything, mock.Anything).Return(nil, nil)

	scraperMock := new(MockArticleScraper)
	scraperMock.On("Scrape", mock.Anything, mock.Anything).Return(nil, domain.NewInvalidSourceError("https://example.com/"))

	model := &fakeTextGenerator{}
	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	_, err := svc.GenerateFromURL(context.Background(), "https://example.com/")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrInvalidSource))
	assert.Zero(t, model.calls)
	repo.AssertNotCalled(t, "CreateOrGet")
}

func TestGenerateFromURL_QuotaAbortsWithoutPersisting(t *testing.T) {
	repo := new(MockQuizRepository)
	repo.On("GetByURL", mock.Anything, octopusURL).Return(nil, nil)

	scraperMock := new(MockArticleScraper)
	scraperMock.On("Scrape", mock.Anything, octopusURL).Return(octopusArticle(), nil)

	model := &fakeTextGenerator{errs: []error{errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")}}
	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	_, err := svc.GenerateFromURL(context.Background(), octopusURL)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrQuotaExceeded))
	repo.AssertNotCalled(t, "CreateOrGet")
}

func TestGenerateFromURL_TopicsQuotaAlsoAborts(t *testing.T) {
	repo := new(MockQuizRepository)
	repo.On("GetByURL", mock.Anything, octopusURL).Return(nil, nil)

	scraperMock := new(MockArticleScraper)
	scraperMock.On("Scrape", mock.Anything, octopusURL).Return(octopusArticle(), nil)

	model := &fakeTextGenerator{
		replies: []string{validQuizJSON(5)},
		errs:    []error{nil, errors.New("quota exceeded for project")},
	}
	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	_, err := svc.GenerateFromURL(context.Background(), octopusURL)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrQuotaExceeded))
	repo.AssertNotCalled(t, "CreateOrGet")
}

func TestGenerateFromURL_TopicsFormatFailureDoesNotAbort(t *testing.T) {
	repo := newMemoryQuizRepository()
	scraperMock := new(MockArticleScraper)
	scraperMock.On("Scrape", mock.Anything, octopusURL).Return(octopusArticle(), nil)

	model := &fakeTextGenerator{replies: []string{
		validQuizJSON(5),
		"nothing machine-readable here",
		"summary",
	}}
	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	resp, err := svc.GenerateFromURL(context.Background(), octopusURL)
	require.NoError(t, err)
	assert.Empty(t, resp.RelatedTopics)
	assert.Len(t, resp.QuizData.Questions, 5)
}

func TestGenerateFromURL_PersistenceRaceReturnsWinner(t *testing.T) {
	winner := &domain.QuizRecord{ID: 3, URL: octopusURL, Title: "Octopus", CreatedAt: time.Now().UTC()}

	repo := new(MockQuizRepository)
	repo.On("GetByURL", mock.Anything, octopusURL).Return(nil, nil)
	repo.On("CreateOrGet", mock.Anything, mock.Anything).Return(winner, false, nil)

	scraperMock := new(MockArticleScraper)
	scraperMock.On("Scrape", mock.Anything, octopusURL).Return(octopusArticle(), nil)

	model := &fakeTextGenerator{replies: []string{validQuizJSON(5), topicsReplyJSON(), "s"}}
	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	resp, err := svc.GenerateFromURL(context.Background(), octopusURL)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID, "loser of the creation race returns the winning record")
}

func TestGenerateFromURL_ConcurrentSameURL(t *testing.T) {
	repo := newMemoryQuizRepository()
	scraperMock := new(MockArticleScraper)
	scraperMock.On("Scrape", mock.Anything, octopusURL).Return(octopusArticle(), nil)

	// Replies for two full pipeline runs: singleflight usually collapses
	// the calls, but a fully sequential interleaving runs the pipeline
	// twice and must still converge on one record.
	model := &fakeTextGenerator{replies: []string{
		validQuizJSON(6), topicsReplyJSON(), "s",
		validQuizJSON(6), topicsReplyJSON(), "s",
	}}
	svc := NewQuizService(repo, scraperMock, NewQuizGeneratorService(model), nil, 0)

	const workers = 2
	results := make([]*int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.GenerateFromURL(context.Background(), octopusURL)
			errs[i] = err
			if err == nil {
				results[i] = &resp.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
	}
	assert.Equal(t, *results[0], *results[1], "both calls must resolve to the same record")

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "exactly one record per URL")
}

func TestGetHistory_Pagination(t *testing.T) {
	repo := newMemoryQuizRepository()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		_, _, err := repo.CreateOrGet(context.Background(), &domain.QuizRecord{
			URL:       fmt.Sprintf("https://en.wikipedia.org/wiki/Article_%02d", i),
			Title:     fmt.Sprintf("Article %02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	svc := NewQuizService(repo, new(MockArticleScraper), NewQuizGeneratorService(&fakeTextGenerator{}), nil, 0)

	resp, err := svc.GetHistory(context.Background(), 10, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(15), resp.TotalCount)
	require.Len(t, resp.Quizzes, 5)
	for i := 1; i < len(resp.Quizzes); i++ {
		assert.False(t, resp.Quizzes[i].CreatedAt.After(resp.Quizzes[i-1].CreatedAt),
			"history must be ordered newest first")
	}
	assert.Equal(t, "Article 04", resp.Quizzes[0].Title)
}

func TestGetHistory_NegativeArgsClampedToZero(t *testing.T) {
	repo := new(MockQuizRepository)
	repo.On("Count", mock.Anything).Return(int64(0), nil)
	repo.On("List", mock.Anything, 0, 0).Return([]*domain.QuizRecord{}, nil)

	svc := NewQuizService(repo, new(MockArticleScraper), NewQuizGeneratorService(&fakeTextGenerator{}), nil, 0)

	resp, err := svc.GetHistory(context.Background(), -5, -1)
	require.NoError(t, err)
	assert.Empty(t, resp.Quizzes)
	repo.AssertCalled(t, "List", mock.Anything, 0, 0)
}

func TestGetHistory_ZeroLimitReturnsNoRows(t *testing.T) {
	repo := newMemoryQuizRepository()
	for i := 0; i < 3; i++ {
		_, _, err := repo.CreateOrGet(context.Background(), &domain.QuizRecord{
			URL:   fmt.Sprintf("https://en.wikipedia.org/wiki/Article_%d", i),
			Title: fmt.Sprintf("Article %d", i),
		})
		require.NoError(t, err)
	}

	svc := NewQuizService(repo, new(MockArticleScraper), NewQuizGeneratorService(&fakeTextGenerator{}), nil, 0)

	// an explicit zero limit is honored; the default page size is the
	// handler's concern
	resp, err := svc.GetHistory(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Quizzes)
	assert.Equal(t, int64(3), resp.TotalCount)
}

func TestGetQuizByID_NotFound(t *testing.T) {
	repo := new(MockQuizRepository)
	repo.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)

	svc := NewQuizService(repo, new(MockArticleScraper), NewQuizGeneratorService(&fakeTextGenerator{}), nil, 0)

	_, err := svc.GetQuizByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))
}

func TestGetStats(t *testing.T) {
	repo := new(MockQuizRepository)
	repo.On("Count", mock.Anything).Return(int64(12), nil)

	svc := NewQuizService(repo, new(MockArticleScraper), NewQuizGeneratorService(&fakeTextGenerator{}), nil, 0)

	resp, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.TotalQuizzes)
	assert.Equal(t, "operational", resp.DatabaseStatus)
}
