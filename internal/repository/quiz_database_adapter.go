package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const quizColumns = `id, url, title, article_preview, quiz_data, related_topics, summary, raw_html, created_at, updated_at`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx over SQLite.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// CreateOrGet inserts a new record, relying on the unique index on url to
// resolve concurrent duplicates atomically. A conflicting insert is not an
// error: the existing row is fetched and returned with created=false.
func (a *QuizDatabaseAdapter) CreateOrGet(ctx context.Context, record *domain.QuizRecord) (*domain.QuizRecord, bool, error) {
	model := toModelQuiz(record)
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	query := `INSERT INTO quizzes (
		url, title, article_preview, quiz_data, related_topics, summary, raw_html, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO NOTHING`

	result, err := a.db.ExecContext(ctx, query,
		model.URL,
		model.Title,
		model.ArticlePreview,
		model.Questions,
		model.RelatedTopics,
		model.Summary,
		model.RawHTML,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert quiz for %s: %w", record.URL, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read insert result for %s: %w", record.URL, err)
	}

	if rows == 0 {
		existing, err := a.GetByURL(ctx, record.URL)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("insert conflict for %s but no existing row found", record.URL)
		}
		return existing, false, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read new quiz id for %s: %w", record.URL, err)
	}

	stored, err := a.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("inserted quiz %d not found on re-read", id)
	}
	return stored, true, nil
}

// GetByURL implements domain.QuizRepository; returns (nil, nil) on a miss.
func (a *QuizDatabaseAdapter) GetByURL(ctx context.Context, url string) (*domain.QuizRecord, error) {
	var model models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE url = ?`

	err := a.db.GetContext(ctx, &model, query, url)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by URL %s: %w", url, err)
	}
	return toDomainQuiz(&model), nil
}

// GetByID implements domain.QuizRepository; returns (nil, nil) on a miss.
func (a *QuizDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.QuizRecord, error) {
	var model models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = ?`

	err := a.db.GetContext(ctx, &model, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %d: %w", id, err)
	}
	return toDomainQuiz(&model), nil
}

// List returns records ordered by recency, newest first.
func (a *QuizDatabaseAdapter) List(ctx context.Context, skip, limit int) ([]*domain.QuizRecord, error) {
	var rows []models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	if err := a.db.SelectContext(ctx, &rows, query, limit, skip); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	records := make([]*domain.QuizRecord, 0, len(rows))
	for i := range rows {
		records = append(records, toDomainQuiz(&rows[i]))
	}
	return records, nil
}

// Count returns the total number of stored records.
func (a *QuizDatabaseAdapter) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := a.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM quizzes`); err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return count, nil
}

func toModelQuiz(record *domain.QuizRecord) *models.Quiz {
	return &models.Quiz{
		ID:             record.ID,
		URL:            record.URL,
		Title:          record.Title,
		ArticlePreview: record.ArticlePreview,
		Questions:      models.QuestionSlice(record.Questions),
		RelatedTopics:  models.StringSlice(record.RelatedTopics),
		Summary:        nullString(record.Summary),
		RawHTML:        nullString(record.RawHTML),
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func toDomainQuiz(model *models.Quiz) *domain.QuizRecord {
	return &domain.QuizRecord{
		ID:             model.ID,
		URL:            model.URL,
		Title:          model.Title,
		ArticlePreview: model.ArticlePreview,
		Questions:      model.Questions,
		RelatedTopics:  model.RelatedTopics,
		Summary:        model.Summary.String,
		RawHTML:        model.RawHTML.String,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
