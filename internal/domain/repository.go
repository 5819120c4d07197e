package domain

import "context"

// QuizRepository is the record store contract for persisted quizzes.
//
// CreateOrGet is the store's insert-with-uniqueness primitive: when a record
// for the same URL already exists (including one created concurrently), the
// existing record is returned with created=false instead of an error.
// Lookups return (nil, nil) on a miss so callers decide how to react.
type QuizRepository interface {
	CreateOrGet(ctx context.Context, record *QuizRecord) (stored *QuizRecord, created bool, err error)
	GetByURL(ctx context.Context, url string) (*QuizRecord, error)
	GetByID(ctx context.Context, id int64) (*QuizRecord, error)
	List(ctx context.Context, skip, limit int) ([]*QuizRecord, error)
	Count(ctx context.Context) (int64, error)
}
