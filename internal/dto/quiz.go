package dto

import "time"

// GenerateQuizRequest is the body of POST /api/generate-quiz
type GenerateQuizRequest struct {
	URL string `json:"url"`
}

// QuestionPayload is one multiple-choice question in API responses
type QuestionPayload struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// QuizData wraps the question list the way it is persisted and served
type QuizData struct {
	Questions []QuestionPayload `json:"questions"`
}

// QuizDetailResponse is the full record shape
type QuizDetailResponse struct {
	ID             int64     `json:"id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	ArticlePreview string    `json:"article_preview"`
	QuizData       QuizData  `json:"quiz_data"`
	RelatedTopics  []string  `json:"related_topics"`
	Summary        string    `json:"summary,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// GenerateQuizResponse is the full record plus whether it was served from
// the store without any new generation work
type GenerateQuizResponse struct {
	QuizDetailResponse
	Cached bool `json:"cached"`
}

// QuizHistoryItem is a single entry in the history listing
type QuizHistoryItem struct {
	ID             int64     `json:"id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	ArticlePreview string    `json:"article_preview"`
	CreatedAt      time.Time `json:"created_at"`
}

// QuizHistoryResponse is the paginated history listing
type QuizHistoryResponse struct {
	Quizzes    []QuizHistoryItem `json:"quizzes"`
	TotalCount int64             `json:"total_count"`
}

// StatsResponse reports store-level statistics
type StatsResponse struct {
	TotalQuizzes   int64  `json:"total_quizzes"`
	DatabaseStatus string `json:"database_status"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status string `json:"status"`
}
