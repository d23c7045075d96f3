package models

import "time"

// Attempt is a finished quiz run.
type Attempt struct {
	ID          int64     `json:"id"`
	VisitorID   string    `json:"visitor_id"`
	QuizTitle   string    `json:"quiz_title"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	CheatActive bool      `json:"cheat_active"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Percent returns the score as a percentage of the question count.
func (a Attempt) Percent() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.Total) * 100
}

type AttemptFilter struct {
	VisitorID string
	QuizTitle string
	Limit     int
	Offset    int
}

// BestScore is the highest score recorded for a quiz.
type BestScore struct {
	QuizTitle string `json:"quiz_title"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
	Attempts  int    `json:"attempts"`
}
