package quiz

import "errors"

var (
	ErrQuizIndex     = errors.New("quiz index out of range")
	ErrOptionIndex   = errors.New("option index out of range")
	ErrQuizActive    = errors.New("a quiz is already in progress")
	ErrNotInProgress = errors.New("no question is awaiting an answer")
	ErrRevealPending = errors.New("answer already submitted, waiting for the next question")
	ErrNoAnswer      = errors.New("no answer chosen")
)
