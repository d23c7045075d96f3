package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vytor/quizflash/internal/models"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

//go:embed data/quizzes.json
var bundledDataset []byte

// DefaultDataset returns the quizzes bundled with the binary.
func DefaultDataset() ([]models.Quiz, error) {
	var ds models.Dataset
	if err := json.Unmarshal(bundledDataset, &ds); err != nil {
		return nil, fmt.Errorf("decode bundled dataset: %w", err)
	}
	if err := Validate(ds.Quizzes); err != nil {
		return nil, err
	}
	return ds.Quizzes, nil
}

// LoadDataset decodes and validates a dataset. An empty path selects the
// bundled one.
func LoadDataset(path string) ([]models.Quiz, error) {
	if path == "" {
		return DefaultDataset()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadDataset(f)
}

func ReadDataset(r io.Reader) ([]models.Quiz, error) {
	var ds models.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := Validate(ds.Quizzes); err != nil {
		return nil, err
	}
	return ds.Quizzes, nil
}

// Validate checks the dataset invariants the state machine relies on.
func Validate(quizzes []models.Quiz) error {
	if len(quizzes) == 0 {
		return fmt.Errorf("dataset has no quizzes")
	}
	for qi, quiz := range quizzes {
		if quiz.Title == "" {
			return fmt.Errorf("quiz %d: empty title", qi)
		}
		if len(quiz.Questions) == 0 {
			return fmt.Errorf("quiz %q: no questions", quiz.Title)
		}
		for i, q := range quiz.Questions {
			if err := validateQuestion(q); err != nil {
				return fmt.Errorf("quiz %q question %d: %w", quiz.Title, i+1, err)
			}
		}
	}
	return nil
}

func validateQuestion(q models.Question) error {
	if len(q.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt] {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[opt] = true
	}
	if !seen[q.Answer] {
		return fmt.Errorf("answer %q is not one of the options", q.Answer)
	}
	return nil
}
