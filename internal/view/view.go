// Package view projects quiz state onto display instructions. Everything
// here is a pure function of its input; rendering targets implement Surface.
package view

import (
	"fmt"
	"time"

	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
)

const (
	ScreenStart  = "start"
	ScreenQuiz   = "quiz"
	ScreenResult = "result"

	ClassSelected = "is-selected"
	ClassCorrect  = "is-correct"
	ClassWrong    = "is-wrong"
	ClassDisabled = "is-disabled"
	ClassDark     = "theme-dark"

	IconCorrect = "/static/images/icon-correct.svg"
	IconWrong   = "/static/images/icon-incorrect.svg"

	NoAnswerMessage = "Please select an answer"
)

// Screens lists the screens in display order.
var Screens = []string{ScreenStart, ScreenQuiz, ScreenResult}

type Category struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

type Option struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
	Correct  bool   `json:"correct"`
	Wrong    bool   `json:"wrong"`
	Icon     string `json:"icon,omitempty"`
}

// Classes returns the visual classes currently set on the option.
func (o Option) Classes() []string {
	var out []string
	if o.Selected {
		out = append(out, ClassSelected)
	}
	if o.Correct {
		out = append(out, ClassCorrect)
	}
	if o.Wrong {
		out = append(out, ClassWrong)
	}
	return out
}

// View is everything a display needs to draw one frame.
type View struct {
	Screen         string        `json:"screen"`
	Phase          string        `json:"phase"`
	Theme          string        `json:"theme"`
	HeaderVisible  bool          `json:"header_visible"`
	Title          string        `json:"title,omitempty"`
	Icon           string        `json:"icon,omitempty"`
	Categories     []Category    `json:"categories,omitempty"`
	Counter        string        `json:"counter,omitempty"`
	Prompt         string        `json:"prompt,omitempty"`
	Options        []Option      `json:"options,omitempty"`
	Progress       float64       `json:"progress"`
	ShowError      bool          `json:"show_error"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	SubmitDisabled bool          `json:"submit_disabled"`
	Score          int           `json:"score"`
	Total          int           `json:"total"`
	CheatActive    bool          `json:"cheat_active"`
	RefreshAfter   time.Duration `json:"-"`
	RefreshAfterMS int64         `json:"refresh_after_ms"`
}

// RefreshSeconds rounds RefreshAfter up to whole seconds for a meta refresh.
func (v View) RefreshSeconds() int {
	if v.RefreshAfter <= 0 {
		return 0
	}
	return int((v.RefreshAfter + time.Second - 1) / time.Second)
}

type Input struct {
	State       quiz.State
	Quizzes     []models.Quiz
	Theme       string
	RevealDelay time.Duration
}

// Project maps the input onto a View.
func Project(in Input) View {
	st := in.State
	v := View{
		Phase:       st.Phase.String(),
		Theme:       in.Theme,
		CheatActive: st.Cheat.Active,
	}

	switch st.Phase {
	case quiz.Idle:
		v.Screen = ScreenStart
		v.Categories = categories(in.Quizzes)
		return v
	case quiz.Finished:
		v.Screen = ScreenResult
		v.Progress = 100
	default:
		v.Screen = ScreenQuiz
	}

	v.HeaderVisible = true
	v.Title = st.Quiz.Title
	v.Icon = st.Quiz.Icon
	v.Total = st.Total
	v.Score = st.Session.Score

	if st.Phase == quiz.Finished {
		return v
	}

	v.Progress = Progress(st.Session.QuestionIndex, st.Total)
	v.Counter = fmt.Sprintf("Question %d of %d", st.Session.QuestionIndex+1, st.Total)
	v.Prompt = st.Question.Question
	v.Options = options(st)
	if st.Session.NoAnswer {
		v.ShowError = true
		v.ErrorMessage = NoAnswerMessage
	}
	if st.Phase == quiz.Revealed {
		v.SubmitDisabled = true
		v.RefreshAfter = in.RevealDelay
		v.RefreshAfterMS = in.RevealDelay.Milliseconds()
	}
	return v
}

// Progress is measured before the current question is answered, so it reads
// 0 on the first question and only reaches 100 once the quiz is finished.
func Progress(questionIndex, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(questionIndex) / float64(total) * 100
}

// Label returns the letter shown next to the option at index i.
func Label(i int) string {
	return string(rune('A' + i))
}

func categories(quizzes []models.Quiz) []Category {
	out := make([]Category, 0, len(quizzes))
	for i, q := range quizzes {
		out = append(out, Category{Index: i, Title: q.Title, Icon: q.Icon})
	}
	return out
}

func options(st quiz.State) []Option {
	q := st.Question
	s := st.Session
	out := make([]Option, len(q.Options))
	for i, text := range q.Options {
		out[i] = Option{Index: i, Label: Label(i), Text: text}
	}

	switch st.Phase {
	case quiz.Revealed:
		if s.CorrectIndex >= 0 {
			out[s.CorrectIndex].Correct = true
			out[s.CorrectIndex].Icon = IconCorrect
		}
		if !s.LastCorrect && s.HasSelection() {
			out[s.Selected].Wrong = true
			out[s.Selected].Icon = IconWrong
		}
	case quiz.InProgress:
		if s.HasSelection() {
			out[s.Selected].Selected = true
		}
		if st.Cheat.Revealing {
			if i := quiz.CorrectIndex(*q); i >= 0 {
				out[i].Correct = true
				out[i].Icon = IconCorrect
			}
		}
	}
	return out
}
