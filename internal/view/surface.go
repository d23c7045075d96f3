package view

import (
	"fmt"

	"github.com/vytor/quizflash/internal/quiz"
)

// Surface is an opaque rendering target.
type Surface interface {
	SetVisible(region string, visible bool)
	SetText(element, text string)
	SetImage(element, url string)
	SetWidth(element string, percent float64)
	SetClass(element, class string, on bool)
}

// Element names addressed by Apply.
const (
	ElemRoot     = "root"
	ElemLogo     = "logo"
	ElemLogoText = "logo-text"
	ElemCounter  = "quest-counter"
	ElemQuestion = "current-question"
	ElemProgress = "progressbar"
	ElemError    = "error-no-answer"
	ElemSubmit   = "submit"
	ElemScore    = "score"
	ElemTotal    = "total"
)

func ScreenRegion(screen string) string { return "screen-" + screen }

func OptionElement(i int, part string) string {
	if part == "" {
		return fmt.Sprintf("option-%d", i)
	}
	return fmt.Sprintf("option-%d-%s", i, part)
}

// Apply pushes every part of v onto s. It sets each element unconditionally,
// so applying the same view twice leaves the surface unchanged.
func Apply(v View, s Surface) {
	s.SetClass(ElemRoot, ClassDark, v.Theme == "dark")

	for _, screen := range Screens {
		s.SetVisible(ScreenRegion(screen), screen == v.Screen)
	}

	s.SetVisible(ElemLogo, v.HeaderVisible)
	s.SetText(ElemLogoText, v.Title)
	s.SetImage(ElemLogo, v.Icon)

	s.SetText(ElemCounter, v.Counter)
	s.SetText(ElemQuestion, v.Prompt)
	s.SetWidth(ElemProgress, v.Progress)
	s.SetVisible(ElemError, v.ShowError)
	s.SetClass(ElemSubmit, ClassDisabled, v.SubmitDisabled)

	for i := len(v.Options); i < quiz.OptionCount; i++ {
		el := OptionElement(i, "")
		s.SetClass(el, ClassSelected, false)
		s.SetClass(el, ClassCorrect, false)
		s.SetClass(el, ClassWrong, false)
		s.SetVisible(OptionElement(i, "icon"), false)
	}

	for _, o := range v.Options {
		el := OptionElement(o.Index, "")
		s.SetText(OptionElement(o.Index, "label"), o.Label)
		s.SetText(OptionElement(o.Index, "text"), o.Text)
		s.SetClass(el, ClassSelected, o.Selected)
		s.SetClass(el, ClassCorrect, o.Correct)
		s.SetClass(el, ClassWrong, o.Wrong)
		icon := OptionElement(o.Index, "icon")
		s.SetVisible(icon, o.Icon != "")
		s.SetImage(icon, o.Icon)
	}

	if v.Screen == ScreenResult {
		s.SetText(ElemScore, fmt.Sprint(v.Score))
		s.SetText(ElemTotal, fmt.Sprint(v.Total))
	}
}

// Recorder is a Surface that keeps the last value written to each element.
type Recorder struct {
	Visible map[string]bool            `json:"visible"`
	Text    map[string]string          `json:"text"`
	Images  map[string]string          `json:"images"`
	Widths  map[string]float64         `json:"widths"`
	Classes map[string]map[string]bool `json:"classes"`
}

func NewRecorder() *Recorder {
	return &Recorder{
		Visible: map[string]bool{},
		Text:    map[string]string{},
		Images:  map[string]string{},
		Widths:  map[string]float64{},
		Classes: map[string]map[string]bool{},
	}
}

func (r *Recorder) SetVisible(region string, visible bool) {
	r.Visible[region] = visible
}

func (r *Recorder) SetText(element, text string) {
	r.Text[element] = text
}

func (r *Recorder) SetImage(element, url string) {
	r.Images[element] = url
}

func (r *Recorder) SetWidth(element string, percent float64) {
	r.Widths[element] = percent
}

func (r *Recorder) SetClass(element, class string, on bool) {
	classes, ok := r.Classes[element]
	if !ok {
		classes = map[string]bool{}
		r.Classes[element] = classes
	}
	classes[class] = on
}

// HasClass reports whether class is currently on for element.
func (r *Recorder) HasClass(element, class string) bool {
	return r.Classes[element][class]
}
