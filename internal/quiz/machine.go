package quiz

import (
	"time"

	"github.com/vytor/quizflash/internal/models"
)

// NoSelection marks the absence of a chosen option or quiz.
const NoSelection = -1

// Phase is derived from the session fields, never stored.
type Phase int

const (
	Idle Phase = iota
	InProgress
	Revealed
	Finished
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	case Revealed:
		return "revealed"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Settings holds the timing constants of the quiz flow.
type Settings struct {
	RevealDelay time.Duration
	CheatWindow time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		RevealDelay: 2000 * time.Millisecond,
		CheatWindow: 1000 * time.Millisecond,
	}
}

// Session is the mutable state of one quiz attempt.
type Session struct {
	QuizIndex     int
	QuestionIndex int
	Selected      int
	Score         int
	Revealed      bool
	Finished      bool
	CorrectIndex  int
	LastCorrect   bool
	NoAnswer      bool
	// Epoch changes on every question change so that a scheduled advance can
	// tell whether it still refers to the question it was scheduled for.
	Epoch uint64
}

func (s Session) HasSelection() bool { return s.Selected != NoSelection }

// Deferred describes the advance a caller must schedule after a submit.
type Deferred struct {
	Epoch uint64
	Delay time.Duration
}

// State is a read-only snapshot handed to the presentation layer.
type State struct {
	Phase    Phase
	Session  Session
	Cheat    Cheat
	Quiz     *models.Quiz
	Question *models.Question
	Total    int
}

// Machine owns one visitor's session and cheat state over a fixed dataset.
// It is not safe for concurrent use; callers serialize access.
type Machine struct {
	quizzes  []models.Quiz
	settings Settings
	session  Session
	cheat    Cheat
}

func NewMachine(quizzes []models.Quiz, settings Settings) *Machine {
	return &Machine{
		quizzes:  quizzes,
		settings: settings,
		session:  idleSession(0),
		cheat:    newCheat(settings.CheatWindow),
	}
}

func idleSession(epoch uint64) Session {
	return Session{
		QuizIndex:    NoSelection,
		Selected:     NoSelection,
		CorrectIndex: NoSelection,
		Epoch:        epoch,
	}
}

func (m *Machine) Phase() Phase {
	switch {
	case m.session.QuizIndex == NoSelection:
		return Idle
	case m.session.Finished:
		return Finished
	case m.session.Revealed:
		return Revealed
	default:
		return InProgress
	}
}

func (m *Machine) Quizzes() []models.Quiz { return m.quizzes }

func (m *Machine) Settings() Settings { return m.settings }

func (m *Machine) activeQuiz() *models.Quiz {
	if m.session.QuizIndex == NoSelection {
		return nil
	}
	return &m.quizzes[m.session.QuizIndex]
}

func (m *Machine) currentQuestion() *models.Question {
	q := m.activeQuiz()
	if q == nil || m.session.QuestionIndex >= len(q.Questions) {
		return nil
	}
	return &q.Questions[m.session.QuestionIndex]
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	st := State{
		Phase:    m.Phase(),
		Session:  m.session,
		Cheat:    m.cheat,
		Quiz:     m.activeQuiz(),
		Question: m.currentQuestion(),
	}
	if st.Quiz != nil {
		st.Total = len(st.Quiz.Questions)
	}
	return st
}

// SelectQuiz starts the quiz at quizIndex. Only valid while idle.
func (m *Machine) SelectQuiz(quizIndex int) error {
	if m.Phase() != Idle {
		return ErrQuizActive
	}
	if quizIndex < 0 || quizIndex >= len(m.quizzes) {
		return ErrQuizIndex
	}
	m.session = idleSession(m.session.Epoch + 1)
	m.session.QuizIndex = quizIndex
	m.cheat.Revealing = false
	m.revealIfArmed()
	return nil
}

// SelectOption records the visitor's pick for the current question.
// Picking dismisses a cheat reveal but leaves the cheat armed.
func (m *Machine) SelectOption(optionIndex int) error {
	switch m.Phase() {
	case InProgress:
	case Revealed:
		return ErrRevealPending
	default:
		return ErrNotInProgress
	}
	q := m.currentQuestion()
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrOptionIndex
	}
	m.session.Selected = optionIndex
	m.session.NoAnswer = false
	m.cheat.Revealing = false
	return nil
}

// Submit grades the current selection. On success the caller must schedule
// Advance with the returned epoch after the returned delay.
func (m *Machine) Submit() (Deferred, error) {
	switch m.Phase() {
	case InProgress:
	case Revealed:
		return Deferred{}, ErrRevealPending
	default:
		return Deferred{}, ErrNotInProgress
	}
	if !m.session.HasSelection() {
		m.session.NoAnswer = true
		return Deferred{}, ErrNoAnswer
	}

	q := m.currentQuestion()
	correct := q.Options[m.session.Selected] == q.Answer
	if correct {
		m.session.Score++
	}
	m.session.LastCorrect = correct
	m.session.CorrectIndex = CorrectIndex(*q)
	m.session.Revealed = true
	m.session.NoAnswer = false
	m.cheat.Revealing = false

	return Deferred{Epoch: m.session.Epoch, Delay: m.settings.RevealDelay}, nil
}

// Advance moves past a revealed question. It reports false when the epoch is
// stale, which happens when the session was restarted after the submit.
func (m *Machine) Advance(epoch uint64) bool {
	if epoch != m.session.Epoch || m.Phase() != Revealed {
		return false
	}
	q := m.activeQuiz()
	if m.session.QuestionIndex == len(q.Questions)-1 {
		m.session.Finished = true
		m.session.Revealed = false
		m.session.Epoch++
		return true
	}

	m.session.QuestionIndex++
	m.session.Selected = NoSelection
	m.session.Revealed = false
	m.session.CorrectIndex = NoSelection
	m.session.LastCorrect = false
	m.session.NoAnswer = false
	m.session.Epoch++
	m.cheat.Revealing = false
	m.revealIfArmed()
	return true
}

// Restart returns to the category picker. Cheat unlocks survive.
func (m *Machine) Restart() {
	m.session = idleSession(m.session.Epoch + 1)
	m.cheat.Revealing = false
}

// ClickSun feeds the sun detector. It reports whether the cheat was armed by
// this click.
func (m *Machine) ClickSun(now time.Time) bool {
	if m.cheat.Sun.Click(now) {
		m.cheat.SunUnlocked = true
		return m.tryArm()
	}
	return false
}

// ClickTheme feeds the theme detector, which only counts once the sun
// detector has unlocked.
func (m *Machine) ClickTheme(now time.Time) bool {
	if !m.cheat.SunUnlocked {
		return false
	}
	if m.cheat.Theme.Click(now) {
		m.cheat.ThemeUnlocked = true
		return m.tryArm()
	}
	return false
}

func (m *Machine) tryArm() bool {
	if !m.cheat.arm() {
		return false
	}
	m.revealIfArmed()
	return true
}

func (m *Machine) revealIfArmed() {
	if m.cheat.Active && m.Phase() == InProgress {
		m.cheat.Revealing = true
	}
}

// CorrectIndex returns the index of the option equal to the answer, or
// NoSelection when none matches.
func CorrectIndex(q models.Question) int {
	for i, opt := range q.Options {
		if opt == q.Answer {
			return i
		}
	}
	return NoSelection
}
