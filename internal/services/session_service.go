package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/jobs"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/metrics"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/view"
)

// Scheduler runs fn once after delay.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

type timerScheduler struct{}

func (timerScheduler) Schedule(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}

// SessionService hosts one quiz machine per visitor. Every transition for a
// visitor runs under that visitor's lock.
type SessionService interface {
	View(ctx context.Context, visitorID, themeHint string) (view.View, error)
	SelectQuiz(ctx context.Context, visitorID string, quizIndex int) error
	SelectOption(ctx context.Context, visitorID string, optionIndex int) error
	Submit(ctx context.Context, visitorID string) error
	Restart(ctx context.Context, visitorID string) error
	ClickSun(ctx context.Context, visitorID string) error
	ToggleTheme(ctx context.Context, visitorID, themeHint string) (string, error)
	Sweep(ctx context.Context, idle time.Duration) int
	Active() int
}

type SessionOption func(*sessionService)

// WithScheduler replaces the timer used for the post-submit advance.
func WithScheduler(s Scheduler) SessionOption {
	return func(svc *sessionService) { svc.scheduler = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(svc *sessionService) { svc.now = now }
}

type visitorSession struct {
	mu       sync.Mutex
	machine  *quiz.Machine
	lastSeen time.Time
}

type sessionService struct {
	quizzes   []models.Quiz
	settings  quiz.Settings
	prefs     PreferenceService
	queue     jobs.JobQueue
	metrics   *metrics.Metrics
	scheduler Scheduler
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*visitorSession
}

// NewSessionService creates a new SessionService over a validated dataset
func NewSessionService(
	quizzes []models.Quiz,
	settings quiz.Settings,
	prefs PreferenceService,
	queue jobs.JobQueue,
	m *metrics.Metrics,
	opts ...SessionOption,
) SessionService {
	svc := &sessionService{
		quizzes:   quizzes,
		settings:  settings,
		prefs:     prefs,
		queue:     queue,
		metrics:   m,
		scheduler: timerScheduler{},
		now:       time.Now,
		sessions:  make(map[string]*visitorSession),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *sessionService) session(visitorID string) *visitorSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	vs, ok := s.sessions[visitorID]
	if !ok {
		vs = &visitorSession{machine: quiz.NewMachine(s.quizzes, s.settings)}
		s.sessions[visitorID] = vs
		s.metrics.SetActiveSessions(len(s.sessions))
	}
	vs.lastSeen = s.now()
	return vs
}

// state reads a visitor's machine without creating a session for an
// unknown visitor, so page views alone never grow the session map.
func (s *sessionService) state(visitorID string) quiz.State {
	s.mu.Lock()
	vs, ok := s.sessions[visitorID]
	if ok {
		vs.lastSeen = s.now()
	}
	s.mu.Unlock()

	if !ok {
		return quiz.NewMachine(s.quizzes, s.settings).State()
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.machine.State()
}

func (s *sessionService) View(ctx context.Context, visitorID, themeHint string) (view.View, error) {
	theme, err := s.prefs.Theme(ctx, visitorID, themeHint)
	if err != nil {
		return view.View{}, err
	}

	return view.Project(view.Input{
		State:       s.state(visitorID),
		Quizzes:     s.quizzes,
		Theme:       theme,
		RevealDelay: s.settings.RevealDelay,
	}), nil
}

func (s *sessionService) SelectQuiz(ctx context.Context, visitorID string, quizIndex int) error {
	log := logger.FromContext(ctx)
	vs := s.session(visitorID)
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if err := vs.machine.SelectQuiz(quizIndex); err != nil {
		log.Debug("select quiz %d rejected: %v", quizIndex, err)
		return mapQuizError(err)
	}
	log.Info("quiz started: %s", s.quizzes[quizIndex].Title)
	return nil
}

func (s *sessionService) SelectOption(ctx context.Context, visitorID string, optionIndex int) error {
	vs := s.session(visitorID)
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if err := vs.machine.SelectOption(optionIndex); err != nil {
		logger.FromContext(ctx).Debug("select option %d rejected: %v", optionIndex, err)
		return mapQuizError(err)
	}
	return nil
}

func (s *sessionService) Submit(ctx context.Context, visitorID string) error {
	log := logger.FromContext(ctx)
	vs := s.session(visitorID)
	vs.mu.Lock()
	defer vs.mu.Unlock()

	deferred, err := vs.machine.Submit()
	if err != nil {
		log.Debug("submit rejected: %v", err)
		return mapQuizError(err)
	}

	correct := vs.machine.State().Session.LastCorrect
	s.metrics.ObserveAnswer(correct)
	log.Debug("answer graded: correct=%t, advancing in %v", correct, deferred.Delay)

	advanceLog := log.WithField("visitor_id", visitorID)
	s.scheduler.Schedule(deferred.Delay, func() {
		s.advance(advanceLog, visitorID, vs, deferred.Epoch)
	})
	return nil
}

func (s *sessionService) advance(log *logger.Logger, visitorID string, vs *visitorSession, epoch uint64) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if !vs.machine.Advance(epoch) {
		log.Debug("stale advance ignored: epoch=%d", epoch)
		return
	}

	st := vs.machine.State()
	if st.Phase != quiz.Finished {
		return
	}

	s.metrics.ObserveFinished(st.Quiz.Title)
	attempt := models.Attempt{
		VisitorID:   visitorID,
		QuizTitle:   st.Quiz.Title,
		Score:       st.Session.Score,
		Total:       st.Total,
		CheatActive: st.Cheat.Active,
		FinishedAt:  s.now().UTC(),
	}
	log.Info("quiz finished: %s %d/%d", attempt.QuizTitle, attempt.Score, attempt.Total)
	if err := s.queue.EnqueueAttempt(attempt); err != nil {
		log.Warn("failed to enqueue attempt: %v", err)
	}
}

func (s *sessionService) Restart(ctx context.Context, visitorID string) error {
	vs := s.session(visitorID)
	vs.mu.Lock()
	defer vs.mu.Unlock()

	vs.machine.Restart()
	logger.FromContext(ctx).Debug("session restarted")
	return nil
}

func (s *sessionService) ClickSun(ctx context.Context, visitorID string) error {
	vs := s.session(visitorID)
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.machine.ClickSun(s.now()) {
		s.cheatActivated(ctx)
	}
	return nil
}

// ToggleTheme counts toward the cheat sequence and flips the stored theme.
func (s *sessionService) ToggleTheme(ctx context.Context, visitorID, themeHint string) (string, error) {
	vs := s.session(visitorID)
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.machine.ClickTheme(s.now()) {
		s.cheatActivated(ctx)
	}
	return s.prefs.ToggleTheme(ctx, visitorID, themeHint)
}

func (s *sessionService) cheatActivated(ctx context.Context) {
	s.metrics.ObserveCheat()
	logger.FromContext(ctx).Info("answer reveal unlocked")
}

func (s *sessionService) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, vs := range s.sessions {
		if vs.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.metrics.SetActiveSessions(len(s.sessions))
	if removed > 0 {
		logger.FromContext(ctx).Debug("removed %d sessions idle since %s", removed, cutoff.Format(time.RFC3339))
	}
	return removed
}

func (s *sessionService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func mapQuizError(err error) error {
	switch {
	case stderrors.Is(err, quiz.ErrNoAnswer):
		return errors.NewNoAnswerError(err)
	case stderrors.Is(err, quiz.ErrQuizIndex), stderrors.Is(err, quiz.ErrOptionIndex):
		return errors.NewBadRequestError(err.Error())
	case stderrors.Is(err, quiz.ErrQuizActive),
		stderrors.Is(err, quiz.ErrNotInProgress),
		stderrors.Is(err, quiz.ErrRevealPending):
		return errors.NewConflictError(err.Error(), err)
	default:
		return errors.NewInternalError(err)
	}
}
