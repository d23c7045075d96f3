package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/jobs"
	"github.com/vytor/quizflash/internal/metrics"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/repository"
	"github.com/vytor/quizflash/internal/repository/sqlite"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/testutil"
	"github.com/vytor/quizflash/internal/view"
	"github.com/vytor/quizflash/internal/worker"
	"github.com/vytor/quizflash/web"
)

type manualScheduler struct {
	pending []func()
}

func (m *manualScheduler) Schedule(_ time.Duration, fn func()) {
	m.pending = append(m.pending, fn)
}

func (m *manualScheduler) fireAll() {
	pending := m.pending
	m.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type testEnv struct {
	server    *Server
	handler   http.Handler
	scheduler *manualScheduler
	attempts  repository.AttemptRepository
	pool      *worker.Pool
	quizzes   []models.Quiz
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })

	quizzes, err := quiz.DefaultDataset()
	require.NoError(t, err)

	tmpl, err := LoadTemplates(web.Templates())
	require.NoError(t, err)

	attemptRepo := sqlite.NewAttemptRepository(database)
	prefs := services.NewPreferenceService(sqlite.NewPreferenceRepository(database), models.ThemeLight)
	pool := worker.NewPool(1, 8)
	scheduler := &manualScheduler{}
	m := metrics.New(prometheus.NewRegistry())

	srv := &Server{
		Sessions: services.NewSessionService(
			quizzes,
			quiz.DefaultSettings(),
			prefs,
			jobs.NewWorkerQueue(pool, attemptRepo),
			m,
			services.WithScheduler(scheduler),
		),
		Preferences: prefs,
		Attempts:    services.NewAttemptService(attemptRepo),
		Quizzes:     quizzes,
		DB:          pingerFunc(func(ctx context.Context) error { return database.PingContext(ctx) }),
		Templates:   tmpl,
		Static:      web.Static(),
		Metrics:     m,
	}

	return &testEnv{
		server:    srv,
		handler:   srv.Routes(),
		scheduler: scheduler,
		attempts:  attemptRepo,
		pool:      pool,
		quizzes:   quizzes,
	}
}

// client carries the visitor cookie between requests.
type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
	headers map[string]string
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, handler: e.handler, headers: map[string]string{}}
}

func (c *client) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == visitorCookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) view() view.View {
	rec := c.do(http.MethodGet, "/api/view")
	require.Equal(c.t, http.StatusOK, rec.Code)
	var v view.View
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestIndex_IssuesVisitorCookieAndShowsCategories(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	rec := c.do(http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.cookie)
	assert.True(t, c.cookie.HttpOnly)

	body := rec.Body.String()
	assert.Contains(t, body, "Frontend Quiz")
	for i, q := range env.quizzes {
		assert.Contains(t, body, q.Title)
		assert.Contains(t, body, `action="/quizzes/`+strconv.Itoa(i)+`"`)
	}
	assert.Contains(t, body, `id="screen-quiz"`)
	assert.Contains(t, rec.Header().Get("Accept-CH"), colorSchemeHint)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	// The cookie is stable across requests.
	first := c.cookie.Value
	c.do(http.MethodGet, "/")
	assert.Equal(t, first, c.cookie.Value)
}

func TestQuizFlow_SubmitRevealAndAdvance(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	c.do(http.MethodGet, "/")

	rec := c.do(http.MethodPost, "/quizzes/0")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = c.do(http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	total := len(env.quizzes[0].Questions)
	assert.Contains(t, rec.Body.String(), "Question 1 of "+strconv.Itoa(total))

	// No selection: the page comes back with the inline error.
	rec = c.do(http.MethodPost, "/submit")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="error__noAnswer" id="error-no-answer"`)
	assert.Contains(t, rec.Body.String(), view.NoAnswerMessage)

	correct := quiz.CorrectIndex(env.quizzes[0].Questions[0])
	rec = c.do(http.MethodPost, "/options/"+strconv.Itoa(correct))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, c.view().ShowError)

	rec = c.do(http.MethodPost, "/submit")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = c.do(http.MethodGet, "/")
	body := rec.Body.String()
	assert.Contains(t, body, `http-equiv="refresh" content="2"`)
	assert.Contains(t, body, "is-correct")
	assert.Contains(t, body, view.IconCorrect)

	rec = c.do(http.MethodPost, "/submit")
	assert.Equal(t, http.StatusConflict, rec.Code)

	env.scheduler.fireAll()
	v := c.view()
	assert.Equal(t, "Question 2 of "+strconv.Itoa(total), v.Counter)
	assert.Equal(t, 1, v.Score)
	assert.False(t, v.SubmitDisabled)
}

func TestQuizFlow_FinishPersistsAttempt(t *testing.T) {
	env := newTestEnv(t)
	env.pool.Start(context.Background())
	t.Cleanup(env.pool.Stop)

	c := env.client(t)
	c.do(http.MethodPost, "/quizzes/1")
	questions := env.quizzes[1].Questions
	for _, q := range questions {
		c.do(http.MethodPost, "/options/"+strconv.Itoa(quiz.CorrectIndex(q)))
		require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/submit").Code)
		env.scheduler.fireAll()
	}

	rec := c.do(http.MethodGet, "/")
	body := rec.Body.String()
	assert.Contains(t, body, `id="score">`+strconv.Itoa(len(questions))+`<`)
	assert.Contains(t, body, "Play Again")

	require.Eventually(t, func() bool {
		n, err := env.attempts.Count(context.Background(), models.AttemptFilter{VisitorID: c.cookie.Value})
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)

	c.headers["Accept"] = "application/json"
	rec = c.do(http.MethodGet, "/results")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Attempts []models.Attempt  `json:"attempts"`
		Best     []models.BestScore `json:"best"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Attempts, 1)
	assert.Equal(t, env.quizzes[1].Title, out.Attempts[0].QuizTitle)
	assert.Equal(t, len(questions), out.Attempts[0].Score)
	require.Len(t, out.Best, 1)

	delete(c.headers, "Accept")
	rec = c.do(http.MethodPost, "/restart")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, view.ScreenStart, c.view().Screen)
}

func TestResultsPage_RendersHTML(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	c.do(http.MethodGet, "/")

	_, err := env.attempts.Insert(context.Background(), models.Attempt{
		VisitorID:  c.cookie.Value,
		QuizTitle:  "CSS",
		Score:      3,
		Total:      5,
		FinishedAt: time.Date(2026, 4, 2, 15, 4, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	rec := c.do(http.MethodGet, "/results")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "3 / 5 (60%)")
	assert.Contains(t, body, "2026-04-02 15:04")
}

func TestActions_JSONClients(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	c.headers["Accept"] = "application/json"

	rec := c.do(http.MethodPost, "/quizzes/2")
	require.Equal(t, http.StatusOK, rec.Code)
	var v view.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, view.ScreenQuiz, v.Screen)
	assert.Equal(t, env.quizzes[2].Title, v.Title)

	rec = c.do(http.MethodPost, "/submit")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NO_ANSWER", body["error"].Code)
	assert.Equal(t, "Please select an answer", body["error"].Message)
}

func TestActions_InvalidIndexes(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/quizzes/abc").Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/quizzes/99").Code)

	require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/quizzes/0").Code)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/quizzes/1").Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/options/7").Code)
}

func TestMalformedIndex_RendersErrorPage(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	for _, path := range []string{"/quizzes/abc", "/options/-1"} {
		rec := c.do(http.MethodPost, path)
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", path)
		assert.Contains(t, rec.Body.String(), `class="screen screen--error"`, path)
		assert.Contains(t, rec.Body.String(), `href="/"`, path)
	}

	c.headers["Accept"] = "application/json"
	rec := c.do(http.MethodPost, "/quizzes/abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestTheme_ToggleAndClientHint(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	c.headers[colorSchemeHint] = `"dark"`

	assert.Contains(t, c.do(http.MethodGet, "/").Body.String(), `data-theme="dark"`)

	require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/theme").Code)
	assert.Contains(t, c.do(http.MethodGet, "/").Body.String(), `data-theme="light"`)

	require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/theme").Code)
	assert.Equal(t, models.ThemeDark, c.view().Theme)
}

func TestCheatSequence_OverHTTP(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	c.do(http.MethodPost, "/quizzes/0")

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusSeeOther, c.do(http.MethodPost, "/sun").Code)
	}
	c.do(http.MethodPost, "/theme")
	c.do(http.MethodPost, "/theme")

	v := c.view()
	require.True(t, v.CheatActive)
	correct := quiz.CorrectIndex(env.quizzes[0].Questions[0])
	assert.True(t, v.Options[correct].Correct)
}

func TestHealthAndReadiness(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/readyz").Code)

	env.server.DB = pingerFunc(func(context.Context) error { return assert.AnError })
	c.handler = env.server.Routes()
	assert.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodGet, "/readyz").Code)
}

func TestStaticAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	rec := c.do(http.MethodGet, "/static/images/icon-correct.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")

	c.do(http.MethodGet, "/")
	rec = c.do(http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `quizflash_http_requests_total{method="GET",route="/",status="200"} 1`))
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t)
	env.server.RateLimitRPS = 0.001
	env.server.RateLimitBurst = 2
	c := env.client(t)
	c.handler = env.server.Routes()

	// The first request has no cookie yet and counts against the address.
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/").Code)
	rec := c.do(http.MethodGet, "/")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Probes are outside the limited group.
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz").Code)
}

func TestRateLimit_CookielessRequestsShareAddressBucket(t *testing.T) {
	env := newTestEnv(t)
	env.server.RateLimitRPS = 0.001
	env.server.RateLimitBurst = 2
	handler := env.server.Routes()

	limited := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:" + strconv.Itoa(40000+i)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 8, limited)
	assert.Equal(t, 0, env.server.Sessions.Active())

	// A returning visitor has its own bucket.
	c := env.client(t)
	c.handler = handler
	c.cookie = &http.Cookie{Name: visitorCookieName, Value: "0b6f1d1e-8c4e-4f1a-9d55-3f2a7c1b9e10"}
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/").Code)
}

func TestRateLimiter_DropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))
	assert.True(t, rl.allow("b"))
	assert.Equal(t, 2, rl.size())

	now = now.Add(5 * time.Minute)
	assert.True(t, rl.allow("c"))
	assert.Equal(t, 1, rl.size())
}

func TestRecoveryMiddleware(t *testing.T) {
	h := loggingMiddleware(recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
