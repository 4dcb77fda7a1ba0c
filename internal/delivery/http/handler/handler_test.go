package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"job-matcher/internal/delivery/http/middleware"
	"job-matcher/internal/domain/job"
	"job-matcher/internal/domain/match"
	"job-matcher/internal/pkg/response"
	"job-matcher/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeJobs struct {
	jobs []job.Job
	err  error
}

func (f *fakeJobs) ListJobs(context.Context) ([]job.Job, error) { return f.jobs, f.err }

func (f *fakeJobs) GetJob(_ context.Context, id int64) (job.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return job.Job{}, usecase.ErrJobNotFound
}

func (f *fakeJobs) SaveJobs(context.Context, []job.NewJob) (int, error) { return 0, nil }

type fakeResumes struct {
	gotOwner *int64
	gotRaw   []byte
	err      error
}

func (f *fakeResumes) Upload(_ context.Context, owner *int64, raw []byte) (int64, error) {
	f.gotOwner = owner
	f.gotRaw = raw
	if f.err != nil {
		return 0, f.err
	}
	return 11, nil
}

type fakeMatching struct {
	ranked []usecase.RankedMatch
	stored []match.Match
	err    error
	gotID  int64
}

func (f *fakeMatching) Match(_ context.Context, id int64) ([]usecase.RankedMatch, error) {
	f.gotID = id
	return f.ranked, f.err
}

func (f *fakeMatching) ListMatches(_ context.Context, id int64) ([]match.Match, error) {
	f.gotID = id
	return f.stored, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestApp(register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	register(app.Group("/api/v1"))
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return resp.StatusCode, env
}

func TestJobsHandler_List(t *testing.T) {
	loc := "Remote"
	uc := &fakeJobs{jobs: []job.Job{{ID: 1, Title: "Go Developer", Description: "Go", Location: &loc}}}
	app := newTestApp(NewJobsHandler(uc).RegisterRoutes)

	status, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	require.Equal(t, fiber.StatusOK, status)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Go Developer", out[0]["title"])
	assert.Equal(t, "Remote", out[0]["location"])
	assert.Nil(t, out[0]["company"])
}

func TestJobsHandler_Get(t *testing.T) {
	uc := &fakeJobs{jobs: []job.Job{{ID: 3, Title: "SRE", Description: "k8s"}}}
	app := newTestApp(NewJobsHandler(uc).RegisterRoutes)

	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/3", nil))
	assert.Equal(t, fiber.StatusOK, status)

	status, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/4", nil))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Job not found", env.Message)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/abc", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestJobsHandler_InternalErrorIsMasked(t *testing.T) {
	uc := &fakeJobs{err: errors.New("connection refused to 10.0.0.5")}
	app := newTestApp(NewJobsHandler(uc).RegisterRoutes)

	status, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", env.Message)
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestMatchHandler_MatchJobs(t *testing.T) {
	uc := &fakeMatching{ranked: []usecase.RankedMatch{
		{JobID: 2, Title: "Data Scientist", Score: 0.9},
		{JobID: 1, Title: "Go Developer", Score: 0.4},
	}}
	app := newTestApp(NewMatchHandler(uc).RegisterRoutes)

	status, env := do(t, app, jsonRequest(t, http.MethodPost, "/api/v1/match_jobs", map[string]any{"resume_id": 7}))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, int64(7), uc.gotID)

	var out struct {
		Matches []struct {
			JobID int64   `json:"job_id"`
			Title string  `json:"title"`
			Score float64 `json:"score"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.Matches, 2)
	assert.Equal(t, int64(2), out.Matches[0].JobID)
	assert.InDelta(t, 0.9, out.Matches[0].Score, 1e-9)
}

func TestMatchHandler_EmptyCatalogReturnsEmptyList(t *testing.T) {
	uc := &fakeMatching{ranked: []usecase.RankedMatch{}}
	app := newTestApp(NewMatchHandler(uc).RegisterRoutes)

	status, env := do(t, app, jsonRequest(t, http.MethodPost, "/api/v1/match_jobs", map[string]any{"resume_id": 1}))
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"matches":[]}`, string(env.Data))
}

func TestMatchHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		err    error
		status int
	}{
		{name: "missing resume id", body: map[string]any{}, status: fiber.StatusBadRequest},
		{name: "negative resume id", body: map[string]any{"resume_id": -1}, status: fiber.StatusBadRequest},
		{name: "unknown resume", body: map[string]any{"resume_id": 9}, err: usecase.ErrResumeNotFound, status: fiber.StatusNotFound},
		{name: "catalog unreadable", body: map[string]any{"resume_id": 9}, err: errors.New("db down"), status: fiber.StatusInternalServerError},
		{name: "caller went away", body: map[string]any{"resume_id": 9}, err: context.Canceled, status: response.StatusClientClosedRequest},
		{name: "deadline exceeded", body: map[string]any{"resume_id": 9}, err: fmt.Errorf("match: %w", context.DeadlineExceeded), status: fiber.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(NewMatchHandler(&fakeMatching{err: tt.err}).RegisterRoutes)
			status, _ := do(t, app, jsonRequest(t, http.MethodPost, "/api/v1/match_jobs", tt.body))
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestMatchHandler_ListMatches(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	uc := &fakeMatching{stored: []match.Match{{ResumeID: 5, JobID: 1, Score: 0.8, MatchedAt: at}}}
	app := newTestApp(NewMatchHandler(uc).RegisterRoutes)

	status, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/5/matches", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"resume_id":5,"matches":[{"job_id":1,"score":0.8,"matched_at":"2026-01-02T03:04:05Z"}]}`, string(env.Data))
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, "resume.txt")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestResumeHandler_Upload(t *testing.T) {
	uc := &fakeResumes{}
	app := newTestApp(NewResumeHandler(uc).RegisterRoutes)

	status, env := do(t, app, multipartRequest(t, "file", []byte("Go engineer, 5 years")))
	require.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"resume_id":11}`, string(env.Data))
	assert.Equal(t, "Go engineer, 5 years", string(uc.gotRaw))
	assert.Nil(t, uc.gotOwner)
}

func TestResumeHandler_UploadErrors(t *testing.T) {
	app := newTestApp(NewResumeHandler(&fakeResumes{}).RegisterRoutes)
	status, _ := do(t, app, multipartRequest(t, "other", []byte("x")))
	assert.Equal(t, fiber.StatusBadRequest, status)

	app = newTestApp(NewResumeHandler(&fakeResumes{err: usecase.ErrEmptyResume}).RegisterRoutes)
	status, _ = do(t, app, multipartRequest(t, "file", []byte("\x00\x00")))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestHealthHandler(t *testing.T) {
	app := fiber.New()
	NewHealthHandler(fakePinger{}, nil).RegisterRoutes(app)
	status, env := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"database":"up","cache":"disabled"}`, string(env.Data))

	app = fiber.New()
	NewHealthHandler(fakePinger{err: errors.New("down")}, fakePinger{}).RegisterRoutes(app)
	status, env = do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.JSONEq(t, `{"database":"down","cache":"up"}`, string(env.Data))
}
