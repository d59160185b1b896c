package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
	"github.com/justsurfingit/TalentScout-AI/internal/auth"
	"github.com/justsurfingit/TalentScout-AI/internal/database/dbtest"
	"github.com/justsurfingit/TalentScout-AI/internal/extract"
	"github.com/justsurfingit/TalentScout-AI/internal/llm"
	"github.com/justsurfingit/TalentScout-AI/internal/llm/llmtest"
	"github.com/justsurfingit/TalentScout-AI/internal/models"
	"github.com/justsurfingit/TalentScout-AI/internal/services"
)

const testUserHeader = "X-Test-User"

const gradedJSON = "```json\n" + `{"name": "Jane Doe", "email": "jane@example.com", "aiScore": 81, "tier": "A",
"summary": "Solid Go background.", "keySkills": {"Go": 90, "SQL": 75}, "badges": ["Go"]}` + "\n```"

const draftJSON = `{"subject": "Interview invitation", "body": "Hi Jane, let's talk."}`

var resumeText = []byte("Jane Doe\n5 years Go, PostgreSQL\n")

// fakeAuth trusts a test header instead of a signed token.
func fakeAuth(c *gin.Context) {
	if u := c.GetHeader(testUserHeader); u != "" {
		c.Set(auth.ContextKey, u)
	}
	c.Next()
}

type testAPI struct {
	router *gin.Engine
	model  *llmtest.Model
}

func newTestAPI(t *testing.T, responses ...string) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t)
	model := llmtest.New(responses...)
	client := llm.NewClient(model, "test-model")

	jobs := services.NewJobService(db)
	candidates := services.NewCandidateService(db, jobs, nil)
	grading := services.NewGradingService(jobs, candidates, extract.New(), client, nil)
	email := services.NewEmailService(jobs, candidates, client)

	r := gin.New()
	RegisterRoutes(r, fakeAuth, NewJobHandler(jobs, candidates), NewResumeHandler(grading, email, candidates, 1<<20))
	return &testAPI{router: r, model: model}
}

func (a *testAPI) do(t *testing.T, method, path, user string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) json(t *testing.T, method, path, user string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return a.do(t, method, path, user, body, "application/json")
}

func (a *testAPI) analyze(t *testing.T, user, jobID, field string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if file != nil {
		fw, err := mw.CreateFormFile(field, "resume.txt")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	if jobID != "" {
		require.NoError(t, mw.WriteField("jobId", jobID))
	}
	require.NoError(t, mw.Close())
	return a.do(t, http.MethodPost, "/api/resumes/analyze", user, &buf, mw.FormDataContentType())
}

func (a *testAPI) createJob(t *testing.T, user string) models.Job {
	t.Helper()
	w := a.json(t, http.MethodPost, "/api/jobs", user, gin.H{"title": "Backend Engineer", "description": "Need Go and SQL skills"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var job models.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	return job
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func TestRootAndHealth(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Banner, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRequiresOwner(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/api/jobs", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecruitingFlow(t *testing.T) {
	api := newTestAPI(t, gradedJSON, draftJSON)
	job := api.createJob(t, "alice")
	assert.Equal(t, models.JobActive, job.Status)
	assert.Equal(t, "alice", job.UserID)

	w := api.json(t, http.MethodGet, "/api/jobs", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Job](t, w), 1)

	w = api.analyze(t, "alice", job.ID, "resume", resumeText)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	analyzed := decode[struct {
		Message   string           `json:"message"`
		Candidate models.Candidate `json:"candidate"`
	}](t, w)
	c := analyzed.Candidate
	assert.Equal(t, models.TierA, c.Tier)
	assert.Equal(t, models.CandidateNew, c.Status)
	assert.Equal(t, models.SkillScores{{Name: "Go", Score: 90}, {Name: "SQL", Score: 75}}, c.Skills())

	w = api.json(t, http.MethodGet, "/api/jobs/"+job.ID+"/candidates", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Candidate](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)

	w = api.json(t, http.MethodPost, "/api/resumes/generate-email", "alice", gin.H{"candidateId": c.ID, "jobId": job.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"subject":"Interview invitation","body":"Hi Jane, let's talk."}`, w.Body.String())

	w = api.json(t, http.MethodPatch, "/api/resumes/status", "alice", gin.H{"candidateId": c.ID, "status": "Invited", "emailBody": "Hi Jane, let's talk."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct {
		Candidate models.Candidate `json:"candidate"`
	}](t, w).Candidate
	assert.Equal(t, models.CandidateInvited, updated.Status)
	require.NotNil(t, updated.EmailBody)

	w = api.json(t, http.MethodPatch, "/api/jobs/"+job.ID+"/status", "alice", gin.H{"status": "archived"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.JobArchived, decode[models.Job](t, w).Status)

	w = api.do(t, http.MethodGet, "/api/jobs/"+job.ID+"/candidates/export", "alice", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Backend_Engineer_candidates.xlsx")
	wb, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	name, err := wb.GetCellValue("Candidates", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
	wb.Close()

	w = api.json(t, http.MethodDelete, "/api/resumes/"+c.ID, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Candidate deleted"}`, w.Body.String())

	w = api.json(t, http.MethodDelete, "/api/resumes/"+c.ID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(apperr.KindNotFound), decode[errorBody](t, w).Kind)
}

func TestAnalyzeAcceptsFileField(t *testing.T) {
	api := newTestAPI(t, gradedJSON)
	job := api.createJob(t, "alice")

	w := api.analyze(t, "alice", job.ID, "file", resumeText)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		modelErr error
		file     []byte
		noJobID  bool
		user     string
		status   int
		kind     apperr.Kind
	}{
		{name: "no file", user: "alice", status: http.StatusBadRequest, kind: apperr.KindInvalidInput},
		{name: "no job id", file: resumeText, noJobID: true, user: "alice", status: http.StatusBadRequest, kind: apperr.KindInvalidInput},
		{name: "someone else's job", file: resumeText, user: "mallory", status: http.StatusNotFound, kind: apperr.KindNotFound},
		{name: "binary upload", file: []byte{0x00, 0x9f, 0x92, 0x96, 0xff, 0x00}, user: "alice", status: http.StatusUnprocessableEntity, kind: apperr.KindExtractionFailed},
		{name: "model down", modelErr: errors.New("503 from upstream"), file: resumeText, user: "alice", status: http.StatusServiceUnavailable, kind: apperr.KindAIServiceUnavailable},
		{name: "empty completion", response: "", file: resumeText, user: "alice", status: http.StatusBadGateway, kind: apperr.KindEmptyAIResponse},
		{name: "prose completion", response: "Sorry, I cannot comply.", file: resumeText, user: "alice", status: http.StatusBadGateway, kind: apperr.KindMalformedAIOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, tt.response)
			if tt.modelErr != nil {
				api.model.Fail(tt.modelErr)
			}
			job := api.createJob(t, "alice")
			jobID := job.ID
			if tt.noJobID {
				jobID = ""
			}

			w := api.analyze(t, tt.user, jobID, "resume", tt.file)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := decode[errorBody](t, w)
			assert.Equal(t, string(tt.kind), body.Kind)
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, "Sorry, I cannot comply.")
		})
	}
}

func TestAnalyzeRejectsLargeUpload(t *testing.T) {
	api := newTestAPI(t, gradedJSON)
	job := api.createJob(t, "alice")

	w := api.analyze(t, "alice", job.ID, "resume", bytes.Repeat([]byte("a"), 2<<20))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, api.model.Calls())
}

func TestForeignJobLooksMissing(t *testing.T) {
	api := newTestAPI(t)
	job := api.createJob(t, "alice")

	foreign := api.json(t, http.MethodGet, "/api/jobs/"+job.ID, "mallory", nil)
	missing := api.json(t, http.MethodGet, "/api/jobs/"+uuid.NewString(), "mallory", nil)

	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, missing.Code, foreign.Code)
	assert.Equal(t, missing.Body.String(), foreign.Body.String())
}

func TestBindingErrors(t *testing.T) {
	api := newTestAPI(t)

	w := api.json(t, http.MethodPost, "/api/jobs", "alice", gin.H{"title": "Only a title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperr.KindInvalidInput), decode[errorBody](t, w).Kind)

	w = api.json(t, http.MethodPatch, "/api/resumes/status", "alice", gin.H{"candidateId": uuid.NewString()})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.json(t, http.MethodPatch, "/api/resumes/status", "alice", gin.H{"candidateId": uuid.NewString(), "status": "Hired"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.json(t, http.MethodGet, "/api/jobs?status=paused", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResumeFileWithoutArchive(t *testing.T) {
	api := newTestAPI(t, gradedJSON)
	job := api.createJob(t, "alice")
	w := api.analyze(t, "alice", job.ID, "resume", resumeText)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[struct {
		Candidate models.Candidate `json:"candidate"`
	}](t, w).Candidate.ID

	w = api.json(t, http.MethodGet, "/api/resumes/"+id+"/file", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusOf(t *testing.T) {
	tests := map[apperr.Kind]int{
		apperr.KindInvalidInput:         http.StatusBadRequest,
		apperr.KindNotFound:             http.StatusNotFound,
		apperr.KindExtractionFailed:     http.StatusUnprocessableEntity,
		apperr.KindAIServiceUnavailable: http.StatusServiceUnavailable,
		apperr.KindEmptyAIResponse:      http.StatusBadGateway,
		apperr.KindMalformedAIOutput:    http.StatusBadGateway,
		apperr.KindPersistence:          http.StatusInternalServerError,
		"":                              http.StatusInternalServerError,
	}
	for kind, want := range tests {
		assert.Equal(t, want, StatusOf(kind), kind)
	}
}
