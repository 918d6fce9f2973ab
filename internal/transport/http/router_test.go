package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"complexity-quiz-service/internal/app"
	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/infra/memory"
	"github.com/gin-gonic/gin"
)

type stubSink struct {
	mu     sync.Mutex
	result domain.SubmitResult
	forms  []domain.LeadForm
}

func (s *stubSink) Submit(_ context.Context, form domain.LeadForm) domain.SubmitResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms = append(s.forms, form)
	return s.result
}

const testAdminToken = "admin-secret"

type saveOnlyStore struct{}

func (saveOnlyStore) SaveLead(context.Context, domain.LeadRecord) error { return nil }

type fixture struct {
	router *gin.Engine
	sink   *stubSink
	leads  *memory.LeadStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(domain.DefaultCatalog()), time.Minute)
	quizzes := app.NewQuizService(memory.NewSessionStore(), catalogs, nil, "")
	sink := &stubSink{result: domain.SubmitResult{Outcome: domain.OutcomeSuccess}}
	leadStore := memory.NewLeadStore()
	leads := app.NewLeadService(quizzes, leadStore, sink, nil)
	consent := app.NewConsentService(memory.NewConsentStore(), 0, "")

	router := NewRouter(Services{Quiz: quizzes, Leads: leads, Consent: consent}, Options{SessionSecret: "test-secret", AdminToken: testAdminToken})
	return &fixture{router: router, sink: sink, leads: leadStore}
}

func (f *fixture) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func (f *fixture) completeQuiz(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/quiz/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d", rec.Code)
	}
	id := decode[app.Snapshot](t, rec).Session.ID

	answers := []string{"saas", "3-months", "designed", "small-team", "scale"}
	for _, value := range answers {
		rec = f.do(t, http.MethodPost, "/api/v1/quiz/sessions/"+id+"/intents", map[string]any{"type": "answer", "value": value})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %s: expected 200, got %d %s", value, rec.Code, rec.Body.String())
		}
		rec = f.do(t, http.MethodPost, "/api/v1/quiz/sessions/"+id+"/intents", map[string]any{"type": "advance"})
		if rec.Code != http.StatusOK {
			t.Fatalf("advance: expected 200, got %d %s", rec.Code, rec.Body.String())
		}
	}
	return id
}

func TestQuizFlowOverREST(t *testing.T) {
	f := newFixture(t)
	id := f.completeQuiz(t)

	rec := f.do(t, http.MethodGet, "/api/v1/quiz/sessions/"+id+"/results", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("results: expected 200, got %d", rec.Code)
	}
	res := decode[resultsResponse](t, rec)
	if res.SessionID != id {
		t.Fatalf("expected session %s, got %s", id, res.SessionID)
	}
	if res.Result.Score != 99 || res.Result.Recommendation.Tier != domain.TierExcellentFit {
		t.Fatalf("unexpected result %+v", res.Result)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestAdvanceWithoutAnswerIsRejected(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/quiz/sessions", nil)
	id := decode[app.Snapshot](t, rec).Session.ID

	rec = f.do(t, http.MethodPost, "/api/v1/quiz/sessions/"+id+"/intents", map[string]any{"type": "advance"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decode[struct {
		Error struct {
			Code    string       `json:"code"`
			Details app.Snapshot `json:"details"`
		} `json:"error"`
	}](t, rec)
	if body.Error.Code != "question_unanswered" {
		t.Fatalf("expected question_unanswered, got %q", body.Error.Code)
	}
	if body.Error.Details.Session.Index != 1 {
		t.Fatalf("expected unchanged snapshot at question 1, got %+v", body.Error.Details.Session)
	}
}

func TestErrorMapping(t *testing.T) {
	f := newFixture(t)
	started := decode[app.Snapshot](t, f.do(t, http.MethodPost, "/api/v1/quiz/sessions", nil)).Session.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown session", http.MethodGet, "/api/v1/quiz/sessions/missing", nil, http.StatusNotFound, "not_found"},
		{"results too early", http.MethodGet, "/api/v1/quiz/sessions/" + started + "/results", nil, http.StatusConflict, "results_not_ready"},
		{"unknown intent", http.MethodPost, "/api/v1/quiz/sessions/" + started + "/intents", map[string]any{"type": "jump"}, http.StatusBadRequest, "invalid"},
		{"unknown route", http.MethodGet, "/nope", nil, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d %s", tt.status, rec.Code, rec.Body.String())
			}
			body := decode[ErrorResponse](t, rec)
			if body.Error.Code != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, body.Error.Code)
			}
		})
	}
}

func TestIntentsAfterCompletionConflict(t *testing.T) {
	f := newFixture(t)
	id := f.completeQuiz(t)

	rec := f.do(t, http.MethodPost, "/api/v1/quiz/sessions/"+id+"/intents", map[string]any{"type": "retreat"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLeadSubmission(t *testing.T) {
	f := newFixture(t)
	id := f.completeQuiz(t)

	rec := f.do(t, http.MethodPost, "/api/v1/quiz/sessions/"+id+"/lead", map[string]any{"email": "ada@example.com", "name": "Ada"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	receipt := decode[domain.LeadReceipt](t, rec)
	if receipt.Outcome != domain.OutcomeSuccess || receipt.LeadID == "" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if len(f.sink.forms) != 1 || f.sink.forms[0]["project-type"] != "saas" {
		t.Fatalf("expected one flattened form, got %+v", f.sink.forms)
	}
	if leads, _ := f.leads.Leads(context.Background(), ""); len(leads) != 1 || leads[0].Email != "ada@example.com" {
		t.Fatalf("expected stored lead backup, got %+v", leads)
	}
}

func TestLeadSubmissionRequiresEmail(t *testing.T) {
	f := newFixture(t)
	id := f.completeQuiz(t)

	rec := f.do(t, http.MethodPost, "/api/v1/quiz/sessions/"+id+"/lead", map[string]any{"email": "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(f.sink.forms) != 0 {
		t.Fatalf("expected nothing submitted")
	}
}

func adminGet(router http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAdminLeadExport(t *testing.T) {
	f := newFixture(t)
	id := f.completeQuiz(t)
	rec := f.do(t, http.MethodPost, "/api/v1/quiz/sessions/"+id+"/lead", map[string]any{"email": "ada@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("lead: expected 200, got %d", rec.Code)
	}

	path := "/api/v1/admin/leads?email=ada@example.com"
	tests := []struct {
		name   string
		path   string
		auth   string
		status int
	}{
		{name: "missing token", path: path, status: http.StatusUnauthorized},
		{name: "wrong token", path: path, auth: "Bearer nope", status: http.StatusUnauthorized},
		{name: "invalid email", path: "/api/v1/admin/leads?email=nope", auth: "Bearer " + testAdminToken, status: http.StatusBadRequest},
		{name: "export", path: path, auth: "Bearer " + testAdminToken, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := adminGet(f.router, tt.path, tt.auth); rec.Code != tt.status {
				t.Fatalf("expected %d, got %d %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	body := decode[leadsResponse](t, adminGet(f.router, path, "Bearer "+testAdminToken))
	if len(body.Leads) != 1 || body.Leads[0].SessionID != id || body.Leads[0].Score != 99 {
		t.Fatalf("unexpected export %+v", body)
	}
}

func TestAdminLeadExportRoutes(t *testing.T) {
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(domain.DefaultCatalog()), time.Minute)
	quizzes := app.NewQuizService(memory.NewSessionStore(), catalogs, nil, "")
	path := "/api/v1/admin/leads?email=ada@example.com"

	disabled := NewRouter(Services{Quiz: quizzes, Leads: app.NewLeadService(quizzes, memory.NewLeadStore(), &stubSink{}, nil)},
		Options{SessionSecret: "test-secret"})
	if rec := adminGet(disabled, path, "Bearer "); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without admin token, got %d", rec.Code)
	}

	unreadable := NewRouter(Services{Quiz: quizzes, Leads: app.NewLeadService(quizzes, saveOnlyStore{}, &stubSink{}, nil)},
		Options{SessionSecret: "test-secret", AdminToken: testAdminToken})
	rec := adminGet(unreadable, path, "Bearer "+testAdminToken)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 for a write-only store, got %d", rec.Code)
	}
	if body := decode[ErrorResponse](t, rec); body.Error.Code != "unavailable" {
		t.Fatalf("expected unavailable, got %+v", body.Error)
	}
}

func TestCatalogEndpoint(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/quiz/catalog", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	catalog := decode[domain.Catalog](t, rec)
	if len(catalog.Questions) != domain.QuestionCount {
		t.Fatalf("expected %d questions, got %d", domain.QuestionCount, len(catalog.Questions))
	}
}

func TestConsentCookieFlow(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(t, http.MethodGet, "/api/v1/consent", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without cookie, got %d", rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/api/v1/consent/accept-all", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept-all: expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != visitorCookie {
		t.Fatalf("expected visitor cookie, got %+v", cookies)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/consent", nil, cookies...)
	if rec.Code != http.StatusOK {
		t.Fatalf("get consent: expected 200, got %d", rec.Code)
	}
	record := decode[domain.ConsentRecord](t, rec)
	if !record.Analytics || record.Version != app.DefaultConsentVersion {
		t.Fatalf("unexpected consent %+v", record)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/consent", map[string]any{"analytics": false}, cookies...)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d", rec.Code)
	}
	if record := decode[domain.ConsentRecord](t, rec); record.Analytics {
		t.Fatalf("expected analytics disabled")
	}

	if rec := f.do(t, http.MethodPost, "/api/v1/consent", map[string]any{}, cookies...); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without choice, got %d", rec.Code)
	}
}

func TestMetricsAndHealth(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(t, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	f.completeQuiz(t)
	rec := f.do(t, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "quiz_completed_total") {
		t.Fatalf("expected quiz metrics to be exported")
	}
}

func TestRecoveryReturnsStandardError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decode[ErrorResponse](t, rec); body.Error.Code != "internal" {
		t.Fatalf("expected internal code, got %+v", body)
	}
}
