package progress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"course-sales-backend/models/users"
	"course-sales-backend/services"
	"course-sales-backend/storage"
)

type memProgress struct {
	known   map[string][]users.Progress
	calls   int
	failing bool
}

func (m *memProgress) Progress(_ context.Context, userID string) ([]users.Progress, error) {
	m.calls++
	if m.failing {
		return nil, errors.New("db down")
	}
	records, ok := m.known[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return records, nil
}

func (m *memProgress) CompleteLesson(_ context.Context, userID, moduleID, lessonID string) ([]users.Progress, error) {
	m.calls++
	records, ok := m.known[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	for i := range records {
		if records[i].ModuleID == moduleID {
			records[i].Complete(lessonID)
			m.known[userID] = records
			return records, nil
		}
	}
	records = append(records, users.Progress{ModuleID: moduleID, CompletedLessons: []string{lessonID}})
	m.known[userID] = records
	return records, nil
}

const secret = "test-secret"

func setup(t *testing.T, store storage.ProgressRepository) (*gin.Engine, *services.JWTAuthenticator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	seed, err := storage.DefaultModules()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	auth := services.NewJWTAuthenticator(secret)
	h := NewHandler(auth, store, storage.NewStaticModuleStore(seed))
	r := gin.New()
	r.GET("/api/user/progress", h.GetProgress)
	r.POST("/api/user/progress", h.CompleteLesson)
	return r, auth
}

func do(r http.Handler, method, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/api/user/progress", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, "/api/user/progress", nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetProgressRequiresToken(t *testing.T) {
	store := &memProgress{known: map[string][]users.Progress{"u1": {{ModuleID: "1", CompletedLessons: []string{"1-1"}}}}}
	r, _ := setup(t, store)

	for _, token := range []string{"", "garbage"} {
		rec := do(r, http.MethodGet, token, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d", token, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "moduleId") {
			t.Fatalf("progress leaked to unauthenticated caller: %s", rec.Body.String())
		}
	}
	if store.calls != 0 {
		t.Fatalf("store touched %d times without auth", store.calls)
	}
}

func TestGetProgressEmptyUser(t *testing.T) {
	r, auth := setup(t, &memProgress{known: map[string][]users.Progress{"u1": {}}})
	token, _ := auth.Issue("u1", "a@x.com")

	rec := do(r, http.MethodGet, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestGetProgressUnknownUser(t *testing.T) {
	r, auth := setup(t, &memProgress{known: map[string][]users.Progress{}})
	token, _ := auth.Issue("ghost", "g@x.com")

	rec := do(r, http.MethodGet, token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetProgressStoreFailure(t *testing.T) {
	r, auth := setup(t, &memProgress{failing: true})
	token, _ := auth.Issue("u1", "a@x.com")

	rec := do(r, http.MethodGet, token, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "db down") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}

func TestCompleteLesson(t *testing.T) {
	r, auth := setup(t, &memProgress{known: map[string][]users.Progress{"u1": {}}})
	token, _ := auth.Issue("u1", "a@x.com")

	rec := do(r, http.MethodPost, token, `{"moduleId":"2","lessonId":"2-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body []ProgressResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0].ModuleID != "2" || body[0].CompletedLessons[0] != "2-1" {
		t.Fatalf("body = %+v", body)
	}
}

func TestCompleteLessonValidatesReferences(t *testing.T) {
	store := &memProgress{known: map[string][]users.Progress{"u1": {}}}
	r, auth := setup(t, store)
	token, _ := auth.Issue("u1", "a@x.com")

	cases := []struct {
		body string
		want int
	}{
		{`{"moduleId":"9","lessonId":"9-1"}`, http.StatusNotFound},
		{`{"moduleId":"1","lessonId":"2-1"}`, http.StatusNotFound},
		{`{"moduleId":"1"}`, http.StatusBadRequest},
		{`nope`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if rec := do(r, http.MethodPost, token, tc.body); rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.body, rec.Code, tc.want)
		}
	}
	if store.calls != 0 {
		t.Fatalf("store written %d times for invalid requests", store.calls)
	}
}

func TestMockProgressVariant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	seed, _ := storage.DefaultModules()
	h := NewHandler(services.OpenAuthenticator{}, storage.NewMockProgressStore(), storage.NewStaticModuleStore(seed))
	r := gin.New()
	r.GET("/api/user/progress", h.GetProgress)
	r.POST("/api/user/progress", h.CompleteLesson)

	rec := do(r, http.MethodGet, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := `[{"moduleId":"1","completedLessons":["1-1"]},{"moduleId":"2","completedLessons":[]}]`
	if strings.TrimSpace(rec.Body.String()) != want {
		t.Fatalf("body = %s", rec.Body.String())
	}

	rec = do(r, http.MethodPost, "", `{"moduleId":"1","lessonId":"1-2"}`)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("write status = %d", rec.Code)
	}
}
