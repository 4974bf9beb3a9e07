package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"course-sales-backend/models/courses"
	"course-sales-backend/storage"
)

type failingRepo struct{}

func (failingRepo) List(context.Context) ([]courses.Module, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) Get(context.Context, string) (*courses.Module, error) {
	return nil, errors.New("connection refused")
}

func newRouter(repo storage.ModuleRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/modules", NewHandler(repo).ListModules)
	return r
}

func get(r http.Handler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/modules", nil))
	return rec
}

func TestListModulesReturnsSeed(t *testing.T) {
	seed, err := storage.DefaultModules()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	rec := get(newRouter(storage.NewStaticModuleStore(seed)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body []ModuleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != len(seed) {
		t.Fatalf("got %d modules, want %d", len(body), len(seed))
	}
	for i := range seed {
		if body[i].ID != seed[i].ID {
			t.Fatalf("module %d id = %q, want %q", i, body[i].ID, seed[i].ID)
		}
	}
	if body[0].Duration != "2 hours" || body[0].TimeEstimate != "2 hours" {
		t.Fatalf("duration fields = %q / %q", body[0].Duration, body[0].TimeEstimate)
	}
	if len(body[0].Lessons) != 2 || body[0].Lessons[0].ID != "1-1" {
		t.Fatalf("lessons = %+v", body[0].Lessons)
	}
}

func TestListModulesEmptyStoreIsArray(t *testing.T) {
	rec := get(newRouter(storage.NewStaticModuleStore(nil)))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestListModulesStoreFailure(t *testing.T) {
	rec := get(newRouter(failingRepo{}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Error fetching modules") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestConcurrentListModulesIdentical(t *testing.T) {
	seed, _ := storage.DefaultModules()
	r := newRouter(storage.NewStaticModuleStore(seed))

	bodies := make([]string, 2)
	var wg sync.WaitGroup
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bodies[i] = get(r).Body.String()
		}(i)
	}
	wg.Wait()

	if bodies[0] != bodies[1] {
		t.Fatalf("concurrent reads differ:\n%s\n%s", bodies[0], bodies[1])
	}
}
