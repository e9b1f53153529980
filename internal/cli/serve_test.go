package cli

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gpukit/framegraph/pkg/cache"
	"github.com/gpukit/framegraph/pkg/export"
)

func testPlan(t *testing.T) *export.Plan {
	t.Helper()

	m, err := ParseManifest(strings.NewReader(deferredManifest))
	if err != nil {
		t.Fatalf("ParseManifest error: %v", err)
	}
	g, _, err := m.Declare()
	if err != nil {
		t.Fatalf("Declare error: %v", err)
	}
	exec, err := g.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return export.FromGraph(exec)
}

func TestRouterHealthz(t *testing.T) {
	router := newRouter(testPlan(t), cache.NewNullCache())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok")
	}
}

func TestRouterPlan(t *testing.T) {
	plan := testPlan(t)
	router := newRouter(plan, cache.NewNullCache())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plan", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	decoded, err := export.ReadPlan(rec.Body)
	if err != nil {
		t.Fatalf("response is not a valid plan: %v", err)
	}
	if decoded.ID != plan.ID {
		t.Errorf("ID = %q, want %q", decoded.ID, plan.ID)
	}
	if len(decoded.Passes) != 3 {
		t.Errorf("len(Passes) = %d, want 3", len(decoded.Passes))
	}
}

func TestRouterGraphDOT(t *testing.T) {
	router := newRouter(testPlan(t), cache.NewNullCache())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graph.dot", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"digraph frame {", `"geometry"`, `"lighting"`} {
		if !strings.Contains(body, want) {
			t.Errorf("DOT response missing %q", want)
		}
	}
}

func TestRouterGraphSVGCacheHit(t *testing.T) {
	// Pre-seed the cache so the handler serves without rendering.
	plan := testPlan(t)
	dot := export.ToDOT(plan, export.DOTOptions{})

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer store.Close()

	keyer := cache.NewScopedKeyer(nil, "serve:")
	key := keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{Format: "svg"})
	want := []byte("<svg>cached</svg>")
	req := httptest.NewRequest(http.MethodGet, "/graph.svg", nil)
	if err := store.Set(req.Context(), key, want, cache.TTLArtifact); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	router := newRouter(plan, store)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != string(want) {
		t.Errorf("body = %q, want cached SVG", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
}

func TestRouterUnknownPath(t *testing.T) {
	router := newRouter(testPlan(t), cache.NewNullCache())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
