package http_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/fogtrail/internal/adapters/http"
)

// findOpenAPIDoc locates api/openapi.yaml by walking up from the test directory.
func findOpenAPIDoc(t *testing.T) string {
	t.Helper()
	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

func TestLoadOpenAPI_Valid(t *testing.T) {
	_, doc, err := handler.LoadOpenAPI(context.Background(), findOpenAPIDoc(t))
	if err != nil {
		t.Fatalf("openapi document invalid: %v", err)
	}

	if doc.Info.Title != "Fogtrail Exploration API" {
		t.Errorf("expected title 'Fogtrail Exploration API', got %q", doc.Info.Title)
	}
	if doc.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", doc.Info.Version)
	}

	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/reveals",
		"/v1/reveals.geojson",
		"/v1/reset",
		"/v1/fog",
		"/v1/fog.png",
		"/v1/progress",
		"/v1/progress/reset",
		"/v1/progress/export",
		"/v1/progress/import",
		"/v1/levels/{level}",
		"/v1/tracks",
		"/graphql",
	}
	for _, path := range expectedPaths {
		if item := doc.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not documented", path)
		}
	}

	expectedSchemas := []string{
		"GeoPoint",
		"RevealEvent",
		"RecordResult",
		"Observation",
		"ProgressSnapshot",
		"ProgressionState",
		"LevelUp",
		"FogMask",
		"Cutout",
		"BatchResult",
		"APIError",
		"Pagination",
	}
	for _, schema := range expectedSchemas {
		if doc.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}
}

func TestLoadOpenAPI_Missing(t *testing.T) {
	if _, _, err := handler.LoadOpenAPI(context.Background(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestSetupDocs_ServesDocument(t *testing.T) {
	app := fiber.New()
	handler.SetupDocs(app, findOpenAPIDoc(t))

	status, b, headers := do(t, app, "GET", "/docs/openapi.yaml", "")
	if status != 200 || headers["Content-Type"] != "application/yaml" || len(b) == 0 {
		t.Errorf("unexpected yaml response %d %v", status, headers)
	}

	status, b, _ = do(t, app, "GET", "/docs/openapi.json", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	doc := decode[struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
	}](t, b)
	if doc.OpenAPI != "3.0.3" || doc.Info.Title != "Fogtrail Exploration API" {
		t.Errorf("unexpected json document %+v", doc)
	}

	if status, _, _ := do(t, app, "GET", "/docs", ""); status != 200 {
		t.Errorf("expected swagger ui, got %d", status)
	}
}

func TestSetupDocs_MissingDocument(t *testing.T) {
	app := fiber.New()
	handler.SetupDocs(app, filepath.Join(t.TempDir(), "nope.yaml"))

	if status, _, _ := do(t, app, "GET", "/docs/openapi.json", ""); status != 404 {
		t.Errorf("expected 404, got %d", status)
	}
}
