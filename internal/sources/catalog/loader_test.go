package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const testCatalog = `categories:
  - name: News
    sources:
      - name: The Guardian Environment
        url: https://www.theguardian.com/environment
        description: Environment desk coverage
  - name: Government
    sources:
      - name: Federal Register
        url: https://www.federalregister.gov/api/v1/documents.json?conditions[term]=forest
        keywords: [forest, logging]
      - name: Broken
        url: ""
`

func writeTestCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog fixture: %v", err)
	}
	return path
}

func TestLoadAndMapCatalog(t *testing.T) {
	path := writeTestCatalog(t, testCatalog)

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	entries, err := NewMapper().MapEntries(config)
	if err != nil {
		t.Fatalf("MapEntries() error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (empty URL skipped)", len(entries))
	}
	if entries[0].Category != "News" || entries[0].Name != "The Guardian Environment" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Category != "Government" {
		t.Errorf("entry 1 category = %q, want Government", entries[1].Category)
	}
	if len(entries[1].Keywords) != 2 {
		t.Errorf("entry 1 keywords = %v, want 2 terms", entries[1].Keywords)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader("/nonexistent/catalog.yaml").Load()
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMapEntriesEmptyConfig(t *testing.T) {
	_, err := NewMapper().MapEntries(CatalogConfig{})
	if err == nil {
		t.Error("expected error for empty config")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTestCatalog(t, "categories: [unclosed")
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("expected parse error")
	}
}
