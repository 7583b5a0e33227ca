package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixture(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("test fixture content")

	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := LoadFixture(t, testFile)
	if string(result) != string(testContent) {
		t.Errorf("expected %q, got %q", testContent, result)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "payload.json")

	if err := os.WriteFile(testFile, []byte(`{"name":"acme corp"}`), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	var dest struct {
		Name string `json:"name"`
	}
	LoadFixtureJSON(t, testFile, &dest)
	if dest.Name != "acme corp" {
		t.Errorf("expected %q, got %q", "acme corp", dest.Name)
	}
}

func TestCompareWithGolden_CreatesMissing(t *testing.T) {
	tmpDir := t.TempDir()
	golden := filepath.Join(tmpDir, "golden", "out.json")

	CompareWithGolden(t, golden, []byte(`{"ok":true}`))

	data, err := os.ReadFile(golden)
	if err != nil {
		t.Fatalf("expected golden file to be created: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("unexpected golden content: %s", data)
	}
}

func TestFixturePath(t *testing.T) {
	if got := FixturePath("users.json"); got != filepath.Join("testdata", "users.json") {
		t.Errorf("unexpected fixture path: %s", got)
	}
}
