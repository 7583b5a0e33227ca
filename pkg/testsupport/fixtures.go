package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// LoadFixture reads a fixture file and fails the test if it is missing.
// Paths are relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON reads a JSON fixture and unmarshals it into dest.
func LoadFixtureJSON(t *testing.T, path string, dest interface{}) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", path, err)
	}
}

// CompareWithGolden checks actual against the golden file at path.
// A missing golden file is seeded with actual so new cases can be
// reviewed and committed.
func CompareWithGolden(t *testing.T, path string, actual []byte) {
	t.Helper()

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Logf("seeding golden file %s", path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir for %s: %v", path, err)
		}
		if err := os.WriteFile(path, actual, 0o644); err != nil {
			t.Fatalf("write golden file %s: %v", path, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("golden mismatch for %s:\nwant:\n%s\ngot:\n%s", path, expected, actual)
	}
}

// FixturePath resolves filename inside the test package's testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}
