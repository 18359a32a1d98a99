package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultContains(t *testing.T) {
	c := Default()
	for _, want := range []string{"Housing", "Food", "Transportation", "Other"} {
		if !c.Contains(want) {
			t.Fatalf("default set missing %q", want)
		}
	}
	if c.Contains("Yachts") {
		t.Fatalf("set should be closed")
	}
}

func TestLoadFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.toml")
	content := "categories = [\"Rent\", \"Groceries\", \"Fun\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Names(); len(got) != 3 || got[0] != "Rent" {
		t.Fatalf("names = %v", got)
	}
	if c.Contains("Housing") {
		t.Fatalf("override should replace the built-in set")
	}
}

func TestLoadFileEmptyRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.toml")
	if err := os.WriteFile(path, []byte("categories = []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for empty category list")
	}
}

func TestLoadFileOrDefault(t *testing.T) {
	c, err := LoadFileOrDefault("")
	if err != nil || !c.Contains("Food") {
		t.Fatalf("empty path should yield default set, err=%v", err)
	}
	c, err = LoadFileOrDefault("/does/not/exist.toml")
	if err != nil || !c.Contains("Food") {
		t.Fatalf("missing file should yield default set, err=%v", err)
	}
}
