// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCitingAuthors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.json")
	checkpoint := `{
		"ARXIV:1": {"year": 2015, "citing_authors": [30, 10]},
		"ARXIV:2": {"year": 2016, "citing_authors": [10, 200]},
		"ARXIV:3": null,
		"ARXIV:4": {"year": 2017, "citing_authors": []}
	}`
	if err := os.WriteFile(path, []byte(checkpoint), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := CitingAuthors(path)
	if err != nil {
		t.Fatalf("CitingAuthors: %v", err)
	}

	// Union across papers, deduplicated, ascending.
	want := []string{"10", "30", "200"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CitingAuthors = %v, want %v", got, want)
	}
}

func TestCitingAuthorsMissingCheckpoint(t *testing.T) {
	if _, err := CitingAuthors(filepath.Join(t.TempDir(), "papers.json")); err == nil {
		t.Error("expected error for missing papers checkpoint")
	}
}

func TestCitingAuthorsCorruptCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.json")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CitingAuthors(path); err == nil {
		t.Error("expected error for corrupt papers checkpoint")
	}
}
