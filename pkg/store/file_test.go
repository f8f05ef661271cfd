package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/CTAG07/markovkit/pkg/chain"
)

func TestFileSnapshotRoundTrip(t *testing.T) {
	doc := testDocument(t)
	path := filepath.Join(t.TempDir(), "chain.json")

	if err := SaveFile(path, doc); err != nil {
		t.Fatalf("SaveFile() failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if !reflect.DeepEqual(doc, loaded) {
		t.Errorf("loaded snapshot differs from saved:\nsaved:  %+v\nloaded: %+v", doc, loaded)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not a chain"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if !errors.Is(err, chain.ErrMalformedInput) {
		t.Errorf("expected chain.ErrMalformedInput, got %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("expected an error for a missing snapshot file")
	}
}
