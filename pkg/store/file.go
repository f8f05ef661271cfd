package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"github.com/CTAG07/markovkit/pkg/chain"
)

// SaveFile writes a serialized chain to a file as indented JSON. The write
// is atomic: the file is replaced in one step, so a crash mid-write never
// leaves a truncated snapshot behind.
func SaveFile(path string, doc *chain.Document) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("could not encode chain snapshot: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("could not write chain snapshot to %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a chain snapshot written by SaveFile (or any text produced
// by Serialize). It fails with chain.ErrMalformedInput when the contents do
// not parse as a chain document.
func LoadFile(path string) (*chain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read chain snapshot from %s: %w", path, err)
	}
	return chain.ParseDocument(data)
}
