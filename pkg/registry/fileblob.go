package registry

import (
	"encoding/json"
	"os"
	"sync"
)

// FileBlob is a Blob persisted as a single JSON object on disk, keyed the
// same way an in-memory blob is. It gives the CLI a session store that
// survives between runs.
type FileBlob struct {
	mu   sync.Mutex
	path string
}

// NewFileBlob returns a FileBlob backed by the given path. The file is
// created on first Set.
func NewFileBlob(path string) *FileBlob {
	return &FileBlob{path: path}
}

func (b *FileBlob) Get(key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, err := b.read()
	if err != nil {
		return nil, false
	}
	payload, ok := entries[key]
	return payload, ok
}

func (b *FileBlob) Set(key string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, err := b.read()
	if err != nil {
		entries = make(map[string]json.RawMessage)
	}
	entries[key] = append([]byte(nil), payload...)
	encoded, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return
	}
	// Last writer wins, matching the in-memory store's semantics.
	_ = os.WriteFile(b.path, encoded, 0o644)
}

func (b *FileBlob) read() (map[string]json.RawMessage, error) {
	payload, err := os.ReadFile(b.path)
	if err != nil {
		return nil, err
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string]json.RawMessage)
	}
	return entries, nil
}
