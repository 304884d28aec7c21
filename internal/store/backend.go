package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultPath is the default location of the persisted document.
const DefaultPath = "job_status.json"

// Backend reads and writes the whole persisted document.
type Backend interface {
	// Read returns the document bytes, or ErrNoDocument when nothing was persisted yet.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the document with data.
	Write(ctx context.Context, data []byte) error
}

// FileBackend persists the document to a single JSON file.
type FileBackend struct {
	Path string
}

// NewFileBackend creates a file backend, defaulting to DefaultPath.
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultPath
	}
	return &FileBackend{Path: path}
}

// Read implements Backend.
func (b *FileBackend) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("failed to read %s: %w", b.Path, err)
	}
	return data, nil
}

// Write implements Backend. The document is written to a temp file in the same
// directory and renamed over the target, so a crash never leaves a truncated file.
func (b *FileBackend) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.Path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.Path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", b.Path, err)
	}
	return nil
}

// MemoryBackend keeps the document in memory. Used in tests and dry runs.
type MemoryBackend struct {
	mu     sync.Mutex
	data   []byte
	writes int
	// FailWrites makes every Write return an error.
	FailWrites bool
}

// NewMemoryBackend creates a backend, optionally seeded with an existing document.
func NewMemoryBackend(seed []byte) *MemoryBackend {
	return &MemoryBackend{data: seed}
}

// Read implements Backend.
func (m *MemoryBackend) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNoDocument
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Write implements Backend.
func (m *MemoryBackend) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errors.New("memory backend: write refused")
	}
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.writes++
	return nil
}

// Writes returns how many times the document was written.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Bytes returns a copy of the current document.
func (m *MemoryBackend) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}
