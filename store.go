package changelog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Artifact names a persisted changelog phase
type Artifact string

const (
	// ArtifactStrings is the per-language string changelog
	ArtifactStrings = Artifact("TextMapChangelog")
	// ArtifactExcel is the per-table record changelog
	ArtifactExcel = Artifact("ExcelChangelog")
)

// ArtifactKey is the store key of an artifact for a version label
func ArtifactKey(version string, artifact Artifact) string {
	return string(artifact) + "." + version
}

// Store is an idempotent key-value store for computed changelogs. keys are
// write-once: a stored value means "don't recompute", never "merge with"
type Store interface {
	// Load decodes the value stored under key into v, reporting false if key
	// has no value
	Load(ctx context.Context, key string, v interface{}) (bool, error)
	// Save stores v under key
	Save(ctx context.Context, key string, v interface{}) error
}

// Marshal encodes a stored value
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes a stored value. numbers decode as json.Number, the same
// representation the differ produces, so values survive a round trip
func Unmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// MemStore keeps encoded values in memory
type MemStore struct {
	lk     sync.Mutex
	values map[string][]byte
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{values: map[string][]byte{}}
}

// Load implements Store
func (m *MemStore) Load(ctx context.Context, key string, v interface{}) (bool, error) {
	m.lk.Lock()
	data, ok := m.values[key]
	m.lk.Unlock()
	if !ok {
		return false, nil
	}
	return true, Unmarshal(data, v)
}

// Save implements Store
func (m *MemStore) Save(ctx context.Context, key string, v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	m.lk.Lock()
	m.values[key] = data
	m.lk.Unlock()
	return nil
}

// Has reports weather key has a stored value
func (m *MemStore) Has(key string) bool {
	m.lk.Lock()
	defer m.lk.Unlock()
	_, ok := m.values[key]
	return ok
}

// FileStore keeps each value as a JSON file in a directory: <dir>/<key>.json
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid store key: %q", key)
	}
	return filepath.Join(fs.dir, key+".json"), nil
}

// Load implements Store. a missing file is reported as (false, nil)
func (fs *FileStore) Load(ctx context.Context, key string, v interface{}) (bool, error) {
	path, err := fs.path(key)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// Save implements Store. values are written to a temp file & renamed into
// place, so a crash never leaves a half-written artifact to short-circuit on
func (fs *FileStore) Save(ctx context.Context, key string, v interface{}) error {
	path, err := fs.path(key)
	if err != nil {
		return err
	}
	data, err := Marshal(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, "."+key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
