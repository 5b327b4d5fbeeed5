package changelog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Source reads the tables of one snapshot
type Source interface {
	// StringTable loads a localized string table
	StringTable(ctx context.Context, table TableSchema) (StringTable, error)
	// Records loads the records of a record table
	Records(ctx context.Context, table TableSchema) ([]Node, error)
}

// DirSource reads tables from JSON files under a snapshot directory
type DirSource struct {
	Root string
}

// NewDirSource creates a source rooted at a snapshot directory, which must
// exist
func NewDirSource(root string) (*DirSource, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("snapshot directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("snapshot path %s is not a directory", root)
	}
	return &DirSource{Root: root}, nil
}

// StringTable implements Source
func (s *DirSource) StringTable(ctx context.Context, table TableSchema) (StringTable, error) {
	f, err := os.Open(filepath.Join(s.Root, table.Path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := DecodeStringTable(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	return st, nil
}

// Records implements Source
func (s *DirSource) Records(ctx context.Context, table TableSchema) ([]Node, error) {
	f, err := os.Open(filepath.Join(s.Root, table.Path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := DecodeRecords(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	return records, nil
}
