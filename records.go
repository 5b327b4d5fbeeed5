package changelog

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// QuestCodexTable is excluded from record diffing outright
const QuestCodexTable = "QuestCodexExcelConfigData"

// DefaultHashSuffixes are the field name suffixes marking string-hash
// references
var DefaultHashSuffixes = []string{"TextMapHash", "TextMapHashList"}

// ErrNotObject is returned when a record isn't a JSON object
var ErrNotObject = errors.New("record is not an object")

// TableSchema describes one table of a snapshot
type TableSchema struct {
	// Name identifies the table across snapshots
	Name string `yaml:"name" json:"name" validate:"required"`
	// Path is the table's file, relative to a snapshot root
	Path string `yaml:"path" json:"path" validate:"required"`
	// Language is set for string tables, naming the language they localize
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
	// PrimaryKey names the field identifying a record. tables without one
	// can't be diffed
	PrimaryKey string `yaml:"primary_key,omitempty" json:"primaryKey,omitempty"`
}

// IsStringTable reports weather the table holds localized strings
func (t TableSchema) IsStringTable() bool {
	return t.Language != ""
}

// Eligible reports weather the table takes part in record diffing
func (t TableSchema) Eligible() bool {
	switch {
	case t.IsStringTable(), t.PrimaryKey == "":
		return false
	case strings.HasPrefix(t.Name, "Relation_"), strings.HasPrefix(t.Name, "PlainLineMap"):
		return false
	case t.Name == QuestCodexTable:
		return false
	}
	return true
}

// Schema is the ordered list of tables in a snapshot
type Schema []TableSchema

// StringTables lists tables holding localized strings, in schema order
func (s Schema) StringTables() (tables []TableSchema) {
	for _, t := range s {
		if t.IsStringTable() {
			tables = append(tables, t)
		}
	}
	return tables
}

// RecordTables lists tables eligible for record diffing, in schema order
func (s Schema) RecordTables() (tables []TableSchema) {
	for _, t := range s {
		if t.Eligible() {
			tables = append(tables, t)
		}
	}
	return tables
}

// RecordDiffer compares record tables, cross-referencing string-hash fields
// against string changes
type RecordDiffer struct {
	index        *CompositeIndex
	strings      StringChangelog
	hashSuffixes []string
	logger       *zap.Logger
}

// NewRecordDiffer creates a differ. strings & index may be nil, in which case
// no text changes are reported. only the HashSuffixes & Logger options apply
func NewRecordDiffer(index *CompositeIndex, strings StringChangelog, opts ...Option) *RecordDiffer {
	cfg := newConfig(opts)
	if index == nil {
		index = NewCompositeIndex(strings)
	}
	return &RecordDiffer{
		index:        index,
		strings:      strings,
		hashSuffixes: cfg.HashSuffixes,
		logger:       cfg.Logger,
	}
}

// IsHashReference reports weather a field name marks a string-hash reference
func (rd *RecordDiffer) IsHashReference(basename string) bool {
	for _, suffix := range rd.hashSuffixes {
		if strings.HasSuffix(basename, suffix) {
			return true
		}
	}
	return false
}

// DiffTable compares the records of one table, keyed by primary key field pk.
// records are stripped of obfuscated fields in place
func (rd *RecordDiffer) DiffTable(name, pk string, prev, curr []Node) (*ExcelFileChanges, error) {
	log := rd.logger.With(zap.String("table", name))

	prevMap, err := rd.keyRecords(log, "previous", pk, prev)
	if err != nil {
		return nil, err
	}
	currMap, err := rd.keyRecords(log, "current", pk, curr)
	if err != nil {
		return nil, err
	}

	changes := &ExcelFileChanges{Name: name, ChangeRecordMap: map[string]*ChangeRecord{}}

	for key, rec := range currMap {
		prevRec, ok := prevMap[key]
		if !ok {
			changes.ChangeRecordMap[key] = &ChangeRecord{ChangeType: ChangeAdded, AddedRecord: rec.Value()}
			continue
		}

		fields, err := rd.DiffRecord(prevRec, rec)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", key, err)
		}
		if len(fields) > 0 {
			changes.ChangeRecordMap[key] = &ChangeRecord{ChangeType: ChangeUpdated, UpdatedFields: fields}
		}
	}

	for key, rec := range prevMap {
		if _, ok := currMap[key]; !ok {
			changes.ChangeRecordMap[key] = &ChangeRecord{ChangeType: ChangeRemoved, RemovedRecord: rec.Value()}
		}
	}

	return changes, nil
}

// keyRecords strips & indexes records by primary key. duplicate keys are
// resolved last-write-wins
func (rd *RecordDiffer) keyRecords(log *zap.Logger, side, pk string, records []Node) (map[string]Node, error) {
	keyed := make(map[string]Node, len(records))
	for i, rec := range records {
		obj, ok := rec.(Compound)
		if !ok || rec.Type() != NTObject {
			log.Warn("skipping record", zap.String("snapshot", side), zap.Int("index", i), zap.Error(ErrNotObject))
			continue
		}

		keyNode := obj.Child(pk)
		if keyNode == nil {
			log.Warn("skipping record without primary key", zap.String("snapshot", side), zap.Int("index", i), zap.String("primary_key", pk))
			continue
		}
		key, ok := scalarKey(keyNode)
		if !ok {
			log.Warn("skipping record with non-scalar primary key", zap.String("snapshot", side), zap.Int("index", i), zap.String("primary_key", pk))
			continue
		}

		if err := StripObfuscated(rec); err != nil {
			return nil, fmt.Errorf("%s record %d: %w", side, i, err)
		}
		if _, dup := keyed[key]; dup {
			log.Warn("duplicate primary key, keeping last record", zap.String("snapshot", side), zap.String("key", key))
		}
		keyed[key] = rec
	}
	return keyed, nil
}

// DiffRecord compares two versions of a record, which must already be
// stripped of obfuscated fields. the result is keyed by field path & empty
// when nothing changed
func (rd *RecordDiffer) DiffRecord(prev, curr Node) (map[string]*FieldChange, error) {
	prevIdx, err := indexPaths(prev)
	if err != nil {
		return nil, err
	}

	fields := map[string]*FieldChange{}
	change := func(path string) *FieldChange {
		fc, ok := fields[path]
		if !ok {
			fc = &FieldChange{Path: path}
			fields[path] = fc
		}
		return fc
	}

	// hash references are checked against string changes wherever they sit in
	// curr, whatever became of the field itself
	err = Walk(curr, func(f *Field) WalkAction {
		if rd.IsHashReference(f.Basename) {
			rd.crossReference(f, change)
			return NoDescend
		}
		return Continue
	})
	if err != nil {
		return nil, err
	}

	// visited holds every path of curr. true marks a path whose whole subtree
	// is accounted for, the second pass doesn't look beneath it
	visited := map[string]bool{}

	err = Walk(curr, func(f *Field) WalkAction {
		visited[f.Path] = false
		hashRef := rd.IsHashReference(f.Basename)

		p, ok := prevIdx[f.Path]
		if !ok {
			fc := change(f.Path)
			fc.Type = ChangeAdded
			fc.NewValue = f.Node.Value()
			visited[f.Path] = true
			return NoDescend
		}

		if Equivalent(p, f.Node, ExcludeObfuscated) {
			visited[f.Path] = true
			return NoDescend
		}

		if hashRef || isLeaf(f.Node) || isLeaf(p) || p.Type() != f.Node.Type() {
			fc := change(f.Path)
			fc.Type = ChangeUpdated
			fc.OldValue = p.Value()
			fc.NewValue = f.Node.Value()
			visited[f.Path] = true
			return NoDescend
		}

		// same-typed containers that differ somewhere below
		return Continue
	})
	if err != nil {
		return nil, err
	}

	err = Walk(prev, func(f *Field) WalkAction {
		settled, ok := visited[f.Path]
		if !ok {
			fc := change(f.Path)
			fc.Type = ChangeRemoved
			fc.OldValue = f.Node.Value()
			return NoDescend
		}
		if settled || rd.IsHashReference(f.Basename) {
			return NoDescend
		}
		return Continue
	})
	if err != nil {
		return nil, err
	}

	return fields, nil
}

// crossReference records text changes for every hash a reference field holds
func (rd *RecordDiffer) crossReference(f *Field, change func(path string) *FieldChange) {
	for _, hash := range referencedHashes(f.Node) {
		if !rd.index.WasUpdated(hash) {
			continue
		}
		if tcs := rd.strings.TextChanges(hash); len(tcs) > 0 {
			fc := change(f.Path)
			fc.TextChanges = append(fc.TextChanges, tcs...)
		}
	}
}

// referencedHashes lists the hashes a reference field holds, either a single
// scalar or a list of them
func referencedHashes(n Node) []string {
	if key, ok := scalarKey(n); ok {
		return []string{key}
	}
	if n.Type() != NTArray {
		return nil
	}
	var hashes []string
	for _, ch := range n.(Compound).Children() {
		if key, ok := scalarKey(ch); ok {
			hashes = append(hashes, key)
		}
	}
	return hashes
}
