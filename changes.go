package changelog

import (
	"sort"
)

// ChangeType defines the kind of change a record or field went through
type ChangeType string

const (
	// ChangeAdded marks a record or field present only in the current snapshot
	ChangeAdded = ChangeType("added")
	// ChangeRemoved marks a record or field present only in the previous snapshot
	ChangeRemoved = ChangeType("removed")
	// ChangeUpdated marks a record or field present in both snapshots with
	// differing content
	ChangeUpdated = ChangeType("updated")
)

// TextUpdate is a localized string that changed between snapshots
type TextUpdate struct {
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// TextChange is a change in the text a hash-reference field points at, for
// one language
type TextChange struct {
	LanguageCode string `json:"languageCode"`
	OldValue     string `json:"oldValue"`
	NewValue     string `json:"newValue"`
}

// FieldChange describes a change at a single path within a record
type FieldChange struct {
	// Path addresses the field within the record, eg: a.b[2].c
	Path string `json:"path"`
	// Type is empty when only the referenced text changed
	Type ChangeType `json:"type,omitempty"`
	// OldValue is set for removed & updated fields
	OldValue interface{} `json:"oldValue,omitempty"`
	// NewValue is set for added & updated fields
	NewValue interface{} `json:"newValue,omitempty"`
	// TextChanges lists languages where text referenced by this field changed
	TextChanges []TextChange `json:"textChanges,omitempty"`
}

// HasOldValue reports weather the field existed in the previous snapshot
// with a different value
func (fc *FieldChange) HasOldValue() bool {
	return fc.Type == ChangeRemoved || fc.Type == ChangeUpdated
}

// HasNewValue reports weather the field exists in the current snapshot with
// a different value
func (fc *FieldChange) HasNewValue() bool {
	return fc.Type == ChangeAdded || fc.Type == ChangeUpdated
}

// ChangeRecord is the change to one record, identified by primary key
type ChangeRecord struct {
	ChangeType    ChangeType              `json:"changeType"`
	AddedRecord   interface{}             `json:"addedRecord,omitempty"`
	RemovedRecord interface{}             `json:"removedRecord,omitempty"`
	UpdatedFields map[string]*FieldChange `json:"updatedFields,omitempty"`
}

// ExcelFileChanges holds all record changes of one table, keyed by primary key
type ExcelFileChanges struct {
	Name            string                   `json:"name"`
	ChangeRecordMap map[string]*ChangeRecord `json:"changeRecordMap"`
}

// ExcelChangelog is the record changes of every diffed table, keyed by table
// name
type ExcelChangelog map[string]*ExcelFileChanges

// TableNames lists tables in sorted order
func (ec ExcelChangelog) TableNames() []string {
	names := make([]string, 0, len(ec))
	for name := range ec {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Changelog is the full result of comparing two snapshots
type Changelog struct {
	Version string          `json:"version"`
	Strings StringChangelog `json:"strings"`
	Excel   ExcelChangelog  `json:"excel"`
}
