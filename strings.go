package changelog

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// StringTable maps a string hash to localized text, for one language
type StringTable map[string]string

// DecodeStringTable reads a JSON object of hash → text. non-string values
// (some dumps carry numbers in text maps) are kept as their JSON literal
func DecodeStringTable(r io.Reader) (StringTable, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("expected a JSON object of strings")
	}

	st := make(StringTable, len(raw))
	for hash, v := range raw {
		switch x := v.(type) {
		case string:
			st[hash] = x
		case json.Number:
			st[hash] = x.String()
		case nil:
			st[hash] = ""
		default:
			return nil, fmt.Errorf("hash %s: unexpected text type %T", hash, v)
		}
	}
	return st, nil
}

// StringChangeSet is the difference between two string tables of one
// language. a hash appears in at most one of the three maps
type StringChangeSet struct {
	// hash → current text
	Added map[string]string `json:"added"`
	// hash → previous text
	Removed map[string]string `json:"removed"`
	// hash → previous & current text
	Updated map[string]TextUpdate `json:"updated"`
}

// NewStringChangeSet allocates an empty change set
func NewStringChangeSet() *StringChangeSet {
	return &StringChangeSet{
		Added:   map[string]string{},
		Removed: map[string]string{},
		Updated: map[string]TextUpdate{},
	}
}

// Len is the number of changed hashes
func (cs *StringChangeSet) Len() int {
	return len(cs.Added) + len(cs.Removed) + len(cs.Updated)
}

// DiffStrings compares two string tables. unchanged hashes are omitted
func DiffStrings(prev, curr StringTable) *StringChangeSet {
	cs := NewStringChangeSet()
	for hash, text := range curr {
		old, ok := prev[hash]
		if !ok {
			cs.Added[hash] = text
		} else if old != text {
			cs.Updated[hash] = TextUpdate{OldValue: old, NewValue: text}
		}
	}
	for hash, text := range prev {
		if _, ok := curr[hash]; !ok {
			cs.Removed[hash] = text
		}
	}
	return cs
}

// StringChangelog is the string changes of every language, keyed by language
// code
type StringChangelog map[string]*StringChangeSet

// Languages lists language codes in sorted order
func (sc StringChangelog) Languages() []string {
	langs := make([]string, 0, len(sc))
	for lang := range sc {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// TextChanges lists the per-language text changes for an updated hash, in
// language order
func (sc StringChangelog) TextChanges(hash string) []TextChange {
	var changes []TextChange
	for _, lang := range sc.Languages() {
		cs := sc[lang]
		if cs == nil {
			continue
		}
		if upd, ok := cs.Updated[hash]; ok {
			changes = append(changes, TextChange{
				LanguageCode: lang,
				OldValue:     upd.OldValue,
				NewValue:     upd.NewValue,
			})
		}
	}
	return changes
}

// CompositeIndex is the union of every language's changed hashes. it only
// answers "did any language see this kind of change for this hash"
type CompositeIndex struct {
	Added   map[string]struct{}
	Updated map[string]struct{}
	Removed map[string]struct{}
}

// NewCompositeIndex folds per-language change sets into global hash sets
func NewCompositeIndex(sc StringChangelog) *CompositeIndex {
	idx := &CompositeIndex{
		Added:   map[string]struct{}{},
		Updated: map[string]struct{}{},
		Removed: map[string]struct{}{},
	}
	for _, cs := range sc {
		if cs == nil {
			continue
		}
		for hash := range cs.Added {
			idx.Added[hash] = struct{}{}
		}
		for hash := range cs.Updated {
			idx.Updated[hash] = struct{}{}
		}
		for hash := range cs.Removed {
			idx.Removed[hash] = struct{}{}
		}
	}
	return idx
}

// WasAdded reports weather any language added hash
func (idx *CompositeIndex) WasAdded(hash string) bool {
	_, ok := idx.Added[hash]
	return ok
}

// WasUpdated reports weather any language changed the text of hash
func (idx *CompositeIndex) WasUpdated(hash string) bool {
	_, ok := idx.Updated[hash]
	return ok
}

// WasRemoved reports weather any language removed hash
func (idx *CompositeIndex) WasRemoved(hash string) bool {
	_, ok := idx.Removed[hash]
	return ok
}
