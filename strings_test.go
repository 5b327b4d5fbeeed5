package changelog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiffStrings(t *testing.T) {
	cases := []struct {
		description string
		prev, curr  StringTable
		expect      *StringChangeSet
	}{
		{"added & removed",
			StringTable{"1": "A", "2": "B"},
			StringTable{"1": "A", "3": "C"},
			&StringChangeSet{
				Added:   map[string]string{"3": "C"},
				Removed: map[string]string{"2": "B"},
				Updated: map[string]TextUpdate{},
			},
		},
		{"updated",
			StringTable{"1": "Old", "2": "Same"},
			StringTable{"1": "New", "2": "Same"},
			&StringChangeSet{
				Added:   map[string]string{},
				Removed: map[string]string{},
				Updated: map[string]TextUpdate{"1": {OldValue: "Old", NewValue: "New"}},
			},
		},
		{"empty previous",
			StringTable{},
			StringTable{"1": "A"},
			&StringChangeSet{
				Added:   map[string]string{"1": "A"},
				Removed: map[string]string{},
				Updated: map[string]TextUpdate{},
			},
		},
		{"nil tables",
			nil,
			nil,
			NewStringChangeSet(),
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			got := DiffStrings(c.prev, c.curr)
			if diff := cmp.Diff(c.expect, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffStringsDisjoint(t *testing.T) {
	prev := StringTable{"1": "a", "2": "b", "3": "c", "4": "d"}
	curr := StringTable{"2": "b", "3": "C", "4": "D", "5": "e"}

	cs := DiffStrings(prev, curr)
	seen := map[string]int{}
	for h := range cs.Added {
		seen[h]++
	}
	for h := range cs.Removed {
		seen[h]++
	}
	for h := range cs.Updated {
		seen[h]++
	}
	for h, n := range seen {
		if n != 1 {
			t.Errorf("hash %s appears in %d change categories", h, n)
		}
	}
	if cs.Len() != 4 {
		t.Errorf("expected 4 changes, got: %d", cs.Len())
	}
}

func TestDecodeStringTable(t *testing.T) {
	st, err := DecodeStringTable(strings.NewReader(`{"1001": "Hello", "1002": 42, "1003": null}`))
	if err != nil {
		t.Fatal(err)
	}
	expect := StringTable{"1001": "Hello", "1002": "42", "1003": ""}
	if diff := cmp.Diff(expect, st); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	bad := []string{`[]`, `null`, `{"1": {"a": 1}}`, `{"1": `}
	for _, b := range bad {
		if _, err := DecodeStringTable(strings.NewReader(b)); err == nil {
			t.Errorf("%s: expected error, got nil", b)
		}
	}
}

func TestStringChangelogTextChanges(t *testing.T) {
	sc := StringChangelog{
		"FR": {Updated: map[string]TextUpdate{"1001": {OldValue: "Vieux", NewValue: "Neuf"}}},
		"EN": {Updated: map[string]TextUpdate{"1001": {OldValue: "Old", NewValue: "New"}}},
		"DE": {Updated: map[string]TextUpdate{"2002": {OldValue: "Alt", NewValue: "Neu"}}},
	}

	if diff := cmp.Diff([]string{"DE", "EN", "FR"}, sc.Languages()); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}

	expect := []TextChange{
		{LanguageCode: "EN", OldValue: "Old", NewValue: "New"},
		{LanguageCode: "FR", OldValue: "Vieux", NewValue: "Neuf"},
	}
	if diff := cmp.Diff(expect, sc.TextChanges("1001")); diff != "" {
		t.Errorf("text changes mismatch (-want +got):\n%s", diff)
	}
	if got := sc.TextChanges("9999"); got != nil {
		t.Errorf("expected no text changes, got: %v", got)
	}
}

func TestCompositeIndex(t *testing.T) {
	sc := StringChangelog{
		"EN": DiffStrings(StringTable{"1": "a", "2": "b"}, StringTable{"1": "A", "3": "c"}),
		"JP": DiffStrings(StringTable{"1": "x", "4": "y"}, StringTable{"1": "x", "4": "Y"}),
		"KR": nil,
	}
	idx := NewCompositeIndex(sc)

	cases := []struct {
		hash                    string
		added, updated, removed bool
	}{
		{"1", false, true, false},
		{"2", false, false, true},
		{"3", true, false, false},
		{"4", false, true, false},
		{"5", false, false, false},
	}
	for _, c := range cases {
		if got := idx.WasAdded(c.hash); got != c.added {
			t.Errorf("WasAdded(%s): want: %t, got: %t", c.hash, c.added, got)
		}
		if got := idx.WasUpdated(c.hash); got != c.updated {
			t.Errorf("WasUpdated(%s): want: %t, got: %t", c.hash, c.updated, got)
		}
		if got := idx.WasRemoved(c.hash); got != c.removed {
			t.Errorf("WasRemoved(%s): want: %t, got: %t", c.hash, c.removed, got)
		}
	}
}
