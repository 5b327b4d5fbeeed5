package changelog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsObfuscated(t *testing.T) {
	cases := []struct {
		basename string
		expect   bool
	}{
		{"ABCDEFGHIJK", true},
		{"ABCDEFGHIJKLMNOP", true},
		{"ABCDEFGHIJ", false},
		{"ABCDEFGHIJk", false},
		{"ABCDEFGHIJ1", false},
		{"ABCDE_FGHIJ", false},
		{"TitleTextMapHash", false},
		{"[0]", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsObfuscated(c.basename); got != c.expect {
			t.Errorf("IsObfuscated(%q): want: %t, got: %t", c.basename, c.expect, got)
		}
	}
}

func TestStripObfuscated(t *testing.T) {
	n := mustParse(t, `{
		"id": 1,
		"ABCDEFGHIJK": 2,
		"nested": {"PQRSTUVWXYZ": {"a": 1}, "keep": true},
		"list": [{"MNOPQRSTUVW": 3, "x": 4}]
	}`)
	if err := StripObfuscated(n); err != nil {
		t.Fatal(err)
	}

	expect := mustParse(t, `{"id": 1, "nested": {"keep": true}, "list": [{"x": 4}]}`).Value()
	if diff := cmp.Diff(expect, n.Value()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestEquivalent(t *testing.T) {
	cases := []struct {
		description string
		a, b        string
		exclude     ExcludeFunc
		expect      bool
	}{
		{"equal scalars", `1`, `1`, nil, true},
		{"number literals", `1.0`, `1`, nil, true},
		{"different numbers", `1`, `2`, nil, false},
		{"different types", `1`, `"1"`, nil, false},
		{"null & null", `null`, `null`, nil, true},
		{"null & object", `null`, `{}`, nil, false},
		{"bools", `true`, `false`, nil, false},
		{"strings", `"a"`, `"a"`, nil, true},
		{"key order doesn't matter", `{"a": 1, "b": 2}`, `{"b": 2, "a": 1}`, nil, true},
		{"extra key", `{"a": 1}`, `{"a": 1, "b": 2}`, nil, false},
		{"missing key", `{"a": 1, "b": 2}`, `{"a": 1}`, nil, false},
		{"different keys same count", `{"a": 1}`, `{"b": 1}`, nil, false},
		{"array order matters", `[1, 2]`, `[2, 1]`, nil, false},
		{"array length", `[1, 2]`, `[1, 2, 3]`, nil, false},
		{"nested", `{"a": [{"b": [1]}]}`, `{"a": [{"b": [1]}]}`, nil, true},
		{"nested difference", `{"a": [{"b": [1]}]}`, `{"a": [{"b": [2]}]}`, nil, false},
		{"obfuscated value differs",
			`{"a": 1, "ABCDEFGHIJK": 1}`, `{"a": 1, "ABCDEFGHIJK": 2}`,
			ExcludeObfuscated, true},
		{"obfuscated key on one side",
			`{"a": 1, "ABCDEFGHIJK": 1}`, `{"a": 1}`,
			ExcludeObfuscated, true},
		{"obfuscated key nested on other side",
			`{"a": {"b": 1}}`, `{"a": {"b": 1, "ABCDEFGHIJK": [1]}}`,
			ExcludeObfuscated, true},
		{"obfuscated doesn't hide real changes",
			`{"a": 1, "ABCDEFGHIJK": 1}`, `{"a": 2}`,
			ExcludeObfuscated, false},
		{"obfuscated without exclude",
			`{"a": 1, "ABCDEFGHIJK": 1}`, `{"a": 1}`,
			nil, false},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			a, b := mustParse(t, c.a), mustParse(t, c.b)
			if got := Equivalent(a, b, c.exclude); got != c.expect {
				t.Errorf("want: %t, got: %t", c.expect, got)
			}
			// equivalence is symmetric
			if got := Equivalent(b, a, c.exclude); got != c.expect {
				t.Errorf("reversed: want: %t, got: %t", c.expect, got)
			}
		})
	}
}

func TestEquivalentNil(t *testing.T) {
	if !Equivalent(nil, nil, nil) {
		t.Error("expected nil trees to be equivalent")
	}
	if Equivalent(mustParse(t, `1`), nil, nil) {
		t.Error("expected tree & nil to differ")
	}
}
