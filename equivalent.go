package changelog

import (
	"encoding/json"
	"strconv"
)

// obfuscatedMinLen is the shortest field name considered auto-generated
const obfuscatedMinLen = 11

// ExcludeFunc reports fields to leave out of a comparison
type ExcludeFunc func(f *Field) bool

// IsObfuscated reports weather a field name is an auto-generated, meaningless
// identifier: at least eleven characters, all of them upper-case letters
func IsObfuscated(basename string) bool {
	if len(basename) < obfuscatedMinLen {
		return false
	}
	for i := 0; i < len(basename); i++ {
		if c := basename[i]; c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// ExcludeObfuscated is an ExcludeFunc dropping obfuscated fields
func ExcludeObfuscated(f *Field) bool {
	return IsObfuscated(f.Basename)
}

// StripObfuscated deletes every obfuscated field from a tree
func StripObfuscated(root Node) error {
	return Walk(root, func(f *Field) WalkAction {
		if IsObfuscated(f.Basename) {
			return Delete
		}
		return Continue
	})
}

// Equivalent deep-compares two trees. arrays must match element for element,
// objects must have the same keys once excluded fields are dropped at every
// level. a nil exclude compares every field
func Equivalent(a, b Node, exclude ExcludeFunc) bool {
	return equivalent(a, b, "", exclude)
}

func equivalent(a, b Node, path string, exclude ExcludeFunc) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Type() {
	case NTNull:
		return true
	case NTNumber:
		return numbersEqual(a.Value().(json.Number), b.Value().(json.Number))
	case NTString:
		return a.Value().(string) == b.Value().(string)
	case NTBool:
		return a.Value().(bool) == b.Value().(bool)
	case NTArray:
		ac, bc := a.(Compound).Children(), b.(Compound).Children()
		if len(ac) != len(bc) {
			return false
		}
		for i := range ac {
			base := "[" + strconv.Itoa(i) + "]"
			// excluded elements are skipped pairwise, positions stay aligned
			if exclude != nil && exclude(&Field{Path: path + base, Basename: base, Node: ac[i]}) {
				continue
			}
			if !equivalent(ac[i], bc[i], path+base, exclude) {
				return false
			}
		}
		return true
	case NTObject:
		ao, bo := a.(Compound), b.(Compound)
		seen := 0
		for _, ach := range ao.Children() {
			name := ach.Name()
			chPath := JoinPath(path, name)
			if exclude != nil && exclude(&Field{Path: chPath, Basename: name, Node: ach}) {
				continue
			}
			bch := bo.Child(name)
			if bch == nil || !equivalent(ach, bch, chPath, exclude) {
				return false
			}
			seen++
		}
		// any included key in b that a lacks breaks equality
		for _, bch := range bo.Children() {
			name := bch.Name()
			if exclude != nil && exclude(&Field{Path: JoinPath(path, name), Basename: name, Node: bch}) {
				continue
			}
			seen--
		}
		return seen == 0
	}
	return false
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	af, aerr := a.Float64()
	bf, berr := b.Float64()
	return aerr == nil && berr == nil && af == bf
}
