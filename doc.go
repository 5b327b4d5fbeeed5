// Package changelog computes a structural changelog between two successive
// dumps of a versioned game-data export: a set of record tables ("excel"
// tables, arrays of JSON objects) plus per-language string tables ("text
// maps", objects mapping a numeric hash to localized text).
//
// For every language the string tables are diffed into added, removed and
// updated hashes. Those per-language results are folded into a composite
// index, which the record differ consults whenever it meets a field that
// references the string table by hash. That way a record whose
// TitleTextMapHash stayed the same still reports a change when the text behind
// the hash changed.
//
// Instead of operating on JSON directly, changelog operates on document trees
// built once per record, with three kinds of node:
//   object (ordered key/value pairs)
//   array
//   scalar (string, number, bool, null)
// trees are walked in document order, and addressed with dotted / indexed
// paths like:
//   a.b[2].c
//
// Fields with auto-generated gibberish names (eleven or more upper-case
// letters) carry no meaning between dumps and are stripped from every record
// before comparison.
//
// Computed changelogs are memoized in a Store under their version label. A
// version label is write-once: generating again with the same label returns
// the stored artifacts untouched.
package changelog
