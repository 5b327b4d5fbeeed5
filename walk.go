package changelog

import (
	"strconv"
)

// WalkAction tells Walk how to proceed after visiting a field
type WalkAction uint8

const (
	// Continue descends into the field's children, if it has any
	Continue WalkAction = iota
	// NoDescend treats the field as a leaf, skipping its children
	NoDescend
	// Delete removes the field from the tree being walked. deleted fields are
	// not descended into
	Delete
)

// Field describes a node during a walk
type Field struct {
	// Path addresses the node from the walk root, eg: a.b[2].c
	Path string
	// Basename is the final path segment: a field name, or [i] for array
	// elements
	Basename string
	Node     Node
}

// WalkFunc is called once per node visited by Walk
type WalkFunc func(f *Field) WalkAction

// Walk a tree in top-down (prefix) order. the root itself is not visited,
// only its descendants. object fields are visited in field order, array
// elements in index order
func Walk(root Node, fn WalkFunc) error {
	return walk(root, "", fn, 0)
}

func walk(n Node, path string, fn WalkFunc, depth int) error {
	cmp, ok := n.(Compound)
	if !ok || cmp.Len() == 0 {
		return nil
	}
	if depth >= MaxDepth {
		return ErrMaxDepth
	}

	isArray := n.Type() == NTArray
	// copy, deletes modify the compound's own child list
	children := append([]Node(nil), cmp.Children()...)
	// i tracks the live index of array elements, which shifts on deletes
	i := 0
	for _, ch := range children {
		var chPath, base string
		if isArray {
			base = "[" + strconv.Itoa(i) + "]"
			chPath = path + base
		} else {
			base = ch.Name()
			chPath = JoinPath(path, base)
		}

		switch fn(&Field{Path: chPath, Basename: base, Node: ch}) {
		case Delete:
			cmp.remove(ch.Name())
			continue
		case NoDescend:
		default:
			if err := walk(ch, chPath, fn, depth+1); err != nil {
				return err
			}
		}
		i++
	}
	return nil
}

// JoinPath appends an object field name to a path
func JoinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// indexPaths maps every path in a tree to its node
func indexPaths(root Node) (map[string]Node, error) {
	idx := map[string]Node{}
	err := Walk(root, func(f *Field) WalkAction {
		idx[f.Path] = f.Node
		return Continue
	})
	return idx, err
}
