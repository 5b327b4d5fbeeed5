package changelog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// NodeType defines all of the atoms in our universe, or the types of data we
// will encounter while walking a record
type NodeType uint8

const (
	// NTUnknown defines a type outside our universe, should never be encountered
	NTUnknown NodeType = iota
	// NTObject is an ordered dictionary of key / value pairs
	NTObject
	// NTArray is an ordered list of values
	NTArray
	// NTString is a text scalar
	NTString
	// NTNumber is a numeric scalar, kept as its JSON literal
	NTNumber
	// NTBool is a boolean scalar
	NTBool
	// NTNull is JSON null
	NTNull
)

func (nt NodeType) String() string {
	switch nt {
	case NTObject:
		return "Object"
	case NTArray:
		return "Array"
	case NTString:
		return "String"
	case NTNumber:
		return "Number"
	case NTBool:
		return "Bool"
	case NTNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// MaxDepth caps nesting of a tree. records are trees, so this only ever trips
// on pathological input
const MaxDepth = 512

// Node represents a value in a record tree
type Node interface {
	Type() NodeType
	// the name this parent has given this node. for arrays this'll be the string
	// value of this node's index, for objects this will be the key
	Name() string
	// assign this node's name, only needs to be used when re-indexing array
	// elements after a deletion
	SetName(string)
	// this node's parent, if one exists
	Parent() Node
	// Value exports the node (and any children) as native go values:
	// map[string]interface{}, []interface{}, json.Number, string, bool or nil
	Value() interface{}
}

// Compound represents a data type that can contain children
// basically objects & arrays
type Compound interface {
	Node
	// list children, objects list in field order
	Children() []Node
	// get a child by name, nil if no such child exists
	Child(name string) Node
	// number of children
	Len() int

	remove(name string)
}

type object struct {
	name   string
	parent Node

	keys     []string
	children map[string]Node
}

func newObject(name string, parent Node) *object {
	return &object{name: name, parent: parent, children: map[string]Node{}}
}

func (o object) Type() NodeType       { return NTObject }
func (o object) Name() string         { return o.name }
func (o *object) SetName(name string) { o.name = name }
func (o object) Parent() Node         { return o.parent }
func (o object) Len() int             { return len(o.keys) }
func (o object) Children() []Node {
	nodes := make([]Node, len(o.keys))
	for i, key := range o.keys {
		nodes[i] = o.children[key]
	}
	return nodes
}
func (o object) Child(name string) Node { return o.children[name] }
func (o object) Value() interface{} {
	v := make(map[string]interface{}, len(o.keys))
	for _, key := range o.keys {
		v[key] = o.children[key].Value()
	}
	return v
}

// set adds or replaces a field. replaced fields keep their original position,
// the way a JSON decoder treats duplicate keys
func (o *object) set(key string, n Node) {
	if _, ok := o.children[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.children[key] = n
}

func (o *object) remove(name string) {
	if _, ok := o.children[name]; !ok {
		return
	}
	delete(o.children, name)
	for i, key := range o.keys {
		if key == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

type array struct {
	name   string
	parent Node

	children []Node
}

func (c array) Type() NodeType       { return NTArray }
func (c array) Name() string         { return c.name }
func (c *array) SetName(name string) { c.name = name }
func (c array) Parent() Node         { return c.parent }
func (c array) Len() int             { return len(c.children) }
func (c array) Children() []Node     { return c.children }
func (c array) Child(name string) Node {
	i, err := strconv.Atoi(name)
	if err != nil || i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}
func (c array) Value() interface{} {
	v := make([]interface{}, len(c.children))
	for i, ch := range c.children {
		v[i] = ch.Value()
	}
	return v
}

// remove drops the element at index name, renaming later elements so names
// stay equal to indexes
func (c *array) remove(name string) {
	idx, err := strconv.Atoi(name)
	if err != nil || idx < 0 || idx >= len(c.children) {
		return
	}
	c.children = append(c.children[:idx], c.children[idx+1:]...)
	for i := idx; i < len(c.children); i++ {
		c.children[i].SetName(strconv.Itoa(i))
	}
}

type scalar struct {
	t      NodeType
	name   string
	parent Node
	value  interface{}
}

func (s scalar) Type() NodeType       { return s.t }
func (s scalar) Name() string         { return s.name }
func (s *scalar) SetName(name string) { s.name = name }
func (s scalar) Parent() Node         { return s.parent }
func (s scalar) Value() interface{}   { return s.value }

// NewTree builds a tree from native go values, as produced by decoding JSON
// into an interface{}. go maps carry no order, so object keys are sorted
func NewTree(v interface{}) (Node, error) {
	return tree(v, "", nil, 0)
}

func tree(v interface{}, name string, parent Node, depth int) (n Node, err error) {
	if depth > MaxDepth {
		return nil, ErrMaxDepth
	}

	switch x := v.(type) {
	case nil:
		n = &scalar{t: NTNull, name: name, parent: parent}
	case json.Number:
		n = &scalar{t: NTNumber, name: name, parent: parent, value: x}
	case float64:
		n = &scalar{t: NTNumber, name: name, parent: parent, value: json.Number(strconv.FormatFloat(x, 'f', -1, 64))}
	case int:
		n = &scalar{t: NTNumber, name: name, parent: parent, value: json.Number(strconv.Itoa(x))}
	case int64:
		n = &scalar{t: NTNumber, name: name, parent: parent, value: json.Number(strconv.FormatInt(x, 10))}
	case uint64:
		n = &scalar{t: NTNumber, name: name, parent: parent, value: json.Number(strconv.FormatUint(x, 10))}
	case string:
		n = &scalar{t: NTString, name: name, parent: parent, value: x}
	case bool:
		n = &scalar{t: NTBool, name: name, parent: parent, value: x}
	case []interface{}:
		arr := &array{name: name, parent: parent, children: make([]Node, len(x))}
		for i, v := range x {
			if arr.children[i], err = tree(v, strconv.Itoa(i), arr, depth+1); err != nil {
				return nil, err
			}
		}
		n = arr
	case map[string]interface{}:
		obj := newObject(name, parent)

		// gotta sort keys for a stable field order :(
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			ch, err := tree(x[name], name, obj, depth+1)
			if err != nil {
				return nil, err
			}
			obj.set(name, ch)
		}
		n = obj
	default:
		return nil, fmt.Errorf("unexpected type: %T", v)
	}

	return n, nil
}

// isLeaf reports weather a node has no children to descend into
func isLeaf(n Node) bool {
	cmp, ok := n.(Compound)
	return !ok || cmp.Len() == 0
}

// scalarKey renders a scalar as a map key. numbers keep their JSON literal
func scalarKey(n Node) (string, bool) {
	switch n.Type() {
	case NTString:
		return n.Value().(string), true
	case NTNumber:
		return n.Value().(json.Number).String(), true
	case NTBool:
		return strconv.FormatBool(n.Value().(bool)), true
	default:
		return "", false
	}
}
