package changelog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	// ErrMaxDepth is returned when a document nests deeper than MaxDepth
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
	// ErrNotArray is returned when a record table isn't a JSON array
	ErrNotArray = errors.New("expected a JSON array of records")
)

// ParseJSON decodes a single JSON document into a tree, keeping object fields
// in document order and numbers as their exact literal
func ParseJSON(data []byte) (Node, error) {
	return DecodeJSON(bytes.NewReader(data))
}

// DecodeJSON reads a single JSON document from r into a tree
func DecodeJSON(r io.Reader) (Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	n, err := decodeValue(dec, tok, "", nil, 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return n, nil
}

// DecodeRecords reads a JSON array of records, returning one tree per element.
// each record is a root: it has no parent and an empty name
func DecodeRecords(r io.Reader) ([]Node, error) {
	root, err := DecodeJSON(r)
	if err != nil {
		return nil, err
	}
	arr, ok := root.(*array)
	if !ok {
		return nil, ErrNotArray
	}

	records := arr.children
	for _, rec := range records {
		detach(rec)
	}
	return records, nil
}

func detach(n Node) {
	n.SetName("")
	switch x := n.(type) {
	case *object:
		x.parent = nil
	case *array:
		x.parent = nil
	case *scalar:
		x.parent = nil
	}
}

func decodeValue(dec *json.Decoder, tok json.Token, name string, parent Node, depth int) (Node, error) {
	if depth > MaxDepth {
		return nil, ErrMaxDepth
	}

	switch x := tok.(type) {
	case nil:
		return &scalar{t: NTNull, name: name, parent: parent}, nil
	case bool:
		return &scalar{t: NTBool, name: name, parent: parent, value: x}, nil
	case json.Number:
		return &scalar{t: NTNumber, name: name, parent: parent, value: x}, nil
	case string:
		return &scalar{t: NTString, name: name, parent: parent, value: x}, nil
	case json.Delim:
		switch x {
		case '{':
			obj := newObject(name, parent)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("invalid object key: %v", keyTok)
				}
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				ch, err := decodeValue(dec, valTok, key, obj, depth+1)
				if err != nil {
					return nil, err
				}
				obj.set(key, ch)
			}
			// consume closing '}'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := &array{name: name, parent: parent, children: []Node{}}
			for i := 0; dec.More(); i++ {
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				ch, err := decodeValue(dec, valTok, strconv.Itoa(i), arr, depth+1)
				if err != nil {
					return nil, err
				}
				arr.children = append(arr.children, ch)
			}
			// consume closing ']'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
	}
	return nil, fmt.Errorf("unexpected token: %v", tok)
}
