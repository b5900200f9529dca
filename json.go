// JSON tree bridge: conversion between documents and the host's
// generic JSON value model.
//
// Tree is the JSON side — nil, bool, json.Number, string, []Tree, and
// Object, an order-preserving member list (plain maps would scramble
// field order and the codec guarantees it). Document-to-tree uses the
// same extended JSON markers as the text form, so decimals, dates and
// binaries survive where generic JSON has no type for them; tree-to-
// document recognizes those markers and decodes everything else as
// ordinary embedded values.
//
// Arrays cross the bridge in their native positional form. GetArray is
// the second access path to the same internal array: Lookup addresses
// element 0 as the string key "0", GetArray as integer index 0. Both
// views are intentional; they mirror the two external representations
// the host exposes.
package bcol

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Tree is a generic JSON value: nil, bool, json.Number, string, []Tree
// or Object.
type Tree any

// Object is a JSON object with preserved member order.
type Object []Member

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Tree
}

// MarshalJSON renders the object with its members in order.
func (o Object) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, m := range o {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendJSONString(buf, m.Key)
		buf = append(buf, ':')
		b, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return append(buf, '}'), nil
}

// get returns the member value for a key, for marker inspection.
func (o Object) get(key string) (Tree, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Tree converts the document to its JSON tree form.
func (d *Document) Tree() Tree { return docTree(d) }

// GetArray returns the array at path in native positional form, each
// element converted to its JSON tree representation.
func (d *Document) GetArray(path string) ([]Tree, bool) {
	v, ok := d.lookupKind(path, KindArray)
	if !ok {
		return nil, false
	}
	out := make([]Tree, 0, len(v.doc.fields))
	for _, f := range v.doc.fields {
		out = append(out, valueTree(f.value))
	}
	return out, true
}

// FromTree converts a JSON tree object back to a document,
// reconstructing typed values from extended JSON markers.
func FromTree(o Object) (*Document, error) {
	d := &Document{fields: make([]field, 0, len(o))}
	for _, m := range o {
		v, err := treeValue(m.Value)
		if err != nil {
			return nil, err
		}
		d.fields = append(d.fields, field{name: m.Key, value: v})
	}
	return d, nil
}

func docTree(d *Document) Object {
	o := make(Object, 0, len(d.fields))
	for _, f := range d.fields {
		o = append(o, Member{Key: f.name, Value: valueTree(f.value)})
	}
	return o
}

func valueTree(v Value) Tree {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.num != 0
	case KindInt32, KindInt64:
		return json.Number(strconv.FormatInt(v.num, 10))
	case KindDouble:
		s := formatDouble(v.fp)
		switch s {
		case "NaN", "Infinity", "-Infinity":
			return Object{{Key: "$numberDouble", Value: s}}
		}
		return json.Number(s)
	case KindString:
		return v.str
	case KindDecimal:
		return Object{{Key: "$numberDecimal", Value: v.dec.String()}}
	case KindDateTime:
		t := v.Time()
		if v.num >= 0 && t.Year() <= 9999 {
			return Object{{Key: "$date", Value: t.Format(dateLayout)}}
		}
		return Object{{Key: "$date", Value: Object{{
			Key: "$numberLong", Value: strconv.FormatInt(v.num, 10),
		}}}}
	case KindBinary:
		return Object{{Key: "$binary", Value: Object{
			{Key: "base64", Value: base64.StdEncoding.EncodeToString(v.raw)},
			{Key: "subType", Value: hex.EncodeToString([]byte{v.sub})},
		}}}
	case KindDocument:
		return docTree(v.doc)
	case KindArray:
		out := make([]Tree, 0, len(v.doc.fields))
		for _, f := range v.doc.fields {
			out = append(out, valueTree(f.value))
		}
		return out
	}
	return nil
}

// treeValue converts one JSON tree node to a value. Single-member
// objects whose key is a registered type marker decode as the typed
// scalar; anything else decodes structurally.
func treeValue(t Tree) (Value, error) {
	switch x := t.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		return numberValue(x)
	case []Tree:
		elems := make([]Value, 0, len(x))
		for _, e := range x {
			v, err := treeValue(e)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Array(elems...), nil
	case Object:
		if v, ok, err := markerValue(x); ok || err != nil {
			return v, err
		}
		d, err := FromTree(x)
		if err != nil {
			return Value{}, err
		}
		return Doc(d), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported tree node %T", ErrInvalidJSON, t)
}

// markerValue decodes the extended JSON marker conventions. ok is false
// when the object is not a recognized marker and should decode as an
// ordinary embedded document.
func markerValue(o Object) (Value, bool, error) {
	if len(o) != 1 {
		return Value{}, false, nil
	}
	m := o[0]
	switch m.Key {
	case "$numberDecimal":
		s, ok := m.Value.(string)
		if !ok {
			return Value{}, false, nil
		}
		dec, err := ParseDecimal(s)
		if err != nil {
			return Value{}, true, fmt.Errorf("%w: $numberDecimal: %v", ErrInvalidJSON, err)
		}
		return Decimal(dec), true, nil
	case "$numberInt":
		s, ok := m.Value.(string)
		if !ok {
			return Value{}, false, nil
		}
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Value{}, true, fmt.Errorf("%w: $numberInt %q", ErrInvalidJSON, s)
		}
		return Int32(int32(n)), true, nil
	case "$numberLong":
		s, ok := m.Value.(string)
		if !ok {
			return Value{}, false, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, true, fmt.Errorf("%w: $numberLong %q", ErrInvalidJSON, s)
		}
		return Int64(n), true, nil
	case "$numberDouble":
		s, ok := m.Value.(string)
		if !ok {
			return Value{}, false, nil
		}
		f, err := parseDoubleText(s)
		if err != nil {
			return Value{}, true, fmt.Errorf("%w: $numberDouble %q", ErrInvalidJSON, s)
		}
		return Double(f), true, nil
	case "$date":
		switch dv := m.Value.(type) {
		case string:
			ts, err := time.Parse(time.RFC3339Nano, dv)
			if err != nil {
				return Value{}, true, fmt.Errorf("%w: $date %q", ErrInvalidJSON, dv)
			}
			return DateTime(ts), true, nil
		case Object:
			if inner, ok := dv.get("$numberLong"); ok && len(dv) == 1 {
				if s, ok := inner.(string); ok {
					ms, err := strconv.ParseInt(s, 10, 64)
					if err != nil {
						return Value{}, true, fmt.Errorf("%w: $date %q", ErrInvalidJSON, s)
					}
					return DateTimeMillis(ms), true, nil
				}
			}
		}
		return Value{}, false, nil
	case "$binary":
		body, ok := m.Value.(Object)
		if !ok {
			return Value{}, false, nil
		}
		b64, okB := body.get("base64")
		st, okS := body.get("subType")
		if !okB || !okS || len(body) != 2 {
			return Value{}, false, nil
		}
		b64s, ok1 := b64.(string)
		sts, ok2 := st.(string)
		if !ok1 || !ok2 {
			return Value{}, false, nil
		}
		data, err := base64.StdEncoding.DecodeString(b64s)
		if err != nil {
			return Value{}, true, fmt.Errorf("%w: $binary base64: %v", ErrInvalidJSON, err)
		}
		sub, err := hex.DecodeString(sts)
		if err != nil || len(sub) != 1 {
			return Value{}, true, fmt.Errorf("%w: $binary subType %q", ErrInvalidJSON, sts)
		}
		return Binary(sub[0], data), true, nil
	}
	return Value{}, false, nil
}

// numberValue maps a JSON number to the narrowest lossless kind:
// int32, then int64, then double.
func numberValue(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(v), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: number %q", ErrInvalidJSON, s)
	}
	return Double(f), nil
}

func parseDoubleText(s string) (float64, error) {
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseTree reads JSON text into an order-preserving tree.
func parseTree(text []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	t, err := readValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after value", ErrInvalidJSON)
	}
	return t, nil
}

func readValue(dec *json.Decoder) (Tree, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return readToken(dec, tok)
}

func readToken(dec *json.Decoder, tok json.Token) (Tree, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var obj Object
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyTok)
				}
				val, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				obj = append(obj, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return nil, err
			}
			if obj == nil {
				obj = Object{}
			}
			return obj, nil
		case '[':
			arr := []Tree{}
			for dec.More() {
				val, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case nil, bool, string, json.Number:
		return t, nil
	}
	return nil, fmt.Errorf("unexpected token %T", tok)
}
