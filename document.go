// Document: an ordered sequence of named fields.
//
// Field order is significant — it is preserved by the codec and it is
// what the comparator walks. A document built here is immutable by
// contract once encoded or handed to another operation; Set and Delete
// in set.go produce new documents rather than mutating.
package bcol

import (
	"iter"
	"strconv"
)

// Document is an ordered list of (name, value) pairs. The zero value is
// an empty document; NewDocument is provided for builder-style chains.
type Document struct {
	fields []field
}

type field struct {
	name  string
	value Value
}

// NewDocument returns an empty document ready for Append chains.
func NewDocument() *Document { return &Document{} }

// Append adds a field and returns the document for chaining. Names are
// not checked here; Encode rejects names containing a NUL byte and
// Decode rejects duplicates.
func (d *Document) Append(name string, v Value) *Document {
	d.fields = append(d.fields, field{name: name, value: v})
	return d
}

// Len returns the number of fields.
func (d *Document) Len() int { return len(d.fields) }

// Name returns the name of the i-th field.
func (d *Document) Name(i int) string { return d.fields[i].name }

// Index returns the value of the i-th field.
func (d *Document) Index(i int) Value { return d.fields[i].value }

// Fields yields the fields in document order.
func (d *Document) Fields() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, f := range d.fields {
			if !yield(f.name, f.value) {
				return
			}
		}
	}
}

// value returns the first field with the given name. Duplicate names
// only arise when decoding with AllowDuplicateNames; the first match
// wins, mirroring iterator-based lookup in the reference format.
func (d *Document) value(name string) (Value, bool) {
	for _, f := range d.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return Value{}, false
}

// indexName returns the field name an array uses for element i. Index 0
// is the literal key "0" — a string key, never an integer.
func indexName(i int) string { return strconv.Itoa(i) }

// copyShallow returns a new document sharing this one's values but with
// its own field slice, so the copy can be modified structurally without
// touching the original.
func (d *Document) copyShallow() *Document {
	nd := &Document{fields: make([]field, len(d.fields))}
	copy(nd.fields, d.fields)
	return nd
}
