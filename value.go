// Value model: the kind tags and the tagged union over every scalar and
// composite type the wire format can carry.
//
// Kind values are the wire type tags themselves, so the codec never
// translates between an in-memory enum and the encoded byte. Arrays are
// documents whose field names are "0", "1", "2", … — a single composite
// representation distinguished only by the kind tag. The codec and the
// comparator treat both the same; the JSON bridge and the text renderer
// are the only places the distinction matters.
package bcol

import "time"

// Kind identifies the type of a Value. The numeric values are the wire
// type tags of the binary format.
type Kind byte

const (
	KindDouble   Kind = 0x01
	KindString   Kind = 0x02
	KindDocument Kind = 0x03
	KindArray    Kind = 0x04
	KindBinary   Kind = 0x05
	KindBool     Kind = 0x08
	KindDateTime Kind = 0x09
	KindNull     Kind = 0x0A
	KindInt32    Kind = 0x10
	KindInt64    Kind = 0x12
	KindDecimal  Kind = 0x13
)

// String returns the conventional lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDocument:
		return "document"
	case KindArray:
		return "array"
	case KindBinary:
		return "binary"
	case KindBool:
		return "bool"
	case KindDateTime:
		return "datetime"
	case KindNull:
		return "null"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindDecimal:
		return "decimal128"
	}
	return "invalid"
}

// Value is one typed value in a document: a scalar, an embedded
// document, or an array. The zero Value is invalid; use the
// constructors below. Integer payloads are held canonically as int64
// regardless of wire width, so equality never depends on how narrow the
// encoder managed to be.
type Value struct {
	kind Kind
	num  int64 // int32/int64 payload, datetime millis, bool 0/1
	fp   float64
	str  string
	raw  []byte // binary payload
	sub  byte   // binary subtype
	dec  Decimal128
	doc  *Document // document and array children
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	var n int64
	if b {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

// Int32 returns a 32-bit integer value.
func Int32(v int32) Value { return Value{kind: KindInt32, num: int64(v)} }

// Int64 returns a 64-bit integer value.
func Int64(v int64) Value { return Value{kind: KindInt64, num: v} }

// Int returns an integer value in the narrowest wire width that holds v
// losslessly.
func Int(v int64) Value {
	if v >= -1<<31 && v < 1<<31 {
		return Value{kind: KindInt32, num: v}
	}
	return Value{kind: KindInt64, num: v}
}

// Double returns an IEEE-754 double value.
func Double(f float64) Value { return Value{kind: KindDouble, fp: f} }

// String returns a UTF-8 string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// DateTime returns a UTC datetime value. Sub-millisecond precision is
// truncated, not rounded; the wire format carries milliseconds only.
func DateTime(t time.Time) Value {
	return Value{kind: KindDateTime, num: t.UnixMilli()}
}

// DateTimeMillis returns a datetime value from raw milliseconds since
// the Unix epoch.
func DateTimeMillis(ms int64) Value {
	return Value{kind: KindDateTime, num: ms}
}

// Binary returns a binary blob value tagged with a subtype byte. The
// data is not copied; callers must not mutate it afterwards.
func Binary(subtype byte, data []byte) Value {
	return Value{kind: KindBinary, raw: data, sub: subtype}
}

// Decimal returns a 128-bit decimal value.
func Decimal(d Decimal128) Value { return Value{kind: KindDecimal, dec: d} }

// Doc embeds a document as a value. The document is not copied.
func Doc(d *Document) Value { return Value{kind: KindDocument, doc: d} }

// Array returns an array value holding the given elements in order.
func Array(elems ...Value) Value {
	d := &Document{fields: make([]field, 0, len(elems))}
	for i, e := range elems {
		d.fields = append(d.fields, field{name: indexName(i), value: e})
	}
	return Value{kind: KindArray, doc: d}
}

// arrayFromDoc wraps an already index-named document as an array value.
func arrayFromDoc(d *Document) Value { return Value{kind: KindArray, doc: d} }

// Kind reports the type of the value.
func (v Value) Kind() Kind { return v.kind }

// IsComposite reports whether the value is a document or an array.
func (v Value) IsComposite() bool {
	return v.kind == KindDocument || v.kind == KindArray
}

// Str returns the string payload. Valid only for KindString.
func (v Value) Str() string { return v.str }

// Int returns the integer payload, widened to int64. Valid for
// KindInt32 and KindInt64.
func (v Value) Int() int64 { return v.num }

// Float returns the double payload. Valid only for KindDouble.
func (v Value) Float() float64 { return v.fp }

// Bool returns the boolean payload. Valid only for KindBool.
func (v Value) Bool() bool { return v.num != 0 }

// Time returns the datetime payload as a UTC time.Time. Valid only for
// KindDateTime.
func (v Value) Time() time.Time { return time.UnixMilli(v.num).UTC() }

// Millis returns the datetime payload as raw epoch milliseconds.
func (v Value) Millis() int64 { return v.num }

// Decimal returns the decimal128 payload. Valid only for KindDecimal.
func (v Value) Decimal() Decimal128 { return v.dec }

// Binary returns the subtype byte and payload of a binary value. The
// returned slice is the value's backing store; callers must not mutate
// it.
func (v Value) Binary() (subtype byte, data []byte) { return v.sub, v.raw }

// Document returns the composite payload. Valid for KindDocument and
// KindArray; array elements appear as fields named "0", "1", ….
func (v Value) Document() *Document { return v.doc }
