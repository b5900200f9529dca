// Dotted-path navigation and typed field retrieval.
//
// A path like "data.payments.0.amt" descends left to right; array
// indexes are ordinary segments because array element names are the
// decimal strings "0", "1", …. Absence is a first-class outcome:
// a missing field, an out-of-range index, a scalar where a composite is
// needed, or a value of the wrong type all report ok=false. Nothing
// here returns an error — SQL NULL semantics at the column boundary
// depend on absence never being a failure.
package bcol

import (
	"strings"
	"time"
)

// Lookup resolves a dotted path to the value it names.
func (d *Document) Lookup(path string) (Value, bool) {
	if path == "" {
		return Value{}, false
	}
	cur := Doc(d)
	for seg := range strings.SplitSeq(path, ".") {
		if !cur.IsComposite() {
			return Value{}, false
		}
		v, ok := cur.doc.value(seg)
		if !ok {
			return Value{}, false
		}
		cur = v
	}
	return cur, true
}

// lookupKind resolves a path and additionally requires an exact kind.
// Type mismatch degrades to absence, identical to a missing field.
func (d *Document) lookupKind(path string, k Kind) (Value, bool) {
	v, ok := d.Lookup(path)
	if !ok || v.kind != k {
		return Value{}, false
	}
	return v, true
}

// GetString returns the UTF-8 string at path.
func (d *Document) GetString(path string) (string, bool) {
	v, ok := d.lookupKind(path, KindString)
	if !ok {
		return "", false
	}
	return v.str, true
}

// GetInt32 returns the 32-bit integer at path.
func (d *Document) GetInt32(path string) (int32, bool) {
	v, ok := d.lookupKind(path, KindInt32)
	if !ok {
		return 0, false
	}
	return int32(v.num), true
}

// GetInt64 returns the 64-bit integer at path.
func (d *Document) GetInt64(path string) (int64, bool) {
	v, ok := d.lookupKind(path, KindInt64)
	if !ok {
		return 0, false
	}
	return v.num, true
}

// GetDouble returns the double at path.
func (d *Document) GetDouble(path string) (float64, bool) {
	v, ok := d.lookupKind(path, KindDouble)
	if !ok {
		return 0, false
	}
	return v.fp, true
}

// GetBool returns the boolean at path.
func (d *Document) GetBool(path string) (bool, bool) {
	v, ok := d.lookupKind(path, KindBool)
	if !ok {
		return false, false
	}
	return v.num != 0, true
}

// GetDateTime returns the datetime at path as a UTC time.Time with
// millisecond resolution.
func (d *Document) GetDateTime(path string) (time.Time, bool) {
	v, ok := d.lookupKind(path, KindDateTime)
	if !ok {
		return time.Time{}, false
	}
	return v.Time(), true
}

// GetDecimal returns the decimal128 at path.
func (d *Document) GetDecimal(path string) (Decimal128, bool) {
	v, ok := d.lookupKind(path, KindDecimal)
	if !ok {
		return Decimal128{}, false
	}
	return v.dec, true
}

// GetBinary returns the subtype and payload of the binary blob at path.
func (d *Document) GetBinary(path string) (byte, []byte, bool) {
	v, ok := d.lookupKind(path, KindBinary)
	if !ok {
		return 0, nil, false
	}
	return v.sub, v.raw, true
}

// GetDocument returns the embedded document or array at path. The
// result is self-contained: encoding it yields a valid standalone
// document with its own length prefix, so it can cross the column-type
// boundary as a first-class value. Array elements appear under their
// "0", "1", … names.
func (d *Document) GetDocument(path string) (*Document, bool) {
	v, ok := d.Lookup(path)
	if !ok || !v.IsComposite() {
		return nil, false
	}
	return v.doc, true
}
