// Total-order comparison for equality, ordering operators and index
// operator classes.
//
// Documents compare positionally: at each position the field name
// decides first (byte-wise), then the value. A shorter document that is
// a prefix of a longer one sorts first. Values of different types
// follow a fixed rank — null < numeric < string < document < array <
// binary < bool < datetime — and within the numeric family int32,
// int64, double and decimal128 compare by mathematical value, so
// Decimal("2"), Int32(2) and Double(2.0) are all equal. The relation is
// reflexive, antisymmetric and transitive; identical encodings are
// always equal, but equality does not require identical encodings.
package bcol

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Compare returns a negative, zero or positive result ordering a
// against b.
func Compare(a, b *Document) int {
	n := min(len(a.fields), len(b.fields))
	for i := 0; i < n; i++ {
		if c := strings.Compare(a.fields[i].name, b.fields[i].name); c != 0 {
			return c
		}
		if c := CompareValues(a.fields[i].value, b.fields[i].value); c != 0 {
			return c
		}
	}
	switch {
	case len(a.fields) < len(b.fields):
		return -1
	case len(a.fields) > len(b.fields):
		return 1
	}
	return 0
}

// Equal reports whether the documents compare equal under the logical
// total order.
func (d *Document) Equal(e *Document) bool { return Compare(d, e) == 0 }

// CompareBytes orders two encoded documents. Identical bytes are equal
// without decoding; otherwise both buffers must decode cleanly.
func CompareBytes(a, b []byte) (int, error) {
	if bytes.Equal(a, b) {
		return 0, nil
	}
	da, err := Decode(a)
	if err != nil {
		return 0, err
	}
	db, err := Decode(b)
	if err != nil {
		return 0, err
	}
	return Compare(da, db), nil
}

// BinaryEqual reports byte identity of two encoded documents. Distinct
// from Equal: two logically equal documents may encode differently.
func BinaryEqual(a, b []byte) bool { return bytes.Equal(a, b) }

// CompareValues orders two values of any kinds.
func CompareValues(a, b Value) int {
	ra, rb := rank(a.kind), rank(b.kind)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindInt32, KindInt64, KindDouble, KindDecimal:
		return compareNumeric(a, b)
	case KindString:
		return strings.Compare(a.str, b.str)
	case KindDocument, KindArray:
		return Compare(a.doc, b.doc)
	case KindBinary:
		switch {
		case len(a.raw) < len(b.raw):
			return -1
		case len(a.raw) > len(b.raw):
			return 1
		case a.sub != b.sub:
			if a.sub < b.sub {
				return -1
			}
			return 1
		}
		return bytes.Compare(a.raw, b.raw)
	case KindBool, KindDateTime:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
	return 0
}

// rank is the canonical cross-type ordering of kinds. Only values in
// the same rank compare by content; int32/int64/double/decimal share
// the numeric rank.
func rank(k Kind) int {
	switch k {
	case KindNull:
		return 1
	case KindInt32, KindInt64, KindDouble, KindDecimal:
		return 2
	case KindString:
		return 3
	case KindDocument:
		return 4
	case KindArray:
		return 5
	case KindBinary:
		return 6
	case KindBool:
		return 7
	case KindDateTime:
		return 8
	}
	return 0
}

// compareNumeric orders two members of the numeric family by
// mathematical value. NaN (double or decimal) sorts below every other
// number and equal to itself, keeping the order total.
func compareNumeric(a, b Value) int {
	// Same-width integers need no decimal machinery.
	if (a.kind == KindInt32 || a.kind == KindInt64) &&
		(b.kind == KindInt32 || b.kind == KindInt64) {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
	if a.kind == KindDouble && b.kind == KindDouble {
		x, y := a.fp, b.fp
		switch {
		case math.IsNaN(x) && math.IsNaN(y):
			return 0
		case math.IsNaN(x):
			return -1
		case math.IsNaN(y):
			return 1
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}

	ad, aNaN := numericDecimal(a)
	bd, bNaN := numericDecimal(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	}
	return ad.Cmp(bd)
}

// numericDecimal lifts a numeric value into an exact decimal. nan is
// true for the NaN encodings, which have no decimal representation.
// Doubles convert through their shortest round-trip decimal rendering,
// which is exact for every value a JSON source can produce and
// deterministic for all the rest.
func numericDecimal(v Value) (d *apd.Decimal, nan bool) {
	switch v.kind {
	case KindInt32, KindInt64:
		return apd.New(v.num, 0), false
	case KindDouble:
		if math.IsNaN(v.fp) {
			return nil, true
		}
		if math.IsInf(v.fp, 0) {
			return &apd.Decimal{Form: apd.Infinite, Negative: v.fp < 0}, false
		}
		d, _, err := apd.NewFromString(strconv.FormatFloat(v.fp, 'g', -1, 64))
		if err != nil {
			return nil, true
		}
		return d, false
	case KindDecimal:
		d, ok := v.dec.apd()
		if !ok {
			return nil, true
		}
		return d, false
	}
	return nil, true
}
