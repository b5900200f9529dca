// Wire encoding.
//
// Encoding is purely constructive: fields serialize in insertion order
// into a growing buffer, length prefixes are backpatched once each
// document body is complete, and the terminator byte closes every
// level. Given a well-typed document tree the only possible failure is
// a field name containing a NUL byte, which the cstring name encoding
// cannot carry.
package bcol

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Encode serializes the document to its binary form.
func (d *Document) Encode() ([]byte, error) {
	return appendDocument(nil, d)
}

// appendDocument appends the encoded form of d, returning the grown
// buffer.
func appendDocument(buf []byte, d *Document) ([]byte, error) {
	start := len(buf)
	buf = append(buf, 0, 0, 0, 0) // length prefix, backpatched below
	var err error
	for _, f := range d.fields {
		buf, err = appendElement(buf, f.name, f.value)
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, 0)
	binary.LittleEndian.PutUint32(buf[start:], uint32(len(buf)-start))
	return buf, nil
}

func appendElement(buf []byte, name string, v Value) ([]byte, error) {
	if strings.IndexByte(name, 0) >= 0 {
		return nil, fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidFieldName, name)
	}
	buf = append(buf, byte(v.kind))
	buf = append(buf, name...)
	buf = append(buf, 0)

	switch v.kind {
	case KindDouble:
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.fp))
	case KindString:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v.str)+1))
		buf = append(buf, v.str...)
		buf = append(buf, 0)
	case KindDocument, KindArray:
		return appendDocument(buf, v.doc)
	case KindBinary:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v.raw)))
		buf = append(buf, v.sub)
		buf = append(buf, v.raw...)
	case KindBool:
		buf = append(buf, byte(v.num))
	case KindDateTime:
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.num))
	case KindNull:
		// no payload
	case KindInt32:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(v.num)))
	case KindInt64:
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.num))
	case KindDecimal:
		buf = binary.LittleEndian.AppendUint64(buf, v.dec.lo)
		buf = binary.LittleEndian.AppendUint64(buf, v.dec.hi)
	default:
		return nil, fmt.Errorf("field %q holds an invalid value kind 0x%02X", name, byte(v.kind))
	}
	return buf, nil
}
