// Wire decoding with strict structural validation.
//
// Every length field is bounds-checked before it is trusted as a skip
// distance, so a hostile buffer can reject but never panic or read out
// of bounds. Validation failures carry the byte offset at which the
// structure broke down. The format:
//
//	document: int32 totalLength | element* | 0x00
//	element:  byte typeTag | cstring fieldName | payload
//
// All integers are little-endian. The minimum valid document is the
// five bytes 05 00 00 00 00.
package bcol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// MinDocumentSize is the encoded size of an empty document: a 4-byte
// length prefix plus the zero terminator.
const MinDocumentSize = 5

// Default limits applied when Config fields are zero.
const (
	DefaultMaxSize  = 16 * 1024 * 1024
	DefaultMaxDepth = 128
)

// Config bounds a decode (and, for the limits, an encode). The zero
// value means defaults; no global state is consulted anywhere.
type Config struct {
	MaxSize             int  // largest accepted buffer (default 16MB)
	MaxDepth            int  // deepest accepted nesting (default 128)
	AllowDuplicateNames bool // tolerate repeated field names in one document
}

func (c Config) withDefaults() Config {
	if c.MaxSize == 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	return c
}

// Decode parses a binary document with default limits.
func Decode(data []byte) (*Document, error) {
	return DecodeWith(data, Config{})
}

// DecodeWith parses a binary document under the given limits. The input
// is validated completely — type tags, lengths, nesting, terminators
// and (unless permitted) duplicate field names — before any value from
// it is returned.
func DecodeWith(data []byte, cfg Config) (*Document, error) {
	cfg = cfg.withDefaults()
	if len(data) < MinDocumentSize {
		return nil, malformed(0, "buffer of %d bytes is below the %d byte minimum", len(data), MinDocumentSize)
	}
	if len(data) > cfg.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), cfg.MaxSize)
	}
	dec := &decoder{data: data, cfg: cfg}
	declared := int(int32(binary.LittleEndian.Uint32(data)))
	if declared != len(data) {
		return nil, malformed(0, "declared length %d, buffer holds %d", declared, len(data))
	}
	doc, err := dec.document(0, len(data), 1)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// malformed builds an ErrMalformedDocument with the offset where
// validation failed.
func malformed(off int, format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrMalformedDocument, off, fmt.Sprintf(format, args...))
}

type decoder struct {
	data []byte
	cfg  Config
}

// document validates and parses one document spanning [start, end) of
// the buffer, including its own length prefix and terminator.
func (dec *decoder) document(start, end, depth int) (*Document, error) {
	if depth > dec.cfg.MaxDepth {
		return nil, fmt.Errorf("%w: nesting beyond %d at offset %d", ErrTooDeep, dec.cfg.MaxDepth, start)
	}
	if end-start < MinDocumentSize {
		return nil, malformed(start, "embedded document of %d bytes is below the %d byte minimum", end-start, MinDocumentSize)
	}
	declared := int(int32(binary.LittleEndian.Uint32(dec.data[start:])))
	if declared != end-start {
		return nil, malformed(start, "embedded document declares %d bytes, %d available", declared, end-start)
	}
	if dec.data[end-1] != 0 {
		return nil, malformed(end-1, "document terminator is 0x%02X, want 0x00", dec.data[end-1])
	}

	doc := &Document{}
	var seen map[string]bool
	if !dec.cfg.AllowDuplicateNames {
		seen = make(map[string]bool)
	}

	pos := start + 4
	for pos < end-1 {
		tag := Kind(dec.data[pos])
		tagOff := pos
		pos++

		name, next, err := dec.cstring(pos, end-1)
		if err != nil {
			return nil, err
		}
		pos = next

		if seen != nil {
			if seen[name] {
				return nil, malformed(tagOff, "duplicate field name %q", name)
			}
			seen[name] = true
		}

		v, next2, err := dec.element(tag, tagOff, pos, end-1, depth)
		if err != nil {
			return nil, err
		}
		pos = next2
		doc.fields = append(doc.fields, field{name: name, value: v})
	}
	if pos != end-1 {
		return nil, malformed(pos, "element overruns document terminator")
	}
	return doc, nil
}

// element parses one value payload of the given kind starting at pos,
// bounded by limit (the offset of the enclosing terminator).
func (dec *decoder) element(tag Kind, tagOff, pos, limit, depth int) (Value, int, error) {
	switch tag {
	case KindDouble:
		if limit-pos < 8 {
			return Value{}, 0, malformed(pos, "truncated double")
		}
		bits := binary.LittleEndian.Uint64(dec.data[pos:])
		return Double(math.Float64frombits(bits)), pos + 8, nil

	case KindString:
		s, next, err := dec.lengthString(pos, limit)
		if err != nil {
			return Value{}, 0, err
		}
		return String(s), next, nil

	case KindDocument, KindArray:
		if limit-pos < 4 {
			return Value{}, 0, malformed(pos, "truncated embedded document length")
		}
		sub := int(int32(binary.LittleEndian.Uint32(dec.data[pos:])))
		if sub < MinDocumentSize || sub > limit-pos {
			return Value{}, 0, malformed(pos, "embedded document length %d out of bounds", sub)
		}
		doc, err := dec.document(pos, pos+sub, depth+1)
		if err != nil {
			return Value{}, 0, err
		}
		if tag == KindArray {
			if err := checkArrayNames(doc, pos); err != nil {
				return Value{}, 0, err
			}
			return arrayFromDoc(doc), pos + sub, nil
		}
		return Doc(doc), pos + sub, nil

	case KindBinary:
		if limit-pos < 5 {
			return Value{}, 0, malformed(pos, "truncated binary header")
		}
		n := int(int32(binary.LittleEndian.Uint32(dec.data[pos:])))
		if n < 0 || n > limit-pos-5 {
			return Value{}, 0, malformed(pos, "binary length %d out of bounds", n)
		}
		sub := dec.data[pos+4]
		data := make([]byte, n)
		copy(data, dec.data[pos+5:pos+5+n])
		return Binary(sub, data), pos + 5 + n, nil

	case KindBool:
		if limit-pos < 1 {
			return Value{}, 0, malformed(pos, "truncated boolean")
		}
		switch dec.data[pos] {
		case 0:
			return Bool(false), pos + 1, nil
		case 1:
			return Bool(true), pos + 1, nil
		}
		return Value{}, 0, malformed(pos, "boolean byte 0x%02X, want 0x00 or 0x01", dec.data[pos])

	case KindDateTime:
		if limit-pos < 8 {
			return Value{}, 0, malformed(pos, "truncated datetime")
		}
		ms := int64(binary.LittleEndian.Uint64(dec.data[pos:]))
		return DateTimeMillis(ms), pos + 8, nil

	case KindNull:
		return Null(), pos, nil

	case KindInt32:
		if limit-pos < 4 {
			return Value{}, 0, malformed(pos, "truncated int32")
		}
		v := int32(binary.LittleEndian.Uint32(dec.data[pos:]))
		return Int32(v), pos + 4, nil

	case KindInt64:
		if limit-pos < 8 {
			return Value{}, 0, malformed(pos, "truncated int64")
		}
		v := int64(binary.LittleEndian.Uint64(dec.data[pos:]))
		return Int64(v), pos + 8, nil

	case KindDecimal:
		if limit-pos < 16 {
			return Value{}, 0, malformed(pos, "truncated decimal128")
		}
		lo := binary.LittleEndian.Uint64(dec.data[pos:])
		hi := binary.LittleEndian.Uint64(dec.data[pos+8:])
		return Decimal(NewDecimal128(hi, lo)), pos + 16, nil
	}
	return Value{}, 0, malformed(tagOff, "unrecognized type tag 0x%02X", byte(tag))
}

// cstring reads a NUL-terminated field name starting at pos, bounded by
// limit.
func (dec *decoder) cstring(pos, limit int) (string, int, error) {
	for i := pos; i < limit; i++ {
		if dec.data[i] == 0 {
			return string(dec.data[pos:i]), i + 1, nil
		}
	}
	return "", 0, malformed(pos, "unterminated field name")
}

// lengthString reads an int32-prefixed, NUL-terminated string payload.
// The prefix counts the trailing NUL.
func (dec *decoder) lengthString(pos, limit int) (string, int, error) {
	if limit-pos < 4 {
		return "", 0, malformed(pos, "truncated string length")
	}
	n := int(int32(binary.LittleEndian.Uint32(dec.data[pos:])))
	if n < 1 || n > limit-pos-4 {
		return "", 0, malformed(pos, "string length %d out of bounds", n)
	}
	if dec.data[pos+4+n-1] != 0 {
		return "", 0, malformed(pos+4+n-1, "string terminator is 0x%02X, want 0x00", dec.data[pos+4+n-1])
	}
	return string(dec.data[pos+4 : pos+4+n-1]), pos + 4 + n, nil
}

// checkArrayNames enforces the array invariant: element names are the
// decimal strings "0", "1", "2", … in order.
func checkArrayNames(doc *Document, off int) error {
	for i, f := range doc.fields {
		if f.name != indexName(i) {
			return malformed(off, "array element %d named %q", i, f.name)
		}
	}
	return nil
}
