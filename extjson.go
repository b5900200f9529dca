// Extended JSON text form: the document's textual representation at the
// column boundary.
//
// Output follows the relaxed convention: plain JSON wherever JSON has a
// native type, and a single-field marker object wherever it does not —
// {"$numberDecimal": …} for decimal128, {"$date": …} for datetimes,
// {"$binary": …} for blobs, {"$numberDouble": …} for non-finite
// doubles. Arrays render as native JSON arrays. The text parses back
// with Parse to an equal document, which is what makes the JSON-text
// cast bidirectional.
package bcol

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

const dateLayout = "2006-01-02T15:04:05.000Z"

// ExtJSON renders the document as relaxed extended JSON text.
func (d *Document) ExtJSON() []byte {
	return appendDocJSON(nil, d)
}

// Parse converts extended JSON text to a document with default limits.
// This is the JSON-text-to-document cast; marker objects reconstruct
// the typed values plain JSON cannot carry.
func Parse(text []byte) (*Document, error) {
	t, err := parseTree(text)
	if err != nil {
		return nil, err
	}
	obj, ok := t.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidJSON)
	}
	return FromTree(obj)
}

// Text renders the value at path as bare text: strings unquoted,
// numbers, dates and decimals in their textual form, binary as
// backslash-x hex, composites as extended JSON. Used where the host
// needs a text-typed scalar rather than JSON.
func (d *Document) Text(path string) (string, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return "", false
	}
	switch v.kind {
	case KindString:
		return v.str, true
	case KindDouble:
		return formatDouble(v.fp), true
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.num, 10), true
	case KindDecimal:
		return v.dec.String(), true
	case KindDateTime:
		return v.Time().Format(dateLayout), true
	case KindBool:
		return strconv.FormatBool(v.num != 0), true
	case KindDocument, KindArray:
		return string(appendValueJSON(nil, v)), true
	case KindBinary:
		return `\x` + hex.EncodeToString(v.raw), true
	}
	return "", false
}

func appendDocJSON(buf []byte, d *Document) []byte {
	buf = append(buf, '{')
	for i, f := range d.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendJSONString(buf, f.name)
		buf = append(buf, ':')
		buf = appendValueJSON(buf, f.value)
	}
	return append(buf, '}')
}

func appendArrayJSON(buf []byte, d *Document) []byte {
	buf = append(buf, '[')
	for i, f := range d.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendValueJSON(buf, f.value)
	}
	return append(buf, ']')
}

func appendValueJSON(buf []byte, v Value) []byte {
	switch v.kind {
	case KindNull:
		return append(buf, "null"...)
	case KindBool:
		if v.num != 0 {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case KindInt32, KindInt64:
		return strconv.AppendInt(buf, v.num, 10)
	case KindDouble:
		return appendDoubleJSON(buf, v.fp)
	case KindString:
		return appendJSONString(buf, v.str)
	case KindDecimal:
		buf = append(buf, `{"$numberDecimal":`...)
		buf = appendJSONString(buf, v.dec.String())
		return append(buf, '}')
	case KindDateTime:
		return appendDateJSON(buf, v.num)
	case KindBinary:
		buf = append(buf, `{"$binary":{"base64":`...)
		buf = appendJSONString(buf, base64.StdEncoding.EncodeToString(v.raw))
		buf = append(buf, `,"subType":`...)
		buf = appendJSONString(buf, hex.EncodeToString([]byte{v.sub}))
		return append(buf, "}}"...)
	case KindDocument:
		return appendDocJSON(buf, v.doc)
	case KindArray:
		return appendArrayJSON(buf, v.doc)
	}
	return append(buf, "null"...)
}

// appendDoubleJSON emits finite doubles as JSON numbers (always with a
// fraction or exponent, so the value reparses as a double rather than
// an integer) and the non-finite values as marker objects.
func appendDoubleJSON(buf []byte, f float64) []byte {
	s := formatDouble(f)
	switch s {
	case "NaN", "Infinity", "-Infinity":
		buf = append(buf, `{"$numberDouble":`...)
		buf = appendJSONString(buf, s)
		return append(buf, '}')
	}
	return append(buf, s...)
}

// formatDouble renders the shortest decimal form that round-trips,
// normalizing integral values to keep a fraction marker.
func formatDouble(f float64) string {
	if f != f {
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	switch s {
	case "+Inf", "Inf":
		return "Infinity"
	case "-Inf":
		return "-Infinity"
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// appendDateJSON emits dates in the 1970–9999 range as ISO-8601 text
// and everything else as an epoch-millisecond marker.
func appendDateJSON(buf []byte, ms int64) []byte {
	t := DateTimeMillis(ms).Time()
	if ms >= 0 && t.Year() <= 9999 {
		buf = append(buf, `{"$date":`...)
		buf = appendJSONString(buf, t.Format(dateLayout))
		return append(buf, '}')
	}
	buf = append(buf, `{"$date":{"$numberLong":`...)
	buf = appendJSONString(buf, strconv.FormatInt(ms, 10))
	return append(buf, "}}"...)
}

// appendJSONString escapes s per JSON rules.
func appendJSONString(buf []byte, s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		// A Go string always marshals; invalid UTF-8 is replaced.
		return append(buf, `""`...)
	}
	return append(buf, b...)
}
