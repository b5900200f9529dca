package bcol

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestExtJSONRender(t *testing.T) {
	when := time.Date(2022, 6, 6, 12, 13, 14, 500e6, time.UTC)
	doc := NewDocument().
		Append("name", String("corn dog")).
		Append("n", Int32(7)).
		Append("big", Int64(283572834759209881)).
		Append("pi", Double(3.1415926)).
		Append("whole", Double(2)).
		Append("amt", Decimal(MustParseDecimal("10.09"))).
		Append("when", DateTime(when)).
		Append("blob", Binary(0x00, []byte("hi"))).
		Append("flags", Array(Bool(true), Null())).
		Append("sub", Doc(NewDocument().Append("x", Int32(1))))

	want := `{"name":"corn dog","n":7,"big":283572834759209881,` +
		`"pi":3.1415926,"whole":2.0,"amt":{"$numberDecimal":"10.09"},` +
		`"when":{"$date":"2022-06-06T12:13:14.500Z"},` +
		`"blob":{"$binary":{"base64":"aGk=","subType":"00"}},` +
		`"flags":[true,null],"sub":{"x":1}}`

	if got := string(doc.ExtJSON()); got != want {
		t.Errorf("ExtJSON:\n got %s\nwant %s", got, want)
	}
}

func TestExtJSONRoundTrip(t *testing.T) {
	doc := paymentDoc()
	back, err := Parse(doc.ExtJSON())
	if err != nil {
		t.Fatalf("parse rendered text: %v", err)
	}
	if !doc.Equal(back) {
		t.Fatalf("round trip not equal:\n in  %s\n out %s", doc.ExtJSON(), back.ExtJSON())
	}
}

func TestParseReference(t *testing.T) {
	// Plain JSON casts in as a document; {"A":"X"} must produce the
	// canonical 14-byte encoding.
	doc, err := Parse([]byte(`{"A":"X"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []byte{
		0x0E, 0x00, 0x00, 0x00, 0x02, 0x41, 0x00,
		0x02, 0x00, 0x00, 0x00, 0x58, 0x00, 0x00,
	}
	if got := mustEncode(t, doc); !BinaryEqual(got, want) {
		t.Errorf("encode = % X, want % X", got, want)
	}
}

func TestParseMarkers(t *testing.T) {
	text := `{
		"amt": {"$numberDecimal": "888"},
		"date": {"$date": "2023-11-11T12:00:00Z"},
		"old": {"$date": {"$numberLong": "-86400000"}},
		"n": {"$numberInt": "5"},
		"wide": {"$numberLong": "5"},
		"f": {"$numberDouble": "NaN"},
		"plain": {"$notAMarker": 1, "also": 2}
	}`
	doc, err := Parse([]byte(text))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if d, ok := doc.GetDecimal("amt"); !ok || d.String() != "888" {
		t.Errorf("amt = %v, %v", d, ok)
	}
	wantDate := time.Date(2023, 11, 11, 12, 0, 0, 0, time.UTC)
	if ts, ok := doc.GetDateTime("date"); !ok || !ts.Equal(wantDate) {
		t.Errorf("date = %v, %v", ts, ok)
	}
	if ts, ok := doc.GetDateTime("old"); !ok || ts.UnixMilli() != -86400000 {
		t.Errorf("old = %v, %v", ts, ok)
	}
	if v, ok := doc.GetInt32("n"); !ok || v != 5 {
		t.Errorf("n = %d, %v", v, ok)
	}
	if v, ok := doc.GetInt64("wide"); !ok || v != 5 {
		t.Errorf("wide = %d, %v", v, ok)
	}
	if f, ok := doc.GetDouble("f"); !ok || !math.IsNaN(f) {
		t.Errorf("f = %v, %v", f, ok)
	}
	// A multi-member object with $-keys is not a marker.
	if _, ok := doc.GetDocument("plain"); !ok {
		t.Error("plain object with $-keys did not decode as a document")
	}
}

func TestParseNumbers(t *testing.T) {
	doc, err := Parse([]byte(`{"a":1,"b":2147483648,"c":1.5,"d":1e21,"e":-0.0}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tests := []struct {
		path string
		want Kind
	}{
		{"a", KindInt32},
		{"b", KindInt64},
		{"c", KindDouble},
		{"d", KindDouble},
		{"e", KindDouble},
	}
	for _, tt := range tests {
		v, ok := doc.Lookup(tt.path)
		if !ok || v.Kind() != tt.want {
			t.Errorf("%s: kind = %v, %v; want %v", tt.path, v.Kind(), ok, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"not json", "not json"},
		{"unclosed", `{"a":`},
		{"top-level array", `[1,2]`},
		{"top-level scalar", `42`},
		{"trailing garbage", `{"a":1} {"b":2}`},
		{"bad decimal marker", `{"a":{"$numberDecimal":"zed"}}`},
		{"bad long marker", `{"a":{"$numberLong":"1.5"}}`},
		{"bad date marker", `{"a":{"$date":"yesterday"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.text)); !errors.Is(err, ErrInvalidJSON) {
				t.Errorf("Parse(%q) = %v, want ErrInvalidJSON", tt.text, err)
			}
		})
	}
}

func TestText(t *testing.T) {
	doc := paymentDoc()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"header.type", "X", true},
		{"data.amt", "77777809838.97", true},
		{"data.pi", "3.1415926", true},
		{"data.atomsInPlanet", "283572834759209881", true},
		{"header.active", "true", true},
		{"data.txDate", "2022-06-06T12:13:14.500Z", true},
		{"data.thumbnail", `\x50726574656e6420746869732069732061204a504547`, true},
		{"data.sub1", `{"sub2":{"corn":"dog"}}`, true},
		{"missing.path", "", false},
	}
	for _, tt := range tests {
		got, ok := doc.Text(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Text(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}
