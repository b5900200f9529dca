package bcol

import (
	"math"
	"testing"
	"time"
)

func arr(ints ...int32) Value {
	vals := make([]Value, len(ints))
	for i, n := range ints {
		vals[i] = Int32(n)
	}
	return Array(vals...)
}

func TestCompareDocuments(t *testing.T) {
	mk := func(bar Value) *Document {
		return NewDocument().
			Append("foo", Doc(NewDocument().Append("bar", bar))).
			Append("baz", Double(3.14159))
	}

	tests := []struct {
		name string
		a, b *Document
		want int
	}{
		{"identical", mk(arr(1, 2, 3)), mk(arr(1, 2, 3)), 0},
		{"longer array greater", mk(arr(1, 2, 3)), mk(arr(1, 2)), 1},
		{"prefix array lesser", mk(arr(1, 2)), mk(arr(1, 2, 7)), -1},
		{"element decides before length", mk(arr(1, 3)), mk(arr(1, 2, 7)), 1},
		{"field name decides first",
			NewDocument().Append("B", Int32(2)).Append("A", Int32(1)),
			NewDocument().Append("A", Int32(1)).Append("B", Int32(2)),
			1},
		{"prefix document lesser",
			NewDocument().Append("a", Int32(1)),
			NewDocument().Append("a", Int32(1)).Append("b", Int32(2)),
			-1},
		{"empty vs empty", NewDocument(), NewDocument(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sign(Compare(tt.a, tt.b)); got != tt.want {
				t.Errorf("Compare = %d, want %d", got, tt.want)
			}
			if got := sign(Compare(tt.b, tt.a)); got != -tt.want {
				t.Errorf("Compare reversed = %d, want %d", got, -tt.want)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestCompareNumericFamily(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"decimal equals int32", Decimal(MustParseDecimal("2")), Int32(2), 0},
		{"decimal equals int64", Decimal(MustParseDecimal("2")), Int64(2), 0},
		{"int32 equals int64", Int32(2), Int64(2), 0},
		{"int equals double", Int32(2), Double(2.0), 0},
		{"decimal equals double", Decimal(MustParseDecimal("2.5")), Double(2.5), 0},
		{"decimal scale irrelevant", Decimal(MustParseDecimal("2.50")), Decimal(MustParseDecimal("2.5")), 0},
		{"decimal fraction greater", Decimal(MustParseDecimal("2.1")), Int32(2), 1},
		{"big int64 exact", Int64(283572834759209881), Double(2.8357283475920992e17), -1},
		{"negative ordering", Int32(-3), Double(-2.5), -1},
		{"nan below numbers", Double(math.NaN()), Double(-1e308), -1},
		{"nan equals nan", Double(math.NaN()), Double(math.NaN()), 0},
		{"nan decimal equals nan double", Decimal(MustParseDecimal("NaN")), Double(math.NaN()), 0},
		{"infinity above finite", Double(math.Inf(1)), Decimal(MustParseDecimal("9E+6000")), 1},
		{"negative infinity below finite", Double(math.Inf(-1)), Int64(math.MinInt64), -1},
		{"decimal infinity", Decimal(MustParseDecimal("Infinity")), Double(math.Inf(1)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sign(CompareValues(tt.a, tt.b)); got != tt.want {
				t.Errorf("CompareValues = %d, want %d", got, tt.want)
			}
			if got := sign(CompareValues(tt.b, tt.a)); got != -tt.want {
				t.Errorf("CompareValues reversed = %d, want %d", got, -tt.want)
			}
		})
	}
}

// TestCompareTotalOrder checks reflexivity, antisymmetry and
// transitivity over a ladder of values spanning every type rank.
func TestCompareTotalOrder(t *testing.T) {
	ladder := []Value{
		Null(),
		Double(math.NaN()),
		Int64(math.MinInt64),
		Double(-2.5),
		Int32(0),
		Decimal(MustParseDecimal("0.5")),
		Int32(2),
		Double(2.5),
		Decimal(MustParseDecimal("77777809838.97")),
		Double(math.Inf(1)),
		String(""),
		String("a"),
		String("ab"),
		Doc(NewDocument()),
		Doc(NewDocument().Append("a", Int32(1))),
		Doc(NewDocument().Append("b", Int32(1))),
		Array(),
		Array(Int32(1)),
		Array(Int32(1), Int32(2)),
		Binary(0x00, []byte{1}),
		Binary(0x00, []byte{2}),
		Binary(0x00, []byte{1, 1}),
		Bool(false),
		Bool(true),
		DateTimeMillis(0),
		DateTime(time.Date(2022, 6, 6, 12, 13, 14, 500e6, time.UTC)),
	}

	for i, a := range ladder {
		if sign(CompareValues(a, a)) != 0 {
			t.Errorf("ladder[%d] not equal to itself", i)
		}
		for j, b := range ladder {
			got := sign(CompareValues(a, b))
			want := sign(i - j)
			if got != want {
				t.Errorf("CompareValues(ladder[%d], ladder[%d]) = %d, want %d", i, j, got, want)
			}
		}
	}
}

func TestCompareBytes(t *testing.T) {
	a := mustEncode(t, NewDocument().Append("n", Int32(2)))
	b := mustEncode(t, NewDocument().Append("n", Int64(2)))
	c := mustEncode(t, NewDocument().Append("n", Double(3)))

	if got, err := CompareBytes(a, a); err != nil || got != 0 {
		t.Errorf("CompareBytes(a, a) = %d, %v", got, err)
	}
	// Different encodings, equal documents.
	if BinaryEqual(a, b) {
		t.Error("int32 and int64 encodings reported byte-identical")
	}
	if got, err := CompareBytes(a, b); err != nil || got != 0 {
		t.Errorf("CompareBytes(int32 2, int64 2) = %d, %v", got, err)
	}
	if got, err := CompareBytes(a, c); err != nil || sign(got) != -1 {
		t.Errorf("CompareBytes(2, 3) = %d, %v", got, err)
	}

	if _, err := CompareBytes(a, []byte{0x5A}); err == nil {
		t.Error("malformed operand did not fail")
	}
}
