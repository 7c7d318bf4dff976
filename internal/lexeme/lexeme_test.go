package lexeme

import (
	"slices"
	"testing"
)

func lx(start, length int) Lexeme {
	return Lexeme{Start: start, Length: length, Type: TypeCNWord}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Lexeme
		want int
	}{
		{"earlier start first", lx(0, 1), lx(1, 3), -1},
		{"later start last", lx(2, 1), lx(1, 3), 1},
		{"longer first on tie", lx(0, 3), lx(0, 2), -1},
		{"shorter last on tie", lx(0, 2), lx(0, 3), 1},
		{"same span", lx(4, 2), lx(4, 2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSet_OrderAndDedupe(t *testing.T) {
	var s Set
	s.Add(lx(2, 1))
	s.Add(lx(0, 2))
	s.Add(lx(0, 3))
	first := Lexeme{Start: 1, Length: 2, Type: TypeCount}
	if !s.Add(first) {
		t.Fatal("Add of new span returned false")
	}
	if s.Add(Lexeme{Start: 1, Length: 2, Type: TypeCNWord}) {
		t.Fatal("Add of duplicate span returned true")
	}

	want := []Lexeme{lx(0, 3), lx(0, 2), first, lx(2, 1)}
	if !slices.EqualFunc(s.Items(), want, func(a, b Lexeme) bool { return a.SameSpan(b) && a.Type == b.Type }) {
		t.Errorf("Items() = %v, want %v", s.Items(), want)
	}

	s.Retain(func(l Lexeme) bool { return l.End() <= 2 })
	if s.Len() != 1 || !s.Items()[0].SameSpan(lx(0, 2)) {
		t.Errorf("after Retain: %v", s.Items())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d", s.Len())
	}
}

func TestPath_AddCross(t *testing.T) {
	var p Path
	if !p.AddCross(lx(0, 2)) {
		t.Fatal("first AddCross failed")
	}
	if !p.AddCross(lx(1, 3)) {
		t.Fatal("overlapping AddCross failed")
	}
	if p.AddCross(lx(4, 1)) {
		t.Fatal("disjoint AddCross succeeded")
	}
	if p.Begin() != 0 || p.End() != 4 || p.Payload() != 4 || p.Len() != 2 {
		t.Errorf("path = [%d,%d) payload %d len %d", p.Begin(), p.End(), p.Payload(), p.Len())
	}
}

func TestPath_AddNonCross(t *testing.T) {
	var p Path
	p.AddNonCross(lx(0, 2))
	if p.AddNonCross(lx(1, 1)) {
		t.Fatal("overlapping AddNonCross succeeded")
	}
	if !p.AddNonCross(lx(3, 2)) {
		t.Fatal("disjoint AddNonCross failed")
	}
	if p.Begin() != 0 || p.End() != 5 || p.Payload() != 4 {
		t.Errorf("path = [%d,%d) payload %d", p.Begin(), p.End(), p.Payload())
	}
}

func TestNewPath_PanicsOnOverlap(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewPath did not panic on overlapping lexemes")
		}
	}()
	NewPath([]Lexeme{lx(0, 2), lx(1, 2)})
}

func TestJoin(t *testing.T) {
	num := Lexeme{Start: 0, Length: 4, Type: TypeArabic, Text: "2024"}
	count := Lexeme{Start: 4, Length: 1, Type: TypeCount, Text: "年"}

	got, ok := Join(num, count, TypeCQuan)
	if !ok {
		t.Fatal("Join of adjacent lexemes failed")
	}
	if got.Text != "2024年" || got.Start != 0 || got.Length != 5 || got.Type != TypeCQuan {
		t.Errorf("Join = %+v", got)
	}
	if len(got.Parts) != 2 || got.Parts[0].Text != "2024" || got.Parts[1].Text != "年" {
		t.Errorf("Parts = %v", got.Parts)
	}

	if _, ok := Join(num, Lexeme{Start: 5, Length: 1}, TypeCQuan); ok {
		t.Error("Join of non-adjacent lexemes succeeded")
	}
}

func TestType_String(t *testing.T) {
	if TypeCNWord.String() != "CN_WORD" {
		t.Errorf("TypeCNWord.String() = %q", TypeCNWord.String())
	}
	if TypeCQuan.String() != "TYPE_CQUAN" {
		t.Errorf("TypeCQuan.String() = %q", TypeCQuan.String())
	}
}
