package strategy

import (
	"bufio"
	"slices"
	"strings"
	"testing"

	"GoIK/internal/dict"
	"GoIK/internal/lexeme"
	"GoIK/internal/scan"
)

func testDict() *dict.Dictionary {
	d := dict.New(nil)
	d.AddWords([]string{"中国", "中国人", "人民", "华人", "中华", "中华人民共和国", "共和国", "t恤"})
	d.AddQuantifiers([]string{"个", "年", "公里", "公斤"})
	return d
}

type span struct {
	text string
	typ  lexeme.Type
}

// propose runs ss over the whole of text in a single window matching
// against v and returns every candidate in order.
func propose(t *testing.T, v *dict.View, text string, ss ...Strategy) []span {
	t.Helper()
	c := scan.New(scan.DefaultOptions())
	c.SetView(v)
	src := bufio.NewReader(strings.NewReader(text))
	for !c.EOF() {
		if _, err := c.FillBuffer(src); err != nil {
			t.Fatalf("FillBuffer: %v", err)
		}
	}
	if c.Available() == 0 {
		return nil
	}
	c.InitCursor()
	for {
		for _, s := range ss {
			s.Analyze(c)
		}
		if !c.MoveCursor() {
			break
		}
	}
	buf := c.Buffer()
	var out []span
	for _, l := range c.Candidates() {
		rel := l.Start - c.Origin()
		out = append(out, span{string(buf[rel : rel+l.Length]), l.Type})
	}
	return out
}

func TestLetter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []span
	}{
		{"english", "hello world", []span{
			{"hello", lexeme.TypeEnglish}, {"world", lexeme.TypeEnglish},
		}},
		{"arabic with separators", "1,000.5", []span{
			{"1,000.5", lexeme.TypeArabic},
			{"1", lexeme.TypeLetter},
			{"000.5", lexeme.TypeLetter},
		}},
		{"trailing connector excluded", "42.", []span{
			{"42", lexeme.TypeArabic},
		}},
		{"mixed", "ipad3", []span{
			{"ipad3", lexeme.TypeLetter}, {"ipad", lexeme.TypeEnglish}, {"3", lexeme.TypeArabic},
		}},
		{"mixed with connectors", "c++ e-mail", []span{
			{"c", lexeme.TypeEnglish},
			{"e-mail", lexeme.TypeLetter}, {"e", lexeme.TypeEnglish},
			{"mail", lexeme.TypeEnglish},
		}},
		{"chinese ignored", "中国", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := propose(t, nil, tt.input, NewLetter())
			if !slices.Equal(got, tt.want) {
				t.Errorf("candidates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuantifier(t *testing.T) {
	v := testDict().Snapshot()
	tests := []struct {
		name  string
		input string
		want  []span
	}{
		{"chinese numeral", "三个", []span{
			{"三", lexeme.TypeCNum}, {"个", lexeme.TypeCount},
		}},
		{"arabic then classifier", "2024年", []span{
			{"2024", lexeme.TypeArabic}, {"年", lexeme.TypeCount},
		}},
		{"multi rune classifier", "五公里", []span{
			{"五", lexeme.TypeCNum}, {"公里", lexeme.TypeCount},
		}},
		{"classifier without numeral", "个人", nil},
		{"long numeral", "一万二千", []span{
			{"一万二千", lexeme.TypeCNum},
		}},
		{"arabic then chinese numeral then classifier", "1,000三个", []span{
			{"1,000", lexeme.TypeArabic}, {"三", lexeme.TypeCNum}, {"个", lexeme.TypeCount},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := propose(t, v, tt.input, NewLetter(), NewQuantifier())
			var filtered []span
			for _, s := range got {
				if s.typ == lexeme.TypeCNum || s.typ == lexeme.TypeCount || s.typ == lexeme.TypeArabic {
					filtered = append(filtered, s)
				}
			}
			if !slices.Equal(filtered, tt.want) {
				t.Errorf("candidates = %v, want %v", filtered, tt.want)
			}
		})
	}
}

func TestCJK(t *testing.T) {
	v := testDict().Snapshot()
	tests := []struct {
		name  string
		input string
		want  []span
	}{
		{"nested words", "中国人", []span{
			{"中国人", lexeme.TypeCNWord}, {"中国", lexeme.TypeCNWord},
		}},
		{"overlapping words", "中华人民共和国", []span{
			{"中华人民共和国", lexeme.TypeCNWord},
			{"中华", lexeme.TypeCNWord},
			{"华人", lexeme.TypeCNWord},
			{"人民", lexeme.TypeCNWord},
			{"共和国", lexeme.TypeCNWord},
		}},
		{"letters inside word", "买t恤", []span{
			{"t恤", lexeme.TypeCNWord},
		}},
		{"useless breaks match", "中 国", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := propose(t, v, tt.input, NewCJK())
			if !slices.Equal(got, tt.want) {
				t.Errorf("candidates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCJK_MatchesContextView(t *testing.T) {
	d := testDict()
	pinned := d.Snapshot()
	d.DisableWords([]string{"人民"})
	want := []span{{"人民", lexeme.TypeCNWord}}
	if got := propose(t, pinned, "人民", NewCJK()); !slices.Equal(got, want) {
		t.Errorf("pinned view candidates = %v, want %v", got, want)
	}
	if got := propose(t, d.Snapshot(), "人民", NewCJK()); got != nil {
		t.Errorf("fresh view candidates = %v, want none", got)
	}
}

// scanTo walks ss over a single window of text up to and including
// window position last and settles it there.
func scanTo(t *testing.T, v *dict.View, text string, last int, ss ...Strategy) *scan.Context {
	t.Helper()
	c := scan.New(scan.DefaultOptions())
	c.SetView(v)
	src := bufio.NewReader(strings.NewReader(text))
	for !c.EOF() {
		if _, err := c.FillBuffer(src); err != nil {
			t.Fatalf("FillBuffer: %v", err)
		}
	}
	c.InitCursor()
	for {
		for _, s := range ss {
			s.Analyze(c)
		}
		if c.Cursor() == last || !c.MoveCursor() {
			break
		}
	}
	c.Settle()
	return c
}

func TestQuantifier_PendingClassifierHoldsWholeNumeral(t *testing.T) {
	v := testDict().Snapshot()
	tests := []struct {
		name  string
		input string
		last  int
	}{
		{"arabic and chinese numeral", "5三公里", 2},
		{"arabic with separators", "1,000三公斤", 6},
		{"word before numeral", "国5十公斤", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := scanTo(t, v, tt.input, tt.last, Defaults()...)
			// 公 is only a classifier prefix, so nothing from the
			// numeral on may be committed yet.
			start := strings.IndexFunc(tt.input, isDigit)
			want := len([]rune(tt.input[:start]))
			if c.Resolved() != want {
				t.Errorf("Resolved = %d, want %d", c.Resolved(), want)
			}
		})
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func TestHoldsReleasedAtEnd(t *testing.T) {
	c := scan.New(scan.DefaultOptions())
	c.SetView(testDict().Snapshot())
	src := bufio.NewReader(strings.NewReader("abc 中华人民 三公"))
	for !c.EOF() {
		c.FillBuffer(src)
	}
	c.InitCursor()
	ss := Defaults()
	for {
		for _, s := range ss {
			s.Analyze(c)
		}
		if !c.MoveCursor() {
			break
		}
	}
	c.Settle()
	if c.Resolved() != c.Available() {
		t.Errorf("Resolved = %d, want %d", c.Resolved(), c.Available())
	}
}

func TestDefaults_Order(t *testing.T) {
	var names []string
	for _, s := range Defaults() {
		names = append(names, s.Name())
	}
	want := []string{"letter", "quantifier", "cjk"}
	if !slices.Equal(names, want) {
		t.Errorf("Defaults order = %v, want %v", names, want)
	}
}
