package analysis

import (
	"testing"

	"GoIK/internal/segmenter"
	"GoIK/internal/testutil"
)

func FuzzIKAnalyzer(f *testing.F) {
	for _, s := range testutil.SampleTexts() {
		f.Add(s)
	}
	f.Add("  spaces  everywhere  ")
	f.Add("café résumé naïve")
	f.Add("\xe4\xb8")

	a := NewIKAnalyzer(testutil.NewDictionary(f), segmenter.DefaultConfig(), nil)
	f.Fuzz(func(t *testing.T, input string) {
		tokens := a.Analyze("field", input)

		prev := 0
		for i, tok := range tokens {
			if tok.Position != i {
				t.Errorf("token %d position = %d, want %d", i, tok.Position, i)
			}
			if tok.StartByte < prev || tok.EndByte > len(input) || tok.StartByte >= tok.EndByte {
				t.Errorf("invalid byte offsets: start=%d end=%d prev=%d input_len=%d", tok.StartByte, tok.EndByte, prev, len(input))
			}
			if tok.Term == "" {
				t.Error("empty term produced")
			}
			prev = tok.EndByte
		}
	})
}
