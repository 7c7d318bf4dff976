package segmenter

import (
	"strings"
	"testing"

	"GoIK/internal/testutil"
)

func FuzzSegmenter(f *testing.F) {
	for _, s := range testutil.SampleTexts() {
		f.Add(s, true)
		f.Add(s, false)
	}
	f.Add("\xff\xfe中\x80国", true)
	f.Add(strings.Repeat("一", 300), true)

	d := testutil.NewDictionary(f)
	f.Fuzz(func(t *testing.T, text string, smart bool) {
		cfg := DefaultConfig()
		cfg.Smart = smart
		cfg.BufferSize = 32
		cfg.Lookahead = 8
		r := &testutil.ChunkReader{R: strings.NewReader(text), N: 5}
		ls, err := New(r, d, cfg, nil).All()
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		coverageOK(t, text, ls)
	})
}
