package benchmark

import (
	"strings"
	"testing"

	"GoIK/internal/dict"
	"GoIK/internal/segmenter"
	"GoIK/internal/testutil"
)

const longText = "中华人民共和国的自然语言处理技术发展迅速，搜索引擎和分词器是其中的基础组件。" +
	"IKAnalyzer 2012_u6 版本在2012年发布，处理了3个公里和5公斤这样的数量词。" +
	"Full-width ＡＢＣ１２３ and e-mail addresses like user@example.com are mixed in. "

func benchSegment(b *testing.B, text string, smart bool) {
	d := testutil.NewDictionary(b)
	cfg := segmenter.DefaultConfig()
	cfg.Smart = smart
	seg := segmenter.New(strings.NewReader(""), d, cfg, nil)
	b.SetBytes(int64(len(text)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seg.Reset(strings.NewReader(text))
		if _, err := seg.All(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSegment_Smart_Short(b *testing.B) {
	benchSegment(b, "中华人民共和国", true)
}

func BenchmarkSegment_Greedy_Short(b *testing.B) {
	benchSegment(b, "中华人民共和国", false)
}

func BenchmarkSegment_Smart_Long(b *testing.B) {
	benchSegment(b, strings.Repeat(longText, 20), true)
}

func BenchmarkSegment_Greedy_Long(b *testing.B) {
	benchSegment(b, strings.Repeat(longText, 20), false)
}

// Small windows force a refill every few runes.
func BenchmarkSegment_SmallBuffer(b *testing.B) {
	d := testutil.NewDictionary(b)
	cfg := segmenter.DefaultConfig()
	cfg.BufferSize = 32
	cfg.Lookahead = 8
	text := strings.Repeat(longText, 20)
	seg := segmenter.New(strings.NewReader(""), d, cfg, nil)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seg.Reset(strings.NewReader(text))
		if _, err := seg.All(); err != nil {
			b.Fatal(err)
		}
	}
}

// Every offset starts a word, so the whole window is one cluster.
func BenchmarkSegment_Smart_AmbiguousChain(b *testing.B) {
	d := dict.New(nil)
	d.AddWords([]string{"中国", "国中"})
	text := strings.Repeat("中国", 2000)
	seg := segmenter.New(strings.NewReader(""), d, segmenter.DefaultConfig(), nil)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seg.Reset(strings.NewReader(text))
		if _, err := seg.All(); err != nil {
			b.Fatal(err)
		}
	}
}
