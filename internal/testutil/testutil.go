package testutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"GoIK/internal/dict"
)

// WithTempDir creates a temporary directory, calls fn with its path,
// and cleans up afterwards.
func WithTempDir(t *testing.T, fn func(dir string)) {
	t.Helper()
	dir := t.TempDir()
	fn(dir)
}

// MainWords is a small main dictionary suitable for most tests.
var MainWords = []string{
	"中国", "中国人", "人民", "中华", "华人", "中华人民共和国", "共和国",
	"人民政府", "政府", "分词", "分词器", "搜索", "搜索引擎", "引擎",
	"自然", "自然语言", "语言", "处理", "自然语言处理", "t恤",
}

// Quantifiers is a small classifier dictionary.
var Quantifiers = []string{"个", "年", "月", "日", "公里", "公斤", "件"}

// StopWords is a small stop word list.
var StopWords = []string{"a", "an", "the", "of", "的"}

// NewDictionary returns a dictionary loaded with MainWords, Quantifiers
// and StopWords.
func NewDictionary(t testing.TB) *dict.Dictionary {
	t.Helper()
	d := dict.New(nil)
	d.AddWords(MainWords)
	d.AddQuantifiers(Quantifiers)
	d.AddStopWords(StopWords)
	return d
}

// SampleTexts returns mixed-script inputs covering every lexeme type.
func SampleTexts() []string {
	return []string{
		"中华人民共和国",
		"中国人民政府发布了2024年的报告",
		"我买了三件t恤和5公斤苹果",
		"IKAnalyzer是一个开源的分词器, version 2012_u6.",
		"自然语言处理 NLP 和搜索引擎",
		"ｆｕｌｌｗｉｄｔｈ　ＡＢＣ１２３",
		"こんにちは、세계！",
		"",
	}
}

// WriteWordFile writes words, one per line, to dir/name and returns the
// path.
func WriteWordFile(t testing.TB, dir, name string, words ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
	return path
}

// ChunkReader returns at most N bytes per Read call, splitting multi-byte
// runes across reads.
type ChunkReader struct {
	R io.Reader
	N int
}

func (c *ChunkReader) Read(p []byte) (int, error) {
	if len(p) > c.N {
		p = p[:c.N]
	}
	return c.R.Read(p)
}

