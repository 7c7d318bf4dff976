package vocab

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestParseWordList(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		want        []string
		skipped     int
	}{
		{"plain", "中国\n人民\n", "", []string{"中国", "人民"}, 0},
		{"crlf and blanks", "中国\r\n\r\n  人民  \r\n", "text/plain", []string{"中国", "人民"}, 0},
		{"bom", "\ufeff中国\n", "text/plain; charset=utf-8", []string{"中国"}, 0},
		{"invalid utf8 line", "中国\n\xff\xfe\n人民", "text/plain; charset=UTF-8", []string{"中国", "人民"}, 1},
		{"control characters", "a\x00b\n词", "", []string{"词"}, 1},
		{"no trailing newline", "中国", "", []string{"中国"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped, err := ParseWordList(strings.NewReader(tt.body), tt.contentType)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) || skipped != tt.skipped {
				t.Errorf("ParseWordList = %v (skipped %d), want %v (skipped %d)", got, skipped, tt.want, tt.skipped)
			}
		})
	}
}

func TestParseWordList_GBK(t *testing.T) {
	var buf bytes.Buffer
	enc := simplifiedchinese.GBK.NewEncoder().Writer(&buf)
	if _, err := enc.Write([]byte("中国\n分词器\n")); err != nil {
		t.Fatal(err)
	}
	got, _, err := ParseWordList(&buf, "text/plain; charset=GBK")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"中国", "分词器"}) {
		t.Errorf("got %v", got)
	}
}

func TestParseWordList_UnsupportedCharset(t *testing.T) {
	_, _, err := ParseWordList(strings.NewReader("x"), "text/plain; charset=klingon")
	if !errors.Is(err, ErrUnsupportedCharset) {
		t.Errorf("err = %v, want ErrUnsupportedCharset", err)
	}
}
