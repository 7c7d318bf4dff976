package benchmark

import (
	"context"
	"fmt"
	"testing"

	"GoIK/internal/dict"
)

func BenchmarkDict_OpenDefaults(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := dict.Open(context.Background(), dict.Config{}, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDict_MatchMain(b *testing.B) {
	d, err := dict.Open(context.Background(), dict.Config{}, nil)
	if err != nil {
		b.Fatal(err)
	}
	d.AddWords([]string{"中华人民共和国"})
	text := []rune("中华人民共和国")
	view := d.Snapshot()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = view.MatchMain(text, 0, len(text))
	}
}

// Each AddWords publishes a new View, copying only the touched path.
func BenchmarkDict_AddWords(b *testing.B) {
	d := dict.New(nil)
	words := make([]string, 1000)
	for i := range words {
		words[i] = fmt.Sprintf("词%d", i)
	}
	d.AddWords(words)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.AddWords([]string{fmt.Sprintf("新词%d", i)})
	}
}
