package vocab

import (
	"bufio"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ParseWordList reads one word per line from r, decoding it with the
// charset named in contentType (UTF-8 when absent). Blank lines and lines
// that do not decode to clean text are skipped and counted.
func ParseWordList(r io.Reader, contentType string) (words []string, skipped int, err error) {
	charset := "utf-8"
	if contentType != "" {
		if _, params, perr := mime.ParseMediaType(contentType); perr == nil && params["charset"] != "" {
			charset = strings.ToLower(params["charset"])
		}
	}

	src := r
	if charset != "utf-8" && charset != "utf8" {
		enc, lerr := htmlindex.Get(charset)
		if lerr != nil {
			return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedCharset, charset)
		}
		src = transform.NewReader(r, enc.NewDecoder())
	}

	br := bufio.NewReader(src)
	first := true
	for {
		line, rerr := br.ReadString('\n')
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if w := strings.TrimSpace(line); w != "" {
			if clean(w) {
				words = append(words, w)
			} else {
				skipped++
			}
		}
		if rerr == io.EOF {
			return words, skipped, nil
		}
		if rerr != nil {
			return words, skipped, fmt.Errorf("read word list: %w", rerr)
		}
	}
}

func clean(w string) bool {
	if !utf8.ValidString(w) {
		return false
	}
	for _, r := range w {
		if r == utf8.RuneError || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
