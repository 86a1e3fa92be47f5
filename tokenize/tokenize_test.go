package tokenize

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"testing/quick"

	"github.com/inkindex/ruindex/text"
)

func linesOf(t *testing.T, b []byte) []string {
	t.Helper()
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestFromBytesBasic(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		doStem  bool
		want    []string
	}{
		{"simple latin", "hello, world!", false, []string{"hello", "world"}},
		{"digits and letters merge", "abc123 def", false, []string{"abc123", "def"}},
		{"russian no stem", "Кот и Собака", false, []string{"кот", "и", "собака"}},
		{"russian stemmed", "кот и собака", true, []string{"кот", "и", "собак"}},
		{"empty input", "", false, nil},
		{"only punctuation", "!!! ... ,,,", false, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := fromBytes([]byte(tc.in), &buf, tc.doStem)
			if err != nil {
				t.Fatalf("fromBytes error: %v", err)
			}
			got := linesOf(t, buf.Bytes())
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestFromBytesStats(t *testing.T) {
	var buf bytes.Buffer
	st, err := fromBytes([]byte("привет мир"), &buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if st.TokensOut != 2 {
		t.Errorf("TokensOut = %d, want 2", st.TokensOut)
	}
	// привет = 6 codepoints, мир = 3 codepoints
	if st.TokenCharsSum != 9 {
		t.Errorf("TokenCharsSum = %d, want 9", st.TokenCharsSum)
	}
	if got := st.AvgTokenLen(); got != 4.5 {
		t.Errorf("AvgTokenLen() = %v, want 4.5", got)
	}
}

// TestReTokenizeIsStable exercises the spec's idempotence property:
// tokenizing an unstemmed token file (LF-separated tokens, each already
// made only of tokenic characters) reproduces the same token sequence,
// since newlines are non-tokenic and never merge adjacent tokens.
func TestReTokenizeIsStable(t *testing.T) {
	var first bytes.Buffer
	if _, err := fromBytes([]byte("Привет, мир! 2024 год."), &first, false); err != nil {
		t.Fatal(err)
	}
	want := linesOf(t, first.Bytes())

	var second bytes.Buffer
	if _, err := fromBytes(first.Bytes(), &second, false); err != nil {
		t.Fatal(err)
	}
	got := linesOf(t, second.Bytes())

	if len(got) != len(want) {
		t.Fatalf("re-tokenize: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("re-tokenize line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

// FuzzFromBytes checks the fuzz properties from the spec: tokenizing
// arbitrary (possibly invalid) UTF-8 never panics, never emits a token
// containing a non-tokenic codepoint, and never emits more token bytes
// than input bytes.
func FuzzFromBytes(f *testing.F) {
	f.Add([]byte("hello world"))
	f.Add([]byte{0xff, 0xfe, 0x00, 'a', 0xd0})
	f.Add([]byte("кот и собака"))

	f.Fuzz(func(t *testing.T, in []byte) {
		var buf bytes.Buffer
		if _, err := fromBytes(in, &buf, true); err != nil {
			t.Fatalf("fromBytes returned error on fuzz input: %v", err)
		}

		total := 0
		for _, line := range linesOf(t, buf.Bytes()) {
			total += len(line)
			for _, r := range line {
				if !validAfterStem(r) {
					t.Fatalf("token %q contains disallowed rune %U", line, r)
				}
			}
		}
		if total > len(in) {
			t.Fatalf("emitted %d token bytes from %d input bytes", total, len(in))
		}
	})
}

// validAfterStem reports whether r may appear in an emitted token. Every
// token is built from lower-cased token-char codepoints and stemming only
// removes whole trailing codepoints, so each rune left must be a token
// char (an invalid byte would decode as U+FFFD and fail this check).
func validAfterStem(r rune) bool {
	return text.IsTokenChar(r)
}

func TestQuickCheckNoPanicOnRandomBytes(t *testing.T) {
	f := func(in []byte) bool {
		var buf bytes.Buffer
		_, err := fromBytes(in, &buf, false)
		return err == nil
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
