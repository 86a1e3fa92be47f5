package freq

import (
	"os"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// AddFileUAX29 is an alternate word-boundary counting mode: instead of
// treating each line of the file as one finished token, it segments the
// file's whole text with Unicode UAX#29 word boundaries and folds each
// word-like segment, as is, into the running counts. It reads whatever
// file it is given; cmd/freq passes it the same "*.tok" files it passes
// AddFile. Its counts are not bit-exact with the AddFile path — UAX#29
// makes different case and punctuation decisions than the stemmer's
// tokenic-codepoint scan — so it exists as a corpus-shape sanity check,
// not a substitute for AddFile.
func (r *Result) AddFileUAX29(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	toks := words.FromString(string(buf))
	for toks.Next() {
		w := toks.Value()
		if !isWordlike(w) {
			continue
		}
		r.term2cnt[w]++
		r.totalTokens++
	}
	return nil
}

// isWordlike filters UAX#29 segments down to ones containing at least one
// letter or digit, discarding pure whitespace/punctuation segments that
// the segmenter also emits.
func isWordlike(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
