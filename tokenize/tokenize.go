// Package tokenize streams a document file into a newline-delimited token
// file, applying the codepoint classification and optional stemming from
// package text.
package tokenize

import (
	"bufio"
	"io"
	"os"

	"github.com/inkindex/ruindex/corpus"
	"github.com/inkindex/ruindex/text"
)

// Stats reports what happened while tokenizing one document.
type Stats struct {
	BytesIn        uint64
	TokensOut      uint64
	TokenCharsSum  uint64 // sum of pre-stem codepoint counts of emitted tokens
}

// AvgTokenLen returns the mean pre-stem codepoint length of emitted
// tokens, or 0 if none were emitted.
func (s Stats) AvgTokenLen() float64 {
	if s.TokensOut == 0 {
		return 0
	}
	return float64(s.TokenCharsSum) / float64(s.TokensOut)
}

// File reads the document at path entirely into memory, normalizes it to
// Unicode NFC, scans it codepoint by codepoint, and writes one lower-cased
// (and, if doStem, stemmed) token per line to w. A decode error advances
// by a single byte and flushes whatever token was in progress, so garbage
// input never stalls the scan and never merges unrelated runs.
func File(path string, w io.Writer, doStem bool) (Stats, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, err
	}
	return fromBytes(corpus.NormalizeNFC(buf), w, doStem)
}

func fromBytes(buf []byte, w io.Writer, doStem bool) (Stats, error) {
	var st Stats
	st.BytesIn = uint64(len(buf))

	bw := bufio.NewWriter(w)

	var tok []byte
	var tokChars uint64

	flush := func() error {
		if len(tok) == 0 {
			return nil
		}
		out := tok
		if doStem {
			out = text.Stem(out)
		}
		if _, err := bw.Write(out); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		st.TokensOut++
		st.TokenCharsSum += tokChars
		tok = tok[:0]
		tokChars = 0
		return nil
	}

	i := 0
	for i < len(buf) {
		cp, used, err := text.Decode(buf[i:])
		if err != nil || used == 0 {
			if ferr := flush(); ferr != nil {
				return st, ferr
			}
			i++
			continue
		}

		if text.IsTokenChar(cp) {
			tok = append(tok, text.Encode(text.ToLower(cp))...)
			tokChars++
		} else {
			if ferr := flush(); ferr != nil {
				return st, ferr
			}
		}
		i += used
	}

	if err := flush(); err != nil {
		return st, err
	}
	return st, bw.Flush()
}
