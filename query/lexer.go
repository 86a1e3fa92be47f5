package query

import (
	"github.com/inkindex/ruindex/corpus"
	"github.com/inkindex/ruindex/text"
)

// Lex scans a query string into tokens, inserting the implicit AND that
// lets "cat dog" mean "cat && dog": one is emitted whenever a TERM or ")"
// is immediately followed (after whitespace) by a TERM, "(", or "!".
// A lone byte that starts neither an operator nor a token (a decode
// failure, or a codepoint outside the token alphabet) advances by one and
// is silently skipped: a malformed query never errors here, it
// just loses that byte. The query is normalized to Unicode NFC first,
// the same way a document is before tokenizing, so a composed and a
// decomposed spelling of the same word match.
func Lex(q []byte) []Token {
	q = corpus.NormalizeNFC(q)
	var out []Token
	prev := Kind(-1) // no previous token yet

	isTermOrRParen := func(k Kind) bool { return k == Term || k == RParen }

	i := 0
	n := len(q)
	for i < n {
		c := q[i]
		if isSpace(c) {
			i++
			continue
		}

		switch c {
		case '(':
			if isTermOrRParen(prev) {
				out = append(out, Token{Kind: And})
			}
			out = append(out, Token{Kind: LParen})
			prev = LParen
			i++
			continue
		case ')':
			out = append(out, Token{Kind: RParen})
			prev = RParen
			i++
			continue
		case '!':
			if isTermOrRParen(prev) {
				out = append(out, Token{Kind: And})
			}
			out = append(out, Token{Kind: Not})
			prev = Not
			i++
			continue
		}
		if c == '&' && i+1 < n && q[i+1] == '&' {
			out = append(out, Token{Kind: And})
			prev = And
			i += 2
			continue
		}
		if c == '|' && i+1 < n && q[i+1] == '|' {
			out = append(out, Token{Kind: Or})
			prev = Or
			i += 2
			continue
		}

		save := i
		term, used := readTerm(q[i:])
		if used == 0 {
			i = save + 1
			continue
		}
		i += used
		if term == nil {
			// a tokenic run that stemmed away entirely; nothing to push,
			// but still advance past it.
			continue
		}
		if isTermOrRParen(prev) {
			out = append(out, Token{Kind: And})
		}
		out = append(out, Token{Kind: Term, Text: term})
		prev = Term
	}

	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// readTerm consumes the maximal run of tokenic codepoints starting at
// buf[0], lowercasing and re-encoding each, then stems the result. It
// returns the number of input bytes consumed (0 if buf does not start a
// tokenic run at all) so the caller can resume scanning even when the
// stemmed term comes back empty.
func readTerm(buf []byte) (term []byte, used int) {
	var raw []byte
	pos := 0
	for pos < len(buf) {
		cp, n, err := text.Decode(buf[pos:])
		if err != nil || n == 0 || !text.IsTokenChar(cp) {
			break
		}
		raw = append(raw, text.Encode(text.ToLower(cp))...)
		pos += n
	}
	if pos == 0 {
		return nil, 0
	}
	return text.Stem(raw), pos
}
