package text

// minStemBytes is the floor below which no trimming pass is allowed to
// shrink a term further.
const minStemBytes = 6

// suffixes is the ordered, first-match-wins suffix table. The reference
// source lists "ыми"/"ими" twice; the duplicates are removed here per the
// spec's design note — behavior is unchanged since first match already won.
var suffixes = []string{
	"иями",
	"ями", "ами", "ыми", "ими",
	"ого", "его", "ому", "ему",
	"ых", "их", "ах", "ях",
	"ов", "ев", "ом", "ем", "ам", "ям",
	"ую", "юю", "ая", "яя", "ое", "ее",
	"ый", "ий", "ые", "ие",
	"а", "я", "о", "е", "ы", "и", "у", "ю",
}

// Stem trims a light set of Russian suffixes from tok in place and
// returns the (possibly shorter) result. It never crosses minStemBytes,
// leaves numeric tokens untouched, and is a no-op on anything that does
// not look like Cyrillic UTF-8. Each rule is applied at most once per call,
// so a result can still end in a listed suffix and Stem is not idempotent
// in general: Stem("здоровое") is "здоров", and Stem("здоров") is "здор".
//
// Build and query must call Stem identically, or postings silently lose
// recall (invariant I7 in the index format).
func Stem(tok []byte) []byte {
	n := len(tok)
	if n < minStemBytes {
		return tok
	}
	if hasASCIIDigit(tok) {
		return tok
	}
	if !looksCyrillicUTF8(tok[:n-1]) {
		return tok
	}

	// Reflexive "ся"/"сь": D1 81 D1 8F | D1 81 D1 8C
	if n >= 4 {
		end := tok[n-4:]
		if end[0] == 0xD1 && end[1] == 0x81 && end[2] == 0xD1 && (end[3] == 0x8F || end[3] == 0x8C) {
			if n-4 >= minStemBytes {
				n -= 4
			}
		}
	}

	for _, suf := range suffixes {
		m := len(suf)
		if m == 0 || m > n {
			continue
		}
		if hasSuffix(tok[:n], suf) {
			if n-m >= minStemBytes {
				n -= m
			}
			break
		}
	}

	if n >= 2 {
		b0, b1 := tok[n-2], tok[n-1]
		if b0 == 0xD1 && (b1 == 0x8C || b1 == 0x8A) {
			if n-2 >= minStemBytes {
				n -= 2
			}
		}
	}

	return tok[:n]
}

func hasASCIIDigit(s []byte) bool {
	for _, b := range s {
		if b >= '0' && b <= '9' {
			return true
		}
	}
	return false
}

func looksCyrillicUTF8(s []byte) bool {
	for _, b := range s {
		if b == 0xD0 || b == 0xD1 {
			return true
		}
	}
	return false
}

func hasSuffix(s []byte, suf string) bool {
	if len(suf) > len(s) {
		return false
	}
	return string(s[len(s)-len(suf):]) == suf
}
