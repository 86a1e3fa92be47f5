package text

import "testing"

func TestStem(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		// From the end-to-end fixture: "кот и собака" / "Кошка".
		{"кот matches no suffix and is kept whole", "кот", "кот"},
		{"single letter и stays below the stem floor", "и", "и"},
		{"собака trims trailing а to 10 bytes", "собака", "собак"},
		{"кошка trims trailing а", "кошка", "кошк"},
		{"numeric token is never touched", "5кот5", "5кот5"},
		{"non-cyrillic ascii token is never touched", "hello", "hello"},
		{"token already below the floor is not trimmed", "яя", "яя"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := string(Stem([]byte(tc.in)))
			if got != tc.want {
				t.Errorf("Stem(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStemIdempotent(t *testing.T) {
	words := []string{"кот", "собака", "кошка", "государственного", "иями", "человеку"}
	for _, w := range words {
		once := string(Stem([]byte(w)))
		twice := string(Stem([]byte(once)))
		if once != twice {
			t.Errorf("Stem not idempotent for %q: Stem(x)=%q Stem(Stem(x))=%q", w, once, twice)
		}
	}
}

func TestStemNeverCrossesFloor(t *testing.T) {
	// A token that is already under the 6-byte floor is returned as is,
	// even though it ends in a listed suffix.
	got := string(Stem([]byte("яя"))) // 4 bytes, already below floor entry check
	if got != "яя" {
		t.Errorf("Stem(яя) = %q, want unchanged яя", got)
	}
}
