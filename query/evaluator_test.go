package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkindex/ruindex/index"
)

// buildView lays out the two-document fixture from spec.md §8:
//   doc 1 "Alpha": tokens cat, dog
//   doc 2 "Beta":  tokens dog, fish
func buildView(t *testing.T) *index.View {
	t.Helper()
	dir := t.TempDir()
	tokDir := filepath.Join(dir, "tok")
	if err := os.Mkdir(tokDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tokDir, "1.tok"), []byte("cat\ndog\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tokDir, "2.tok"), []byte("dog\nfish\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	metaPath := filepath.Join(dir, "meta.tsv")
	meta := "doc_id\tpage_id\ttitle\tsource_name\n" +
		"1\t100\tAlpha\truwiki\n" +
		"2\t101\tBeta\truwiki\n"
	if err := os.WriteFile(metaPath, []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}

	w := index.NewWriter()
	if err := w.AddBatch(tokDir, metaPath, nil); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(dir, "index.bin")
	f, err := os.Create(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteTo(f); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	v, err := index.Load(outPath)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func run(t *testing.T, v *index.View, q string) List {
	t.Helper()
	toks := Lex([]byte(q))
	postfix := ToPostfix(toks)
	got, err := Eval(v, postfix)
	if err != nil {
		t.Fatalf("Eval(%q): %v", q, err)
	}
	return got
}

func TestEvalScenarios(t *testing.T) {
	v := buildView(t)

	tests := []struct {
		query string
		want  []uint32
	}{
		{"cat", []uint32{1}},
		{"dog", []uint32{1, 2}},
		{"fish", []uint32{2}},
		{"cat && dog", []uint32{1}},
		{"cat dog", []uint32{1}}, // implicit AND
		{"cat || fish", []uint32{1, 2}},
		{"!cat", []uint32{2}},
		{"dog && !cat", []uint32{2}},
		{"absent", nil},
		{"absent || cat", []uint32{1}},
	}
	for _, tc := range tests {
		got := run(t, v, tc.query)
		if !equalList(got, tc.want) {
			t.Errorf("query %q = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func equalList(a List, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEvalMalformedPostfixIsEmptyNotError(t *testing.T) {
	v := buildView(t)

	// AND with nothing on the stack at all.
	postfix := []Token{opToken(And)}
	got, err := Eval(v, postfix)
	if err != nil {
		t.Fatalf("Eval should never error on malformed postfix: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("malformed postfix = %v, want empty", got)
	}
}

func TestEvalResultIsAscending(t *testing.T) {
	v := buildView(t)
	got := run(t, v, "cat || dog || fish")
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("result not strictly ascending: %v", got)
		}
	}
}
