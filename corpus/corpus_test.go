package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadMetaAndLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.tsv")
	content := "doc_id\tpage_id\ttitle\tsource_name\n" +
		"1\t100\tAlpha\truwiki\n" +
		"2\t200\t\tother\n" + // empty title: kept in table, absent from Lookup
		"3\t300\tGamma\tru_wikisource\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadMeta(path)
	if err != nil {
		t.Fatal(err)
	}

	row, ok := m.Lookup(1)
	if !ok || row.Title != "Alpha" || row.PageID != 100 {
		t.Errorf("Lookup(1) = %+v, %v", row, ok)
	}

	if _, ok := m.Lookup(2); ok {
		t.Error("Lookup(2) should report absent for an empty title")
	}

	if _, ok := m.Lookup(99); ok {
		t.Error("Lookup(99) should report absent for an unknown doc id")
	}

	row3, ok := m.Lookup(3)
	if !ok || SourceID(row3.SourceName) != SourceWikisource {
		t.Errorf("Lookup(3) SourceName = %q", row3.SourceName)
	}
}

func TestReadMetaEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.tsv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadMeta(path); err == nil {
		t.Error("ReadMeta on an empty file should error")
	}
}

func TestSourceID(t *testing.T) {
	tests := []struct {
		name string
		want uint32
	}{
		{"ruwiki", SourceWikipedia},
		{"ru_wikisource", SourceWikisource},
		{"something_else", SourceOther},
		{"", SourceOther},
	}
	for _, tc := range tests {
		if got := SourceID(tc.name); got != tc.want {
			t.Errorf("SourceID(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestWalkTokFilesSortedByDocID(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10.tok", "2.tok", "1.tok", "notanumber.tok", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := WalkTokFiles(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []uint32{1, 2, 10}
	if len(files) != len(want) {
		t.Fatalf("WalkTokFiles returned %d files, want %d: %+v", len(files), len(want), files)
	}
	for i, tf := range files {
		if tf.DocID != want[i] {
			t.Errorf("files[%d].DocID = %d, want %d", i, tf.DocID, want[i])
		}
	}
}

func TestWalkDocumentsYieldsTxtFilesOnly(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"a.txt", "b.bin"} {
		if err := os.WriteFile(filepath.Join(dir, p), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(sub, "c.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, rel := range WalkDocuments(dir) {
		got = append(got, rel)
	}

	if len(got) != 2 {
		t.Fatalf("WalkDocuments yielded %v, want 2 .txt files", got)
	}
}

func TestWalkDocumentsEarlyStop(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a.txt", "b.txt", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, p), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	count := 0
	for range WalkDocuments(dir) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected the loop to observe exactly one yield before breaking, got %d", count)
	}
}

func TestBaseURL(t *testing.T) {
	if BaseURL(SourceWikisource) != "https://ru.wikisource.org/?curid=" {
		t.Errorf("BaseURL(wikisource) wrong")
	}
	if BaseURL(SourceWikipedia) != "https://ru.wikipedia.org/?curid=" {
		t.Errorf("BaseURL(wikipedia) wrong")
	}
}
