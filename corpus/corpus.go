// Package corpus is the external collaborator that walks a directory of
// documents (or token files) and parses the sidecar metadata TSV. The core
// index builder consumes only the small contracts this package produces —
// an iterator of (path, relative path) pairs and a metadata row lookup —
// never the directory-walking mechanics themselves.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrLineTooLong guards the metadata TSV's documented 16384-byte line cap.
var ErrLineTooLong = errors.New("corpus: metadata line exceeds 16384 bytes")

const maxMetaLineBytes = 16384

// Source identifiers, per the metadata TSV's source_name column.
const (
	SourceUnknown    uint32 = 0
	SourceWikipedia  uint32 = 1
	SourceWikisource uint32 = 2
	SourceOther      uint32 = 3
)

// SourceID maps a metadata source_name to its numeric id.
func SourceID(name string) uint32 {
	switch name {
	case "ruwiki":
		return SourceWikipedia
	case "ru_wikisource":
		return SourceWikisource
	default:
		return SourceOther
	}
}

// BaseURL returns the result-formatting URL prefix for a source id.
func BaseURL(sourceID uint32) string {
	switch sourceID {
	case SourceWikipedia:
		return "https://ru.wikipedia.org/?curid="
	case SourceWikisource:
		return "https://ru.wikisource.org/?curid="
	default:
		return "https://ru.wikipedia.org/?curid="
	}
}

// Row is one parsed row of the metadata TSV.
type Row struct {
	DocID      uint32
	PageID     uint32
	Title      string
	SourceName string
}

// Meta is a metadata table keyed by the local (batch-scoped) doc id.
type Meta struct {
	rows  map[uint32]Row
	maxID uint32
}

// Lookup returns the row for a local doc id, if present and non-empty.
func (m *Meta) Lookup(localDocID uint32) (Row, bool) {
	r, ok := m.rows[localDocID]
	if !ok || r.Title == "" {
		return Row{}, false
	}
	return r, true
}

// ReadMeta parses the metadata TSV at path: one header line, then rows of
// doc_id, page_id, title, source_name. Rows with an empty title are kept
// in the table but reported as absent by Lookup, matching the spec's
// "skip during build" rule without discarding the row's doc_id space.
func ReadMeta(path string) (*Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), maxMetaLineBytes)

	if !sc.Scan() {
		return nil, fmt.Errorf("corpus: empty metadata file %s", path)
	}

	m := &Meta{rows: make(map[uint32]Row)}
	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		row, err := parseMetaRow(line)
		if err != nil {
			return nil, fmt.Errorf("corpus: %s line %d: %w", path, lineNo, err)
		}
		m.rows[row.DocID] = row
		if row.DocID > m.maxID {
			m.maxID = row.DocID
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, ErrLineTooLong
		}
		return nil, err
	}
	return m, nil
}

func parseMetaRow(line string) (Row, error) {
	fields := strings.SplitN(line, "\t", 4)
	if len(fields) != 4 {
		return Row{}, fmt.Errorf("expected 4 tab-separated columns, got %d", len(fields))
	}
	docID, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return Row{}, fmt.Errorf("bad doc_id: %w", err)
	}
	pageID, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return Row{}, fmt.Errorf("bad page_id: %w", err)
	}
	return Row{
		DocID:      uint32(docID),
		PageID:     uint32(pageID),
		Title:      fields[2],
		SourceName: fields[3],
	}, nil
}

// TokFile is one enumerated token file paired with the local doc id
// encoded in its name.
type TokFile struct {
	Path  string
	DocID uint32
}

// WalkTokFiles enumerates "<doc_id>.tok" files under dir, returning them
// sorted ascending by doc id — the order the index writer must visit
// documents in to preserve invariant I1 (strictly increasing postings).
func WalkTokFiles(dir string) ([]TokFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []TokFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".tok") {
			continue
		}
		id, ok := leadingDigits(strings.TrimSuffix(name, ".tok"))
		if !ok {
			continue
		}
		out = append(out, TokFile{Path: filepath.Join(dir, name), DocID: id})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DocID < out[j].DocID })
	return out, nil
}

func leadingDigits(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// WalkDocuments returns an iterator of (full path, relative path) pairs
// for every ".txt" file under root, recursively, in lexical order. This
// is the callback-free re-expression the spec's design notes call for:
// the tokenizer stage ranges over it directly instead of registering a
// callback.
func WalkDocuments(root string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".txt") {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if !yield(path, rel) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// NormalizeNFC applies Unicode canonical composition to document bytes
// before tokenizing and to query bytes before lexing, so a composed and a
// decomposed spelling of the same word scan identically. It runs ahead
// of, not instead of, the codepoint classifier in package text, and
// never touches the ASCII/Cyrillic case-folding those do.
func NormalizeNFC(b []byte) []byte {
	return norm.NFC.Bytes(b)
}
