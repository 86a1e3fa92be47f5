package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/inkindex/ruindex/corpus"
)

// docRecord is the in-memory accumulation of one document's metadata,
// assigned a global doc id at AddBatch time.
type docRecord struct {
	sourceID uint32
	pageID   uint32
	title    []byte
}

// Writer builds an in-memory dictionary and doc table across one or more
// AddBatch calls, then serializes them as an index.bin. It mirrors the
// reference indexer's algorithm (spec.md §4.6) exactly: assign global doc
// ids in enumeration order, scan each token file, dedupe terms per
// document, append to posting lists, then sort terms and compute offsets
// at the end.
type Writer struct {
	d    *dict
	docs []docRecord
}

// NewWriter returns an empty Writer, ready for one or more AddBatch
// calls.
func NewWriter() *Writer {
	return &Writer{d: newDict()}
}

// DocsCount returns the number of documents added so far.
func (w *Writer) DocsCount() int { return len(w.docs) }

// TermsCount returns the number of distinct terms seen so far.
func (w *Writer) TermsCount() int { return w.d.size() }

// Progress is called by AddBatch after each document is scanned, for
// callers that want to log progress the way the reference indexer prints
// "[prog] docs=... terms=..." every 1000 documents.
type Progress func(docsCount, termsCount int)

// AddBatch scans every "<doc_id>.tok" file under tokDir, in ascending
// doc-id order, joining each to its row in the metadata TSV at metaTSV.
// Documents with an empty or missing title are skipped (spec.md §6.3).
// Global doc ids are assigned in enumeration order across the whole
// Writer, not reset per batch, so invariant I1 holds across --add calls.
func (w *Writer) AddBatch(tokDir, metaTSV string, progress Progress) error {
	meta, err := corpus.ReadMeta(metaTSV)
	if err != nil {
		return fmt.Errorf("index: read metadata: %w", err)
	}

	files, err := corpus.WalkTokFiles(tokDir)
	if err != nil {
		return fmt.Errorf("index: walk token files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("index: no .tok files found in %s", tokDir)
	}

	for _, tf := range files {
		row, ok := meta.Lookup(tf.DocID)
		if !ok {
			continue
		}

		if err := w.addDocument(tf.Path, row); err != nil {
			return fmt.Errorf("index: %s: %w", tf.Path, err)
		}

		if progress != nil {
			progress(len(w.docs), w.d.size())
		}
	}
	return nil
}

func (w *Writer) addDocument(tokPath string, row corpus.Row) error {
	f, err := os.Open(tokPath)
	if err != nil {
		return err
	}
	defer f.Close()

	globalID := uint32(len(w.docs) + 1)
	set := newDocTermSet()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		term := trimCR(sc.Text())
		if term == "" {
			continue
		}
		id := w.d.getOrAdd(term)
		set.addIfNew(id)
	}
	if err := sc.Err(); err != nil {
		return err
	}

	set.each(func(termID uint32) {
		w.d.append(termID, globalID)
	})

	w.docs = append(w.docs, docRecord{
		sourceID: corpus.SourceID(row.SourceName),
		pageID:   row.PageID,
		title:    []byte(row.Title),
	})
	return nil
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}

// WriteTo serializes the builder's current state to out as an index.bin,
// following the exact section layout in spec.md §6.1. It is modeled
// directly on the teacher library's FlatIndex.WriteTo: a fixed-size
// header written last (so every offset is known up front, then the
// file is rewound and the header overwritten in place — the same
// two-pass approach the reference C indexer uses), little-endian
// encoding/binary for every scalar field, and wrapped errors at each
// step.
func (w *Writer) WriteTo(out io.WriteSeeker) (int64, error) {
	termsCount := uint32(w.d.size())
	order := make([]uint32, termsCount)
	for i := range order {
		order[i] = uint32(i)
	}
	sort.Slice(order, func(i, j int) bool {
		return w.d.terms[order[i]] < w.d.terms[order[j]]
	})

	postingsOffsetByTerm := make([]uint64, termsCount)
	var postingsBytes uint64
	for _, termID := range order {
		postingsOffsetByTerm[termID] = postingsBytes
		postingsBytes += uint64(w.d.df[termID]) * 4
	}

	bw := &byteCounter{w: out}

	if err := bw.write(make([]byte, headerBytes)); err != nil {
		return bw.n, fmt.Errorf("index: write header placeholder: %w", err)
	}

	dictOffset := uint64(bw.n)
	for _, termID := range order {
		term := w.d.terms[termID]
		if err := bw.writeU32(uint32(len(term))); err != nil {
			return bw.n, fmt.Errorf("index: write dict entry: %w", err)
		}
		if err := bw.write([]byte(term)); err != nil {
			return bw.n, fmt.Errorf("index: write term bytes: %w", err)
		}
		if err := bw.writeU64(postingsOffsetByTerm[termID]); err != nil {
			return bw.n, fmt.Errorf("index: write posting offset: %w", err)
		}
		if err := bw.writeU32(w.d.df[termID]); err != nil {
			return bw.n, fmt.Errorf("index: write df: %w", err)
		}
		if err := bw.writeU32(0); err != nil {
			return bw.n, fmt.Errorf("index: write reserved: %w", err)
		}
	}
	dictBytes := uint64(bw.n) - dictOffset

	postingsOffset := uint64(bw.n)
	for _, termID := range order {
		for _, doc := range w.d.postings[termID] {
			if err := bw.writeU32(doc); err != nil {
				return bw.n, fmt.Errorf("index: write posting: %w", err)
			}
		}
	}

	docsOffset := uint64(bw.n)
	if err := bw.writeU64(uint64(len(w.docs))); err != nil {
		return bw.n, fmt.Errorf("index: write docs_count: %w", err)
	}

	docOffsets := make([]uint64, len(w.docs))
	var rel uint64
	for i, rec := range w.docs {
		docOffsets[i] = rel
		rel += uint64(4+4+4+4) + uint64(len(rec.title))
	}
	for _, off := range docOffsets {
		if err := bw.writeU64(off); err != nil {
			return bw.n, fmt.Errorf("index: write doc offset: %w", err)
		}
	}
	for i, rec := range w.docs {
		docID := uint32(i + 1)
		if err := bw.writeU32(docID); err != nil {
			return bw.n, fmt.Errorf("index: write doc id: %w", err)
		}
		if err := bw.writeU32(rec.sourceID); err != nil {
			return bw.n, fmt.Errorf("index: write source id: %w", err)
		}
		if err := bw.writeU32(rec.pageID); err != nil {
			return bw.n, fmt.Errorf("index: write page id: %w", err)
		}
		if err := bw.writeU32(uint32(len(rec.title))); err != nil {
			return bw.n, fmt.Errorf("index: write title len: %w", err)
		}
		if err := bw.write(rec.title); err != nil {
			return bw.n, fmt.Errorf("index: write title: %w", err)
		}
	}
	docsBytes := uint64(bw.n) - docsOffset

	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return bw.n, fmt.Errorf("index: seek to header: %w", err)
	}

	hdr := bufio.NewWriter(out)
	if _, err := hdr.WriteString(Magic); err != nil {
		return bw.n, fmt.Errorf("index: write magic: %w", err)
	}
	fields := []uint64{
		uint64(Version2),
		0, // flags
		uint64(len(w.docs)),
		uint64(termsCount),
		dictOffset,
		dictBytes,
		postingsOffset,
		postingsBytes,
		docsOffset,
		docsBytes,
	}
	// version and flags are u32, the rest u64; write them in header order.
	if err := binary.Write(hdr, binary.LittleEndian, uint32(fields[0])); err != nil {
		return bw.n, fmt.Errorf("index: write version: %w", err)
	}
	if err := binary.Write(hdr, binary.LittleEndian, uint32(fields[1])); err != nil {
		return bw.n, fmt.Errorf("index: write flags: %w", err)
	}
	for _, v := range fields[2:] {
		if err := binary.Write(hdr, binary.LittleEndian, v); err != nil {
			return bw.n, fmt.Errorf("index: write header field: %w", err)
		}
	}

	const writtenHeaderBytes = 8 + 4 + 4 + 8*8 // magic + version + flags + eight u64 fields
	if _, err := hdr.Write(make([]byte, headerBytes-writtenHeaderBytes)); err != nil {
		return bw.n, fmt.Errorf("index: write header padding: %w", err)
	}
	if err := hdr.Flush(); err != nil {
		return bw.n, fmt.Errorf("index: flush header: %w", err)
	}

	return bw.n, nil
}

// byteCounter wraps an io.Writer and tracks the number of bytes written,
// the way the teacher's WriteTo helpers do.
type byteCounter struct {
	w io.Writer
	n int64
}

func (b *byteCounter) write(p []byte) error {
	n, err := b.w.Write(p)
	b.n += int64(n)
	return err
}

func (b *byteCounter) writeU32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return b.write(buf[:])
}

func (b *byteCounter) writeU64(v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return b.write(buf[:])
}
