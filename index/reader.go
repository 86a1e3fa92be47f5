package index

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// View is a memory-loaded, immutable index.bin. It is safe for
// concurrent queries: nothing here mutates after Load returns (spec.md
// §5 — multiple search processes, or goroutines within one, may share a
// View).
type View struct {
	base []byte
	hdr  header

	// dictTermOff[i] is the byte offset, within base, of the i-th
	// dictionary record in file order. Built once at load time by a
	// linear walk, then binary-searched by term bytes — this is the
	// auxiliary table spec.md §4.7 describes.
	dictTermOff []uint64

	docsOffsPtr    []byte
	docsRecordsPtr []byte
}

// Load reads path fully into memory, validates the header and every
// section's bounds, and builds the dictionary offset table for binary
// search. It never returns a partially usable View: any error leaves the
// returned pointer nil.
func Load(path string) (*View, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(buf)
}

// LoadBytes is Load with the file contents already in memory, used by
// tests and by callers that source the index bytes from somewhere other
// than the filesystem.
func LoadBytes(buf []byte) (*View, error) {
	if len(buf) < headerBytes {
		return nil, fmt.Errorf("index: %w: file shorter than header", ErrTruncated)
	}
	if !bytes.Equal(buf[:8], []byte(Magic)) {
		return nil, ErrBadMagic
	}

	h := header{
		Version:        binary.LittleEndian.Uint32(buf[8:12]),
		Flags:          binary.LittleEndian.Uint32(buf[12:16]),
		DocsCount:      binary.LittleEndian.Uint64(buf[16:24]),
		TermsCount:     binary.LittleEndian.Uint64(buf[24:32]),
		DictOffset:     binary.LittleEndian.Uint64(buf[32:40]),
		DictBytes:      binary.LittleEndian.Uint64(buf[40:48]),
		PostingsOffset: binary.LittleEndian.Uint64(buf[48:56]),
		PostingsBytes:  binary.LittleEndian.Uint64(buf[56:64]),
		DocsOffset:     binary.LittleEndian.Uint64(buf[64:72]),
		DocsBytes:      binary.LittleEndian.Uint64(buf[72:80]),
	}

	if h.Version != Version1 && h.Version != Version2 {
		return nil, fmt.Errorf("index: %w: version %d", ErrBadVersion, h.Version)
	}

	n := uint64(len(buf))
	if h.DictOffset+h.DictBytes > n || h.PostingsOffset+h.PostingsBytes > n || h.DocsOffset+h.DocsBytes > n {
		return nil, ErrTruncated
	}

	v := &View{base: buf, hdr: h}

	off := h.DictOffset
	v.dictTermOff = make([]uint64, h.TermsCount)
	for i := uint64(0); i < h.TermsCount; i++ {
		v.dictTermOff[i] = off
		if off+4 > n {
			return nil, ErrTruncated
		}
		termLen := uint64(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4 + termLen + 8 + 4 + 4
		if off > h.DictOffset+h.DictBytes {
			return nil, ErrTruncated
		}
	}

	if h.DocsBytes < 8 {
		return nil, ErrTruncated
	}
	docsPtr := buf[h.DocsOffset:]
	v.docsOffsPtr = docsPtr[8:]
	v.docsRecordsPtr = docsPtr[8+8*h.DocsCount:]

	return v, nil
}

// Version reports the docs-record layout version (1 or 2).
func (v *View) Version() uint32 { return v.hdr.Version }

// DocsCount reports the number of documents in the index.
func (v *View) DocsCount() uint64 { return v.hdr.DocsCount }

// TermsCount reports the number of distinct terms in the index.
func (v *View) TermsCount() uint64 { return v.hdr.TermsCount }

func (v *View) termAt(off uint64) (term []byte, postingOff uint64, df uint32) {
	termLen := binary.LittleEndian.Uint32(v.base[off : off+4])
	term = v.base[off+4 : off+4+uint64(termLen)]
	p := off + 4 + uint64(termLen)
	postingOff = binary.LittleEndian.Uint64(v.base[p : p+8])
	df = binary.LittleEndian.Uint32(v.base[p+8 : p+12])
	return term, postingOff, df
}

// Find looks up term in the dictionary by binary search over the
// strictly-sorted (invariant I5) term-byte order. It reports false if
// the term is absent — a normal, never-an-error outcome (spec.md §7).
func (v *View) Find(term []byte) (postingOff uint64, df uint32, found bool) {
	lo, hi := 0, len(v.dictTermOff)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		tb, pOff, d := v.termAt(v.dictTermOff[mid])
		c := bytes.Compare(term, tb)
		switch {
		case c == 0:
			return pOff, d, true
		case c < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return 0, 0, false
}

// Postings materializes the df doc ids starting at the given relative
// postings offset, as returned by Find.
func (v *View) Postings(postingOff uint64, df uint32) ([]uint32, error) {
	abs := v.hdr.PostingsOffset + postingOff
	need := abs + uint64(df)*4
	if need > uint64(len(v.base)) {
		return nil, ErrTruncated
	}
	out := make([]uint32, df)
	p := v.base[abs:]
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(p[4*i : 4*i+4])
	}
	return out, nil
}

// DocMeta is one document's metadata as stored in the docs section.
type DocMeta struct {
	DocID    uint32
	SourceID uint32
	PageID   uint32
	Title    []byte
}

// DocMeta reads the record for docID (1-based). It dispatches on the
// index's version: V1 records have no source_id field and are reported
// with SourceID == corpus.SourceWikipedia, matching the reference
// reader's v1 fallback in spec.md §4.7.
func (v *View) DocMeta(docID uint32) (DocMeta, error) {
	if docID == 0 || uint64(docID) > v.hdr.DocsCount {
		return DocMeta{}, fmt.Errorf("index: doc id %d out of range", docID)
	}
	relOff := binary.LittleEndian.Uint64(v.docsOffsPtr[8*(docID-1) : 8*docID])
	rec := v.docsRecordsPtr[relOff:]

	if v.hdr.Version >= Version2 {
		sourceID := binary.LittleEndian.Uint32(rec[4:8])
		pageID := binary.LittleEndian.Uint32(rec[8:12])
		titleLen := binary.LittleEndian.Uint32(rec[12:16])
		return DocMeta{
			DocID:    docID,
			SourceID: sourceID,
			PageID:   pageID,
			Title:    rec[16 : 16+titleLen],
		}, nil
	}

	pageID := binary.LittleEndian.Uint32(rec[4:8])
	titleLen := binary.LittleEndian.Uint32(rec[8:12])
	return DocMeta{
		DocID:    docID,
		SourceID: 1,
		PageID:   pageID,
		Title:    rec[12 : 12+titleLen],
	}, nil
}
