// Package freq counts term frequencies over a set of token files and
// derives the sorted-descending counts used to check a corpus's Zipf
// behavior, grounded on the reference frequency counter (lab5).
package freq

import (
	"bufio"
	"fmt"
	"os"
	"sort"
)

// Result accumulates term counts across one or more AddFile calls.
type Result struct {
	term2cnt    map[string]uint64
	totalTokens uint64
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{term2cnt: make(map[string]uint64)}
}

// TotalTokens is the number of tokens counted across every AddFile and
// AddFileUAX29 call, counting repeats: non-empty lines for AddFile,
// word-like segments for AddFileUAX29.
func (r *Result) TotalTokens() uint64 { return r.totalTokens }

// DistinctTerms is the number of distinct terms seen.
func (r *Result) DistinctTerms() int { return len(r.term2cnt) }

// AddFile reads path as a newline-delimited token file (the same format
// package tokenize produces) and folds every non-empty line into the
// running counts.
func (r *Result) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := trimCR(sc.Text())
		if line == "" {
			continue
		}
		r.term2cnt[line]++
		r.totalTokens++
	}
	return sc.Err()
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}

// SortedCountsDesc returns every term's count, sorted descending, with no
// term identity attached — exactly the input freq_sorted_counts_desc's
// Zipf-law check needs.
func (r *Result) SortedCountsDesc() []uint64 {
	counts := make([]uint64, 0, len(r.term2cnt))
	for _, c := range r.term2cnt {
		counts = append(counts, c)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i] > counts[j] })
	return counts
}

// SaveTermsTSV writes "term\tcount" rows, one per distinct term, in
// unspecified (map iteration) order — callers that need a stable file
// for diffing should sort downstream.
func (r *Result) SaveTermsTSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString("term\tcount\n"); err != nil {
		return err
	}
	for term, count := range r.term2cnt {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", term, count); err != nil {
			return err
		}
	}
	return w.Flush()
}

// SaveZipfTSV writes "rank\tfrequency" rows for the sorted-descending
// counts, one-indexed.
func SaveZipfTSV(path string, countsDesc []uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString("rank\tfrequency\n"); err != nil {
		return err
	}
	for i, c := range countsDesc {
		if _, err := fmt.Fprintf(w, "%d\t%d\n", i+1, c); err != nil {
			return err
		}
	}
	return w.Flush()
}
