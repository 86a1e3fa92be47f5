package index

import "github.com/RoaringBitmap/roaring"

// docTermSet dedupes term ids seen within a single document before they
// are appended to the dictionary's posting lists — a term must only
// contribute one posting per document. The reference design hand-rolls
// an open-addressed uint32 set with a 0.7 load factor and an 0xFFFFFFFF
// empty-slot sentinel; a roaring.Bitmap gives the same "is this id new"
// contract with compressed storage and is the container the teacher
// library (comet) uses for its own term/id sets, so the scratch set is
// built on it too.
type docTermSet struct {
	bm *roaring.Bitmap
}

func newDocTermSet() *docTermSet {
	return &docTermSet{bm: roaring.New()}
}

// addIfNew reports whether termID was not already present, inserting it
// either way.
func (s *docTermSet) addIfNew(termID uint32) bool {
	return s.bm.CheckedAdd(termID)
}

// each calls fn once for every term id currently in the set, in
// ascending order (roaring.Bitmap always iterates sorted).
func (s *docTermSet) each(fn func(termID uint32)) {
	it := s.bm.Iterator()
	for it.HasNext() {
		fn(it.Next())
	}
}
