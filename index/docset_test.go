package index

import "testing"

func TestDocTermSetAddIfNew(t *testing.T) {
	s := newDocTermSet()

	if !s.addIfNew(5) {
		t.Error("first add of 5 should report new")
	}
	if s.addIfNew(5) {
		t.Error("second add of 5 should report not new")
	}
	if !s.addIfNew(1) {
		t.Error("first add of 1 should report new")
	}
}

func TestDocTermSetEachIsSortedAscending(t *testing.T) {
	s := newDocTermSet()
	for _, id := range []uint32{9, 1, 5, 3} {
		s.addIfNew(id)
	}

	var got []uint32
	s.each(func(termID uint32) { got = append(got, termID) })

	want := []uint32{1, 3, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("each produced %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("each()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
