package prosearch

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T, seqs ...string) *SequenceStore {
	t.Helper()
	store := NewSequenceStore(0)
	for i, seq := range seqs {
		store.Add(fmt.Sprintf("P%d", i+1), []byte(seq))
	}
	return store
}

func TestPostingListInlineAndSpill(t *testing.T) {
	var l PostingList
	want := []Posting{}
	for i := 0; i < 7; i++ {
		p := Posting{Target: uint32(i), Pos: uint16(i * 3)}
		l = l.push(p)
		want = append(want, p)
	}
	if l.Len() != 7 {
		t.Fatalf("Len = %d, want 7", l.Len())
	}
	if diff := cmp.Diff(want, l.Postings()); diff != "" {
		t.Errorf("postings mismatch (-want +got):\n%s", diff)
	}
	for i, p := range want {
		if l.At(i) != p {
			t.Errorf("At(%d) = %v, want %v", i, l.At(i), p)
		}
	}
}

func TestBuildSeedIndexRejectsBadK(t *testing.T) {
	store := newTestStore(t, "ACDEFGHIKLM")
	for _, k := range []int{0, 1, 2, 13, 20} {
		if _, err := BuildSeedIndex(store, k); err == nil {
			t.Errorf("BuildSeedIndex(k=%d) succeeded, want error", k)
		}
	}
}

// Every valid window of every target must be findable under its own key.
func TestIndexCompleteness(t *testing.T) {
	store := newTestStore(t,
		"ACDEFGHIKLMNPQRSTVWY",
		"MNPQRSTVWYACDEFGHIKL",
		"AAAAACDEFGHIKLMAAAAA",
	)
	const k = 5
	index, err := BuildSeedIndex(store, k)
	if err != nil {
		t.Fatal(err)
	}
	for id := uint32(0); int(id) < store.Len(); id++ {
		seq := store.Seq(id)
		for i := 0; i+k <= len(seq); i++ {
			key, ok := EncodeWord(seq[i : i+k])
			if !ok {
				continue
			}
			l, found := index.Lookup(key)
			if !found {
				t.Fatalf("key for %q missing", seq[i:i+k])
			}
			if !containsPosting(l, id, uint16(i)) {
				t.Errorf("posting (%d,%d) for %q missing", id, i, seq[i:i+k])
			}
		}
	}
}

// Windows containing an ambiguous residue must never be indexed.
func TestIndexSkipsInvalidWindows(t *testing.T) {
	store := newTestStore(t, "ACDEFXGHIKLM")
	index, err := BuildSeedIndex(store, 5)
	if err != nil {
		t.Fatal(err)
	}
	// Only the windows at 0, 6 and 7 avoid the X.
	if index.Words() != 3 {
		t.Fatalf("Words = %d, want 3", index.Words())
	}
	for _, want := range []struct {
		word string
		pos  uint16
	}{
		{"ACDEF", 0},
		{"GHIKL", 6},
		{"HIKLM", 7},
	} {
		key, ok := EncodeWord([]byte(want.word))
		if !ok {
			t.Fatalf("EncodeWord(%q) invalid", want.word)
		}
		l, found := index.Lookup(key)
		if !found || !containsPosting(l, 0, want.pos) {
			t.Errorf("missing posting (0,%d) for %q", want.pos, want.word)
		}
	}
}

// A spaced pattern of all 1s must build the same index as the contiguous
// word of that length.
func TestSpacedAllOnesEqualsContiguous(t *testing.T) {
	store := newTestStore(t,
		"ACDEFGHIKLMNPQRSTVWY",
		"AAAAACDEFGHIKLMAAAAA",
		"WYACDXFGHIKLMNPQRSTV",
	)
	const k = 5
	contiguous, err := BuildSeedIndex(store, k)
	if err != nil {
		t.Fatal(err)
	}
	pattern, err := ParsePattern("11111")
	if err != nil {
		t.Fatal(err)
	}
	spaced := BuildSpacedIndex(store, pattern)

	if contiguous.Words() != spaced.Words() {
		t.Fatalf("word counts differ: %d vs %d", contiguous.Words(), spaced.Words())
	}
	for key, l := range contiguous.locs {
		sl, ok := spaced.Lookup(key)
		if !ok {
			t.Fatalf("key %d missing from spaced index", key)
		}
		if diff := cmp.Diff(l.Postings(), sl.Postings()); diff != "" {
			t.Errorf("postings for key %d differ (-contiguous +spaced):\n%s", key, diff)
		}
	}
}

func TestSearchBasicVoting(t *testing.T) {
	store := newTestStore(t,
		"ACDEFGHIKLMNPQRSTVWY",
		"WYWYWYWYWYWYWYWYWYWY",
	)
	index, err := BuildSeedIndex(store, 5)
	if err != nil {
		t.Fatal(err)
	}
	hits := index.SearchBasic([]byte("ACDEFGHIKL"), 10)
	if len(hits) != 1 || hits[0].Target != 0 {
		t.Fatalf("hits = %v, want P1 only", hits)
	}
	// Six windows of length 5 in a 10-residue query, all unique to P1.
	if hits[0].Score != 6 {
		t.Errorf("votes = %d, want 6", hits[0].Score)
	}

	if hits := index.SearchBasic([]byte("ACD"), 10); len(hits) != 0 {
		t.Errorf("short query hits = %v, want none", hits)
	}
	if hits := index.SearchBasic(nil, 10); len(hits) != 0 {
		t.Errorf("empty query hits = %v, want none", hits)
	}
}

func TestSpacedSearchBasic(t *testing.T) {
	store := newTestStore(t,
		"ACDEFGHIKLMNPQRSTVWY",
		"WYWYWYWYWYWYWYWYWYWY",
	)
	pattern, err := ParsePattern("1101011")
	if err != nil {
		t.Fatal(err)
	}
	index := BuildSpacedIndex(store, pattern)
	hits := index.SearchBasic([]byte("ACDEFGHIKLMN"), 10)
	if len(hits) != 1 || hits[0].Target != 0 {
		t.Fatalf("hits = %v, want P1 only", hits)
	}
}

func containsPosting(l PostingList, target uint32, pos uint16) bool {
	for i, n := 0, l.Len(); i < n; i++ {
		if l.At(i) == (Posting{Target: target, Pos: pos}) {
			return true
		}
	}
	return false
}
