package prosearch

import (
	"fmt"
	"sort"
	"unsafe"
)

// MinWordLen and MaxWordLen bound the contiguous word length accepted by
// index builds.
const (
	MinWordLen = 3
	MaxWordLen = MaxWordWeight
)

// A Posting records one indexed occurrence of a word: the target it occurs
// in and the offset of the word's first residue.
type Posting struct {
	Target uint32
	Pos    uint16
}

func (p Posting) String() string {
	return fmt.Sprintf("(%d, %d)", p.Target, p.Pos)
}

// postingInlineCap is the number of postings a list holds without touching
// the heap. Word frequencies are long-tailed: most keys carry one or two
// postings, so inline storage covers the common case.
const postingInlineCap = 2

// A PostingList is the multiset of postings for one word key. Short lists
// live inline; longer lists spill to a heap slice. Insertion order is the
// build scan order.
type PostingList struct {
	n      uint8
	inline [postingInlineCap]Posting
	spill  []Posting
}

// push appends a posting, returning the updated list so it can live as a
// map value without per-key pointer indirection.
func (l PostingList) push(p Posting) PostingList {
	if int(l.n) < postingInlineCap {
		l.inline[l.n] = p
		l.n++
		return l
	}
	l.spill = append(l.spill, p)
	return l
}

// Len returns the number of postings in the list.
func (l PostingList) Len() int { return int(l.n) + len(l.spill) }

// At returns the i'th posting in insertion order.
func (l PostingList) At(i int) Posting {
	if i < int(l.n) {
		return l.inline[i]
	}
	return l.spill[i-int(l.n)]
}

// Postings returns a copy of the list in insertion order.
func (l PostingList) Postings() []Posting {
	out := make([]Posting, 0, l.Len())
	for i := 0; i < int(l.n); i++ {
		out = append(out, l.inline[i])
	}
	return append(out, l.spill...)
}

// SeedIndex is a build-once inverted map from contiguous word keys to
// posting lists. It is immutable after BuildSeedIndex returns and may be
// shared by concurrent readers without synchronisation.
type SeedIndex struct {
	k    int
	locs map[uint64]PostingList
}

// BuildSeedIndex indexes every valid length-k window of every target in the
// store. Windows containing a non-standard residue are skipped. The map is
// pre-sized to the residue count, an upper bound on the number of postings.
func BuildSeedIndex(store *SequenceStore, k int) (*SeedIndex, error) {
	if k < MinWordLen || k > MaxWordLen {
		return nil, fmt.Errorf("%w: word length %d outside [%d, %d]",
			ErrInvalidParam, k, MinWordLen, MaxWordLen)
	}
	verbosef("building seed index with k=%d over %d targets...", k, store.Len())
	locs := make(map[uint64]PostingList, store.ResidueCount())
	for id := uint32(0); int(id) < store.Len(); id++ {
		seq := store.Seq(id)
		for i := 0; i+k <= len(seq); i++ {
			key, ok := EncodeWord(seq[i : i+k])
			if !ok {
				continue
			}
			locs[key] = locs[key].push(Posting{Target: id, Pos: uint16(i)})
		}
	}
	verbosef("seed index built: %d distinct words", len(locs))
	return &SeedIndex{k: k, locs: locs}, nil
}

// K returns the word length the index was built with.
func (ix *SeedIndex) K() int { return ix.k }

// Words returns the number of distinct word keys in the index.
func (ix *SeedIndex) Words() int { return len(ix.locs) }

// Lookup returns the posting list for a word key. The second result is
// false if the key is absent.
func (ix *SeedIndex) Lookup(key uint64) (PostingList, bool) {
	l, ok := ix.locs[key]
	return l, ok
}

// SearchBasic ranks targets by raw seed votes: each posting reached from a
// valid query window counts one vote for its target, diagonals ignored.
// Ties break by target id ascending.
func (ix *SeedIndex) SearchBasic(query []byte, topN int) []Hit {
	votes := make(map[uint32]uint32)
	if len(query) >= ix.k {
		for i := 0; i+ix.k <= len(query); i++ {
			key, ok := EncodeWord(query[i : i+ix.k])
			if !ok {
				continue
			}
			l := ix.locs[key]
			for j, n := 0, l.Len(); j < n; j++ {
				votes[l.At(j).Target]++
			}
		}
	}
	hits := make([]Hit, 0, len(votes))
	for target, n := range votes {
		hits = append(hits, Hit{Target: target, Score: n})
	}
	sortHits(hits)
	return truncateHits(hits, topN)
}

// MemoryUsage estimates the resident size of the index in bytes. The map
// skeleton is approximated from its length; posting spill slices are
// counted at capacity.
func (ix *SeedIndex) MemoryUsage() int {
	const postingSize = int(unsafe.Sizeof(Posting{}))
	total := int(unsafe.Sizeof(*ix))
	entrySize := int(unsafe.Sizeof(uint64(0)) + unsafe.Sizeof(PostingList{}))
	total += len(ix.locs) * (entrySize + 1)
	for _, l := range ix.locs {
		total += cap(l.spill) * postingSize
	}
	return total
}

// sortHits orders hits by score descending, target id ascending.
func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Target < hits[j].Target
	})
}

func truncateHits(hits []Hit, topN int) []Hit {
	if topN >= 0 && len(hits) > topN {
		hits = hits[:topN]
	}
	return hits
}
