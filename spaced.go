package prosearch

// SpacedIndex is the spaced-pattern flavour of the seed index: only window
// positions selected by the pattern contribute to the key, which tolerates
// mismatches at the masked positions without widening the key space.
// Like SeedIndex it is immutable after build.
type SpacedIndex struct {
	pattern    *SpacedPattern
	numTargets int
	locs       map[uint64]PostingList
}

// BuildSpacedIndex indexes every window of span(pattern) residues across
// every target, keyed by the pattern-selected positions. Windows whose
// selected positions include a non-standard residue are skipped.
func BuildSpacedIndex(store *SequenceStore, pattern *SpacedPattern) *SpacedIndex {
	verbosef("building spaced index (pattern %s, weight %d, span %d)...",
		pattern, pattern.Weight(), pattern.Span())
	span := pattern.Span()
	locs := make(map[uint64]PostingList, store.ResidueCount())
	for id := uint32(0); int(id) < store.Len(); id++ {
		seq := store.Seq(id)
		for i := 0; i+span <= len(seq); i++ {
			key, ok := EncodeSpaced(seq[i:i+span], pattern.mask)
			if !ok {
				continue
			}
			locs[key] = locs[key].push(Posting{Target: id, Pos: uint16(i)})
		}
	}
	verbosef("spaced index built: %d distinct words", len(locs))
	return &SpacedIndex{pattern: pattern, numTargets: store.Len(), locs: locs}
}

// Pattern returns the pattern the index was built with.
func (ix *SpacedIndex) Pattern() *SpacedPattern { return ix.pattern }

// Words returns the number of distinct word keys in the index.
func (ix *SpacedIndex) Words() int { return len(ix.locs) }

// Lookup returns the posting list for a word key. The second result is
// false if the key is absent.
func (ix *SpacedIndex) Lookup(key uint64) (PostingList, bool) {
	l, ok := ix.locs[key]
	return l, ok
}

// SearchBasic ranks targets by raw seed votes under the spaced pattern.
// Votes accumulate in a dense per-target array with an active-id list, so
// building and sorting the hit list tracks the number of distinct targets
// hit; the vote array itself is allocated at store size on every call.
// Ties break by target id ascending.
func (ix *SpacedIndex) SearchBasic(query []byte, topN int) []Hit {
	span := ix.pattern.Span()
	votes := make([]uint32, ix.numTargets)
	var active []uint32
	for i := 0; i+span <= len(query); i++ {
		key, ok := EncodeSpaced(query[i:i+span], ix.pattern.mask)
		if !ok {
			continue
		}
		l := ix.locs[key]
		for j, n := 0, l.Len(); j < n; j++ {
			target := l.At(j).Target
			if votes[target] == 0 {
				active = append(active, target)
			}
			votes[target]++
		}
	}
	hits := make([]Hit, 0, len(active))
	for _, target := range active {
		hits = append(hits, Hit{Target: target, Score: votes[target]})
	}
	sortHits(hits)
	return truncateHits(hits, topN)
}
