package prosearch

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtendRightXDropStop(t *testing.T) {
	e := NewScalarExtender(DefaultScoring)
	ext := e.Extend([]byte("AAAABBBB"), []byte("AAAACCCC"), 0, 0, 3)
	require.Equal(t, 4, ext.Score)
	require.Equal(t, 0, ext.QStart)
	require.Equal(t, 3, ext.QEnd)
	require.Equal(t, 0, ext.TStart)
	require.Equal(t, 3, ext.TEnd)
}

func TestExtendBothDirections(t *testing.T) {
	e := NewScalarExtender(DefaultScoring)
	// Anchor mid-sequence: left and right halves both extend to the
	// boundaries and the anchor residue is counted once.
	ext := e.Extend([]byte("ACDEFGHIKL"), []byte("ACDEFGHIKL"), 5, 5, 10)
	require.Equal(t, 10, ext.Score)
	require.Equal(t, 0, ext.QStart)
	require.Equal(t, 9, ext.QEnd)
	require.Equal(t, 0, ext.TStart)
	require.Equal(t, 9, ext.TEnd)
}

func TestExtendAtBoundaryAnchors(t *testing.T) {
	e := NewScalarExtender(DefaultScoring)

	// Anchor at origin: no leftward half.
	ext := e.Extend([]byte("ACDEF"), []byte("ACDEF"), 0, 0, 5)
	require.Equal(t, 5, ext.Score)
	require.Equal(t, 0, ext.QStart)

	// Anchor at the last residue.
	ext = e.Extend([]byte("ACDEF"), []byte("ACDEF"), 4, 4, 5)
	require.Equal(t, 5, ext.Score)
	require.Equal(t, 4, ext.QEnd)
	require.Equal(t, 0, ext.QStart)
}

// The reported best score must equal the maximum prefix sum of the match
// trajectory, with the stop exactly at the first x-drop violation.
func TestExtendTrajectoryOptimality(t *testing.T) {
	query := []byte("AAABAABBBBAAAA")
	target := []byte("AAAAAABBBBBBBB")
	e := NewScalarExtender(DefaultScoring)

	for xDrop := 0; xDrop <= 6; xDrop++ {
		score, qEnd, _ := e.extendDirection(query, target, 0, 0, 1, xDrop)

		best, cur, bestIdx := 0, 0, 0
		for i := 0; i < len(query) && i < len(target); i++ {
			if query[i] == target[i] {
				cur++
			} else {
				cur--
			}
			if cur > best {
				best, bestIdx = cur, i
			} else if cur < best-xDrop {
				break
			}
		}
		require.Equal(t, best, score, "x-drop %d", xDrop)
		require.Equal(t, bestIdx, qEnd, "x-drop %d", xDrop)
	}
}

// The vector path must be bit-identical to the scalar path, including for
// runs longer than one 32-residue block and stops inside a block.
func TestVectorScalarParity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	scalar := NewScalarExtender(DefaultScoring)
	vector := NewExtender(DefaultScoring)

	alphabet := []byte("ACDEFGHIKLMNPQRSTVWY")
	for trial := 0; trial < 500; trial++ {
		n := 1 + rng.Intn(200)
		query := make([]byte, n)
		target := make([]byte, n)
		for i := range query {
			query[i] = alphabet[rng.Intn(4)] // small alphabet: long match runs
			target[i] = alphabet[rng.Intn(4)]
		}
		xDrop := rng.Intn(20)

		sScore, sq, st := scalar.extendDirection(query, target, 0, 0, 1, xDrop)
		vScore, vq, vt := vector.extendRight(query, target, 0, 0, xDrop)
		require.Equal(t, sScore, vScore, "trial %d", trial)
		require.Equal(t, sq, vq, "trial %d", trial)
		require.Equal(t, st, vt, "trial %d", trial)
	}
}

func TestExtendCandidatesAnchorsAndOrder(t *testing.T) {
	store := newTestStore(t,
		"AAAAACDEFGHIKLMAAAAA",
		"ACDEFGHIKLMNPQRSTVWY",
	)
	e := NewScalarExtender(DefaultScoring)
	query := []byte("CDEFGHIKLM")

	cands := []Candidate{
		{Target: 1, Hits: 6, Diagonal: 1},  // anchor (0, 1)
		{Target: 0, Hits: 6, Diagonal: 5},  // anchor (0, 5)
		{Target: 1, Hits: 1, Diagonal: 99}, // anchor out of bounds: dropped
	}
	hits := ExtendCandidates(e, store, query, cands, 10, 50)
	require.Len(t, hits, 2)
	// Both targets align all 10 residues; the score tie breaks by id.
	require.Equal(t, uint32(0), hits[0].Target)
	require.Equal(t, 10, hits[0].Score)
	require.Equal(t, uint32(1), hits[1].Target)
	require.Equal(t, 10, hits[1].Score)

	// The budget caps how many candidates are extended at all.
	require.Len(t, ExtendCandidates(e, store, query, cands, 10, 1), 1)
}

func TestExtendWithBlosumScorer(t *testing.T) {
	e := NewExtender(Blosum62{})
	// BLOSUM62 diagonal for W is 11; identity extension sums the
	// diagonal entries.
	ext := e.Extend([]byte("WWW"), []byte("WWW"), 0, 0, 10)
	require.Equal(t, 33, ext.Score)

	score := Blosum62{}.Score('A', 'A')
	require.Equal(t, 4, score)
	require.Equal(t, -3, Blosum62{}.Score('W', 'A'))
	require.Equal(t, Blosum62{}.Score('a', 'r'), Blosum62{}.Score('A', 'R'))
}
