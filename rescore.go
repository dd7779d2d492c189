package prosearch

import (
	"github.com/biogo/biogo/align"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
)

// Window returns the view of seq with the given radius around center,
// clipped to the sequence bounds, together with the offset of the view in
// seq. The view borrows the underlying storage; no residues are copied.
func Window(seq []byte, center, radius int) ([]byte, int) {
	start := center - radius
	if start < 0 {
		start = 0
	}
	end := center + radius
	if end > len(seq) {
		end = len(seq)
	}
	return seq[start:end], start
}

// A GappedRescorer rescores ungapped extensions with local affine-gap
// alignment over a bounded window, so single indels that break one
// diagonal are absorbed here rather than in the filter.
type GappedRescorer struct {
	radius  int
	gapOpen int
	table   align.Linear
}

// NewGappedRescorer builds a rescorer with the given window radius,
// match/mismatch scores and affine gap penalties (gapOpen and gapExtend
// are negative).
func NewGappedRescorer(radius, match, mismatch, gapOpen, gapExtend int) *GappedRescorer {
	return &GappedRescorer{
		radius:  radius,
		gapOpen: gapOpen,
		table:   swTable(alphabet.Protein, match, mismatch, gapExtend),
	}
}

// swTable builds the substitution table for the affine Smith-Waterman
// aligner: match on the diagonal, mismatch elsewhere, the gap-extension
// penalty along the gap row and column.
func swTable(alpha alphabet.Alphabet, match, mismatch, gapExtend int) align.Linear {
	table := make(align.Linear, alpha.Len())
	for i := range table {
		row := make([]int, alpha.Len())
		for j := range row {
			row[j] = mismatch
		}
		row[i] = match
		table[i] = row
	}
	for i := range table {
		table[0][i] = gapExtend
		table[i][0] = gapExtend
	}
	return table
}

// Rescore cuts a window of the configured radius around the midpoint of
// the extension's query and target spans and runs local affine-gap
// alignment between the two windows, returning the gapped score.
func (r *GappedRescorer) Rescore(query, target []byte, ext Extension) (int, error) {
	qWin, _ := Window(query, (ext.QStart+ext.QEnd)/2, r.radius)
	tWin, _ := Window(target, (ext.TStart+ext.TEnd)/2, r.radius)
	return r.Align(qWin, tWin)
}

// Align runs local affine-gap alignment between two residue windows and
// returns the summed segment score.
func (r *GappedRescorer) Align(query, target []byte) (int, error) {
	qs := linear.NewSeq("query", alphabet.BytesToLetters(query), alphabet.Protein)
	ts := linear.NewSeq("target", alphabet.BytesToLetters(target), alphabet.Protein)

	swa := align.SWAffine{Matrix: r.table, GapOpen: r.gapOpen}
	aln, err := swa.Align(qs, ts)
	if err != nil {
		return 0, err
	}

	score := 0
	for _, seg := range aln {
		type scorer interface {
			Score() int
		}
		score += seg.(scorer).Score()
	}
	return score, nil
}
