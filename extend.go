package prosearch

import "sort"

// An Extension is the result of ungapped X-drop extension from an anchor:
// the summed best score of the leftward and rightward half-extensions and
// the query/target coordinates at which those bests were reached. The two
// ranges always have equal length.
type Extension struct {
	Score  int
	QStart int
	QEnd   int
	TStart int
	TEnd   int
}

// An Extender performs X-drop ungapped extension along a diagonal. The
// rightward direction takes a 32-residue vectorised fast path when the CPU
// supports it and the scorer is the match/mismatch scheme; the scalar
// implementation is authoritative and the two produce bit-identical
// results. The leftward direction is always scalar: reversing the byte
// stream would cost more than the comparison saves.
type Extender struct {
	scorer Scorer
	mm     MatchMismatch
	simd   bool
}

// NewExtender returns an extender using the given scorer, with the
// vectorised fast path enabled when the CPU and scorer allow it.
func NewExtender(scorer Scorer) *Extender {
	e := &Extender{scorer: scorer}
	if mm, ok := scorer.(MatchMismatch); ok && hasVectorCompare {
		e.mm = mm
		e.simd = true
	}
	return e
}

// NewScalarExtender returns an extender pinned to the scalar path. Parity
// tests compare the vector path against it.
func NewScalarExtender(scorer Scorer) *Extender {
	return &Extender{scorer: scorer}
}

// Extend grows an ungapped alignment from the anchor (qAnchor, tAnchor):
// rightward from the anchor itself and leftward from one position before
// it, so the anchor residue is scored exactly once. Each half-extension
// keeps a running score and stops at a sequence boundary or when the
// running score drops more than xDrop below its best.
func (e *Extender) Extend(query, target []byte, qAnchor, tAnchor, xDrop int) Extension {
	rScore, rq, rt := e.extendRight(query, target, qAnchor, tAnchor, xDrop)

	lScore, lq, lt := 0, qAnchor, tAnchor
	if qAnchor > 0 && tAnchor > 0 {
		lScore, lq, lt = e.extendDirection(query, target, qAnchor-1, tAnchor-1, -1, xDrop)
	}

	return Extension{
		Score:  lScore + rScore,
		QStart: lq,
		QEnd:   rq,
		TStart: lt,
		TEnd:   rt,
	}
}

func (e *Extender) extendRight(query, target []byte, qStart, tStart, xDrop int) (int, int, int) {
	if e.simd {
		return e.extendRightVector(query, target, qStart, tStart, xDrop)
	}
	return e.extendDirection(query, target, qStart, tStart, 1, xDrop)
}

// extendDirection is the scalar extension loop, stepping +1 or -1 along
// the diagonal from (qStart, tStart) inclusive.
func (e *Extender) extendDirection(query, target []byte, qStart, tStart, step, xDrop int) (int, int, int) {
	best, cur := 0, 0
	bestQ, bestT := qStart, tStart

	q, t := qStart, tStart
	for q >= 0 && t >= 0 && q < len(query) && t < len(target) {
		cur += e.scorer.Score(query[q], target[t])
		if cur > best {
			best = cur
			bestQ, bestT = q, t
		} else if cur < best-xDrop {
			break
		}
		q += step
		t += step
	}
	return best, bestQ, bestT
}

// extendRightVector processes 32 residues per step: one equality-mask
// instruction pair, then a register-only walk of the mask bits applying
// the same running-score rule as the scalar loop. The tail shorter than
// 32 residues finishes scalar, carrying the running state over.
func (e *Extender) extendRightVector(query, target []byte, qStart, tStart, xDrop int) (int, int, int) {
	best, cur := 0, 0
	bestQ, bestT := qStart, tStart

	q, t := qStart, tStart
	for q+32 <= len(query) && t+32 <= len(target) {
		mask := equalMask32(&query[q], &target[t])
		for i := 0; i < 32; i++ {
			if mask&1 != 0 {
				cur += e.mm.Match
			} else {
				cur += e.mm.Mismatch
			}
			if cur > best {
				best = cur
				bestQ, bestT = q+i, t+i
			} else if cur < best-xDrop {
				return best, bestQ, bestT
			}
			mask >>= 1
		}
		q += 32
		t += 32
	}

	for q < len(query) && t < len(target) {
		if query[q] == target[t] {
			cur += e.mm.Match
		} else {
			cur += e.mm.Mismatch
		}
		if cur > best {
			best = cur
			bestQ, bestT = q, t
		} else if cur < best-xDrop {
			break
		}
		q++
		t++
	}
	return best, bestQ, bestT
}

// An ExtendedHit pairs a target with its ungapped extension.
type ExtendedHit struct {
	Target uint32
	Extension
}

// ExtendCandidates anchors each of the first budget candidates on its best
// diagonal and extends it. Candidates whose anchor falls outside either
// sequence are dropped. Results are sorted by score descending, target id
// ascending.
func ExtendCandidates(e *Extender, store *SequenceStore, query []byte, cands []Candidate, xDrop, budget int) []ExtendedHit {
	if budget >= 0 && len(cands) > budget {
		cands = cands[:budget]
	}
	hits := make([]ExtendedHit, 0, len(cands))
	for _, c := range cands {
		target := store.Seq(c.Target)

		var qAnchor, tAnchor int
		if c.Diagonal >= 0 {
			qAnchor, tAnchor = 0, c.Diagonal
		} else {
			qAnchor, tAnchor = -c.Diagonal, 0
		}
		if qAnchor >= len(query) || tAnchor >= len(target) {
			continue
		}

		ext := e.Extend(query, target, qAnchor, tAnchor, xDrop)
		hits = append(hits, ExtendedHit{Target: c.Target, Extension: ext})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Target < hits[j].Target
	})
	return hits
}
