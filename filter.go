package prosearch

import "sort"

// A Candidate is a target shortlisted by the diagonal filter. Hits is the
// multiplicity of the target's most-hit diagonal and Diagonal that
// diagonal's value (target position minus query position).
type Candidate struct {
	Target   uint32
	Hits     int
	Diagonal int
}

// FindCandidates slides the index's word across the query, votes every
// posting onto its diagonal, and emits one candidate per target whose
// best diagonal collects at least minSupport seeds. A genuine homology
// stacks its seeds on a single diagonal; noise scatters, so minSupport is
// the precision knob.
//
// Candidates come back sorted by hit count descending, target id ascending.
// An empty or too-short query, or one with no valid windows, yields an
// empty list.
func FindCandidates(ix *SeedIndex, query []byte, minSupport int) []Candidate {
	k := ix.k
	diagonals := make(map[uint32][]int32)
	if len(query) >= k {
		for qPos := 0; qPos+k <= len(query); qPos++ {
			key, ok := EncodeWord(query[qPos : qPos+k])
			if !ok {
				continue
			}
			l := ix.locs[key]
			for j, n := 0, l.Len(); j < n; j++ {
				p := l.At(j)
				d := int32(p.Pos) - int32(qPos)
				diagonals[p.Target] = append(diagonals[p.Target], d)
			}
		}
	}

	candidates := make([]Candidate, 0, len(diagonals))
	for target, diags := range diagonals {
		diag, hits := bestDiagonal(diags)
		if hits >= minSupport {
			candidates = append(candidates, Candidate{
				Target:   target,
				Hits:     hits,
				Diagonal: int(diag),
			})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Hits != candidates[j].Hits {
			return candidates[i].Hits > candidates[j].Hits
		}
		return candidates[i].Target < candidates[j].Target
	})
	return candidates
}

// bestDiagonal returns the mode of the diagonal list and its multiplicity.
// The list is sorted in place so the mode is the longest run of equal
// values; run ties keep the smallest diagonal.
func bestDiagonal(diags []int32) (int32, int) {
	sort.Slice(diags, func(i, j int) bool { return diags[i] < diags[j] })
	best := diags[0]
	bestRun := 0
	cur := diags[0]
	run := 0
	for _, d := range diags {
		if d == cur {
			run++
			continue
		}
		if run > bestRun {
			bestRun = run
			best = cur
		}
		cur = d
		run = 1
	}
	if run > bestRun {
		bestRun = run
		best = cur
	}
	return best, bestRun
}
