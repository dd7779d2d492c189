package bench

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/ndaniels/prosearch"
)

// A Result aggregates retrieval quality over one benchmark scenario.
type Result struct {
	Name          string
	RecallAt1     float64
	RecallAt10    float64
	MRR           float64
	AvgTimeMS     float64
	AvgCandidates float64
}

func (r Result) String() string {
	return fmt.Sprintf("%-20s | R@1: %.4f | R@10: %.4f | MRR: %.4f | Time: %.4fms | Cands: %.1f",
		r.Name, r.RecallAt1, r.RecallAt10, r.MRR, r.AvgTimeMS, r.AvgCandidates)
}

// Calculate scores one ranking per query against its ground-truth target.
// MRR uses 1/(rank+1) and counts a miss as zero.
func Calculate(name string, rankings [][]prosearch.Hit, truths []uint32, totalTimeMS float64) Result {
	n := len(truths)
	at1 := make([]float64, n)
	at10 := make([]float64, n)
	rr := make([]float64, n)
	cands := make([]float64, n)

	for i, hits := range rankings {
		cands[i] = float64(len(hits))
		for rank, hit := range hits {
			if hit.Target != truths[i] {
				continue
			}
			if rank == 0 {
				at1[i] = 1
			}
			if rank < 10 {
				at10[i] = 1
			}
			rr[i] = 1 / float64(rank+1)
			break
		}
	}

	return Result{
		Name:          name,
		RecallAt1:     stat.Mean(at1, nil),
		RecallAt10:    stat.Mean(at10, nil),
		MRR:           stat.Mean(rr, nil),
		AvgTimeMS:     totalTimeMS / float64(n),
		AvgCandidates: stat.Mean(cands, nil),
	}
}
