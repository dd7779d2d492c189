// Package bench generates mutated queries with known ground truth and
// measures retrieval quality and latency across pipeline configurations.
package bench

import (
	"fmt"
	"math/rand"

	"github.com/ndaniels/prosearch"
)

// residueAlphabet is the draw pool for substituted residues.
var residueAlphabet = []byte("ACDEFGHIKLMNPQRSTVWY")

// A GroundTruthQuery is a mutated window of a known target, carrying the
// target id so rankings can be scored against the truth.
type GroundTruthQuery struct {
	Sequence []byte
	Target   uint32
	Pos      int
	Info     string
}

// QueryConfig controls query sampling: the window length cut from a
// target and the per-residue substitution and deletion probabilities.
type QueryConfig struct {
	Length    int
	SubRate   float64
	IndelRate float64
}

// SampleQueries draws n random windows from the store and mutates each
// according to cfg. Targets shorter than the window length are skipped, so
// fewer than n queries may come back on tiny databases.
func SampleQueries(store *prosearch.SequenceStore, n int, cfg QueryConfig, rng *rand.Rand) []GroundTruthQuery {
	queries := make([]GroundTruthQuery, 0, n)
	for i := 0; i < n; i++ {
		target := uint32(rng.Intn(store.Len()))
		seq := store.Seq(target)
		if len(seq) < cfg.Length {
			continue
		}
		start := rng.Intn(len(seq) - cfg.Length + 1)
		window := seq[start : start+cfg.Length]
		queries = append(queries, GroundTruthQuery{
			Sequence: mutate(window, cfg.SubRate, cfg.IndelRate, rng),
			Target:   target,
			Pos:      start,
			Info:     fmt.Sprintf("sub:%g, indel:%g", cfg.SubRate, cfg.IndelRate),
		})
	}
	return queries
}

// mutate substitutes or deletes residues independently at the configured
// rates.
func mutate(seq []byte, subRate, indelRate float64, rng *rand.Rand) []byte {
	out := make([]byte, 0, len(seq))
	for _, aa := range seq {
		switch roll := rng.Float64(); {
		case roll < subRate:
			out = append(out, residueAlphabet[rng.Intn(len(residueAlphabet))])
		case roll < subRate+indelRate:
			// deletion
		default:
			out = append(out, aa)
		}
	}
	return out
}
