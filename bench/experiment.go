package bench

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/ndaniels/prosearch"
)

// Task names accepted by Run.
const (
	TaskK      = "k"
	TaskFilter = "filter"
	TaskIndel  = "indel"
	TaskSpaced = "spaced"
	TaskAll    = "all"
)

// Run executes the named benchmark task against a loaded store and returns
// the collected scenario results.
func Run(task string, store *prosearch.SequenceStore, rng *rand.Rand) ([]Result, error) {
	switch task {
	case TaskK:
		return KTradeoff(store, rng), nil
	case TaskFilter:
		return FilterComparison(store, rng), nil
	case TaskIndel:
		return IndelTest(store, rng), nil
	case TaskSpaced:
		return SpacedSeedTest(store, rng), nil
	case TaskAll:
		var all []Result
		all = append(all, KTradeoff(store, rng)...)
		all = append(all, FilterComparison(store, rng)...)
		all = append(all, IndelTest(store, rng)...)
		all = append(all, SpacedSeedTest(store, rng)...)
		return all, nil
	}
	return nil, fmt.Errorf("unknown bench task %q", task)
}

// KTradeoff measures recall and latency of basic voting as the word length
// grows from 3 to 7. Longer words cut candidate noise but miss mutated
// regions.
func KTradeoff(store *prosearch.SequenceStore, rng *rand.Rand) []Result {
	fmt.Println("\n=== Task 1: K-mer Trade-off ===")

	cfg := QueryConfig{Length: 60, SubRate: 0.10}
	queries := SampleQueries(store, 100, cfg, rng)
	truths := groundTruths(queries)

	var results []Result
	for k := 3; k <= 7; k++ {
		buildStart := time.Now()
		index, err := prosearch.BuildSeedIndex(store, k)
		if err != nil {
			panic(err)
		}
		buildTime := time.Since(buildStart)

		start := time.Now()
		rankings := make([][]prosearch.Hit, len(queries))
		for i, q := range queries {
			rankings[i] = index.SearchBasic(q.Sequence, 10)
		}
		elapsed := msSince(start)

		res := Calculate(fmt.Sprintf("k=%d", k), rankings, truths, elapsed)
		fmt.Println(res)
		fmt.Printf("   (build: %v, %d distinct words, ~%d bytes)\n",
			buildTime, index.Words(), index.MemoryUsage())
		results = append(results, res)
	}
	return results
}

// FilterComparison pits raw voting against the diagonal filter at k=5 on
// heavily substituted queries.
func FilterComparison(store *prosearch.SequenceStore, rng *rand.Rand) []Result {
	fmt.Println("\n=== Task 2: Diagonal Filtering vs Voting (k=5) ===")

	cfg := QueryConfig{Length: 60, SubRate: 0.20}
	queries := SampleQueries(store, 100, cfg, rng)
	truths := groundTruths(queries)

	index, err := prosearch.BuildSeedIndex(store, 5)
	if err != nil {
		panic(err)
	}

	start := time.Now()
	voting := make([][]prosearch.Hit, len(queries))
	for i, q := range queries {
		voting[i] = index.SearchBasic(q.Sequence, 10)
	}
	resA := Calculate("voting", voting, truths, msSince(start))
	fmt.Println(resA)

	start = time.Now()
	diagonal := make([][]prosearch.Hit, len(queries))
	for i, q := range queries {
		diagonal[i] = diagonalHits(index, q.Sequence, 10)
	}
	resB := Calculate("diagonal", diagonal, truths, msSince(start))
	fmt.Println(resB)

	return []Result{resA, resB}
}

// IndelTest compares ungapped-only ranking with gapped rescoring on
// queries carrying deletions, where a single indel splits the best
// diagonal and only the gapped aligner can stitch it back.
func IndelTest(store *prosearch.SequenceStore, rng *rand.Rand) []Result {
	fmt.Println("\n=== Task 3: Indel Robustness (ungapped vs gapped rescore) ===")

	cfg := QueryConfig{Length: 80, SubRate: 0.05, IndelRate: 0.10}
	queries := SampleQueries(store, 50, cfg, rng)
	truths := groundTruths(queries)

	index, err := prosearch.BuildSeedIndex(store, 5)
	if err != nil {
		panic(err)
	}
	extender := prosearch.NewExtender(prosearch.DefaultScoring)
	rescorer := prosearch.NewGappedRescorer(50, 1, -1, -10, -1)

	ungapped := make([][]prosearch.Hit, len(queries))
	gapped := make([][]prosearch.Hit, len(queries))

	start := time.Now()
	for i, q := range queries {
		cands := prosearch.FindCandidates(index, q.Sequence, 2)
		exts := prosearch.ExtendCandidates(extender, store, q.Sequence, cands, 10, 50)

		uhits := make([]prosearch.Hit, 0, len(exts))
		for _, eh := range exts {
			uhits = append(uhits, prosearch.Hit{Target: eh.Target, Score: clampScore(eh.Score)})
		}
		ungapped[i] = uhits

		rescored := exts
		if len(rescored) > 20 {
			rescored = rescored[:20]
		}
		ghits := make([]prosearch.Hit, 0, len(rescored))
		for _, eh := range rescored {
			score := eh.Score
			if sw, err := rescorer.Rescore(q.Sequence, store.Seq(eh.Target), eh.Extension); err == nil {
				score = sw
			}
			ghits = append(ghits, prosearch.Hit{Target: eh.Target, Score: clampScore(score)})
		}
		sort.Slice(ghits, func(a, b int) bool {
			if ghits[a].Score != ghits[b].Score {
				return ghits[a].Score > ghits[b].Score
			}
			return ghits[a].Target < ghits[b].Target
		})
		gapped[i] = ghits
	}
	elapsed := msSince(start)

	resA := Calculate("ungapped only", ungapped, truths, elapsed)
	resB := Calculate("ungapped+sw", gapped, truths, elapsed)
	fmt.Println(resA)
	fmt.Println(resB)
	if resA.MRR > 0 {
		fmt.Printf(">> MRR improvement: %.2f%%\n", (resB.MRR-resA.MRR)/resA.MRR*100)
	}
	return []Result{resA, resB}
}

// SpacedSeedTest compares a contiguous weight-5 word against the 1101011
// spaced pattern (same weight, span 7) at a 30% substitution rate, where
// spaced seeds tolerate the mismatches contiguous words cannot.
func SpacedSeedTest(store *prosearch.SequenceStore, rng *rand.Rand) []Result {
	fmt.Println("\n=== Task 4: Spaced Seeds vs Contiguous (high mutation) ===")

	cfg := QueryConfig{Length: 60, SubRate: 0.30}
	queries := SampleQueries(store, 200, cfg, rng)
	truths := groundTruths(queries)

	contiguous, err := prosearch.BuildSeedIndex(store, 5)
	if err != nil {
		panic(err)
	}
	pattern, err := prosearch.ParsePattern("1101011")
	if err != nil {
		panic(err)
	}
	spaced := prosearch.BuildSpacedIndex(store, pattern)

	start := time.Now()
	contRankings := make([][]prosearch.Hit, len(queries))
	for i, q := range queries {
		contRankings[i] = contiguous.SearchBasic(q.Sequence, 10)
	}
	resA := Calculate("contiguous (11111)", contRankings, truths, msSince(start))
	fmt.Println(resA)

	start = time.Now()
	spacedRankings := make([][]prosearch.Hit, len(queries))
	for i, q := range queries {
		spacedRankings[i] = spaced.SearchBasic(q.Sequence, 10)
	}
	resB := Calculate("spaced (1101011)", spacedRankings, truths, msSince(start))
	fmt.Println(resB)

	return []Result{resA, resB}
}

func diagonalHits(index *prosearch.SeedIndex, query []byte, topN int) []prosearch.Hit {
	cands := prosearch.FindCandidates(index, query, 2)
	if len(cands) > topN {
		cands = cands[:topN]
	}
	hits := make([]prosearch.Hit, 0, len(cands))
	for _, c := range cands {
		hits = append(hits, prosearch.Hit{Target: c.Target, Score: clampScore(c.Hits)})
	}
	return hits
}

func groundTruths(queries []GroundTruthQuery) []uint32 {
	truths := make([]uint32, len(queries))
	for i, q := range queries {
		truths[i] = q.Target
	}
	return truths
}

func clampScore(score int) uint32 {
	if score < 0 {
		return 0
	}
	return uint32(score)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
