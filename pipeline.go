package prosearch

import "fmt"

// A Mode selects the search strategy.
type Mode int

const (
	// ModeBasic ranks targets by raw seed votes, diagonals ignored.
	ModeBasic Mode = iota
	// ModeDiagonal ranks targets by their best-diagonal hit count.
	ModeDiagonal
	// ModeSpaced ranks targets by raw seed votes under a spaced pattern.
	ModeSpaced
	// ModeAuto runs the full pipeline: diagonal filter, ungapped X-drop
	// extension, windowed gapped rescore.
	ModeAuto
)

var modeNames = map[Mode]string{
	ModeBasic:    "basic",
	ModeDiagonal: "diagonal",
	ModeSpaced:   "spaced",
	ModeAuto:     "auto",
}

func (m Mode) String() string { return modeNames[m] }

// ParseMode converts a mode name from the CLI or a parameter file.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidParam, name)
}

// Params carries every knob of the search pipeline. Zero is not a usable
// value; start from DefaultParams and override.
type Params struct {
	Mode          Mode
	K             int    // contiguous word length
	Pattern       string // spaced pattern, ModeSpaced only
	TopN          int    // final ranking size
	XDrop         int    // ungapped extension termination slack
	MinSupport    int    // minimum best-diagonal hits for a candidate
	ExtendBudget  int    // candidates extended per query
	RescoreBudget int    // extensions rescored per query
	WindowRadius  int    // gapped rescore window radius
	Match         int
	Mismatch      int
	GapOpen       int
	GapExtend     int
}

// DefaultParams are the values used when neither flags nor a parameter
// file override them. The stage budgets trade recall for latency; smaller
// is faster, larger never lowers recall.
var DefaultParams = Params{
	Mode:          ModeAuto,
	K:             5,
	Pattern:       "1101011",
	TopN:          10,
	XDrop:         10,
	MinSupport:    2,
	ExtendBudget:  50,
	RescoreBudget: 20,
	WindowRadius:  60,
	Match:         1,
	Mismatch:      -1,
	GapOpen:       -10,
	GapExtend:     -1,
}

// Validate rejects out-of-range parameters before any index or query work
// starts. Errors wrap ErrInvalidParam.
func (p Params) Validate() error {
	if p.K < MinWordLen || p.K > MaxWordLen {
		return fmt.Errorf("%w: word length %d outside [%d, %d]",
			ErrInvalidParam, p.K, MinWordLen, MaxWordLen)
	}
	if p.XDrop < 0 {
		return fmt.Errorf("%w: negative x-drop %d", ErrInvalidParam, p.XDrop)
	}
	if p.MinSupport < 1 {
		return fmt.Errorf("%w: min support %d below 1", ErrInvalidParam, p.MinSupport)
	}
	if p.TopN < 0 || p.ExtendBudget < 0 || p.RescoreBudget < 0 {
		return fmt.Errorf("%w: negative stage budget", ErrInvalidParam)
	}
	if p.WindowRadius < 1 {
		return fmt.Errorf("%w: window radius %d below 1", ErrInvalidParam, p.WindowRadius)
	}
	if p.Mode == ModeSpaced {
		if _, err := ParsePattern(p.Pattern); err != nil {
			return err
		}
	}
	return nil
}

// A Hit is one ranked search result. Scores are reported unsigned;
// negative pipeline scores saturate to zero.
type Hit struct {
	Target uint32
	Score  uint32
}

func satScore(score int) uint32 {
	if score < 0 {
		return 0
	}
	return uint32(score)
}

// A Searcher owns the immutable structures for one database and parameter
// set: the sequence store, the index flavour the mode needs, and the
// extension and rescore machinery. It holds no per-query state, so one
// Searcher serves any number of concurrent Search calls.
type Searcher struct {
	store    *SequenceStore
	params   Params
	index    *SeedIndex
	spaced   *SpacedIndex
	extender *Extender
	rescorer *GappedRescorer
}

// NewSearcher validates params and builds the index the mode requires.
func NewSearcher(store *SequenceStore, params Params) (*Searcher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Searcher{store: store, params: params}

	if params.Mode == ModeSpaced {
		pattern, err := ParsePattern(params.Pattern)
		if err != nil {
			return nil, err
		}
		s.spaced = BuildSpacedIndex(store, pattern)
	} else {
		index, err := BuildSeedIndex(store, params.K)
		if err != nil {
			return nil, err
		}
		s.index = index
	}

	if params.Mode == ModeAuto {
		s.extender = NewExtender(MatchMismatch{Match: params.Match, Mismatch: params.Mismatch})
		s.rescorer = NewGappedRescorer(
			params.WindowRadius, params.Match, params.Mismatch,
			params.GapOpen, params.GapExtend)
	}
	return s, nil
}

// Store returns the sequence store the searcher was built over.
func (s *Searcher) Store() *SequenceStore { return s.store }

// Index returns the contiguous seed index, or nil in spaced mode.
func (s *Searcher) Index() *SeedIndex { return s.index }

// Search ranks targets for one query under the searcher's mode and
// budgets. A query that produces no hits above threshold returns an empty
// list, never an error. The ranking is deterministic for fixed inputs,
// ties breaking by target id ascending.
func (s *Searcher) Search(query []byte) []Hit {
	q := normalizeResidues(query)

	switch s.params.Mode {
	case ModeBasic:
		return s.index.SearchBasic(q, s.params.TopN)

	case ModeSpaced:
		return s.spaced.SearchBasic(q, s.params.TopN)

	case ModeDiagonal:
		cands := FindCandidates(s.index, q, s.params.MinSupport)
		hits := make([]Hit, 0, len(cands))
		for _, c := range cands {
			hits = append(hits, Hit{Target: c.Target, Score: satScore(c.Hits)})
		}
		return truncateHits(hits, s.params.TopN)

	default: // ModeAuto
		cands := FindCandidates(s.index, q, s.params.MinSupport)
		exts := ExtendCandidates(
			s.extender, s.store, q, cands, s.params.XDrop, s.params.ExtendBudget)
		if len(exts) > s.params.RescoreBudget {
			exts = exts[:s.params.RescoreBudget]
		}
		hits := make([]Hit, 0, len(exts))
		for _, eh := range exts {
			score := eh.Score
			// A window the aligner rejects keeps its ungapped score.
			if gapped, err := s.rescorer.Rescore(q, s.store.Seq(eh.Target), eh.Extension); err == nil {
				score = gapped
			}
			hits = append(hits, Hit{Target: eh.Target, Score: satScore(score)})
		}
		sortHits(hits)
		return truncateHits(hits, s.params.TopN)
	}
}
