package prosearch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func autoParams() Params {
	p := DefaultParams
	p.Mode = ModeAuto
	p.K = 5
	p.XDrop = 10
	return p
}

func TestSearchIdentity(t *testing.T) {
	store := newTestStore(t, "ACDEFGHIKLMNPQRSTVWY")
	params := autoParams()
	params.TopN = 1

	s, err := NewSearcher(store, params)
	require.NoError(t, err)

	hits := s.Search([]byte("ACDEFGHIKLMNPQRSTVWY"))
	require.Len(t, hits, 1)
	require.Equal(t, uint32(0), hits[0].Target)
	require.Equal(t, uint32(20), hits[0].Score)
}

func TestSearchSelfHitRanksFirst(t *testing.T) {
	store := newTestStore(t,
		"MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ",
		"ACDEFGHIKLMNPQRSTVWYACDEFGHIKLMNP",
		"MNPQRSTVWYMNPQRSTVWYMNPQRSTVWYMNP",
		"QQQQQQQQQQWWWWWWWWWWEEEEEEEEEERRR",
	)
	s, err := NewSearcher(store, autoParams())
	require.NoError(t, err)

	for id := uint32(0); int(id) < store.Len(); id++ {
		_, seq := store.Get(id)
		hits := s.Search(seq)
		require.NotEmpty(t, hits, "target %d", id)
		require.Equal(t, id, hits[0].Target, "target %d must rank first", id)
	}
}

func TestSearchNoCandidates(t *testing.T) {
	store := newTestStore(t, "AAAAAAAAAA")
	for _, mode := range []Mode{ModeBasic, ModeDiagonal, ModeSpaced, ModeAuto} {
		params := DefaultParams
		params.Mode = mode
		s, err := NewSearcher(store, params)
		require.NoError(t, err)
		require.Empty(t, s.Search([]byte("WWWWWWWWWW")), "mode %s", mode)
	}
}

func TestSearchModes(t *testing.T) {
	store := newTestStore(t,
		"AAAAACDEFGHIKLMAAAAA",
		"WYWYWYWYWYWYWYWYWYWY",
	)
	query := []byte("CDEFGHIKLM")

	for _, mode := range []Mode{ModeBasic, ModeDiagonal, ModeSpaced, ModeAuto} {
		params := DefaultParams
		params.Mode = mode
		s, err := NewSearcher(store, params)
		require.NoError(t, err)
		hits := s.Search(query)
		require.NotEmpty(t, hits, "mode %s", mode)
		require.Equal(t, uint32(0), hits[0].Target, "mode %s", mode)
	}
}

func TestSearchDeterministic(t *testing.T) {
	store := newTestStore(t,
		"ACDEFGHIKLMNPQRSTVWY",
		"ACDEFGHIKLMNPQRSTVWY",
		"ACDEFGHIKLMNPQRSTVWY",
	)
	s, err := NewSearcher(store, autoParams())
	require.NoError(t, err)

	first := s.Search([]byte("ACDEFGHIKLMNPQRSTVWY"))
	require.Len(t, first, 3)
	// Identical targets tie on score; ids must come back ascending.
	for i, hit := range first {
		require.Equal(t, uint32(i), hit.Target)
	}
	for trial := 0; trial < 5; trial++ {
		require.Equal(t, first, s.Search([]byte("ACDEFGHIKLMNPQRSTVWY")))
	}
}

// Raising a stage budget must never lower recall of the true target.
func TestBudgetMonotonicity(t *testing.T) {
	store := newTestStore(t,
		"AAAAACDEFGHIKLMAAAAA",
		"ACDEFGHIKLMNPQRSTVWY",
		"MNPQRSTVWYACDEFGHIKL",
		"WYWYWYWYWYWYWYWYWYWY",
	)
	query := []byte("ACDEFGHIKLMNPQRSTV")

	rank := func(extendBudget, rescoreBudget int) int {
		params := autoParams()
		params.ExtendBudget = extendBudget
		params.RescoreBudget = rescoreBudget
		s, err := NewSearcher(store, params)
		require.NoError(t, err)
		for i, hit := range s.Search(query) {
			if hit.Target == 1 {
				return i
			}
		}
		return -1
	}

	small := rank(1, 1)
	large := rank(50, 20)
	if small >= 0 {
		require.GreaterOrEqual(t, small, large,
			"true target lost rank when budgets grew")
	}
	require.Equal(t, 0, large)
}

func TestNewSearcherRejectsBadParams(t *testing.T) {
	store := newTestStore(t, "ACDEFGHIKLMNPQRSTVWY")
	bad := []func(*Params){
		func(p *Params) { p.K = 2 },
		func(p *Params) { p.K = 13 },
		func(p *Params) { p.XDrop = -1 },
		func(p *Params) { p.MinSupport = 0 },
		func(p *Params) { p.TopN = -1 },
		func(p *Params) { p.WindowRadius = 0 },
		func(p *Params) { p.Mode = ModeSpaced; p.Pattern = "1111111111111" },
		func(p *Params) { p.Mode = ModeSpaced; p.Pattern = "01x0" },
	}
	for i, mutate := range bad {
		params := DefaultParams
		mutate(&params)
		_, err := NewSearcher(store, params)
		require.Error(t, err, "case %d", i)
		require.True(t, errors.Is(err, ErrInvalidParam), "case %d: %v", i, err)
	}
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{
		"basic":    ModeBasic,
		"diagonal": ModeDiagonal,
		"spaced":   ModeSpaced,
		"auto":     ModeAuto,
	} {
		mode, err := ParseMode(name)
		require.NoError(t, err)
		require.Equal(t, want, mode)
		require.Equal(t, name, mode.String())
	}
	_, err := ParseMode("fancy")
	require.True(t, errors.Is(err, ErrInvalidParam))
}
