package prosearch

import (
	"log"
)

// MaxSequenceLen is the longest sequence the store will hold. Positions in
// seed postings are 16-bit offsets, so longer sequences are truncated at
// load time and a warning is logged.
const MaxSequenceLen = 1<<16 - 1

// SequenceStore is a read-only flat arena of target sequences. Residues for
// all targets live in one byte slice addressed through an offset table, with
// a parallel table of FASTA identifiers. Identifiers are dense uint32 values
// assigned in load order. After loading, the store is never mutated and may
// be shared by any number of concurrent readers.
type SequenceStore struct {
	data    []byte
	offsets []int // len(offsets) == Len()+1
	names   []string
}

// NewSequenceStore returns an empty store with room for sizeHint residues.
func NewSequenceStore(sizeHint int) *SequenceStore {
	return &SequenceStore{
		data:    make([]byte, 0, sizeHint),
		offsets: []int{0},
	}
}

// Add appends a sequence and returns its identifier. Residues are
// normalised (upper-cased, '*' stripped) before storage. Sequences longer
// than MaxSequenceLen are truncated so every position fits the posting
// width.
func (s *SequenceStore) Add(name string, residues []byte) uint32 {
	res := normalizeResidues(residues)
	if len(res) > MaxSequenceLen {
		log.Printf("sequence %q has %d residues; truncating to %d",
			name, len(res), MaxSequenceLen)
		res = res[:MaxSequenceLen]
	}
	id := uint32(len(s.names))
	s.data = append(s.data, res...)
	s.offsets = append(s.offsets, len(s.data))
	s.names = append(s.names, name)
	return id
}

// Len returns the number of sequences in the store.
func (s *SequenceStore) Len() int { return len(s.names) }

// ResidueCount returns the total number of stored residues. Index builds
// use it to pre-size their maps.
func (s *SequenceStore) ResidueCount() int { return len(s.data) }

// Get returns the identifier string and residues of a target. The residue
// slice is a view into the arena and must not be modified.
func (s *SequenceStore) Get(id uint32) (string, []byte) {
	return s.names[id], s.Seq(id)
}

// Seq returns the residues of a target as a view into the arena.
func (s *SequenceStore) Seq(id uint32) []byte {
	return s.data[s.offsets[id]:s.offsets[id+1]]
}

// Name returns the identifier string of a target.
func (s *SequenceStore) Name(id uint32) string { return s.names[id] }

// normalizeResidues upper-cases residues and drops translation stops. The
// result is always a fresh slice; callers keep views into it.
func normalizeResidues(residues []byte) []byte {
	out := make([]byte, 0, len(residues))
	for _, b := range residues {
		if b == '*' {
			continue
		}
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		out = append(out, b)
	}
	return out
}
