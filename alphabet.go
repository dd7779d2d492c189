package prosearch

import "fmt"

// InvalidResidue is the sentinel code assigned to any byte that is not one
// of the 20 standard amino acids. Ambiguity codes (B, J, O, U, X, Z),
// whitespace and punctuation all map to it, and any word containing it is
// neither indexed nor queried.
const InvalidResidue = 0xFF

// MaxWordWeight is the largest number of residues that pack into a 64-bit
// word key at 5 bits per residue.
const MaxWordWeight = 12

// residueCodes maps a raw byte to its residue code in [0,19], or to
// InvalidResidue. Upper and lower case collapse to the same code. The table
// is indexed directly by byte so encoding is branch-free.
var residueCodes [256]byte

// codeResidues is the inverse mapping for the 20 valid codes.
var codeResidues = [20]byte{
	'A', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'K', 'L',
	'M', 'N', 'P', 'Q', 'R', 'S', 'T', 'V', 'W', 'Y',
}

func init() {
	for i := range residueCodes {
		residueCodes[i] = InvalidResidue
	}
	for code, r := range codeResidues {
		residueCodes[r] = byte(code)
		residueCodes[r+'a'-'A'] = byte(code)
	}
}

// ResidueCode returns the residue code for a raw byte.
func ResidueCode(b byte) byte {
	return residueCodes[b]
}

// EncodeWord packs a contiguous word into a 64-bit key, most significant
// residue first, five bits per residue. The boolean result is false if any
// byte of the word is not a standard residue. EncodeWord panics if the word
// is longer than MaxWordWeight; word length is validated once at parameter
// level, not per window.
func EncodeWord(word []byte) (uint64, bool) {
	if len(word) > MaxWordWeight {
		panic(fmt.Sprintf("word length %d exceeds %d", len(word), MaxWordWeight))
	}
	var key uint64
	for _, b := range word {
		code := residueCodes[b]
		if code == InvalidResidue {
			return 0, false
		}
		key = key<<5 | uint64(code)
	}
	return key, true
}

// EncodeSpaced packs the bytes of a window selected by mask into a 64-bit
// key, in pattern order. The window must be exactly len(mask) bytes. The
// boolean result is false if any selected byte is not a standard residue.
func EncodeSpaced(window []byte, mask []bool) (uint64, bool) {
	var key uint64
	for i, keep := range mask {
		if !keep {
			continue
		}
		code := residueCodes[window[i]]
		if code == InvalidResidue {
			return 0, false
		}
		key = key<<5 | uint64(code)
	}
	return key, true
}

// DecodeWord reconstructs the residue bytes of a contiguous word key of the
// given weight. Codes outside the valid range decode to '?'.
func DecodeWord(key uint64, weight int) []byte {
	word := make([]byte, weight)
	for i := weight - 1; i >= 0; i-- {
		code := key & 0x1F
		if code < 20 {
			word[i] = codeResidues[code]
		} else {
			word[i] = '?'
		}
		key >>= 5
	}
	return word
}

// A SpacedPattern selects which positions of a sliding window contribute to
// a word key. Contiguous words of length k are the special case "1"*k.
type SpacedPattern struct {
	mask   []bool
	weight int
}

// ParsePattern builds a SpacedPattern from a string of '0' and '1' runes.
// The weight (count of '1') must lie in [1, MaxWordWeight].
func ParsePattern(pattern string) (*SpacedPattern, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidParam)
	}
	mask := make([]bool, len(pattern))
	weight := 0
	for i, c := range pattern {
		switch c {
		case '1':
			mask[i] = true
			weight++
		case '0':
		default:
			return nil, fmt.Errorf("%w: pattern %q contains %q", ErrInvalidParam, pattern, c)
		}
	}
	if weight == 0 {
		return nil, fmt.Errorf("%w: pattern %q has zero weight", ErrInvalidParam, pattern)
	}
	if weight > MaxWordWeight {
		return nil, fmt.Errorf("%w: pattern %q weight %d exceeds %d",
			ErrInvalidParam, pattern, weight, MaxWordWeight)
	}
	return &SpacedPattern{mask: mask, weight: weight}, nil
}

// Span returns the window length the pattern slides over.
func (p *SpacedPattern) Span() int { return len(p.mask) }

// Weight returns the number of selected positions.
func (p *SpacedPattern) Weight() int { return p.weight }

// String renders the pattern back as a '0'/'1' string.
func (p *SpacedPattern) String() string {
	s := make([]byte, len(p.mask))
	for i, keep := range p.mask {
		if keep {
			s[i] = '1'
		} else {
			s[i] = '0'
		}
	}
	return string(s)
}
