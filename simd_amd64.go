//go:build amd64

package prosearch

import "golang.org/x/sys/cpu"

// hasVectorCompare reports whether the CPU can produce a 32-byte equality
// mask in a single compare/movemask pair. Probed once at startup.
var hasVectorCompare = cpu.X86.HasAVX2

// equalMask32 compares 32 bytes at q with 32 bytes at t and returns a mask
// with bit i set iff q[i] == t[i]. Implemented in simd_amd64.s with AVX2.
// Callers guarantee 32 readable bytes behind both pointers and must not
// call it unless hasVectorCompare is true.
//
//go:noescape
func equalMask32(q, t *byte) uint32
