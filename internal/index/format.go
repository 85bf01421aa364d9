// Package index implements the on-disk positional index described in
// spec §3 and §6: a hash bucket table over a primed prefix hash, and a
// position array sorted within each bucket by a fixed sequence of
// discriminator offsets, enabling binary-search refinement (spec §4.2).
package index

import "github.com/kshedden/bsmap/internal/bisulfite"

const fileMagic uint32 = 0x62736d31 // "bsm1"
const fileVersion uint32 = 1

// SeedConfig is fixed for the lifetime of an index (spec §3).
type SeedConfig struct {
	// HashLen is the length in bases of the primary hash prefix.
	HashLen int

	// F2SeedWidth is the number of prefix bases covered by the
	// primary hash. In this implementation HashLen == F2SeedWidth:
	// the primary hash always covers exactly the discriminator
	// window's primary-hash prefix.
	F2SeedWidth int

	// F2SeedPosition is a fixed permutation of offsets within the
	// seed window. Positions [0, F2SeedWidth) are the primary hash
	// positions; positions [F2SeedWidth, SeedLength) are the
	// discriminator positions used by binary-search refinement.
	F2SeedPosition []int

	// SeedLength is the total number of bases compared during seed
	// refinement (S in spec §3).
	SeedLength int
}

// DefaultSeedConfig returns the seed geometry used by cmd/bsmap-index
// when none is given explicitly: a 12-base primary hash (24-bit
// bucket space) plus 8 discriminator positions immediately following
// the hash window, matching the HASHLEN/F2SEEDWIGTH naming in spec §3.
func DefaultSeedConfig() SeedConfig {
	hashLen := 12
	nDiscrim := 8
	pos := make([]int, hashLen+nDiscrim)
	for i := range pos {
		pos[i] = i
	}
	return SeedConfig{
		HashLen:        hashLen,
		F2SeedWidth:    hashLen,
		F2SeedPosition: pos,
		SeedLength:     hashLen + nDiscrim,
	}
}

// NumBuckets is the size of the primary hash bucket table,
// 2^(2*F2SeedWidth) per spec §6.
func (s SeedConfig) NumBuckets() int {
	return 1 << uint(2*s.F2SeedWidth)
}

// DiscriminatorPositions returns F2SeedPosition[F2SeedWidth:SeedLength],
// the offsets the seeder binary-searches on, in refinement order.
func (s SeedConfig) DiscriminatorPositions() []int {
	return s.F2SeedPosition[s.F2SeedWidth:s.SeedLength]
}

// Image picks the genome image a convention-specific index is built
// over, kept here so callers don't need to import bisulfite just to
// know which image pairs with which index.
type Image = bisulfite.Convention
