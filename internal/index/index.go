package index

import (
	"github.com/golang-collections/go-datastructures/bitarray"
)

// denseBucketThreshold is the raw (pre-refinement) bucket size above
// which a primary hash bucket is flagged "dense" in a diagnostic
// bitmap; it never affects which alignments are found (see
// DESIGN.md).
const denseBucketThreshold = 50000

// Range is a refined candidate subrange within one bucket's positions,
// as produced by the seeder (spec §4.2).
type Range struct {
	Low, High int // inclusive; High < Low means empty
}

// Empty reports whether the range contains no positions.
func (r Range) Empty() bool { return r.High < r.Low }

// Len returns the number of positions in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.High - r.Low + 1
}

// PositionIndex is the positional index for one bisulfite convention
// (spec §3, §6): a hash bucket table over the primary hash, and a
// position array sorted within each bucket by the discriminator base
// sequence. The Image, ChromIDs and ChromOffsets backing arrays are, once loaded,
// never mutated; every worker goroutine holds the same slices (spec
// §5, §9).
type PositionIndex struct {
	Seed SeedConfig

	// Image is the bisulfite-converted genome concatenation this
	// index was built over (spec §3: "the first F2SEEDWIGTH bases
	// of the reference at p hash to that bucket's key").
	Image []byte

	// BucketStart has NumBuckets()+1 entries; bucket h spans
	// positions BucketStart[h]:BucketStart[h+1].
	BucketStart []uint32

	// ChromIDs and ChromOffsets are parallel columns (struct of
	// arrays, spec §9 "Position array layout") giving the genomic
	// position of each entry in the bucket-sorted position array.
	ChromIDs     []uint32
	ChromOffsets []uint32

	// ChromBase[c] is the global offset (into Image) of chromosome
	// c, mirroring genome.Genome.Offsets so the index can be loaded
	// standalone (e.g. from an mmap'd file) without a live Genome.
	ChromBase   []uint32
	ChromLength []uint32

	dense      bitarray.BitArray
	denseCount uint64
}

// NumPositions returns the total number of entries in the position
// array.
func (ix *PositionIndex) NumPositions() int { return len(ix.ChromIDs) }

// Bucket returns the full, unrefined range for a primary hash value.
func (ix *PositionIndex) Bucket(hash uint32) Range {
	lo := ix.BucketStart[hash]
	hi := ix.BucketStart[hash+1]
	if hi <= lo {
		return Range{Low: int(lo), High: int(lo) - 1}
	}
	return Range{Low: int(lo), High: int(hi) - 1}
}

// DiscriminatorByte returns the reference base, at discriminator
// offset F2SeedPosition[p] relative to the start of the seed window,
// for the position-array entry at index i. p indexes into
// Seed.F2SeedPosition directly (including the primary-hash positions,
// though the seeder only calls this for p >= F2SeedWidth).
func (ix *PositionIndex) DiscriminatorByte(i int, p int) byte {
	chromBase := ix.ChromBase[ix.ChromIDs[i]]
	globalPos := chromBase + ix.ChromOffsets[i] + uint32(ix.Seed.F2SeedPosition[p])
	return ix.Image[globalPos]
}

// IsDenseBucket reports whether a primary hash's raw bucket exceeds
// the diagnostic density threshold. It is informational only; see
// DESIGN.md.
func (ix *PositionIndex) IsDenseBucket(hash uint32) bool {
	if ix.dense == nil {
		return false
	}
	v, err := ix.dense.GetBit(uint64(hash))
	return err == nil && v
}

// computeDenseBitmap populates ix.dense from BucketStart. Called once
// at build/load time.
func (ix *PositionIndex) computeDenseBitmap() {
	n := uint64(len(ix.BucketStart) - 1)
	ba := bitarray.NewBitArray(n)
	var count uint64
	for h := uint64(0); h < n; h++ {
		sz := ix.BucketStart[h+1] - ix.BucketStart[h]
		if sz > denseBucketThreshold {
			ba.SetBit(h)
			count++
		}
	}
	ix.dense = ba
	ix.denseCount = count
}

// DenseBucketCount returns how many primary hash buckets exceeded the
// diagnostic density threshold.
func (ix *PositionIndex) DenseBucketCount() uint64 { return ix.denseCount }
