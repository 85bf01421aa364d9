// Package seed implements the bisulfite-aware seeder (spec §4.2): for
// each of the seven seed offsets in a converted read, it computes the
// primary hash, looks up the corresponding bucket, and narrows that
// bucket to the subrange whose discriminator bases match the read by
// nested binary search.
package seed

import (
	"github.com/kshedden/bsmap/internal/dnacode"
	"github.com/kshedden/bsmap/internal/index"
)

// Offsets are the fixed seed-offset range the builder's index
// invariants guarantee reachability over (spec §9: "the mapper must
// honour the exact range so that any hit findable by the builder's
// invariants is reachable").
var Offsets = [7]int{0, 1, 2, 3, 4, 5, 6}

// Candidate is one offset's surviving refined range.
type Candidate struct {
	Offset int
	Range  index.Range
}

// Seeder ties a positional index to the bucket-overflow cap (spec
// §4.4) that bounds worst-case work on low-complexity seeds.
type Seeder struct {
	Index     *index.PositionIndex
	BucketCap int
}

// New returns a Seeder over ix, skipping any offset whose refined
// range exceeds bucketCap positions.
func New(ix *index.PositionIndex, bucketCap int) *Seeder {
	return &Seeder{Index: ix, BucketCap: bucketCap}
}

// Seed runs the full seed-offset loop over a converted read,
// returning one Candidate per offset that produced a non-empty,
// within-cap refined range. A read shorter than an offset's seed
// window (offset+SeedLength > len(convertedRead)) safely skips that
// offset rather than reading out of bounds (spec §8 boundary case:
// "at offset > 0 the suffix is too short and must be skipped
// safely").
func (s *Seeder) Seed(convertedRead []byte) []Candidate {
	seedCfg := s.Index.Seed

	var out []Candidate
	for _, offset := range Offsets {
		if offset+seedCfg.SeedLength > len(convertedRead) {
			continue
		}

		h := readHash(convertedRead, offset, seedCfg)
		r := s.Index.Bucket(h)
		if r.Empty() {
			continue
		}

		r = s.refine(r, convertedRead, offset, seedCfg)
		if r.Empty() {
			continue
		}
		if r.Len() > s.BucketCap {
			continue
		}

		out = append(out, Candidate{Offset: offset, Range: r})
	}
	return out
}

// readHash computes the same 2-bit-packed hash as the index builder's
// primaryHash, but over a read suffix instead of the genome image, so
// the two are directly comparable (spec §3's bucket invariant).
func readHash(read []byte, offset int, seedCfg index.SeedConfig) uint32 {
	var h uint32
	for i := 0; i < seedCfg.F2SeedWidth; i++ {
		h = (h << 2) | uint32(dnacode.Encode(read[offset+seedCfg.F2SeedPosition[i]]))
	}
	return h
}

// refine narrows r by successive binary search on each discriminator
// position, in F2SeedPosition order (spec §4.2 step 3). Each pass
// computes its lower and upper bound against the range produced by
// the previous pass, so the two searches within a pass see the same
// snapshot of [low, high].
func (s *Seeder) refine(r index.Range, read []byte, offset int, seedCfg index.SeedConfig) index.Range {
	low, high := r.Low, r.High
	ix := s.Index

	for p := seedCfg.F2SeedWidth; p < seedCfg.SeedLength; p++ {
		if low > high {
			break
		}
		target := read[offset+seedCfg.F2SeedPosition[p]]
		newLow := lowerBound(ix, low, high, p, target)
		newHigh := upperBound(ix, low, high, p, target)
		low, high = newLow, newHigh
	}

	if low > high {
		return index.Range{Low: low, High: low - 1}
	}
	return index.Range{Low: low, High: high}
}

// lowerBound returns the first index in [lo, hi] whose discriminator
// byte at position p is >= target, or hi+1 if none.
func lowerBound(ix *index.PositionIndex, lo, hi, p int, target byte) int {
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if ix.DiscriminatorByte(mid, p) < target {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// upperBound returns the last index in [lo, hi] whose discriminator
// byte at position p is <= target, or lo-1 if none.
func upperBound(ix *index.PositionIndex, lo, hi, p int, target byte) int {
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if ix.DiscriminatorByte(mid, p) > target {
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return hi
}

// Position resolves a position-array index to a genome position.
func (s *Seeder) Position(i int) (chromID, chromOffset uint32) {
	return s.Index.ChromIDs[i], s.Index.ChromOffsets[i]
}
