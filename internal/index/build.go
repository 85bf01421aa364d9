package index

import (
	"sort"

	"github.com/kshedden/bsmap/internal/dnacode"
)

// Build constructs a PositionIndex over image using the given seed
// configuration. image must already be bisulfite-converted (the
// caller picks CT or GA image). chromBase/chromLength give each
// chromosome's span within image, in chromosome-id order.
//
// Every offset p in every chromosome such that p+seed.SeedLength does
// not run past the end of that chromosome is a candidate position; it
// is placed into the bucket keyed by the primary hash of
// image[p+F2SeedPosition[0] .. p+F2SeedPosition[F2SeedWidth-1]]
// (spec §3's bucket invariant), and positions within a bucket are
// sorted by the discriminator byte sequence at
// F2SeedPosition[F2SeedWidth:SeedLength] (spec §3's ordering
// invariant), which is the precondition the seeder's binary search
// relies on.
func Build(image []byte, chromBase, chromLength []uint32, seed SeedConfig) *PositionIndex {
	numBuckets := seed.NumBuckets()

	type candidate struct {
		chromID     uint32
		chromOffset uint32
		hash        uint32
	}

	var candidates []candidate
	for c := range chromBase {
		base := chromBase[c]
		length := chromLength[c]
		if uint32(seed.SeedLength) > length {
			continue
		}
		last := length - uint32(seed.SeedLength)
		for off := uint32(0); off <= last; off++ {
			hash := primaryHash(image, base+off, seed)
			candidates = append(candidates, candidate{
				chromID:     uint32(c),
				chromOffset: off,
				hash:        hash,
			})
		}
	}

	// Stable-partition candidates into buckets, then sort each
	// bucket by the discriminator byte sequence, matching the
	// ordering invariant of spec §3.
	counts := make([]uint32, numBuckets+1)
	for _, cd := range candidates {
		counts[cd.hash+1]++
	}
	for i := 1; i <= numBuckets; i++ {
		counts[i] += counts[i-1]
	}
	bucketStart := append([]uint32(nil), counts...)

	total := len(candidates)
	chromIDs := make([]uint32, total)
	chromOffsets := make([]uint32, total)
	cursor := append([]uint32(nil), counts...)
	for _, cd := range candidates {
		i := cursor[cd.hash]
		cursor[cd.hash]++
		chromIDs[i] = cd.chromID
		chromOffsets[i] = cd.chromOffset
	}

	ix := &PositionIndex{
		Seed:         seed,
		Image:        image,
		BucketStart:  bucketStart,
		ChromIDs:     chromIDs,
		ChromOffsets: chromOffsets,
		ChromBase:    append([]uint32(nil), chromBase...),
		ChromLength:  append([]uint32(nil), chromLength...),
	}

	discrim := seed.DiscriminatorPositions()
	for h := 0; h < numBuckets; h++ {
		lo, hi := bucketStart[h], bucketStart[h+1]
		if hi-lo < 2 {
			continue
		}
		idx := make([]int, hi-lo)
		for i := range idx {
			idx[i] = int(lo) + i
		}
		sort.Slice(idx, func(a, b int) bool {
			ia, ib := idx[a], idx[b]
			for _, p := range discrim {
				ba := image[ix.ChromBase[ix.ChromIDs[ia]]+ix.ChromOffsets[ia]+uint32(p)]
				bb := image[ix.ChromBase[ix.ChromIDs[ib]]+ix.ChromOffsets[ib]+uint32(p)]
				if ba != bb {
					return ba < bb
				}
			}
			return false
		})
		newChromIDs := make([]uint32, hi-lo)
		newChromOffsets := make([]uint32, hi-lo)
		for i, j := range idx {
			newChromIDs[i] = chromIDs[j]
			newChromOffsets[i] = chromOffsets[j]
		}
		copy(chromIDs[lo:hi], newChromIDs)
		copy(chromOffsets[lo:hi], newChromOffsets)
	}

	ix.computeDenseBitmap()
	return ix
}

func primaryHash(image []byte, pos uint32, seed SeedConfig) uint32 {
	var h uint32
	for i := 0; i < seed.F2SeedWidth; i++ {
		h = (h << 2) | uint32(dnacode.Encode(image[pos+uint32(seed.F2SeedPosition[i])]))
	}
	return h
}
