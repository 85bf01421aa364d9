package align

import (
	"github.com/kshedden/bsmap/internal/bisulfite"
	"github.com/kshedden/bsmap/internal/dnacode"
)

// PairResult is the outcome of pairing two mates' top-k lists (spec
// §4.5): the chosen representative pair at the minimum summed
// mismatch count, and how many distinct pair coordinates tied there.
type PairResult struct {
	Mate1    TopKEntry
	Mate2    TopKEntry
	Mismatch int
	Times    int
}

// Classify applies the single-end unique/ambiguous/unmapped rule (spec
// §4.5 step 5), with the pair's summed mismatch count bounded by
// 2*maxMismatches rather than maxMismatches.
func (p PairResult) Classify(maxMismatches int) Classification {
	if p.Times == 0 || p.Mismatch > 2*maxMismatches {
		return Unmapped
	}
	if p.Times == 1 {
		return Unique
	}
	return Ambiguous
}

// fragmentLength is the distance between the outermost endpoints of
// the two mates' alignments (spec's Fragment length glossary entry).
func fragmentLength(aStart uint32, aLen int, bStart uint32, bLen int) uint32 {
	aEnd := aStart + uint32(aLen)
	bEnd := bStart + uint32(bLen)
	lo, hi := aStart, aEnd
	if bStart < lo {
		lo = bStart
	}
	if bEnd > hi {
		hi = bEnd
	}
	return hi - lo
}

// PairedEnd resolves one mate pair (spec §4.5). Mate 1 is mapped
// against the C->T image, mate 2 against the G->A image; each mate is
// scanned in both its given orientation and its reverse complement,
// mirroring the single-end resolver's strand handling, since the
// directional-library convention fixes which image each mate uses but
// not which strand of that image it lies on.
func (r *Resolver) PairedEnd(mate1Seq, mate2Seq []byte, topK, fragRange int) PairResult {
	list1 := NewTopKList(topK)
	rc1 := dnacode.ReverseComplement(mate1Seq)
	r.scanTopK(r.CT, bisulfite.ConvertCT(mate1Seq), Forward, list1)
	r.scanTopK(r.CT, bisulfite.ConvertCT(rc1), Reverse, list1)
	list1.Finalize()

	list2 := NewTopKList(topK)
	rc2 := dnacode.ReverseComplement(mate2Seq)
	r.scanTopK(r.GA, bisulfite.ConvertGA(mate2Seq), Forward, list2)
	r.scanTopK(r.GA, bisulfite.ConvertGA(rc2), Reverse, list2)
	list2.Finalize()

	var best PairResult
	minSum := -1

	for _, a := range list1.Entries {
		for _, b := range list2.Entries {
			if a.ChromID != b.ChromID {
				continue
			}
			if fragmentLength(a.ChromOffset, len(mate1Seq), b.ChromOffset, len(mate2Seq)) > uint32(fragRange) {
				continue
			}

			sum := a.Mismatch + b.Mismatch
			switch {
			case minSum < 0 || sum < minSum:
				minSum = sum
				best = PairResult{Mate1: a, Mate2: b, Mismatch: sum, Times: 1}
			case sum == minSum:
				best.Times++
			}
		}
	}

	return best
}
