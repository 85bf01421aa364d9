package align

import "github.com/kshedden/bsmap/internal/index"

// Verify computes the Hamming distance between convertedRead and the
// reference substring that would align it at seed offset offset
// against the candidate position (chromID, chromOffset) (spec §4.3).
//
// chromOffset is the position of the seed match itself, not the start
// of the read; the read's start is chromOffset-offset. valid is false
// when the candidate's start underflows the chromosome (chromOffset <
// offset) or the read would run past the end of the chromosome — in
// either case there is no alignment to score at this candidate.
//
// The walk aborts as soon as the running mismatch count exceeds
// ceiling (normally the current best-match mismatch count), so a
// caller can pass a shrinking ceiling across candidates to get the
// mismatch-pruning short-circuit spec §4.3 describes. The returned
// count is only meaningful (as a true total) when it is <= ceiling;
// a returned count > ceiling only certifies "no better than ceiling"
// and may not be the full count.
func Verify(ix *index.PositionIndex, chromID, chromOffset uint32, offset int, convertedRead []byte, ceiling int) (readStart uint32, mismatch int, valid bool) {
	if int(chromOffset) < offset {
		return 0, 0, false
	}
	start := chromOffset - uint32(offset)
	length := uint32(len(convertedRead))
	if start+length > ix.ChromLength[chromID] {
		return 0, 0, false
	}

	base := ix.ChromBase[chromID] + start
	image := ix.Image

	var count int
	for i := uint32(0); i < length; i++ {
		if image[base+i] != convertedRead[i] {
			count++
			if count > ceiling {
				return start, count, true
			}
		}
	}
	return start, count, true
}
