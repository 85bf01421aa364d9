package align

import (
	"github.com/kshedden/bsmap/internal/bisulfite"
	"github.com/kshedden/bsmap/internal/dnacode"
	"github.com/kshedden/bsmap/internal/seed"
)

// Resolver drives the seeder and verifier across seed offsets and
// strands for a single read or mate pair (spec §4.4, §4.5). CT and GA
// wrap the two conventions' positional indexes, already configured
// with the run's bucket-overflow cap.
type Resolver struct {
	CT *seed.Seeder
	GA *seed.Seeder

	MaxMismatches int
	Wildcard      bool
}

// NewResolver builds a Resolver over an already-loaded index pair.
func NewResolver(ct, ga *seed.Seeder, maxMismatches int, wildcard bool) *Resolver {
	return &Resolver{CT: ct, GA: ga, MaxMismatches: maxMismatches, Wildcard: wildcard}
}

// SingleEnd resolves one read against both strands of the C->T image
// and, when Wildcard is set, both strands of the G->A image too (spec
// §4.4).
func (r *Resolver) SingleEnd(readSeq []byte) BestMatch {
	best := NewBestMatch(r.MaxMismatches)

	if len(readSeq) < r.CT.Index.Seed.HashLen {
		return best
	}

	ctFwd := bisulfite.ConvertCT(readSeq)
	r.scanBest(r.CT, ctFwd, Forward, &best)

	rc := dnacode.ReverseComplement(readSeq)
	ctRev := bisulfite.ConvertCT(rc)
	r.scanBest(r.CT, ctRev, Reverse, &best)

	if r.Wildcard {
		gaFwd := bisulfite.ConvertGA(readSeq)
		r.scanBest(r.GA, gaFwd, Forward, &best)

		gaRev := bisulfite.ConvertGA(rc)
		r.scanBest(r.GA, gaRev, Reverse, &best)
	}

	return best
}

// scanBest runs the seeder over convertedRead and verifies every
// surviving candidate, folding results into best.
func (r *Resolver) scanBest(s *seed.Seeder, convertedRead []byte, strand Strand, best *BestMatch) {
	for _, c := range s.Seed(convertedRead) {
		for i := c.Range.Low; i <= c.Range.High; i++ {
			chromID, chromOffset := s.Position(i)
			readStart, mismatch, valid := Verify(s.Index, chromID, chromOffset, c.Offset, convertedRead, best.Mismatch)
			if valid {
				best.Update(chromID, readStart, mismatch, strand)
			}
		}
	}
}

// scanTopK runs the seeder over convertedRead and inserts every
// surviving, boundary-valid candidate within MaxMismatches into list
// (spec §4.5 step 1). Candidates are collected unsorted; list.Finalize
// does the sort-and-truncate-with-ties pass once all offsets/strands
// have contributed.
func (r *Resolver) scanTopK(s *seed.Seeder, convertedRead []byte, strand Strand, list *TopKList) {
	for _, c := range s.Seed(convertedRead) {
		for i := c.Range.Low; i <= c.Range.High; i++ {
			chromID, chromOffset := s.Position(i)
			readStart, mismatch, valid := Verify(s.Index, chromID, chromOffset, c.Offset, convertedRead, r.MaxMismatches)
			if valid && mismatch <= r.MaxMismatches {
				list.Insert(TopKEntry{ChromID: chromID, ChromOffset: readStart, Mismatch: mismatch, Strand: strand})
			}
		}
	}
}
