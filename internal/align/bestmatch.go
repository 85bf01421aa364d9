// Package align implements the mismatch verifier and the single-end
// and paired-end resolution policies (spec §4.3, §4.4, §4.5): given
// the candidate ranges a seeder produces, it computes Hamming
// distance against the reference and folds results into a best-match
// or top-k record.
package align

// Strand records which genomic strand a candidate alignment lies on.
type Strand byte

const (
	Forward Strand = iota
	Reverse
)

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// Classification is the three-way outcome of resolving a read (spec
// §3's best-match record, §4.4 step 6).
type Classification int

const (
	Unmapped Classification = iota
	Unique
	Ambiguous
)

func (c Classification) String() string {
	switch c {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unmapped"
	}
}

// BestMatch is the running best-alignment record a single-end
// resolution accumulates across seed offsets and strands (spec §3).
type BestMatch struct {
	ChromID     uint32
	ChromOffset uint32
	Mismatch    int
	Times       int
	Strand      Strand
}

// NewBestMatch returns the initial state spec §3 mandates:
// mismatch = max_mismatches+1, times = 0.
func NewBestMatch(maxMismatches int) BestMatch {
	return BestMatch{Mismatch: maxMismatches + 1, Times: 0}
}

// Update folds one verified candidate into the record, per the three
// update rules in spec §4.3. A strictly better mismatch count always
// replaces the record and resets times to 1; an equal mismatch count
// at different coordinates increments times and adopts the new
// coordinates (the spec leaves the tied representative unspecified,
// see SPEC_FULL.md's tie-representative decision); anything worse
// leaves the record untouched.
func (b *BestMatch) Update(chromID, chromOffset uint32, mismatch int, strand Strand) {
	switch {
	case mismatch < b.Mismatch:
		b.ChromID = chromID
		b.ChromOffset = chromOffset
		b.Mismatch = mismatch
		b.Times = 1
		b.Strand = strand
	case mismatch == b.Mismatch && (chromID != b.ChromID || chromOffset != b.ChromOffset):
		b.Times++
		b.ChromID = chromID
		b.ChromOffset = chromOffset
		b.Strand = strand
	}
}

// Classify applies the unique/ambiguous/unmapped rule of spec §4.4
// step 6.
func (b BestMatch) Classify(maxMismatches int) Classification {
	if b.Times == 0 || b.Mismatch > maxMismatches {
		return Unmapped
	}
	if b.Times == 1 {
		return Unique
	}
	return Ambiguous
}
