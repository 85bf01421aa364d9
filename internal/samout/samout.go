// Package samout writes mapping results in the two output formats
// bsmap supports: the default SAM format, and a minimal tab-delimited
// ".mr" format for callers that don't need a full SAM toolchain. See
// spec §6.
package samout

import (
	"io"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"

	"github.com/kshedden/bsmap/internal/align"
)

// SAMWriter emits one sam.Record per read (or per mate, for paired
// input), built against a header whose references are the target
// chromosome table.
type SAMWriter struct {
	w    *sam.Writer
	refs []*sam.Reference
}

// NewSAMWriter builds a SAM header from the chromosome table and
// opens a writer over w.
func NewSAMWriter(w io.Writer, chromNames []string, chromLengths []uint32) (*SAMWriter, error) {
	refs := make([]*sam.Reference, len(chromNames))
	for i, name := range chromNames {
		ref, err := sam.NewReference(name, "", "", int(chromLengths[i]), nil, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "building sam reference for %s", name)
		}
		refs[i] = ref
	}

	header, err := sam.NewHeader(nil, refs)
	if err != nil {
		return nil, errors.Wrap(err, "building sam header")
	}

	sw, err := sam.NewWriter(w, header, sam.FlagDecimal)
	if err != nil {
		return nil, errors.Wrap(err, "opening sam writer")
	}
	return &SAMWriter{w: sw, refs: refs}, nil
}

func cigarFor(readLen int) sam.Cigar {
	if readLen == 0 {
		return nil
	}
	return sam.Cigar{sam.NewCigarOp(sam.CigarMatch, readLen)}
}

// WriteSingle emits one record for a single-end read's best match. An
// unmapped read is still emitted, with sam.Unmapped set and Pos/Ref
// cleared, matching conventional SAM practice for unmapped reads that
// are nonetheless worth keeping in the output stream.
func (s *SAMWriter) WriteSingle(name string, seq, qual []byte, m align.BestMatch, maxMismatches int) error {
	rec, err := sam.NewRecord(name, nil, nil, -1, -1, 0, 0, nil, seq, qual, nil)
	if err != nil {
		return errors.Wrapf(err, "building sam record for %s", name)
	}

	if m.Classify(maxMismatches) == align.Unmapped {
		rec.Flags = sam.Unmapped
		return s.w.Write(rec)
	}

	rec.Ref = s.refs[m.ChromID]
	rec.Pos = int(m.ChromOffset)
	rec.Cigar = cigarFor(len(seq))
	if m.Strand == align.Reverse {
		rec.Flags = sam.Reverse
	}
	if m.Classify(maxMismatches) == align.Ambiguous {
		rec.MapQ = 0
	} else {
		rec.MapQ = 37
	}
	nm, err := sam.NewAux(sam.NewTag("NM"), m.Mismatch)
	if err != nil {
		return errors.Wrap(err, "building NM aux field")
	}
	rec.AuxFields = append(rec.AuxFields, nm)

	return s.w.Write(rec)
}

// WritePair emits two linked records, one per mate, for a paired-end
// result.
func (s *SAMWriter) WritePair(name string, seq1, qual1, seq2, qual2 []byte, result align.PairResult, maxMismatches int) error {
	if result.Classify(maxMismatches) == align.Unmapped {
		r1, err := sam.NewRecord(name, nil, nil, -1, -1, 0, 0, nil, seq1, qual1, nil)
		if err != nil {
			return errors.Wrap(err, "building unmapped mate1 record")
		}
		r1.Flags = sam.Paired | sam.Unmapped | sam.MateUnmapped | sam.Read1
		r2, err := sam.NewRecord(name, nil, nil, -1, -1, 0, 0, nil, seq2, qual2, nil)
		if err != nil {
			return errors.Wrap(err, "building unmapped mate2 record")
		}
		r2.Flags = sam.Paired | sam.Unmapped | sam.MateUnmapped | sam.Read2
		if err := s.w.Write(r1); err != nil {
			return err
		}
		return s.w.Write(r2)
	}

	ref1 := s.refs[result.Mate1.ChromID]
	ref2 := s.refs[result.Mate2.ChromID]

	r1, err := sam.NewRecord(name, ref1, ref2, int(result.Mate1.ChromOffset), int(result.Mate2.ChromOffset), 0, 0,
		cigarFor(len(seq1)), seq1, qual1, nil)
	if err != nil {
		return errors.Wrap(err, "building mate1 record")
	}
	r1.Flags = sam.Paired | sam.ProperPair | sam.Read1
	if result.Mate1.Strand == align.Reverse {
		r1.Flags |= sam.Reverse
	}
	if result.Mate2.Strand == align.Reverse {
		r1.Flags |= sam.MateReverse
	}

	r2, err := sam.NewRecord(name, ref2, ref1, int(result.Mate2.ChromOffset), int(result.Mate1.ChromOffset), 0, 0,
		cigarFor(len(seq2)), seq2, qual2, nil)
	if err != nil {
		return errors.Wrap(err, "building mate2 record")
	}
	r2.Flags = sam.Paired | sam.ProperPair | sam.Read2
	if result.Mate2.Strand == align.Reverse {
		r2.Flags |= sam.Reverse
	}
	if result.Mate1.Strand == align.Reverse {
		r2.Flags |= sam.MateReverse
	}

	if err := s.w.Write(r1); err != nil {
		return err
	}
	return s.w.Write(r2)
}
