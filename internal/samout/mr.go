package samout

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kshedden/bsmap/internal/align"
)

// MRWriter emits the minimal tab-delimited ".mr" format: one line per
// read (or per mate pair), no header, fields separated by tabs.
// Grounded on muscato_screen's harvest, which writes its own
// tab-delimited fields with fmt.Fprintf rather than a general-purpose
// encoder.
type MRWriter struct {
	w *bufio.Writer
}

// NewMRWriter wraps w in a buffered writer sized like the teacher's
// own output buffers.
func NewMRWriter(w io.Writer) *MRWriter {
	return &MRWriter{w: bufio.NewWriterSize(w, 1<<16)}
}

// WriteSingle writes one line: chromosome, start, end, read name,
// mismatch, strand, sequence (spec §6's minimal record field order).
// An unmapped read still carries its name and sequence through, with
// "*" for chromosome, 0/0 for start/end, and "." for strand.
func (m *MRWriter) WriteSingle(name string, chromNames []string, seq []byte, match align.BestMatch, maxMismatches int) error {
	if match.Classify(maxMismatches) == align.Unmapped {
		_, err := fmt.Fprintf(m.w, "*\t0\t0\t%s\t0\t.\t%s\n", name, seq)
		return err
	}
	start := match.ChromOffset
	end := start + uint32(len(seq))
	_, err := fmt.Fprintf(m.w, "%s\t%d\t%d\t%s\t%d\t%s\t%s\n",
		chromNames[match.ChromID], start, end, name, match.Mismatch, match.Strand, seq)
	return err
}

// WritePair writes one record per mate, each in the same field order
// as WriteSingle; there is no paired-specific record shape in spec §6.
func (m *MRWriter) WritePair(name string, chromNames []string, seq1, seq2 []byte, result align.PairResult, maxMismatches int) error {
	if result.Classify(maxMismatches) == align.Unmapped {
		if _, err := fmt.Fprintf(m.w, "*\t0\t0\t%s\t0\t.\t%s\n", name, seq1); err != nil {
			return err
		}
		_, err := fmt.Fprintf(m.w, "*\t0\t0\t%s\t0\t.\t%s\n", name, seq2)
		return err
	}

	start1 := result.Mate1.ChromOffset
	end1 := start1 + uint32(len(seq1))
	if _, err := fmt.Fprintf(m.w, "%s\t%d\t%d\t%s\t%d\t%s\t%s\n",
		chromNames[result.Mate1.ChromID], start1, end1, name, result.Mismatch, result.Mate1.Strand, seq1); err != nil {
		return err
	}

	start2 := result.Mate2.ChromOffset
	end2 := start2 + uint32(len(seq2))
	_, err := fmt.Fprintf(m.w, "%s\t%d\t%d\t%s\t%d\t%s\t%s\n",
		chromNames[result.Mate2.ChromID], start2, end2, name, result.Mismatch, result.Mate2.Strand, seq2)
	return err
}

// Flush drains the buffer to the underlying writer.
func (m *MRWriter) Flush() error {
	return m.w.Flush()
}
