package samout

import (
	"bufio"
	"io"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// AuxWriter re-emits a read (in FASTQ form) to a side channel, for the
// optional ambiguous/unmapped output streams (spec §6). Grounded on
// muscato/muscato.go:writeNonMatch, which writes its non-matching
// reads back out in FASTQ form; Compressed mirrors that function's
// snappy-compressed intermediate artifacts.
type AuxWriter struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewAuxWriter opens w for FASTQ output, wrapping it in a snappy
// writer when compressed is true.
func NewAuxWriter(w io.WriteCloser, compressed bool) *AuxWriter {
	if compressed {
		sw := snappy.NewBufferedWriter(w)
		return &AuxWriter{w: bufio.NewWriter(sw), closer: multiCloser{sw, w}}
	}
	return &AuxWriter{w: bufio.NewWriter(w), closer: w}
}

// Write emits one FASTQ record with a constant quality line; it takes
// only the read's name and sequence, not its quality string.
func (a *AuxWriter) Write(name string, seq []byte) error {
	if _, err := a.w.WriteString("@" + name + "\n"); err != nil {
		return errors.Wrap(err, "writing aux record header")
	}
	if _, err := a.w.Write(seq); err != nil {
		return errors.Wrap(err, "writing aux record sequence")
	}
	if _, err := a.w.WriteString("\n+\n"); err != nil {
		return errors.Wrap(err, "writing aux record separator")
	}
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = '!'
	}
	if _, err := a.w.Write(qual); err != nil {
		return errors.Wrap(err, "writing aux record quality")
	}
	_, err := a.w.WriteString("\n")
	return err
}

// Close flushes the buffer and closes the underlying writer(s).
func (a *AuxWriter) Close() error {
	if err := a.w.Flush(); err != nil {
		return errors.Wrap(err, "flushing aux writer")
	}
	return a.closer.Close()
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	for _, c := range m {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}
