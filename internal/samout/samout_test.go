package samout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kshedden/bsmap/internal/align"
)

func TestSAMWriterSingleMappedAndUnmapped(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewSAMWriter(&buf, []string{"chr1"}, []uint32{1000})
	if err != nil {
		t.Fatalf("NewSAMWriter: %v", err)
	}

	mapped := align.BestMatch{ChromID: 0, ChromOffset: 10, Mismatch: 0, Times: 1, Strand: align.Forward}
	if err := w.WriteSingle("mapped_read", []byte("ACGTACGT"), nil, mapped, 2); err != nil {
		t.Fatalf("WriteSingle (mapped): %v", err)
	}

	unmapped := align.NewBestMatch(2)
	if err := w.WriteSingle("unmapped_read", []byte("ACGTACGT"), nil, unmapped, 2); err != nil {
		t.Fatalf("WriteSingle (unmapped): %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "mapped_read") || !strings.Contains(out, "chr1") {
		t.Fatalf("expected mapped record referencing chr1, got %q", out)
	}
	if !strings.Contains(out, "unmapped_read") {
		t.Fatalf("expected unmapped record present, got %q", out)
	}
}

func TestSAMWriterPair(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewSAMWriter(&buf, []string{"chr1"}, []uint32{1000})
	if err != nil {
		t.Fatalf("NewSAMWriter: %v", err)
	}

	result := align.PairResult{
		Mate1:    align.TopKEntry{ChromID: 0, ChromOffset: 8, Strand: align.Forward},
		Mate2:    align.TopKEntry{ChromID: 0, ChromOffset: 30, Strand: align.Forward},
		Mismatch: 0,
		Times:    1,
	}
	if err := w.WritePair("pair1", []byte("ACGTAC"), nil, []byte("TGACGA"), nil, result, 0); err != nil {
		t.Fatalf("WritePair: %v", err)
	}

	if !strings.Contains(buf.String(), "pair1") {
		t.Fatalf("expected pair1 in output, got %q", buf.String())
	}
}
