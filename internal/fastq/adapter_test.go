package fastq

import (
	"bytes"
	"testing"
)

const testAdapter = "AGATCGGAAGAGC"

func TestAdapterClipExactFullLengthMatch(t *testing.T) {
	c := NewAdapterClipper([]byte(testAdapter))
	read := []byte("ACGTACGTAC" + testAdapter)

	clipped, didClip := c.Clip(read)
	if !didClip {
		t.Fatalf("expected a clip")
	}
	if !bytes.Equal(clipped, []byte("ACGTACGTAC")) {
		t.Fatalf("got %q, want %q", clipped, "ACGTACGTAC")
	}
}

func TestAdapterClipPartialSuffixOverlap(t *testing.T) {
	c := NewAdapterClipper([]byte(testAdapter))
	read := []byte("ACGTACGTAC" + testAdapter[:5])

	clipped, didClip := c.Clip(read)
	if !didClip {
		t.Fatalf("expected a partial-overlap clip")
	}
	if !bytes.Equal(clipped, []byte("ACGTACGTAC")) {
		t.Fatalf("got %q, want %q", clipped, "ACGTACGTAC")
	}
}

func TestAdapterClipNoMatch(t *testing.T) {
	c := NewAdapterClipper([]byte(testAdapter))
	read := []byte("ACGTACGTACGTACGTACGT")

	clipped, didClip := c.Clip(read)
	if didClip {
		t.Fatalf("expected no clip, got one at %q", clipped)
	}
	if !bytes.Equal(clipped, read) {
		t.Fatalf("unclipped read must be returned unchanged, got %q", clipped)
	}
}

func TestAdapterClipDeterministicAcrossInstances(t *testing.T) {
	read := []byte("ACGTACGTAC" + testAdapter)

	c1 := NewAdapterClipper([]byte(testAdapter))
	c2 := NewAdapterClipper([]byte(testAdapter))

	r1, ok1 := c1.Clip(read)
	r2, ok2 := c2.Clip(append([]byte(nil), read...))

	if ok1 != ok2 || !bytes.Equal(r1, r2) {
		t.Fatalf("two independently constructed clippers over the same adapter must agree: %v/%q vs %v/%q", ok1, r1, ok2, r2)
	}
}

func TestAdapterClipShortReadNeverMatchesLongerAdapterWholesale(t *testing.T) {
	c := NewAdapterClipper([]byte(testAdapter))
	read := []byte("AC")

	clipped, didClip := c.Clip(read)
	if didClip {
		t.Fatalf("a 2-base read sharing no suffix with the adapter must not clip, got %q", clipped)
	}
}
