package dnacode

import "testing"

func TestEncodeDecode(t *testing.T) {
	cases := []struct {
		b    byte
		want Base
	}{
		{'A', A}, {'C', C}, {'G', G}, {'T', T}, {'N', T}, {'R', T},
	}
	for _, c := range cases {
		if got := Encode(c.b); got != c.want {
			t.Errorf("Encode(%q) = %v, want %v", c.b, got, c.want)
		}
	}
	for i, want := range []byte{'A', 'C', 'G', 'T'} {
		if got := Decode(Base(i)); got != want {
			t.Errorf("Decode(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestReverseComplement(t *testing.T) {
	got := string(ReverseComplement([]byte("AACCGGTT")))
	want := "AACCGGTT" // palindromic case
	if got != want {
		t.Errorf("ReverseComplement = %q, want %q", got, want)
	}
	got = string(ReverseComplement([]byte("AAACCG")))
	want = "CGGTTT"
	if got != want {
		t.Errorf("ReverseComplement = %q, want %q", got, want)
	}
}

func TestReverseComplementAmbiguity(t *testing.T) {
	got := string(ReverseComplement([]byte("ARCN")))
	want := "NGNT"
	if got != want {
		t.Errorf("ReverseComplement(ARCN) = %q, want %q", got, want)
	}
}

func TestPackPrefix(t *testing.T) {
	// A=0 C=1 G=2 T=3, so "ACGT" packs to 0b00_01_10_11 = 0x1B.
	got := PackPrefix([]byte("ACGT"), 4)
	if got != 0x1B {
		t.Errorf("PackPrefix(ACGT) = %#x, want 0x1b", got)
	}
}
