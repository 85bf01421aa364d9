package align

import "testing"

// Fixture verified offline: mate1 ("AACGTC") matches uniquely at
// genome offset 8 on the forward strand of the C->T image; mate2
// ("TGACGA") matches uniquely at genome offset 30 on the forward
// strand of the G->A image, with neither mate's reverse complement
// matching anywhere. The outer fragment span is offset 8 to 36, a
// fragment length of 28.
const pairedGenomeCT = "GATTGATTAATGTTTATGGTATTATGGTATTGATGATTAGTTAG"
const pairedGenomeGA = "AATCAATCAACATCTACAATACTACAATACTAACAACTAACTAA"
const pairedMate1 = "AACGTC"
const pairedMate2 = "TGACGA"

func buildPairedResolver(t *testing.T) *Resolver {
	t.Helper()
	ct := buildSeeder(t, pairedGenomeCT)
	ga := buildSeeder(t, pairedGenomeGA)
	return NewResolver(ct, ga, 0, false)
}

func TestPairedEndUniqueWithinFragRange(t *testing.T) {
	r := buildPairedResolver(t)
	result := r.PairedEnd([]byte(pairedMate1), []byte(pairedMate2), 10, 30)

	if result.Classify(0) != Unique {
		t.Fatalf("expected Unique, got %v (%+v)", result.Classify(0), result)
	}
	if result.Mate1.ChromOffset != 8 || result.Mate2.ChromOffset != 30 {
		t.Fatalf("got mate1=%d mate2=%d, want 8,30", result.Mate1.ChromOffset, result.Mate2.ChromOffset)
	}
	if result.Mismatch != 0 {
		t.Fatalf("expected a perfect pair, got mismatch=%d", result.Mismatch)
	}
}

func TestPairedEndUnmappedOutsideFragRange(t *testing.T) {
	r := buildPairedResolver(t)
	result := r.PairedEnd([]byte(pairedMate1), []byte(pairedMate2), 10, 20)

	if result.Classify(0) != Unmapped {
		t.Fatalf("expected Unmapped once the fragment length constraint excludes the only candidate pair, got %v (%+v)", result.Classify(0), result)
	}
}

func TestPairedEndNoCommonChromosomeIsUnmapped(t *testing.T) {
	ct := buildSeeder(t, "AAAAAAAAAAAA")
	ga := buildSeeder(t, "TTTTTTTTTTTT")
	r := NewResolver(ct, ga, 0, false)

	result := r.PairedEnd([]byte(pairedMate1), []byte(pairedMate2), 10, 1000)
	if result.Classify(0) != Unmapped {
		t.Fatalf("expected Unmapped when neither mate has a candidate, got %v", result.Classify(0))
	}
}
