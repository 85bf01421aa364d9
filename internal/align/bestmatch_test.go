package align

import "testing"

func TestNewBestMatchInitialState(t *testing.T) {
	b := NewBestMatch(3)
	if b.Mismatch != 4 || b.Times != 0 {
		t.Fatalf("got %+v, want Mismatch=4 Times=0", b)
	}
	if b.Classify(3) != Unmapped {
		t.Fatalf("fresh record should classify unmapped")
	}
}

func TestBestMatchUpdateReplacesOnImprovement(t *testing.T) {
	b := NewBestMatch(3)
	b.Update(0, 10, 2, Forward)
	if b.Mismatch != 2 || b.Times != 1 || b.ChromOffset != 10 {
		t.Fatalf("got %+v", b)
	}
	b.Update(0, 20, 1, Reverse)
	if b.Mismatch != 1 || b.Times != 1 || b.ChromOffset != 20 || b.Strand != Reverse {
		t.Fatalf("expected replacement on strict improvement, got %+v", b)
	}
}

func TestBestMatchUpdateTiesIncrementTimes(t *testing.T) {
	b := NewBestMatch(3)
	b.Update(0, 10, 1, Forward)
	b.Update(0, 30, 1, Forward)
	if b.Times != 2 {
		t.Fatalf("expected times=2 on a tie at a different position, got %d", b.Times)
	}
}

func TestBestMatchUpdateSamePositionDoesNotDoubleCount(t *testing.T) {
	b := NewBestMatch(3)
	b.Update(0, 10, 1, Forward)
	b.Update(0, 10, 1, Forward)
	if b.Times != 1 {
		t.Fatalf("expected times=1 when the same position is reported twice, got %d", b.Times)
	}
}

func TestBestMatchUpdateWorseIsIgnored(t *testing.T) {
	b := NewBestMatch(3)
	b.Update(0, 10, 1, Forward)
	b.Update(0, 99, 2, Forward)
	if b.Mismatch != 1 || b.Times != 1 || b.ChromOffset != 10 {
		t.Fatalf("worse candidate must not change the record, got %+v", b)
	}
}

func TestClassifyUniqueAmbiguousUnmapped(t *testing.T) {
	unique := BestMatch{Mismatch: 1, Times: 1}
	if unique.Classify(3) != Unique {
		t.Fatalf("expected Unique")
	}
	ambiguous := BestMatch{Mismatch: 1, Times: 2}
	if ambiguous.Classify(3) != Ambiguous {
		t.Fatalf("expected Ambiguous")
	}
	tooManyMismatches := BestMatch{Mismatch: 5, Times: 1}
	if tooManyMismatches.Classify(3) != Unmapped {
		t.Fatalf("expected Unmapped when mismatch exceeds the bound")
	}
}
