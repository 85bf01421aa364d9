package seed

import (
	"testing"

	"github.com/kshedden/bsmap/internal/index"
)

// buildTestIndex builds a small index over a single chromosome using
// a realistic seed geometry (4-base hash, 3 discriminator bases).
func buildTestIndex(t *testing.T, image string) *index.PositionIndex {
	t.Helper()
	cfg := index.SeedConfig{
		HashLen:        4,
		F2SeedWidth:    4,
		F2SeedPosition: []int{0, 1, 2, 3, 4, 5, 6},
		SeedLength:     7,
	}
	img := []byte(image)
	return index.Build(img, []uint32{0}, []uint32{uint32(len(img))}, cfg)
}

func TestSeedFindsExactMatch(t *testing.T) {
	// Converted reference: position 2 reads "AACCGGT" (7 bases).
	ref := "AAAACCGGTAAAA"
	ix := buildTestIndex(t, ref)
	s := New(ix, 5000)

	read := []byte("AACCGGT") // matches ref[2:9] exactly
	cands := s.Seed(read)

	found := false
	for _, c := range cands {
		for i := c.Range.Low; i <= c.Range.High; i++ {
			chromID, chromOffset := s.Position(i)
			p := int(chromOffset) - c.Offset
			if chromID == 0 && p == 2 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected seed offset to surface genome position 2, candidates=%v", cands)
	}
}

func TestSeedShortReadSkipsOutOfRangeOffsets(t *testing.T) {
	ix := buildTestIndex(t, "AAAACCGGTAAAA")
	s := New(ix, 5000)

	// Exactly SeedLength long: only offset 0 fits.
	read := []byte("AACCGGT")
	cands := s.Seed(read)
	for _, c := range cands {
		if c.Offset != 0 {
			t.Fatalf("expected only offset 0 to be tried for a read of exactly seed length, got offset %d", c.Offset)
		}
	}
}

func TestSeedEmptyWhenHashAbsent(t *testing.T) {
	ix := buildTestIndex(t, "AAAAAAA")
	s := New(ix, 5000)

	read := []byte("TTTTTTT")
	cands := s.Seed(read)
	if len(cands) != 0 {
		t.Fatalf("expected no candidates for a hash absent from the bucket table, got %v", cands)
	}
}

func TestSeedRespectsBucketCap(t *testing.T) {
	// Every window of this reference shares the same 4-base prefix
	// hash, so the whole position array is one big bucket; a
	// bucket cap of 1 should suppress all candidates even though
	// exact matches exist.
	ix := buildTestIndex(t, "AAAAAAAAAAAAAAA")
	s := New(ix, 1)

	read := []byte("AAAAAAA")
	cands := s.Seed(read)
	if len(cands) != 0 {
		t.Fatalf("expected bucket-overflow cap to suppress all candidates, got %d", len(cands))
	}
}

func TestLowerUpperBoundSingleElementBucket(t *testing.T) {
	// A single-position reference exercises the size-one bucket
	// boundary case (spec §8): binary search must terminate without
	// looping and must find the element when it matches.
	ix := buildTestIndex(t, "AACCGGT")
	s := New(ix, 5000)

	read := []byte("AACCGGT")
	cands := s.Seed(read)
	if len(cands) == 0 {
		t.Fatalf("expected the single-position bucket to match exactly")
	}
}
