package align

import (
	"encoding/binary"
	"sort"

	"github.com/willf/bloom"
)

// TopKEntry is one candidate alignment retained in a paired-end
// top-k list (spec §4.5 step 1).
type TopKEntry struct {
	ChromID     uint32
	ChromOffset uint32
	Mismatch    int
	Strand      Strand
}

// TopKList accumulates candidates for one mate and, on Finalize,
// keeps the K best by mismatch count, ties broken by genomic
// position — except that spec §9's tie-breaking note requires ties at
// the K-th slot to be retained rather than arbitrarily dropped, so
// Finalize may keep more than K entries when the boundary falls
// inside a run of equal mismatch counts.
//
// This departs from the teacher's qinsert partial max-heap
// (muscato_confirm/muscato_confirm.go), which explicitly documents
// that it "is not guaranteed to retain the best matches" once
// MaxMatches is exceeded — acceptable for muscato's approximate
// screening stage but not for this spec's exact ambiguity counting.
type TopKList struct {
	K       int
	Entries []TopKEntry

	seenFilter *bloom.BloomFilter
	seenExact  map[uint64]struct{}
}

// NewTopKList returns an empty list capped at k, already validated to
// be within spec §6's [2, 300] range by the caller's config
// validation.
func NewTopKList(k int) *TopKList {
	return &TopKList{
		K:          k,
		seenFilter: bloom.New(2048, 4),
		seenExact:  make(map[uint64]struct{}),
	}
}

// entryKey packs a candidate's coordinates into a single uint64 for
// the duplicate pre-check below.
func entryKey(e TopKEntry) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], e.ChromID)
	binary.LittleEndian.PutUint32(buf[4:8], e.ChromOffset)
	key := binary.LittleEndian.Uint64(buf[:])
	if e.Strand == Reverse {
		key |= 1 << 63
	}
	return key
}

// Insert appends a candidate unless it is a duplicate reaching this
// list from more than one seed offset (fulfilling the deduplication
// the teacher's own code left as an unactioned TODO at
// muscato/muscato.go:366, "Add Bloom filter here to screen out
// duplicates", here applied where the corresponding duplication
// actually occurs: a single mate's repeated seed offsets revisiting
// the same genomic position). The bloom filter only ever produces
// false positives, never false negatives, so a "maybe seen" answer is
// always confirmed against the exact seenExact set before a candidate
// is dropped; an empty list.Entries still receives K+ties after
// Finalize because no genuine candidate can be skipped by this check.
func (t *TopKList) Insert(e TopKEntry) {
	key := entryKey(e)
	var keyBytes [8]byte
	binary.LittleEndian.PutUint64(keyBytes[:], key)

	if t.seenFilter.Test(keyBytes[:]) {
		if _, ok := t.seenExact[key]; ok {
			return
		}
	}
	t.seenFilter.Add(keyBytes[:])
	t.seenExact[key] = struct{}{}

	t.Entries = append(t.Entries, e)
}

// Finalize sorts by (mismatch, chrom, offset), removes exact-coordinate
// duplicates (the same candidate reached via more than one seed
// offset), and truncates to K entries while retaining any further
// entries tied with the K-th mismatch count.
func (t *TopKList) Finalize() {
	sort.Slice(t.Entries, func(i, j int) bool {
		a, b := t.Entries[i], t.Entries[j]
		if a.Mismatch != b.Mismatch {
			return a.Mismatch < b.Mismatch
		}
		if a.ChromID != b.ChromID {
			return a.ChromID < b.ChromID
		}
		if a.ChromOffset != b.ChromOffset {
			return a.ChromOffset < b.ChromOffset
		}
		return a.Strand < b.Strand
	})

	deduped := t.Entries[:0]
	var prev TopKEntry
	havePrev := false
	for _, e := range t.Entries {
		if havePrev && e.ChromID == prev.ChromID && e.ChromOffset == prev.ChromOffset && e.Strand == prev.Strand {
			continue
		}
		deduped = append(deduped, e)
		prev = e
		havePrev = true
	}
	t.Entries = deduped

	if len(t.Entries) > t.K {
		cut := t.Entries[t.K-1].Mismatch
		end := t.K
		for end < len(t.Entries) && t.Entries[end].Mismatch == cut {
			end++
		}
		t.Entries = t.Entries[:end]
	}
}
