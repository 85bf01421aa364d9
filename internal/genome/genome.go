// Package genome holds the in-memory representation of a reference
// genome and its two bisulfite-converted images, shared read-only
// across every worker goroutine for the lifetime of a run (spec §3,
// §5, §9).
package genome

import (
	"github.com/kshedden/bsmap/internal/bisulfite"
)

// Chromosome is one named reference sequence.
type Chromosome struct {
	Name   string
	Length uint32
}

// Genome is the ordered list of chromosomes that make up a reference,
// plus the two bisulfite-converted concatenated sequence images. Both
// images share Chromosomes and Offsets. A Genome is built once (by
// NewFromSequences, from cmd/bsmap-index or from tests) and never mutated after
// that; every field is safe to read concurrently without locking.
type Genome struct {
	Chromosomes []Chromosome

	// Offsets[i] is the starting offset of Chromosomes[i] within
	// both CTImage and GAImage. len(Offsets) == len(Chromosomes)+1,
	// with the final entry equal to the total genome length, so
	// that chromosome i spans Offsets[i]:Offsets[i+1].
	Offsets []uint32

	// CTImage is the concatenation of every chromosome's sequence
	// with every C rewritten to T (the forward bisulfite
	// convention).
	CTImage []byte

	// GAImage is the concatenation of every chromosome's sequence
	// with every G rewritten to A (the reverse bisulfite
	// convention).
	GAImage []byte
}

// NewFromSequences builds a Genome (and both bisulfite images) from a
// list of (name, sequence) pairs, in the order given. This is the path
// used by cmd/bsmap-index after parsing a FASTA file, and directly by
// tests that want an in-memory fixture without touching disk.
func NewFromSequences(names []string, seqs [][]byte) *Genome {
	g := &Genome{
		Chromosomes: make([]Chromosome, len(names)),
		Offsets:     make([]uint32, len(names)+1),
	}

	var total int
	for _, s := range seqs {
		total += len(s)
	}
	g.CTImage = make([]byte, 0, total)
	g.GAImage = make([]byte, 0, total)

	var off uint32
	for i, seq := range seqs {
		g.Chromosomes[i] = Chromosome{Name: names[i], Length: uint32(len(seq))}
		g.Offsets[i] = off
		g.CTImage = append(g.CTImage, bisulfite.ConvertCT(seq)...)
		g.GAImage = append(g.GAImage, bisulfite.ConvertGA(seq)...)
		off += uint32(len(seq))
	}
	g.Offsets[len(names)] = off

	return g
}

// Image returns the converted image for the given convention.
func (g *Genome) Image(conv bisulfite.Convention) []byte {
	if conv == bisulfite.GA {
		return g.GAImage
	}
	return g.CTImage
}

// NumChromosomes returns the chromosome count.
func (g *Genome) NumChromosomes() int { return len(g.Chromosomes) }

// ChromOf returns the chromosome id owning a global image offset, and
// the offset within that chromosome. It is a small linear scan over
// Offsets; callers on the hot path (verifier) instead carry the
// chromosome id alongside the candidate position so this is only used
// by index construction and diagnostics.
func (g *Genome) ChromOf(globalOffset uint32) (chromID uint32, chromOffset uint32) {
	for i := 0; i+1 < len(g.Offsets); i++ {
		if globalOffset >= g.Offsets[i] && globalOffset < g.Offsets[i+1] {
			return uint32(i), globalOffset - g.Offsets[i]
		}
	}
	last := len(g.Offsets) - 2
	return uint32(last), globalOffset - g.Offsets[last]
}

// GlobalOffset returns the offset of (chromID, chromOffset) within the
// concatenated image.
func (g *Genome) GlobalOffset(chromID, chromOffset uint32) uint32 {
	return g.Offsets[chromID] + chromOffset
}
