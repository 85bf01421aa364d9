// bsmap-index builds the .dbindex file bsmap maps reads against: it
// reads a reference FASTA, builds both bisulfite-converted genome
// images, and writes a positional index over each. Grounded on
// cmd/muscato_prep_targets's offline index-building entry point.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kshedden/bsmap/internal/bisulfite"
	"github.com/kshedden/bsmap/internal/genome"
	"github.com/kshedden/bsmap/internal/index"
)

func main() {
	fastaPath := flag.String("FastaFileName", "", "Reference genome FASTA file (may be gzip-compressed)")
	outPath := flag.String("IndexPath", "", "Path to write the .dbindex file")
	hashLen := flag.Int("HashLen", 0, "Primary hash prefix length in bases (default 12)")
	nDiscrim := flag.Int("NumDiscriminators", 0, "Number of discriminator positions after the hash window (default 8)")
	flag.Parse()

	if *fastaPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "FastaFileName and IndexPath are both required")
		os.Exit(1)
	}

	if err := run(*fastaPath, *outPath, *hashLen, *nDiscrim); err != nil {
		log.Fatal(err)
	}
}

func run(fastaPath, outPath string, hashLen, nDiscrim int) error {
	names, seqs, err := genome.ReadFasta(fastaPath)
	if err != nil {
		return fmt.Errorf("reading fasta: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("%s contains no sequences", fastaPath)
	}

	g := genome.NewFromSequences(names, seqs)

	seedConfig := index.DefaultSeedConfig()
	if hashLen > 0 {
		seedConfig = customSeedConfig(hashLen, nDiscrim)
	}

	lengths := make([]uint32, len(g.Chromosomes))
	for i, c := range g.Chromosomes {
		lengths[i] = c.Length
	}
	chromBase := g.Offsets[:len(g.Chromosomes)]

	log.Printf("building forward (C->T) index over %d chromosomes, %d total bases", len(names), g.Offsets[len(g.Offsets)-1])
	ctIndex := index.Build(g.Image(bisulfite.CT), chromBase, lengths, seedConfig)

	log.Printf("building reverse (G->A) index")
	gaIndex := index.Build(g.Image(bisulfite.GA), chromBase, lengths, seedConfig)

	log.Printf("writing index to %s", outPath)
	return index.WriteFile(outPath, names, lengths, g.Image(bisulfite.CT), g.Image(bisulfite.GA), ctIndex, gaIndex)
}

func customSeedConfig(hashLen, nDiscrim int) index.SeedConfig {
	if nDiscrim <= 0 {
		nDiscrim = 8
	}
	pos := make([]int, hashLen+nDiscrim)
	for i := range pos {
		pos[i] = i
	}
	return index.SeedConfig{
		HashLen:        hashLen,
		F2SeedWidth:    hashLen,
		F2SeedPosition: pos,
		SeedLength:     hashLen + nDiscrim,
	}
}
