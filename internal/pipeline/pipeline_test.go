package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kshedden/bsmap/internal/align"
	"github.com/kshedden/bsmap/internal/fastq"
	"github.com/kshedden/bsmap/internal/index"
	"github.com/kshedden/bsmap/internal/seed"
)

func mustOpen(t *testing.T, path string) (*fastq.Reader, error) {
	t.Helper()
	return fastq.NewReader(path)
}

func smallSeedConfig() index.SeedConfig {
	return index.SeedConfig{HashLen: 3, F2SeedWidth: 3, F2SeedPosition: []int{0, 1, 2, 3, 4}, SeedLength: 5}
}

func buildSeeder(t *testing.T, image string) *seed.Seeder {
	t.Helper()
	img := []byte(image)
	ix := index.Build(img, []uint32{0}, []uint32{uint32(len(img))}, smallSeedConfig())
	return seed.New(ix, 100)
}

func writeFastqFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// Fixture verified offline alongside the identical one in the align
// package: "AACGTC" converts under C->T to "AATGTT", which matches
// exactly one place in ctUnit with no reverse-complement collision.
const ctUnit = "GATTGATTAATGTTGATTGATT"
const singleEndRead = "AACGTC"

func TestPipelineRunSingleEndPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFastqFile(t, dir, "reads.fastq",
		"@first\n"+singleEndRead+"\n+\nIIIIII\n"+
			"@second\nNNNNNN\n+\nIIIIII\n")

	ct := buildSeeder(t, ctUnit)
	ga := buildSeeder(t, ctUnit)
	resolver := align.NewResolver(ct, ga, 0, false)

	r, err := mustOpen(t, path)
	if err != nil {
		t.Fatalf("opening reads: %v", err)
	}
	defer r.Close()

	p := &Pipeline{Resolver: resolver, NumThreads: 4}
	results, err := p.RunSingleEnd(r)
	if err != nil {
		t.Fatalf("RunSingleEnd: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "first" || results[1].Name != "second" {
		t.Fatalf("expected input order preserved, got %q then %q", results[0].Name, results[1].Name)
	}
	if string(results[0].Seq) != singleEndRead {
		t.Fatalf("expected Seq to be threaded through, got %q", results[0].Seq)
	}
	if string(results[0].Qual) != "IIIIII" {
		t.Fatalf("expected Qual to be threaded through, got %q", results[0].Qual)
	}
	if results[0].Match.Classify(0) != align.Unique {
		t.Fatalf("expected first read to map uniquely, got %v", results[0].Match.Classify(0))
	}
	if results[1].Match.Classify(0) != align.Unmapped {
		t.Fatalf("expected an all-N read to be unmapped, got %v", results[1].Match.Classify(0))
	}
}

func TestPipelineRespectsMaxReads(t *testing.T) {
	dir := t.TempDir()
	path := writeFastqFile(t, dir, "reads.fastq",
		"@a\n"+singleEndRead+"\n+\nIIIIII\n"+
			"@b\n"+singleEndRead+"\n+\nIIIIII\n"+
			"@c\n"+singleEndRead+"\n+\nIIIIII\n")

	ct := buildSeeder(t, ctUnit)
	ga := buildSeeder(t, ctUnit)
	resolver := align.NewResolver(ct, ga, 0, false)

	r, err := mustOpen(t, path)
	if err != nil {
		t.Fatalf("opening reads: %v", err)
	}
	defer r.Close()

	p := &Pipeline{Resolver: resolver, NumThreads: 2, MaxReads: 2}
	results, err := p.RunSingleEnd(r)
	if err != nil {
		t.Fatalf("RunSingleEnd: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected the read cap to stop at 2, got %d", len(results))
	}
}

// Paired fixture reused verbatim (and re-verified by the same offline
// method) from the align package's paired-end test.
const pairedGenomeCT = "GATTGATTAATGTTTATGGTATTATGGTATTGATGATTAGTTAG"
const pairedGenomeGA = "AATCAATCAACATCTACAATACTACAATACTAACAACTAACTAA"
const pairedMate1 = "AACGTC"
const pairedMate2 = "TGACGA"

func TestPipelineRunPairedEnd(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFastqFile(t, dir, "m1.fastq", "@pair1\n"+pairedMate1+"\n+\nIIIIII\n")
	p2 := writeFastqFile(t, dir, "m2.fastq", "@pair1\n"+pairedMate2+"\n+\nIIIIII\n")

	ct := buildSeeder(t, pairedGenomeCT)
	ga := buildSeeder(t, pairedGenomeGA)
	resolver := align.NewResolver(ct, ga, 0, false)

	r1, err := mustOpen(t, p1)
	if err != nil {
		t.Fatalf("opening mate1: %v", err)
	}
	defer r1.Close()
	r2, err := mustOpen(t, p2)
	if err != nil {
		t.Fatalf("opening mate2: %v", err)
	}
	defer r2.Close()

	p := &Pipeline{Resolver: resolver, NumThreads: 2, TopK: 10, FragRange: 30}
	results, err := p.RunPairedEnd(r1, r2)
	if err != nil {
		t.Fatalf("RunPairedEnd: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Result.Classify(0) != align.Unique {
		t.Fatalf("expected a unique pair, got %v", results[0].Result.Classify(0))
	}
	if string(results[0].Seq1) != pairedMate1 || string(results[0].Seq2) != pairedMate2 {
		t.Fatalf("expected both mates' Seq threaded through, got %q / %q", results[0].Seq1, results[0].Seq2)
	}
	if string(results[0].Qual1) != "IIIIII" || string(results[0].Qual2) != "IIIIII" {
		t.Fatalf("expected both mates' Qual threaded through, got %q / %q", results[0].Qual1, results[0].Qual2)
	}
}
