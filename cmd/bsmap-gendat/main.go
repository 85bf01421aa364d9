// bsmap-gendat generates a synthetic reference genome plus
// bisulfite-converted reads drawn from it, for exercising bsmap
// end-to-end without a real genome on hand. Grounded on
// muscato_gendat/muscato_gendat.go's random-base generator and
// embedded-read placement scheme, extended with bisulfite conversion,
// per-read mismatch injection, and optional mate pairs.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/kshedden/bsmap/internal/bisulfite"
	"github.com/kshedden/bsmap/internal/dnacode"
)

var bases = []byte("ACGT")

func randSeq(n int) []byte {
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = bases[rand.Intn(len(bases))]
	}
	return seq
}

func main() {
	numChrom := flag.Int("NumChrom", 4, "Number of synthetic chromosomes")
	chromLen := flag.Int("ChromLen", 10000, "Length of each synthetic chromosome")
	numRead := flag.Int("NumRead", 1000, "Number of reads to generate")
	readLen := flag.Int("ReadLen", 100, "Read length")
	maxMismatch := flag.Int("MaxMismatch", 2, "Maximum mismatches injected per read")
	paired := flag.Bool("Paired", false, "Generate mate-pair reads instead of single-end")
	fragLen := flag.Int("FragLen", 300, "Fragment length spanned by a mate pair")
	outDir := flag.String("OutDir", ".", "Directory to write genome.fasta and read files into")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	chroms := make([][]byte, *numChrom)
	for i := range chroms {
		chroms[i] = randSeq(*chromLen)
	}

	if err := writeFasta(*outDir+"/genome.fasta", chroms); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var err error
	if *paired {
		err = writePairedReads(*outDir, chroms, *numRead, *readLen, *fragLen, *maxMismatch)
	} else {
		err = writeSingleReads(*outDir+"/reads.fastq", chroms, *numRead, *readLen, *maxMismatch)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeFasta(path string, chroms [][]byte) error {
	fid, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fid.Close()

	w := bufio.NewWriter(fid)
	defer w.Flush()

	for i, seq := range chroms {
		fmt.Fprintf(w, ">chr%d\n", i)
		for off := 0; off < len(seq); off += 70 {
			end := off + 70
			if end > len(seq) {
				end = len(seq)
			}
			w.Write(seq[off:end])
			w.WriteByte('\n')
		}
	}
	return nil
}

// injectMismatches returns a copy of seq in which n randomly drawn
// positions are each substituted with a different base. A position
// can be drawn more than once, so the copy differs from seq at up to
// n positions.
func injectMismatches(seq []byte, n int) []byte {
	out := make([]byte, len(seq))
	copy(out, seq)
	if n <= 0 || len(out) == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		pos := rand.Intn(len(out))
		orig := out[pos]
		var repl byte
		for {
			repl = bases[rand.Intn(len(bases))]
			if repl != orig {
				break
			}
		}
		out[pos] = repl
	}
	return out
}

func pickWindow(chroms [][]byte, readLen int) (chromID, offset int, window []byte) {
	for {
		c := rand.Intn(len(chroms))
		if len(chroms[c]) < readLen {
			continue
		}
		off := rand.Intn(len(chroms[c]) - readLen + 1)
		return c, off, chroms[c][off : off+readLen]
	}
}

func writeSingleReads(path string, chroms [][]byte, numRead, readLen, maxMismatch int) error {
	fid, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fid.Close()
	w := bufio.NewWriter(fid)
	defer w.Flush()

	for i := 0; i < numRead; i++ {
		chromID, offset, window := pickWindow(chroms, readLen)
		forward := rand.Intn(2) == 0

		var truth []byte
		if forward {
			truth = window
		} else {
			truth = dnacode.ReverseComplement(window)
		}

		mismatches := rand.Intn(maxMismatch + 1)
		read := injectMismatches(truth, mismatches)
		read = bisulfite.Convert(read, bisulfite.CT)

		fmt.Fprintf(w, "@read_%d_chr%d_%d_%s_mm%d\n", i, chromID, offset, strandLabel(forward), mismatches)
		w.Write(read)
		w.WriteString("\n+\n")
		writeQual(w, len(read))
	}
	return nil
}

func writePairedReads(outDir string, chroms [][]byte, numRead, readLen, fragLen, maxMismatch int) error {
	f1, err := os.Create(outDir + "/reads_1.fastq")
	if err != nil {
		return err
	}
	defer f1.Close()
	f2, err := os.Create(outDir + "/reads_2.fastq")
	if err != nil {
		return err
	}
	defer f2.Close()

	w1 := bufio.NewWriter(f1)
	defer w1.Flush()
	w2 := bufio.NewWriter(f2)
	defer w2.Flush()

	for i := 0; i < numRead; i++ {
		var chromID, fragStart int
		var chrom []byte
		for {
			chromID = rand.Intn(len(chroms))
			chrom = chroms[chromID]
			if len(chrom) < fragLen {
				continue
			}
			fragStart = rand.Intn(len(chrom) - fragLen + 1)
			break
		}

		// Mate 1 is sequenced off the C->T image directly; mate 2
		// is sequenced off the G->A image directly (no reverse
		// complementing), matching the orientation
		// align.Resolver.PairedEnd's forward scan of each mate
		// expects (internal/align/paired.go).
		mate1Truth := chrom[fragStart : fragStart+readLen]
		mate2Truth := chrom[fragStart+fragLen-readLen : fragStart+fragLen]

		mm1 := rand.Intn(maxMismatch + 1)
		mm2 := rand.Intn(maxMismatch + 1)
		read1 := bisulfite.Convert(injectMismatches(mate1Truth, mm1), bisulfite.CT)
		read2 := bisulfite.Convert(injectMismatches(mate2Truth, mm2), bisulfite.GA)

		name := fmt.Sprintf("pair_%d_chr%d_%d", i, chromID, fragStart)

		fmt.Fprintf(w1, "@%s/1\n", name)
		w1.Write(read1)
		w1.WriteString("\n+\n")
		writeQual(w1, len(read1))

		fmt.Fprintf(w2, "@%s/2\n", name)
		w2.Write(read2)
		w2.WriteString("\n+\n")
		writeQual(w2, len(read2))
	}
	return nil
}

func writeQual(w *bufio.Writer, n int) {
	for i := 0; i < n; i++ {
		w.WriteByte('I')
	}
	w.WriteByte('\n')
}

func strandLabel(forward bool) string {
	if forward {
		return "fwd"
	}
	return "rev"
}
