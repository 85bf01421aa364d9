// Package pipeline drives the batch mapping loop: reads are pulled
// from a fastq.Reader in fixed-size batches, optionally adapter
// clipped, and resolved concurrently across a bounded pool of
// goroutines, with each read's result written into a pre-indexed slot
// so output order matches input order regardless of which goroutine
// finished first. Grounded on muscato_screen's semaphore-channel
// worker pool (`limit chan bool` bounding `go processseq(...)`).
package pipeline

import (
	"log"

	"github.com/kshedden/bsmap/internal/align"
	"github.com/kshedden/bsmap/internal/fastq"
)

// MaxReadsToProcess is the hard ceiling on reads accepted per run,
// independent of whatever a caller configures.
const MaxReadsToProcess = 5_000_000

// batchSize bounds how many reads are read from input and handed to
// the worker pool in one round. The results of every round are
// appended to a single slice that is returned when the run ends, so
// all results of a run are held in memory together.
const batchSize = 10000

// Pipeline holds everything needed to resolve one read (or one mate
// pair) that does not vary per read.
type Pipeline struct {
	Resolver      *align.Resolver
	AdapterClip   *fastq.AdapterClipper // nil disables clipping
	NumThreads    int
	MaxReads      int
	Logger        *log.Logger
	TopK          int
	FragRange     int
	MaxMismatches int
}

// SingleResult is one read's outcome, plus the name and the
// (adapter-clipped) sequence/quality the read was mapped with, so
// output writers can populate SEQ/QUAL faithfully instead of emitting
// a placeholder.
type SingleResult struct {
	Name  string
	Seq   []byte
	Qual  []byte
	Match align.BestMatch
}

// PairResult is one mate pair's outcome, carrying both mates'
// sequence/quality alongside the resolution.
type PairResult struct {
	Name   string
	Seq1   []byte
	Qual1  []byte
	Seq2   []byte
	Qual2  []byte
	Result align.PairResult
}

func (p *Pipeline) maxReads() int {
	n := p.MaxReads
	if n <= 0 || n > MaxReadsToProcess {
		n = MaxReadsToProcess
	}
	return n
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

// clip adapter-trims seq and truncates qual to match, so SEQ and QUAL
// stay the same length in whatever gets written out.
func (p *Pipeline) clip(seq, qual []byte) ([]byte, []byte) {
	if p.AdapterClip == nil {
		return seq, qual
	}
	clipped, ok := p.AdapterClip.Clip(seq)
	if !ok {
		return seq, qual
	}
	return clipped, qual[:len(clipped)]
}

func (p *Pipeline) concurrency() int {
	if p.NumThreads < 1 {
		return 1
	}
	return p.NumThreads
}

// RunSingleEnd resolves every read from r, up to the configured read
// cap, and returns results in input order.
func (p *Pipeline) RunSingleEnd(r *fastq.Reader) ([]SingleResult, error) {
	var out []SingleResult
	limit := p.maxReads()

	for total := 0; total < limit; {
		names, seqs, quals, n, err := readBatch(r, batchSize, limit-total)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}

		results := make([]SingleResult, n)
		sem := make(chan struct{}, p.concurrency())
		done := make(chan int, n)
		for i := 0; i < n; i++ {
			sem <- struct{}{}
			go func(i int) {
				defer func() { <-sem; done <- i }()
				seq, qual := p.clip(seqs[i], quals[i])
				results[i] = SingleResult{Name: names[i], Seq: seq, Qual: qual, Match: p.Resolver.SingleEnd(seq)}
			}(i)
		}
		for i := 0; i < n; i++ {
			<-done
		}

		out = append(out, results...)
		total += n
		p.logf("processed %d reads", total)
	}

	return out, nil
}

// RunPairedEnd resolves every mate pair read in lockstep from r1/r2,
// up to the configured read cap, and returns results in input order.
func (p *Pipeline) RunPairedEnd(r1, r2 *fastq.Reader) ([]PairResult, error) {
	var out []PairResult
	limit := p.maxReads()

	for total := 0; total < limit; {
		names1, seqs1, quals1, n1, err := readBatch(r1, batchSize, limit-total)
		if err != nil {
			return nil, err
		}
		names2, seqs2, quals2, n2, err := readBatch(r2, batchSize, limit-total)
		if err != nil {
			return nil, err
		}
		if n1 != n2 {
			return nil, errMismatchedMateCount(n1, n2)
		}
		if n1 == 0 {
			break
		}

		results := make([]PairResult, n1)
		sem := make(chan struct{}, p.concurrency())
		done := make(chan int, n1)
		for i := 0; i < n1; i++ {
			sem <- struct{}{}
			go func(i int) {
				defer func() { <-sem; done <- i }()
				s1, q1 := p.clip(seqs1[i], quals1[i])
				s2, q2 := p.clip(seqs2[i], quals2[i])
				results[i] = PairResult{
					Name:   names1[i],
					Seq1:   s1,
					Qual1:  q1,
					Seq2:   s2,
					Qual2:  q2,
					Result: p.Resolver.PairedEnd(s1, s2, p.TopK, p.FragRange),
				}
			}(i)
		}
		for i := 0; i < n1; i++ {
			<-done
		}

		out = append(out, results...)
		total += n1
		p.logf("processed %d read pairs", total)
	}

	return out, nil
}

func readBatch(r *fastq.Reader, size, remaining int) (names []string, seqs, quals [][]byte, n int, err error) {
	if size > remaining {
		size = remaining
	}
	names = make([]string, 0, size)
	seqs = make([][]byte, 0, size)
	quals = make([][]byte, 0, size)
	for i := 0; i < size; i++ {
		rec, err := r.Next()
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if rec == nil {
			break
		}
		names = append(names, rec.Name)
		seqs = append(seqs, rec.Seq)
		quals = append(quals, rec.Qual)
	}
	return names, seqs, quals, len(names), nil
}
