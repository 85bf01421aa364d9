// Package fastq implements the FASTQ record reader and adapter
// clipper that the mapping engine consumes (spec §6, "Reads file";
// adapter clipping is named in spec §4.6 step 2 but is explicitly an
// out-of-scope external collaborator per spec §1 — this package
// supplies it).
package fastq

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/kshedden/bsmap/internal/dnacode"
)

// Record is one FASTQ entry. Qual is carried through unexamined (the
// core never scores by quality, spec §1's non-goals).
type Record struct {
	Name string
	Seq  []byte
	Qual []byte
}

// Reader iterates FASTQ records across one or more comma-separated
// input files, in order, presenting them as a single stream (spec
// §4.6: "Reads arrive as FASTQ files (possibly comma-separated
// lists)"). Grounded on utils.ReadInSeq's four-line cycle
// (utils/fastq.go), generalized to multiple files and to return
// errors instead of panicking.
type Reader struct {
	files   []string
	index   int
	file    *os.File
	scanner *bufio.Scanner
	lineNum int
}

// NewReader validates every path's suffix (spec §6: "File name must
// end in .fastq or .fq") before opening the first file.
func NewReader(commaSeparatedPaths string) (*Reader, error) {
	paths := strings.Split(commaSeparatedPaths, ",")
	for _, p := range paths {
		if !strings.HasSuffix(p, ".fastq") && !strings.HasSuffix(p, ".fq") {
			return nil, errors.Errorf("reads file %s: must end in .fastq or .fq", p)
		}
	}
	r := &Reader{files: paths}
	if err := r.openNext(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) openNext() error {
	if r.index >= len(r.files) {
		r.scanner = nil
		return nil
	}
	path := r.files[r.index]
	r.index++

	fid, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening reads file %s", path)
	}
	r.file = fid
	scanner := bufio.NewScanner(fid)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	r.scanner = scanner
	r.lineNum = 0
	return nil
}

// Next returns the next record, or (nil, nil) once every input file
// is exhausted.
func (r *Reader) Next() (*Record, error) {
	for {
		if r.scanner == nil {
			return nil, nil
		}

		rec, err := r.readOne()
		if err == errEOFBetweenFiles {
			if cerr := r.file.Close(); cerr != nil {
				return nil, errors.Wrap(cerr, "closing reads file")
			}
			if err := r.openNext(); err != nil {
				return nil, err
			}
			continue
		}
		return rec, err
	}
}

var errEOFBetweenFiles = errors.New("fastq: end of current file")

func (r *Reader) readOne() (*Record, error) {
	var lines [4][]byte
	for i := 0; i < 4; i++ {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return nil, errors.Wrapf(err, "reading reads file %s", r.files[r.index-1])
			}
			if i == 0 {
				return nil, errEOFBetweenFiles
			}
			return nil, errors.Errorf("%s: truncated fastq record starting at line %d", r.files[r.index-1], r.lineNum+1)
		}
		lines[i] = append([]byte(nil), r.scanner.Bytes()...)
		r.lineNum++
	}

	if len(lines[0]) == 0 || lines[0][0] != '@' {
		return nil, errors.Errorf("%s: malformed fastq header at line %d", r.files[r.index-1], r.lineNum-3)
	}
	seq := lines[1]
	for i, b := range seq {
		seq[i] = dnacode.CoerceToACGTN(b)
	}

	name := string(bytes.TrimPrefix(lines[0], []byte("@")))
	return &Record{Name: name, Seq: seq, Qual: lines[3]}, nil
}

// Close releases the currently open input file, if any.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
