package genome

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/kshedden/bsmap/internal/dnacode"
)

// ReadFasta parses a (optionally gzip-compressed) FASTA file into
// parallel name/sequence slices, coercing every non-ACGTN byte to N
// (spec_full decision, see SPEC_FULL.md "Ambiguity-code handling").
// This mirrors cmd/muscato_prep_targets's fasta handling, generalized
// to keep sequences as byte slices rather than flattening them to a
// single-line text format.
func ReadFasta(path string) (names []string, seqs [][]byte, err error) {
	fid, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening fasta file %s", path)
	}
	defer fid.Close()

	var r io.Reader = fid
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fid)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "opening gzip fasta file %s", path)
		}
		defer gz.Close()
		r = gz
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1<<28)

	var cur []byte
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if cur != nil {
				seqs = append(seqs, cur)
			}
			names = append(names, string(line[1:]))
			cur = make([]byte, 0, 1024)
			continue
		}
		if cur == nil {
			return nil, nil, errors.Errorf("fasta file %s: sequence data before first header", path)
		}
		for _, b := range line {
			cur = append(cur, dnacode.CoerceToACGTN(b))
		}
	}
	if cur != nil {
		seqs = append(seqs, cur)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrapf(err, "reading fasta file %s", path)
	}
	if len(names) == 0 {
		return nil, nil, errors.Errorf("fasta file %s: no sequences found", path)
	}
	return names, seqs, nil
}
