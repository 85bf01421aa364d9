// Package dnacode implements the 2-bit base alphabet shared by the
// genome store, the positional index, and the seeder.
package dnacode

// Base is a 2-bit-encoded nucleotide: A=0, C=1, G=2, T=3. N is not a
// distinct code; it is mapped to T wherever it is encoded, so that an
// N position contributes at most one mismatch to any alignment and
// never creates a privileged match (spec §3).
type Base byte

const (
	A Base = 0
	C Base = 1
	G Base = 2
	T Base = 3
)

var encodeTable [256]Base

func init() {
	for i := range encodeTable {
		encodeTable[i] = T // default: N and any other ambiguity code reads as T
	}
	encodeTable['A'] = A
	encodeTable['a'] = A
	encodeTable['C'] = C
	encodeTable['c'] = C
	encodeTable['G'] = G
	encodeTable['g'] = G
	encodeTable['T'] = T
	encodeTable['t'] = T
}

// Encode returns the 2-bit code for an ASCII base. Anything that is
// not A/C/G/T (including N and other IUPAC ambiguity codes) encodes
// as T.
func Encode(b byte) Base {
	return encodeTable[b]
}

var decodeTable = [4]byte{'A', 'C', 'G', 'T'}

// Decode returns the ASCII base for a 2-bit code.
func Decode(b Base) byte {
	return decodeTable[b&3]
}

var complementTable [256]byte

func init() {
	for i := range complementTable {
		complementTable[i] = byte(i)
	}
	complementTable['A'] = 'T'
	complementTable['a'] = 't'
	complementTable['T'] = 'A'
	complementTable['t'] = 'a'
	complementTable['C'] = 'G'
	complementTable['c'] = 'g'
	complementTable['G'] = 'C'
	complementTable['g'] = 'c'
	complementTable['N'] = 'N'
	complementTable['n'] = 'n'
}

// Complement returns the Watson-Crick complement of a single base.
// Bytes outside A/C/G/T/N pass through unchanged.
func Complement(b byte) byte {
	return complementTable[b]
}

// ReverseComplement returns a newly allocated reverse complement of
// seq. It coerces any IUPAC ambiguity code other than N to N first
// (spec_full decision: ambiguity codes other than N coerce to N on
// ingestion, see SPEC_FULL.md).
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	out := make([]byte, n)
	for i, b := range seq {
		out[n-1-i] = Complement(CoerceToACGTN(b))
	}
	return out
}

// CoerceToACGTN maps any IUPAC ambiguity code other than A/C/G/T/N to
// N, leaving A/C/G/T/N (in either case) unchanged.
func CoerceToACGTN(b byte) byte {
	switch b {
	case 'A', 'a', 'C', 'c', 'G', 'g', 'T', 't', 'N', 'n':
		return b
	default:
		return 'N'
	}
}

// PackPrefix packs the first n bases of seq into a 2*n-bit value, most
// significant base first. It is the primary hash used by the
// positional index (spec §3, §9 "direct base-pair encoding"). The
// caller guarantees len(seq) >= n.
func PackPrefix(seq []byte, n int) uint32 {
	var h uint32
	for i := 0; i < n; i++ {
		h = (h << 2) | uint32(Encode(seq[i]))
	}
	return h
}
