package index

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Pair bundles the genome metadata and the two convention-specific
// positional indexes loaded from a single .dbindex file (spec §6).
type Pair struct {
	ChromNames  []string
	ChromLength []uint32

	CT *PositionIndex
	GA *PositionIndex

	// mapped is the raw mmap'd file contents backing both indexes'
	// Image slices; workers never copy out of it (spec §9).
	mapped []byte
}

// Close unmaps the backing file. Safe to call once all workers using
// this Pair have finished (spec §5: the contract is that nothing
// mutates shared state while workers are live; Close must only be
// called after the join point).
func (p *Pair) Close() error {
	if p.mapped == nil {
		return nil
	}
	err := unix.Munmap(p.mapped)
	p.mapped = nil
	return err
}

func putUint32s(w *countingWriter, vals []uint32) error {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	_, err := w.Write(buf)
	return err
}

type countingWriter struct {
	f *os.File
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	w.n += int64(n)
	return n, err
}

func writeString(w *countingWriter, s string) error {
	if len(s) > 0xFFFF {
		return errors.Errorf("name %q too long", s)
	}
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(s)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func writeUint32(w *countingWriter, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteFile serializes names/lengths, the CT and GA images, and both
// positional indexes to path, in the layout documented in spec §6.
func WriteFile(path string, names []string, lengths []uint32, ctImage, gaImage []byte, ct, ga *PositionIndex) error {
	fid, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating index file %s", path)
	}
	defer fid.Close()

	w := &countingWriter{f: fid}

	if err := writeUint32(w, fileMagic); err != nil {
		return err
	}
	if err := writeUint32(w, fileVersion); err != nil {
		return err
	}
	seed := ct.Seed
	if err := writeUint32(w, uint32(seed.HashLen)); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(seed.F2SeedWidth)); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(seed.SeedLength)); err != nil {
		return err
	}
	positions := make([]uint32, len(seed.F2SeedPosition))
	for i, p := range seed.F2SeedPosition {
		positions[i] = uint32(p)
	}
	if err := putUint32s(w, positions); err != nil {
		return err
	}

	if err := writeUint32(w, uint32(len(names))); err != nil {
		return err
	}
	for i, name := range names {
		if err := writeString(w, name); err != nil {
			return err
		}
		if err := writeUint32(w, lengths[i]); err != nil {
			return err
		}
	}

	if err := writeUint32(w, uint32(len(ctImage))); err != nil {
		return err
	}
	if _, err := w.Write(ctImage); err != nil {
		return errors.Wrap(err, "writing C->T image")
	}
	if err := writeUint32(w, uint32(len(gaImage))); err != nil {
		return err
	}
	if _, err := w.Write(gaImage); err != nil {
		return errors.Wrap(err, "writing G->A image")
	}

	for _, ix := range []*PositionIndex{ct, ga} {
		if err := putUint32s(w, ix.BucketStart); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(len(ix.ChromIDs))); err != nil {
			return err
		}
		if err := putUint32s(w, ix.ChromIDs); err != nil {
			return err
		}
		if err := putUint32s(w, ix.ChromOffsets); err != nil {
			return err
		}
	}

	return nil
}

type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) u32() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *byteReader) u16() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *byteReader) bytes(n int) []byte {
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *byteReader) u32Slice(n int) []uint32 {
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = r.u32()
	}
	return out
}

// ReadFile mmaps path (spec §9: "expose them as a single shared
// read-only region; pass handles by reference, not by copy") and
// parses the header, chromosome table, and both positional indexes.
// The CT/GA image slices returned in the Pair are direct views into
// the mapped region; the bucket-start and position-array columns are
// copied out into owned Go slices.
func ReadFile(path string) (*Pair, error) {
	fid, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening index file %s", path)
	}
	defer fid.Close()

	st, err := fid.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "statting index file %s", path)
	}
	if st.Size() == 0 {
		return nil, errors.Errorf("index file %s is empty", path)
	}

	data, err := unix.Mmap(int(fid.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap index file %s", path)
	}

	r := &byteReader{buf: data}
	if r.u32() != fileMagic {
		unix.Munmap(data)
		return nil, errors.Errorf("index file %s: bad magic", path)
	}
	if v := r.u32(); v != fileVersion {
		unix.Munmap(data)
		return nil, errors.Errorf("index file %s: unsupported version %d", path, v)
	}

	seed := SeedConfig{}
	seed.HashLen = int(r.u32())
	seed.F2SeedWidth = int(r.u32())
	seed.SeedLength = int(r.u32())
	rawPos := r.u32Slice(seed.SeedLength)
	seed.F2SeedPosition = make([]int, len(rawPos))
	for i, v := range rawPos {
		seed.F2SeedPosition[i] = int(v)
	}

	numChrom := int(r.u32())
	names := make([]string, numChrom)
	lengths := make([]uint32, numChrom)
	chromBase := make([]uint32, numChrom)
	var base uint32
	for i := 0; i < numChrom; i++ {
		nameLen := int(r.u16())
		names[i] = string(r.bytes(nameLen))
		lengths[i] = r.u32()
		chromBase[i] = base
		base += lengths[i]
	}

	ctLen := int(r.u32())
	ctImage := r.bytes(ctLen)
	gaLen := int(r.u32())
	gaImage := r.bytes(gaLen)

	buildIndex := func(image []byte) *PositionIndex {
		numBuckets := seed.NumBuckets()
		bucketStart := r.u32Slice(numBuckets + 1)
		n := int(r.u32())
		chromIDs := r.u32Slice(n)
		chromOffsets := r.u32Slice(n)
		ix := &PositionIndex{
			Seed:         seed,
			Image:        image,
			BucketStart:  bucketStart,
			ChromIDs:     chromIDs,
			ChromOffsets: chromOffsets,
			ChromBase:    chromBase,
			ChromLength:  lengths,
		}
		ix.computeDenseBitmap()
		return ix
	}

	ct := buildIndex(ctImage)
	ga := buildIndex(gaImage)

	return &Pair{
		ChromNames:  names,
		ChromLength: lengths,
		CT:          ct,
		GA:          ga,
		mapped:      data,
	}, nil
}
