package bench

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/hupe1980/hybridvec/blobstore"
	"github.com/hupe1980/hybridvec/internal/compress"
	"github.com/hupe1980/hybridvec/internal/conv"
	"github.com/hupe1980/hybridvec/internal/hash"
)

// Fixture layout:
//
//	0   magic "HVFX"
//	4   version      u16
//	6   compression  u8
//	7   reserved     u8
//	8   count        u32
//	12  dimension    u32
//	16  crc32c       u32 (of the raw payload)
//	20  reserved     u32
//	24  payload size u64 (raw bytes)
//	32  payload      compressed little-endian float64 values, row-major
const (
	fixtureMagic      = "HVFX"
	fixtureVersion    = 1
	fixtureHeaderSize = 32

	// maxFixtureValues bounds count*dim so a corrupt header cannot force a
	// huge allocation (4 GiB of raw float64 payload).
	maxFixtureValues = 1 << 29
)

type fixtureHeader struct {
	compression compress.Type
	count       uint32
	dim         uint32
	checksum    uint32
	payloadSize uint64
}

func (h fixtureHeader) encode() []byte {
	buf := make([]byte, fixtureHeaderSize)
	copy(buf[0:4], fixtureMagic)
	binary.LittleEndian.PutUint16(buf[4:6], fixtureVersion)
	buf[6] = byte(h.compression)
	binary.LittleEndian.PutUint32(buf[8:12], h.count)
	binary.LittleEndian.PutUint32(buf[12:16], h.dim)
	binary.LittleEndian.PutUint32(buf[16:20], h.checksum)
	binary.LittleEndian.PutUint64(buf[24:32], h.payloadSize)
	return buf
}

func decodeFixtureHeader(buf []byte) (fixtureHeader, error) {
	if string(buf[0:4]) != fixtureMagic {
		return fixtureHeader{}, fmt.Errorf("%w: bad magic %q", ErrFixtureCorrupt, buf[0:4])
	}
	if v := binary.LittleEndian.Uint16(buf[4:6]); v != fixtureVersion {
		return fixtureHeader{}, fmt.Errorf("%w: unsupported version %d", ErrFixtureCorrupt, v)
	}
	h := fixtureHeader{
		compression: compress.Type(buf[6]),
		count:       binary.LittleEndian.Uint32(buf[8:12]),
		dim:         binary.LittleEndian.Uint32(buf[12:16]),
		checksum:    binary.LittleEndian.Uint32(buf[16:20]),
		payloadSize: binary.LittleEndian.Uint64(buf[24:32]),
	}
	if h.compression > compress.ZSTD {
		return fixtureHeader{}, fmt.Errorf("%w: unknown compression %d", ErrFixtureCorrupt, buf[6])
	}
	if h.count == 0 || h.dim == 0 {
		return fixtureHeader{}, fmt.Errorf("%w: empty shape %dx%d", ErrFixtureCorrupt, h.count, h.dim)
	}
	hi, values := bits.Mul64(uint64(h.count), uint64(h.dim))
	if hi != 0 || values > maxFixtureValues {
		return fixtureHeader{}, fmt.Errorf("%w: shape %dx%d exceeds %d values",
			ErrFixtureCorrupt, h.count, h.dim, maxFixtureValues)
	}
	if h.payloadSize != values*8 {
		return fixtureHeader{}, fmt.Errorf("%w: payload size %d does not match shape %dx%d",
			ErrFixtureCorrupt, h.payloadSize, h.count, h.dim)
	}
	return h, nil
}

// SaveFixture writes ds to the store under name.
func SaveFixture(ctx context.Context, store blobstore.Store, name string, ds *Dataset, t compress.Type) error {
	count, err := conv.IntToUint32(ds.Count)
	if err != nil {
		return fmt.Errorf("fixture count: %w", err)
	}
	dim, err := conv.IntToUint32(ds.Dim)
	if err != nil {
		return fmt.Errorf("fixture dimension: %w", err)
	}

	raw := make([]byte, len(ds.data)*8)
	for i, x := range ds.data {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(x))
	}

	hdr := fixtureHeader{
		compression: t,
		count:       count,
		dim:         dim,
		checksum:    hash.CRC32C(raw),
		payloadSize: uint64(len(raw)),
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create fixture %s: %w", name, err)
	}
	if _, err := w.Write(hdr.encode()); err != nil {
		_ = w.Close()
		return fmt.Errorf("write fixture header: %w", err)
	}

	cw := compress.NewWriter(w, t)
	if _, err := cw.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("write fixture payload: %w", err)
	}
	if err := cw.Close(); err != nil {
		_ = w.Close()
		return fmt.Errorf("flush fixture payload: %w", err)
	}
	if err := w.Sync(); err != nil {
		_ = w.Close()
		return fmt.Errorf("sync fixture: %w", err)
	}
	return w.Close()
}

// LoadFixture reads a dataset written by SaveFixture.
//
// Structural problems and checksum mismatches are reported as errors
// wrapping ErrFixtureCorrupt.
func LoadFixture(ctx context.Context, store blobstore.Store, name string) (*Dataset, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open fixture %s: %w", name, err)
	}
	defer b.Close()

	if b.Size() < fixtureHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrFixtureCorrupt, b.Size())
	}
	buf := make([]byte, fixtureHeaderSize)
	if _, err := b.ReadAt(ctx, buf, 0); err != nil {
		return nil, fmt.Errorf("read fixture header: %w", err)
	}
	hdr, err := decodeFixtureHeader(buf)
	if err != nil {
		return nil, err
	}

	rc, err := b.ReadRange(ctx, fixtureHeaderSize, b.Size()-fixtureHeaderSize)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing payload", ErrFixtureCorrupt)
		}
		return nil, fmt.Errorf("read fixture payload: %w", err)
	}
	defer rc.Close()

	size, err := conv.Uint64ToInt(hdr.payloadSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFixtureCorrupt, err)
	}
	raw := make([]byte, size)
	if _, err := io.ReadFull(compress.NewReader(rc, hdr.compression), raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFixtureCorrupt, err)
	}

	h := hash.NewCRC32C()
	_, _ = h.Write(raw)
	if err := hash.Verify(h, hdr.checksum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFixtureCorrupt, err)
	}

	data := make([]float64, len(raw)/8)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	count, dim := int(hdr.count), int(hdr.dim)
	if len(data) != count*dim {
		return nil, fmt.Errorf("%w: %d values do not fill shape %dx%d", ErrFixtureCorrupt, len(data), count, dim)
	}
	return &Dataset{Count: count, Dim: dim, data: data}, nil
}
