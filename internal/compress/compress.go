package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies the block compression algorithm.
type Type uint8

const (
	// None stores blocks verbatim.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast, moderate ratio).
	LZ4 Type = 1
	// ZSTD uses Zstandard (slower, better ratio).
	ZSTD Type = 2
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseType parses a compression name. The empty string means None.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("compress: unknown type %q", s)
	}
}

const (
	headerSize = 8

	// DefaultBlockSize is the uncompressed block size used by NewWriter.
	DefaultBlockSize = 256 * 1024

	// maxBlockSize bounds the allocation made for a single decoded block.
	maxBlockSize = 64 << 20

	// Blocks that shrink by less than 10% are kept raw.
	minRatio = 0.9
)

// ErrCorrupt is returned when a block header or payload is malformed.
var ErrCorrupt = errors.New("compress: corrupt block")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// AppendBlock appends one framed block holding data to dst.
//
// Frame: [raw size uint32][stored size uint32][payload]. A stored size of 0
// means the payload is the raw data.
func AppendBlock(dst, data []byte, t Type) ([]byte, error) {
	var packed []byte
	switch t {
	case None:
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		packed = buf[:n] // n == 0 means incompressible
	case ZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("compress: unknown type %d", uint8(t))
	}

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(data)))
	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*minRatio {
		dst = append(dst, hdr[:]...)
		return append(dst, data...), nil
	}
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(packed)))
	dst = append(dst, hdr[:]...)
	return append(dst, packed...), nil
}

// decodeBlock expands a stored payload into a buffer of rawSize bytes.
func decodeBlock(dst, stored []byte, rawSize int, t Type) ([]byte, error) {
	dst = dst[:0]
	if cap(dst) < rawSize {
		dst = make([]byte, 0, rawSize)
	}

	switch t {
	case LZ4:
		out := dst[:rawSize]
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if n != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(stored, dst)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if len(out) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: compressed block in %s stream", ErrCorrupt, t)
	}
}

// Writer frames everything written to it into compressed blocks.
// Close must be called to flush the final partial block.
type Writer struct {
	w         io.Writer
	typ       Type
	blockSize int
	buf       []byte
	out       []byte
	written   int64
}

// NewWriter creates a Writer using DefaultBlockSize.
func NewWriter(w io.Writer, t Type) *Writer {
	return NewWriterSize(w, t, DefaultBlockSize)
}

// NewWriterSize creates a Writer with the given uncompressed block size.
func NewWriterSize(w io.Writer, t Type, blockSize int) *Writer {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Writer{
		w:         w,
		typ:       t,
		blockSize: blockSize,
		buf:       make([]byte, 0, blockSize),
	}
}

// Write buffers p, emitting a block each time blockSize bytes accumulate.
func (c *Writer) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := c.blockSize - len(c.buf)
		if space == 0 {
			if err := c.flushBlock(); err != nil {
				return total, err
			}
			space = c.blockSize
		}
		n := min(space, len(p))
		c.buf = append(c.buf, p[:n]...)
		total += n
		p = p[n:]
	}
	return total, nil
}

func (c *Writer) flushBlock() error {
	if len(c.buf) == 0 {
		return nil
	}
	out, err := AppendBlock(c.out[:0], c.buf, c.typ)
	if err != nil {
		return err
	}
	c.out = out
	n, err := c.w.Write(out)
	c.written += int64(n)
	if err != nil {
		return err
	}
	c.buf = c.buf[:0]
	return nil
}

// Close flushes the final block. It does not close the underlying writer.
func (c *Writer) Close() error {
	return c.flushBlock()
}

// BytesWritten returns the number of framed bytes written so far.
func (c *Writer) BytesWritten() int64 {
	return c.written
}

// Reader decodes a stream produced by Writer.
type Reader struct {
	r      io.Reader
	typ    Type
	block  []byte
	pos    int
	stored []byte
	raw    []byte
}

// NewReader creates a Reader. t must match the Writer's type.
func NewReader(r io.Reader, t Type) *Reader {
	return &Reader{r: r, typ: t}
}

func (c *Reader) Read(p []byte) (int, error) {
	for c.pos >= len(c.block) {
		if err := c.nextBlock(); err != nil {
			return 0, err
		}
	}
	n := copy(p, c.block[c.pos:])
	c.pos += n
	return n, nil
}

func (c *Reader) nextBlock() error {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: truncated header", ErrCorrupt)
		}
		return err // io.EOF on a clean block boundary
	}

	rawSize := int(binary.LittleEndian.Uint32(hdr[0:]))
	storedSize := int(binary.LittleEndian.Uint32(hdr[4:]))
	if rawSize > maxBlockSize || storedSize > maxBlockSize {
		return fmt.Errorf("%w: block size %d exceeds limit", ErrCorrupt, max(rawSize, storedSize))
	}

	readSize := storedSize
	if storedSize == 0 {
		readSize = rawSize
	}
	if cap(c.stored) < readSize {
		c.stored = make([]byte, readSize)
	}
	c.stored = c.stored[:readSize]
	if _, err := io.ReadFull(c.r, c.stored); err != nil {
		return fmt.Errorf("%w: truncated payload: %v", ErrCorrupt, err)
	}

	c.pos = 0
	if storedSize == 0 {
		c.block = c.stored
		return nil
	}
	raw, err := decodeBlock(c.raw, c.stored, rawSize, c.typ)
	if err != nil {
		return err
	}
	c.raw = raw
	c.block = raw
	return nil
}
