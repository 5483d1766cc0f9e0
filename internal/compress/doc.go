// Package compress frames byte streams into independently compressed blocks.
//
// Each block carries an 8-byte header with its raw and stored sizes, so a
// block that does not shrink is stored verbatim and never pays a decode cost.
// LZ4 (pierrec/lz4) favours speed, Zstandard (klauspost/compress) favours
// ratio.
//
//	w := compress.NewWriter(f, compress.ZSTD)
//	_, _ = w.Write(payload)
//	_ = w.Close()
//
//	r := compress.NewReader(f, compress.ZSTD)
//	_, _ = io.ReadFull(r, payload)
package compress
