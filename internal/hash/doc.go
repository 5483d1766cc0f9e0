// Package hash provides the CRC32-Castagnoli checksums used by fixture files
// and blob uploads.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	err := hash.Verify(h, expected)
package hash
