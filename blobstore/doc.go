// Package blobstore abstracts where benchmark fixtures and run reports live.
//
// # Built-in Implementations
//
//   - LocalStore: a local directory; reads are memory-mapped
//   - MemoryStore: in-process, for tests and dry runs
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// All methods take a context; remote backends honour cancellation.
//
//	store := blobstore.NewLocalStore("out")
//	_ = store.Put(ctx, "speedup_stats.csv", data)
//	data, err := blobstore.ReadAll(ctx, store, "speedup_stats.csv")
package blobstore
