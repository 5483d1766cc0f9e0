// Package s3 stores benchmark fixtures and reports in Amazon S3.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "benchmarks/")
//
// # Features
//
//   - Range reads for partial fetches
//   - Streaming multipart uploads via feature/s3/manager
//   - CRC32C checksums on single-request puts
//   - Automatic pagination for listing
package s3
