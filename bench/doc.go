// Package bench measures hybrid-precision distances against full-precision
// ones.
//
// A session generates (or loads) a dataset of uniform random vectors, builds
// one hybridvec.Vector per row, then performs Runs timed runs. Each run walks
// all consecutive pairs Iterations times, first through the hybrid distance
// and then through the regular one, and records
//
//	speedup        = regular time / hybrid time
//	relative_error = |sum hybrid - sum regular| / sum regular
//
// Results are summarized with gonum and written as two CSV tables
// (speedup_results.csv, speedup_stats.csv) plus the effective configuration
// to a blobstore.Store.
//
// Datasets can be persisted as compressed, checksummed fixtures so that
// different element types or machines are compared on identical input.
package bench
