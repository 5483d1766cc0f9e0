// Package minio stores benchmark fixtures and reports in MinIO or any other
// S3-compatible server (Ceph, Garage, SeaweedFS).
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "benchmarks", "runs/")
//	if err := store.EnsureBucket(ctx, ""); err != nil {
//	    log.Fatal(err)
//	}
package minio
