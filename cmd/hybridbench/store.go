package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/hybridvec/blobstore"
	miniostore "github.com/hupe1980/hybridvec/blobstore/minio"
	s3store "github.com/hupe1980/hybridvec/blobstore/s3"
)

// location is a parsed --output value.
type location struct {
	scheme   string // "file", "mem", "s3" or "minio"
	path     string // file
	endpoint string // minio
	bucket   string // s3, minio
	prefix   string // s3, minio
}

func parseLocation(raw string) (location, error) {
	if raw == "" {
		return location{scheme: "file", path: "."}, nil
	}
	if !strings.Contains(raw, "://") {
		return location{scheme: "file", path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return location{}, fmt.Errorf("parse output %q: %w", raw, err)
	}

	switch u.Scheme {
	case "file":
		return location{scheme: "file", path: u.Host + u.Path}, nil
	case "mem":
		return location{scheme: "mem"}, nil
	case "s3":
		if u.Host == "" {
			return location{}, fmt.Errorf("output %q: missing bucket", raw)
		}
		return location{scheme: "s3", bucket: u.Host, prefix: strings.Trim(u.Path, "/")}, nil
	case "minio":
		bucket, prefix, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return location{}, fmt.Errorf("output %q: want minio://endpoint/bucket[/prefix]", raw)
		}
		return location{scheme: "minio", endpoint: u.Host, bucket: bucket, prefix: prefix}, nil
	default:
		return location{}, fmt.Errorf("output %q: unsupported scheme %q", raw, u.Scheme)
	}
}

// openStore resolves an --output value to a blob store.
//
// S3 uses the default AWS credential chain. MinIO reads MINIO_ACCESS_KEY,
// MINIO_SECRET_KEY, MINIO_SECURE and MINIO_REGION and creates the bucket if
// it does not exist.
func openStore(ctx context.Context, raw string) (blobstore.Store, error) {
	loc, err := parseLocation(raw)
	if err != nil {
		return nil, err
	}

	switch loc.scheme {
	case "mem":
		return blobstore.NewMemoryStore(), nil
	case "s3":
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.UsePathStyle = os.Getenv("HYBRIDVEC_S3_PATH_STYLE") == "true"
		})
		return s3store.NewStore(client, loc.bucket, loc.prefix), nil
	case "minio":
		client, err := minio.New(loc.endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: os.Getenv("MINIO_SECURE") == "true",
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		store := miniostore.NewStore(client, loc.bucket, loc.prefix)
		if err := store.EnsureBucket(ctx, os.Getenv("MINIO_REGION")); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return blobstore.NewLocalStore(loc.path), nil
	}
}
