package storage

import (
	"bytes"
	"case-map-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioSnapshotStore publishes rendered map pages to an S3-compatible bucket.
type MinioSnapshotStore struct {
	client *minio.Client
	bucket string
	prefix string
}

type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

func NewMinioSnapshotStore(opts MinioOptions) (*MinioSnapshotStore, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, errors.New("minio snapshot store: endpoint, access key and secret key are required")
	}
	if opts.Bucket == "" {
		return nil, errors.New("minio snapshot store: bucket is required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio snapshot store: create client: %w", err)
	}

	return &MinioSnapshotStore{client: client, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinioSnapshotStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Put uploads page under prefix/name and returns "bucket/key".
func (s *MinioSnapshotStore) Put(ctx context.Context, name string, page []byte) (_ string, err error) {
	defer obs.Time(ctx, "snapshot.Put")(&err)

	key := ObjectKey(s.prefix, name)
	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(page),
		int64(len(page)),
		minio.PutObjectOptions{ContentType: "text/html; charset=utf-8"},
	)
	if err != nil {
		return "", fmt.Errorf("put snapshot %q: %w", key, err)
	}

	zap.L().Info("stored map snapshot", zap.String("bucket", s.bucket), zap.String("key", key), zap.Int("bytes", len(page)))
	return s.bucket + "/" + key, nil
}

// ObjectKey lowercases name, replaces spaces with hyphens and joins it under prefix.
func ObjectKey(prefix, name string) string {
	name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}
	return strings.TrimPrefix(path.Join(prefix, name), "/")
}
