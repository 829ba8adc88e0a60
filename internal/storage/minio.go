// Package storage wraps the MinIO client used for study place images.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStore uploads and removes study place images in a MinIO bucket.
// Objects are publicly readable so image URLs can be embedded in API
// responses without presigning.
type BlobStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// New connects to MinIO and ensures the bucket exists with a public
// read policy.  publicURL is the base under which uploaded objects are
// reachable, typically the MinIO endpoint itself or a CDN in front of it.
func New(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*BlobStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket: %w", err)
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
		if err := client.SetBucketPolicy(ctx, bucket, policy); err != nil {
			return nil, fmt.Errorf("set bucket policy: %w", err)
		}
	}

	return &BlobStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores an image under a fresh UUID-based object key and
// returns its public URL.  The original filename only contributes its
// extension, so uploads never collide or overwrite each other.
func (s *BlobStore) Upload(ctx context.Context, filename string, size int64, r io.Reader, contentType string) (string, error) {
	key := uuid.NewString() + strings.ToLower(path.Ext(filename))
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

// Remove deletes the object behind a URL previously returned by Upload.
// URLs that do not point into this store's bucket are ignored, so stale
// or externally sourced image URLs never fail a resource delete.
func (s *BlobStore) Remove(ctx context.Context, url string) error {
	prefix := s.publicURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
