// Package s3sync adapts the S3 API to the deploy.AssetStore contract:
// it mirrors a local build output directory into a bucket, pruning remote
// objects that no longer exist locally.
package s3sync

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tenantctl/tenantctl/internal/deploy"
)

// defaultContentType is used when the file extension maps to no MIME type.
const defaultContentType = "application/octet-stream"

// api is the subset of the S3 client the adapter needs.
type api interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store implements deploy.AssetStore over the S3 API.
type Store struct {
	api api
}

// NewStore creates an S3-backed asset store for the run's identity.
func NewStore(cfg aws.Config) *Store {
	return &Store{api: s3.NewFromConfig(cfg)}
}

// newStoreWithAPI is used by tests to inject a stub API.
func newStoreWithAPI(a api) *Store {
	return &Store{api: a}
}

// Sync uploads every file under localDir into the bucket and, when
// deleteStale is set, removes remote objects without a local counterpart.
func (s *Store) Sync(ctx context.Context, localDir, bucket string, deleteStale bool) (deploy.SyncStats, error) {
	var stats deploy.SyncStats
	localKeys := make(map[string]struct{})

	err := filepath.WalkDir(localDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		localKeys[key] = struct{}{}

		if err := s.upload(ctx, bucket, key, path); err != nil {
			return err
		}
		stats.Uploaded++
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("failed to sync assets to bucket %s: %w", bucket, err)
	}

	if !deleteStale {
		return stats, nil
	}

	deleted, err := s.pruneStale(ctx, bucket, localKeys)
	stats.Deleted = deleted
	if err != nil {
		return stats, fmt.Errorf("failed to prune stale objects in bucket %s: %w", bucket, err)
	}
	return stats, nil
}

// upload puts one local file under its key.
func (s *Store) upload(ctx context.Context, bucket, key, path string) error {
	// #nosec G304 - path comes from walking the build output directory
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = defaultContentType
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// pruneStale deletes every remote object whose key is not in localKeys.
func (s *Store) pruneStale(ctx context.Context, bucket string, localKeys map[string]struct{}) (int, error) {
	deleted := 0

	paginator := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if _, keep := localKeys[key]; keep {
				continue
			}
			_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return deleted, fmt.Errorf("failed to delete stale object %s: %w", key, err)
			}
			deleted++
		}
	}

	return deleted, nil
}
