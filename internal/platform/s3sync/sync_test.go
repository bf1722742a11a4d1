package s3sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	puts    map[string]string // key -> content type
	deletes []string
	remote  []string
}

func newStubAPI(remote ...string) *stubAPI {
	return &stubAPI{puts: make(map[string]string), remote: remote}
}

func (s *stubAPI) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.puts[aws.ToString(params.Key)] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (s *stubAPI) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	s.deletes = append(s.deletes, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (s *stubAPI) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, key := range s.remote {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(key)})
	}
	return out, nil
}

// writeTree creates a small build output directory.
func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html/>"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0600))
	return dir
}

func TestSync_UploadsWithContentTypes(t *testing.T) {
	t.Parallel()
	api := newStubAPI()
	dir := writeTree(t)

	stats, err := newStoreWithAPI(api).Sync(context.Background(), dir, "acme-public", false)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Uploaded)
	assert.Equal(t, 0, stats.Deleted)
	assert.Contains(t, api.puts["index.html"], "text/html")
	assert.Contains(t, api.puts["assets/app.js"], "javascript")
}

func TestSync_DeletesStaleObjects(t *testing.T) {
	t.Parallel()
	api := newStubAPI("index.html", "assets/app.js", "assets/old.js", "legacy/logo.png")
	dir := writeTree(t)

	stats, err := newStoreWithAPI(api).Sync(context.Background(), dir, "acme-public", true)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Uploaded)
	assert.Equal(t, 2, stats.Deleted)
	assert.ElementsMatch(t, []string{"assets/old.js", "legacy/logo.png"}, api.deletes)
}

func TestSync_NoDeleteWhenDisabled(t *testing.T) {
	t.Parallel()
	api := newStubAPI("stale.js")
	dir := writeTree(t)

	_, err := newStoreWithAPI(api).Sync(context.Background(), dir, "acme-public", false)

	require.NoError(t, err)
	assert.Empty(t, api.deletes)
}

func TestSync_MissingDirFails(t *testing.T) {
	t.Parallel()
	api := newStubAPI()

	_, err := newStoreWithAPI(api).Sync(context.Background(), filepath.Join(t.TempDir(), "absent"), "acme-public", false)

	require.Error(t, err)
}
