package media

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// BucketHost implements Host on top of a gocloud blob bucket. URLs point at
// endpoint, which is expected to serve the bucket through an image CDN.
type BucketHost struct {
	bucket   *blob.Bucket
	endpoint string
}

// OpenBucketHost opens the bucket named by a gocloud URL such as
// "file:///var/media" or "mem://".
func OpenBucketHost(ctx context.Context, bucketURL, endpoint string) (*BucketHost, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open media bucket %s", bucketURL)
	}
	return NewBucketHost(bucket, endpoint), nil
}

// NewBucketHost wraps an already opened bucket.
func NewBucketHost(bucket *blob.Bucket, endpoint string) *BucketHost {
	return &BucketHost{
		bucket:   bucket,
		endpoint: strings.TrimRight(endpoint, "/"),
	}
}

// Upload writes the file under folder with a unique key so that repeated
// names never overwrite each other.
func (h *BucketHost) Upload(ctx context.Context, file File, folder string) (*Upload, error) {
	if file.Empty() {
		return nil, errors.Errorf("file %q is empty", file.Name)
	}

	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+"_"+sanitizeName(file.Name))
	opts := &blob.WriterOptions{ContentType: file.ContentType}
	if err := h.bucket.WriteAll(ctx, key, file.Data, opts); err != nil {
		return nil, errors.Wrapf(err, "failed to upload %s", file.Name)
	}

	return &Upload{
		FilePath: "/" + key,
		Name:     path.Base(key),
		Size:     int64(len(file.Data)),
	}, nil
}

// URL returns the delivery URL of filePath with t applied as a path segment.
func (h *BucketHost) URL(filePath string, t Transformation) string {
	filePath = "/" + strings.TrimLeft(filePath, "/")
	tr := t.String()
	if tr == "" {
		return h.endpoint + filePath
	}
	return h.endpoint + "/tr:" + tr + filePath
}

// Delete removes a previously uploaded object.
func (h *BucketHost) Delete(ctx context.Context, filePath string) error {
	if err := h.bucket.Delete(ctx, strings.TrimLeft(filePath, "/")); err != nil {
		return errors.Wrapf(err, "failed to delete %s", filePath)
	}
	return nil
}

// Exists reports whether filePath is present in the bucket.
func (h *BucketHost) Exists(ctx context.Context, filePath string) (bool, error) {
	return h.bucket.Exists(ctx, strings.TrimLeft(filePath, "/"))
}

func (h *BucketHost) Close() error {
	return h.bucket.Close()
}

func sanitizeName(name string) string {
	name = unsafeNameChars.ReplaceAllString(path.Base(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}
