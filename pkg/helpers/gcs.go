package helpers

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadObject uploads bytes from r into bucket/objectPath with the provided contentType
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageObjectPath names an uploaded product image: <prefix>/<uuid><ext>.
func ImageObjectPath(prefix, filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if e, ok := imageExts[contentType]; ok && ext == "" {
		ext = e
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "products"
	}
	return prefix + "/" + uuid.NewString() + ext
}

// GCSImageStore uploads product images to one bucket.
type GCSImageStore struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

func (s *GCSImageStore) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	return UploadObject(ctx, s.Client, s.Bucket, ImageObjectPath(s.Prefix, filename, contentType), contentType, r)
}

// AllowedImageType reports whether contentType is an accepted image upload.
func AllowedImageType(contentType string) bool {
	_, ok := imageExts[strings.ToLower(strings.TrimSpace(contentType))]
	return ok
}
