package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// PhotoUploader stores completion photos in a GCS bucket and returns a
// tokened public URL for each object.
type PhotoUploader struct {
	client *gcs.Client
	bucket string
}

func NewPhotoUploader(ctx context.Context, bucket string) (*PhotoUploader, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}
	return &PhotoUploader{client: client, bucket: bucket}, nil
}

func (u *PhotoUploader) Close() error {
	return u.client.Close()
}

var extByContentType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Upload streams the photo into completions/<uuid><ext> and returns its
// download URL. Unsupported content types are rejected.
func (u *PhotoUploader) Upload(ctx context.Context, r io.Reader, contentType string) (string, error) {
	ext, ok := extByContentType[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	objectPath := fmt.Sprintf("completions/%s%s", uuid.NewString(), ext)
	token := uuid.NewString()

	obj := u.client.Bucket(u.bucket).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		u.bucket, url.PathEscape(objectPath), token), nil
}
