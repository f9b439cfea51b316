// internal/adapters/out/gcs/photoImage_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/storage"

	uc "gallery/internal/application/usecase"
	"gallery/internal/domain/photoImage"
)

// PhotoImageRepositoryGCS is the GCS adapter for photo images.
//
// Layout (single bucket):
// - bucket: <PHOTO_BUCKET>
// - objectPath: images/{userId}/{fileName}
//
// It implements both usecase ports touching the blob store:
// uc.ImageStore (upload) and uc.BlobStore (sweep-time delete).
type PhotoImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewPhotoImageRepositoryGCS(client *storage.Client, bucket string) *PhotoImageRepositoryGCS {
	return &PhotoImageRepositoryGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
	}
}

func (r *PhotoImageRepositoryGCS) bucket(name string) (*storage.BucketHandle, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("photoImage_repository_gcs: storage client is nil")
	}
	b := strings.TrimSpace(name)
	if b == "" {
		b = strings.TrimSpace(r.Bucket)
	}
	if b == "" {
		return nil, errors.New("photoImage_repository_gcs: bucket is empty")
	}
	return r.Client.Bucket(b), nil
}

// Put uploads bytes to the configured bucket and returns the public URL.
func (r *PhotoImageRepositoryGCS) Put(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	bh, err := r.bucket("")
	if err != nil {
		return "", err
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if obj == "" {
		return "", errors.New("photoImage_repository_gcs: objectPath is empty")
	}

	w := bh.Object(obj).NewWriter(ctx)
	if strings.TrimSpace(contentType) != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return photoImage.PublicURL(r.Bucket, obj), nil
}

// DeleteByPath deletes one object. A missing object is reported as
// uc.ErrObjectNotFound so the sweeper can treat it as already done;
// any other failure keeps the queue entry pending.
func (r *PhotoImageRepositoryGCS) DeleteByPath(ctx context.Context, bucket, objectPath string) error {
	bh, err := r.bucket(bucket)
	if err != nil {
		return err
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if obj == "" {
		return errors.New("photoImage_repository_gcs: objectPath is empty")
	}

	if err := bh.Object(obj).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return uc.ErrObjectNotFound
		}
		return err
	}
	return nil
}
