// internal/application/usecase/photo_upload_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	photodom "gallery/internal/domain/photo"
	"gallery/internal/domain/photoImage"
	userdom "gallery/internal/domain/user"
)

var (
	ErrUploadStoreNotConfigured = errors.New("upload: object store not configured")
	ErrUploadImageEmpty         = errors.New("upload: image data is empty")
)

// ImageStore is the upload port for photo images.
type ImageStore interface {
	// Put uploads bytes and returns the public URL of the stored object.
	Put(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
}

// CreatePhotoInput carries owner-authored metadata for a new photo.
type CreatePhotoInput struct {
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Location    *photodom.GeoPoint `json:"location,omitempty"`
}

// PhotoUploadUsecase uploads the image and creates the photo document.
type PhotoUploadUsecase struct {
	photoRepo PhotoRepo
	userRepo  userdom.Repository
	images    ImageStore
	cache     FeedCache
	now       func() time.Time
}

func NewPhotoUploadUsecase(
	photoRepo PhotoRepo,
	userRepo userdom.Repository,
	images ImageStore,
	cache FeedCache,
) *PhotoUploadUsecase {
	return &PhotoUploadUsecase{
		photoRepo: photoRepo,
		userRepo:  userRepo,
		images:    images,
		cache:     cache,
		now:       time.Now,
	}
}

func (u *PhotoUploadUsecase) WithNow(now func() time.Time) *PhotoUploadUsecase {
	u.now = now
	return u
}

// Upload stores the image under images/{userId}/{uuid}.jpg and creates the
// photo document with zeroed counters and a denormalized author name.
func (u *PhotoUploadUsecase) Upload(ctx context.Context, actingUserID string, in CreatePhotoInput, image []byte, contentType string) (photodom.Photo, error) {
	if u.photoRepo == nil {
		return photodom.Photo{}, ErrPhotoRepoNotConfigured
	}
	if u.images == nil {
		return photodom.Photo{}, ErrUploadStoreNotConfigured
	}

	actingUserID = strings.TrimSpace(actingUserID)
	if actingUserID == "" {
		return photodom.Photo{}, ErrUnauthenticated
	}
	if len(image) == 0 {
		return photodom.Photo{}, ErrUploadImageEmpty
	}
	if strings.TrimSpace(contentType) == "" {
		contentType = "image/jpeg"
	}

	objectPath, err := photoImage.BuildObjectPath(actingUserID, uuid.NewString()+".jpg")
	if err != nil {
		return photodom.Photo{}, err
	}

	imageURL, err := u.images.Put(ctx, objectPath, contentType, image)
	if err != nil {
		return photodom.Photo{}, err
	}

	now := u.now().UTC()
	p := photodom.Photo{
		UserID:      actingUserID,
		ImageURL:    imageURL,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    in.Location,
		AuthorName:  u.authorName(ctx, actingUserID),
		Timestamp:   now,
	}

	created, err := u.photoRepo.Create(ctx, p)
	if err != nil {
		// The uploaded object has no metadata yet; the next delete of the
		// photo would never find it, so it stays as a harmless orphan until
		// operational cleanup. Acceptable: creation failing after upload is
		// rare and the strict side is metadata, not blobs.
		return photodom.Photo{}, err
	}

	if u.cache != nil {
		u.cache.Invalidate()
	}
	return created, nil
}

func (u *PhotoUploadUsecase) authorName(ctx context.Context, userID string) string {
	if u.userRepo == nil {
		return "User"
	}
	prof, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "User"
	}
	return prof.DisplayName()
}
