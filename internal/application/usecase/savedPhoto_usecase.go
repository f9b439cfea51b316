// internal/application/usecase/savedPhoto_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	saveddom "gallery/internal/domain/savedPhoto"
)

var (
	ErrSavedPhotoRepoNotConfigured = errors.New("savedPhoto: repo not configured")
)

// SavedPhotoRepo is the persistence port for saved photos (bookmarks).
// Same composite-id policy as LikeRepo.
type SavedPhotoRepo interface {
	Get(ctx context.Context, userID, photoID string) (saveddom.SavedPhoto, error)
	Put(ctx context.Context, s saveddom.SavedPhoto) error
	Delete(ctx context.Context, userID, photoID string) error

	ListByUserID(ctx context.Context, userID string) ([]saveddom.SavedPhoto, error)
	DeleteByPhotoID(ctx context.Context, photoID string) (int, error)
}

type SavedPhotoUsecase struct {
	repo SavedPhotoRepo
	now  func() time.Time
}

func NewSavedPhotoUsecase(repo SavedPhotoRepo) *SavedPhotoUsecase {
	return &SavedPhotoUsecase{repo: repo, now: time.Now}
}

func (u *SavedPhotoUsecase) WithNow(now func() time.Time) *SavedPhotoUsecase {
	u.now = now
	return u
}

// Save bookmarks the photo for the user. Re-saving is a no-op overwrite.
func (u *SavedPhotoUsecase) Save(ctx context.Context, userID, photoID string) error {
	if u.repo == nil {
		return ErrSavedPhotoRepoNotConfigured
	}
	s, err := saveddom.New(userID, photoID, u.now())
	if err != nil {
		return err
	}
	return u.repo.Put(ctx, s)
}

// Unsave removes the bookmark. Removing a missing bookmark is a no-op.
func (u *SavedPhotoUsecase) Unsave(ctx context.Context, userID, photoID string) error {
	if u.repo == nil {
		return ErrSavedPhotoRepoNotConfigured
	}
	userID = strings.TrimSpace(userID)
	photoID = strings.TrimSpace(photoID)
	if userID == "" {
		return ErrUnauthenticated
	}
	if photoID == "" {
		return ErrPhotoIDEmpty
	}
	err := u.repo.Delete(ctx, userID, photoID)
	if errors.Is(err, saveddom.ErrNotFound) {
		return nil
	}
	return err
}

func (u *SavedPhotoUsecase) IsSaved(ctx context.Context, userID, photoID string) (bool, error) {
	if u.repo == nil {
		return false, ErrSavedPhotoRepoNotConfigured
	}
	_, err := u.repo.Get(ctx, strings.TrimSpace(userID), strings.TrimSpace(photoID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, saveddom.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (u *SavedPhotoUsecase) ListByUser(ctx context.Context, userID string) ([]saveddom.SavedPhoto, error) {
	if u.repo == nil {
		return nil, ErrSavedPhotoRepoNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return u.repo.ListByUserID(ctx, userID)
}
