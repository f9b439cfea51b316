// internal/application/usecase/like_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	likedom "gallery/internal/domain/like"
)

var (
	ErrLikeRepoNotConfigured = errors.New("like: repo not configured")
)

// LikeRepo is the persistence port for likes.
//
// Documents are keyed by the composite id "{userId}_{photoId}", so Put is a
// natural upsert and duplicate likes cannot exist.
type LikeRepo interface {
	Get(ctx context.Context, userID, photoID string) (likedom.Like, error)
	Put(ctx context.Context, l likedom.Like) error
	Delete(ctx context.Context, userID, photoID string) error

	// DeleteByPhotoID removes every like referencing photoID and returns how
	// many deletes succeeded. Partial failure returns the count plus an error.
	DeleteByPhotoID(ctx context.Context, photoID string) (int, error)
}

// LikeUsecase toggles (user, photo) likes and keeps the denormalized
// likes counter on the photo in step.
type LikeUsecase struct {
	repo      LikeRepo
	photoRepo PhotoRepo
	now       func() time.Time
}

func NewLikeUsecase(repo LikeRepo, photoRepo PhotoRepo) *LikeUsecase {
	return &LikeUsecase{repo: repo, photoRepo: photoRepo, now: time.Now}
}

func (u *LikeUsecase) WithNow(now func() time.Time) *LikeUsecase {
	u.now = now
	return u
}

// Toggle likes the photo if not yet liked, otherwise removes the like.
// Returns the resulting liked state.
func (u *LikeUsecase) Toggle(ctx context.Context, userID, photoID string) (bool, error) {
	if u.repo == nil {
		return false, ErrLikeRepoNotConfigured
	}
	userID = strings.TrimSpace(userID)
	photoID = strings.TrimSpace(photoID)
	if userID == "" {
		return false, ErrUnauthenticated
	}
	if photoID == "" {
		return false, ErrPhotoIDEmpty
	}

	_, err := u.repo.Get(ctx, userID, photoID)
	switch {
	case err == nil:
		// Unlike: remove the like document, then decrement the counter.
		if err := u.repo.Delete(ctx, userID, photoID); err != nil {
			return true, err
		}
		u.incrementLikes(ctx, photoID, -1)
		return false, nil

	case errors.Is(err, likedom.ErrNotFound):
		l, err := likedom.New(userID, photoID, u.now())
		if err != nil {
			return false, err
		}
		if err := u.repo.Put(ctx, l); err != nil {
			return false, err
		}
		u.incrementLikes(ctx, photoID, 1)
		return true, nil

	default:
		return false, err
	}
}

func (u *LikeUsecase) IsLiked(ctx context.Context, userID, photoID string) (bool, error) {
	if u.repo == nil {
		return false, ErrLikeRepoNotConfigured
	}
	_, err := u.repo.Get(ctx, strings.TrimSpace(userID), strings.TrimSpace(photoID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, likedom.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// The counter is best-effort: a failed increment leaves the count slightly
// off but never blocks the like itself.
func (u *LikeUsecase) incrementLikes(ctx context.Context, photoID string, delta int64) {
	if u.photoRepo == nil {
		return
	}
	if err := u.photoRepo.IncrementLikes(ctx, photoID, delta); err != nil {
		log.Printf("[like] WARN: likes counter update failed photoId=%s delta=%d: %v", photoID, delta, err)
	}
}
