// internal/application/usecase/photo_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	photodom "gallery/internal/domain/photo"
	userdom "gallery/internal/domain/user"
)

var (
	ErrPhotoRepoNotConfigured = errors.New("photo: repo not configured")
	ErrPhotoIDEmpty           = errors.New("photo: id is empty")
	ErrPhotoListLimitInvalid  = errors.New("photo: list limit invalid")
)

// PhotoRepo is the persistence port for photos.
type PhotoRepo interface {
	GetByID(ctx context.Context, id string) (photodom.Photo, error)
	Create(ctx context.Context, p photodom.Photo) (photodom.Photo, error)
	Delete(ctx context.Context, id string) error

	// ListPage returns up to limit photos ordered by timestamp desc,
	// starting after the cursor (a document id; empty = first page).
	// The returned cursor is empty when there are no more pages.
	ListPage(ctx context.Context, limit int, cursor string) ([]photodom.Photo, string, error)

	// ListByUserID returns every photo owned by userID, newest first.
	ListByUserID(ctx context.Context, userID string) ([]photodom.Photo, error)

	// Counter increments are commutative writes; they never read-modify-write.
	IncrementVisits(ctx context.Context, id string, delta int64) error
	IncrementLikes(ctx context.Context, id string, delta int64) error
}

// FeedCache is a small in-process page cache for the photo feed.
type FeedCache interface {
	Get(cursor string, limit int) ([]photodom.Photo, string, bool)
	Set(cursor string, limit int, photos []photodom.Photo, next string)
	Remove(photoID string)
	Invalidate()
}

// PhotoUsecase serves photo reads and the visit counter.
type PhotoUsecase struct {
	repo     PhotoRepo
	userRepo userdom.Repository
	cache    FeedCache
}

func NewPhotoUsecase(repo PhotoRepo, userRepo userdom.Repository, cache FeedCache) *PhotoUsecase {
	return &PhotoUsecase{repo: repo, userRepo: userRepo, cache: cache}
}

func (u *PhotoUsecase) GetByID(ctx context.Context, id string) (photodom.Photo, error) {
	if u.repo == nil {
		return photodom.Photo{}, ErrPhotoRepoNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return photodom.Photo{}, ErrPhotoIDEmpty
	}
	return u.repo.GetByID(ctx, id)
}

// ListPage serves a feed page, through the cache when possible.
func (u *PhotoUsecase) ListPage(ctx context.Context, limit int, cursor string) ([]photodom.Photo, string, error) {
	if u.repo == nil {
		return nil, "", ErrPhotoRepoNotConfigured
	}
	if limit <= 0 {
		return nil, "", ErrPhotoListLimitInvalid
	}
	cursor = strings.TrimSpace(cursor)

	if u.cache != nil {
		if photos, next, ok := u.cache.Get(cursor, limit); ok {
			return photos, next, nil
		}
	}

	photos, next, err := u.repo.ListPage(ctx, limit, cursor)
	if err != nil {
		return nil, "", err
	}
	if u.cache != nil {
		u.cache.Set(cursor, limit, photos, next)
	}
	return photos, next, nil
}

// ListByUser returns the given user's own photos, newest first. Bypasses
// the feed cache: the owner expects their just-uploaded photo immediately.
func (u *PhotoUsecase) ListByUser(ctx context.Context, userID string) ([]photodom.Photo, error) {
	if u.repo == nil {
		return nil, ErrPhotoRepoNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return u.repo.ListByUserID(ctx, userID)
}

// AddVisit increments the visit counter. Any authenticated actor may call it.
func (u *PhotoUsecase) AddVisit(ctx context.Context, id string) error {
	if u.repo == nil {
		return ErrPhotoRepoNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrPhotoIDEmpty
	}
	return u.repo.IncrementVisits(ctx, id, 1)
}

// AuthorName resolves the display name for denormalization.
func (u *PhotoUsecase) AuthorName(ctx context.Context, userID string) string {
	if u.userRepo == nil {
		return "User"
	}
	prof, err := u.userRepo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return "User"
	}
	return prof.DisplayName()
}
