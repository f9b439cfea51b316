// internal/application/usecase/photo_delete_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	cleanupdom "gallery/internal/domain/cleanup"
	photodom "gallery/internal/domain/photo"
)

var (
	ErrUnauthenticated = errors.New("delete: user not authenticated")
	ErrPhotoNotFound   = errors.New("delete: photo not found")
	ErrPhotoForbidden  = errors.New("delete: you can only delete your own photos")
)

// CredentialRefresher revalidates the acting user's credential before a
// sensitive operation. Tokens can go stale between sign-in and the delete
// action; refreshing up front avoids spurious authorization failures deep
// in the cascade.
type CredentialRefresher interface {
	Refresh(ctx context.Context, userID string) error
}

// PhotoDeleteUsecase removes a photo and everything referencing it.
//
// The blob itself is never deleted here. A cleanup queue entry is appended
// instead, and the scheduled sweeper removes the object later. Metadata
// consistency is strict; blob cleanup is eventual. An orphan blob is
// acceptable, stale metadata visible to other users is not.
type PhotoDeleteUsecase struct {
	photoRepo PhotoRepo
	likeRepo  LikeRepo
	savedRepo SavedPhotoRepo
	queueRepo CleanupQueueRepo

	refresher CredentialRefresher
	cache     FeedCache

	now func() time.Time
}

func NewPhotoDeleteUsecase(
	photoRepo PhotoRepo,
	likeRepo LikeRepo,
	savedRepo SavedPhotoRepo,
	queueRepo CleanupQueueRepo,
	refresher CredentialRefresher,
	cache FeedCache,
) *PhotoDeleteUsecase {
	return &PhotoDeleteUsecase{
		photoRepo: photoRepo,
		likeRepo:  likeRepo,
		savedRepo: savedRepo,
		queueRepo: queueRepo,
		refresher: refresher,
		cache:     cache,
		now:       time.Now,
	}
}

func (u *PhotoDeleteUsecase) WithNow(now func() time.Time) *PhotoDeleteUsecase {
	u.now = now
	return u
}

// Delete removes the photo document together with its likes, saved-photo
// records and feed-cache entry, and enqueues the backing object for
// deferred deletion.
//
// Only two failures abort before any mutation: photo missing and ownership
// mismatch. After that point sub-step failures are logged and tolerated;
// only a failure to delete the photo document itself is returned to the
// caller. Re-invoking on the same id is safe: it cleans remaining
// stragglers and then reports ErrPhotoNotFound once the photo is gone.
func (u *PhotoDeleteUsecase) Delete(ctx context.Context, photoID, actingUserID string) error {
	if u.photoRepo == nil {
		return ErrPhotoRepoNotConfigured
	}

	photoID = strings.TrimSpace(photoID)
	actingUserID = strings.TrimSpace(actingUserID)
	if actingUserID == "" {
		return ErrUnauthenticated
	}
	if photoID == "" {
		return ErrPhotoIDEmpty
	}

	// 1) Best-effort credential refresh. A failure here is not fatal;
	// downstream calls will fail on their own if the credential is bad.
	if u.refresher != nil {
		if err := u.refresher.Refresh(ctx, actingUserID); err != nil {
			log.Printf("[delete] WARN: credential refresh failed uid=%s: %v", actingUserID, err)
		}
	}

	// 2) Fetch the photo. Required precondition.
	p, err := u.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, photodom.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("delete: fetch photo: %w", err)
	}

	// 3) Ownership check. Nothing has been mutated yet, so aborting here
	// leaves the system untouched.
	if !p.OwnedBy(actingUserID) {
		return ErrPhotoForbidden
	}

	// 4) Enqueue the blob for deferred deletion BEFORE the photo document
	// goes away. The entry captures the locator now, because by sweep time
	// the photo document no longer exists. Enqueue failure must not block
	// the metadata cascade; the orphan blob is the recoverable degradation.
	if u.queueRepo != nil {
		entry, err := cleanupdom.New("", photoID, p.ImageURL, actingUserID, u.now())
		if err != nil {
			log.Printf("[delete] WARN: cleanup entry invalid photoId=%s: %v", photoID, err)
		} else if _, err := u.queueRepo.Enqueue(ctx, entry); err != nil {
			log.Printf("[delete] WARN: cleanup enqueue failed photoId=%s: %v (continuing)", photoID, err)
		}
	}

	// 5) Cascade: likes. Partial failure is tolerated; leftover records are
	// cleaned up by a retry of this whole operation.
	if u.likeRepo != nil {
		if n, err := u.likeRepo.DeleteByPhotoID(ctx, photoID); err != nil {
			log.Printf("[delete] WARN: like cascade incomplete photoId=%s deleted=%d: %v", photoID, n, err)
		}
	}

	// 6) Cascade: saved photos. Same tolerance.
	if u.savedRepo != nil {
		if n, err := u.savedRepo.DeleteByPhotoID(ctx, photoID); err != nil {
			log.Printf("[delete] WARN: savedPhoto cascade incomplete photoId=%s deleted=%d: %v", photoID, n, err)
		}
	}

	// 7) Delete the photo document. This is what makes the photo disappear
	// for readers, so it is the only sub-step whose failure fails the call.
	if err := u.photoRepo.Delete(ctx, photoID); err != nil {
		return fmt.Errorf("delete: photo document: %w", err)
	}

	// 8) Drop the photo from the in-process feed and force the next page
	// read to come from the source of truth.
	if u.cache != nil {
		u.cache.Remove(photoID)
		u.cache.Invalidate()
	}

	log.Printf("[delete] photo deleted photoId=%s uid=%s", photoID, actingUserID)
	return nil
}
