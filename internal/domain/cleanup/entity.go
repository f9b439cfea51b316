// internal/domain/cleanup/entity.go
package cleanup

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidPhotoID  = errors.New("cleanup: invalid photoId")
	ErrInvalidImageURL = errors.New("cleanup: invalid imageURL")
	ErrInvalidUserID   = errors.New("cleanup: invalid userId")
	ErrAlreadyDone     = errors.New("cleanup: entry already processed")
)

// Entry is one pending request to delete a blob object.
//
// The entry is self-sufficient: ImageURL is captured at enqueue time and the
// sweeper never re-reads the photo document (it is already deleted by then).
//
// State machine: Pending(processed=false) → Processed(processed=true) → purged.
// A failed delete attempt leaves the entry Pending; there is no failed state.
type Entry struct {
	ID string

	PhotoID  string // traceability only, never used for lookup
	ImageURL string // locator to delete, resolved to an object path at sweep time
	UserID   string // requesting actor

	EnqueuedAt time.Time

	Processed   bool
	ProcessedAt *time.Time
}

// New creates a Pending entry. ID may be empty (assigned by the store).
func New(id, photoID, imageURL, userID string, enqueuedAt time.Time) (Entry, error) {
	e := Entry{
		ID:         strings.TrimSpace(id),
		PhotoID:    strings.TrimSpace(photoID),
		ImageURL:   strings.TrimSpace(imageURL),
		UserID:     strings.TrimSpace(userID),
		EnqueuedAt: enqueuedAt.UTC(),
		Processed:  false,
	}
	if e.PhotoID == "" {
		return Entry{}, ErrInvalidPhotoID
	}
	if e.ImageURL == "" {
		return Entry{}, ErrInvalidImageURL
	}
	if e.UserID == "" {
		return Entry{}, ErrInvalidUserID
	}
	return e, nil
}

// MarkProcessed flips the entry to Processed. The flip happens exactly once;
// a Processed entry is immutable until purge.
func (e *Entry) MarkProcessed(at time.Time) error {
	if e.Processed {
		return ErrAlreadyDone
	}
	t := at.UTC()
	e.Processed = true
	e.ProcessedAt = &t
	return nil
}

// EligibleAt reports whether the entry may be swept at the given time:
// still pending and enqueued at least retention before now.
func (e Entry) EligibleAt(now time.Time, retention time.Duration) bool {
	if e.Processed {
		return false
	}
	return !e.EnqueuedAt.After(now.Add(-retention))
}

// PurgeableAt reports whether a processed entry is old enough to purge.
func (e Entry) PurgeableAt(now time.Time, keep time.Duration) bool {
	if !e.Processed || e.ProcessedAt == nil {
		return false
	}
	return !e.ProcessedAt.After(now.Add(-keep))
}
