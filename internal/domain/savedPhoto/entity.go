// internal/domain/savedPhoto/entity.go
package savedPhoto

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("savedPhoto: not found")
	ErrInvalidUserID  = errors.New("savedPhoto: invalid userId")
	ErrInvalidPhotoID = errors.New("savedPhoto: invalid photoId")
)

// SavedPhoto is one (user, photo) bookmark.
// Document id is the composite key "{userId}_{photoId}" (same policy as like).
type SavedPhoto struct {
	UserID    string
	PhotoID   string
	Timestamp time.Time
}

func New(userID, photoID string, timestamp time.Time) (SavedPhoto, error) {
	s := SavedPhoto{
		UserID:    strings.TrimSpace(userID),
		PhotoID:   strings.TrimSpace(photoID),
		Timestamp: timestamp.UTC(),
	}
	if s.UserID == "" {
		return SavedPhoto{}, ErrInvalidUserID
	}
	if s.PhotoID == "" {
		return SavedPhoto{}, ErrInvalidPhotoID
	}
	return s, nil
}

// DocID returns the composite document id "{userId}_{photoId}".
func DocID(userID, photoID string) string {
	return strings.TrimSpace(userID) + "_" + strings.TrimSpace(photoID)
}

func (s SavedPhoto) DocID() string {
	return DocID(s.UserID, s.PhotoID)
}
