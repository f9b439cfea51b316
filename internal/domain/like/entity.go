// internal/domain/like/entity.go
package like

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("like: not found")
	ErrInvalidUserID  = errors.New("like: invalid userId")
	ErrInvalidPhotoID = errors.New("like: invalid photoId")
)

// Like is one (user, photo) relationship.
//
// The document id is the composite key "{userId}_{photoId}", so creating
// the same like twice overwrites the same document instead of duplicating.
type Like struct {
	UserID    string
	PhotoID   string
	Timestamp time.Time
}

func New(userID, photoID string, timestamp time.Time) (Like, error) {
	l := Like{
		UserID:    strings.TrimSpace(userID),
		PhotoID:   strings.TrimSpace(photoID),
		Timestamp: timestamp.UTC(),
	}
	if l.UserID == "" {
		return Like{}, ErrInvalidUserID
	}
	if l.PhotoID == "" {
		return Like{}, ErrInvalidPhotoID
	}
	return l, nil
}

// DocID returns the composite document id "{userId}_{photoId}".
func DocID(userID, photoID string) string {
	return strings.TrimSpace(userID) + "_" + strings.TrimSpace(photoID)
}

func (l Like) DocID() string {
	return DocID(l.UserID, l.PhotoID)
}
