// internal/domain/photo/entity.go
package photo

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("photo: not found")
	ErrInvalidID       = errors.New("photo: invalid id")
	ErrInvalidUserID   = errors.New("photo: invalid userId")
	ErrInvalidImageURL = errors.New("photo: invalid imageURL")
	ErrInvalidTime     = errors.New("photo: invalid timestamp")
)

// GeoPoint is an optional shooting location.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Photo is one uploaded image with denormalized counters.
//
// Invariant: UserID is immutable after creation. Counters (Visits/Likes)
// are mutated only through commutative increments, never read-modify-write.
type Photo struct {
	ID          string
	UserID      string
	ImageURL    string
	Title       string
	Description string

	Visits int64
	Likes  int64

	// AuthorName is denormalized from users at creation time.
	AuthorName string

	Location *GeoPoint

	Timestamp time.Time
}

// New creates a Photo (minimal validation).
func New(id, userID, imageURL string, timestamp time.Time) (Photo, error) {
	p := Photo{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		ImageURL:  strings.TrimSpace(imageURL),
		Timestamp: timestamp.UTC(),
	}
	if err := p.validate(); err != nil {
		return Photo{}, err
	}
	return p, nil
}

// OwnedBy reports whether userID owns this photo.
func (p Photo) OwnedBy(userID string) bool {
	uid := strings.TrimSpace(userID)
	return uid != "" && p.UserID == uid
}

func (p Photo) validate() error {
	if p.ID == "" {
		return ErrInvalidID
	}
	if p.UserID == "" {
		return ErrInvalidUserID
	}
	if p.ImageURL == "" {
		return ErrInvalidImageURL
	}
	if p.Timestamp.IsZero() {
		return ErrInvalidTime
	}
	return nil
}
