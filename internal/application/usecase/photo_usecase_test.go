package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	photodom "gallery/internal/domain/photo"
)

func galleryPhoto(id, userID string, ts time.Time) photodom.Photo {
	return photodom.Photo{
		ID:        id,
		UserID:    userID,
		ImageURL:  "https://storage.example.com/images/" + userID + "/" + id + ".jpg",
		Timestamp: ts,
	}
}

func TestPhotoUsecase_ListByUser(t *testing.T) {
	base := time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	repo := &fakePhotoRepo{photos: map[string]photodom.Photo{
		"p1": galleryPhoto("p1", "alice", base),
		"p2": galleryPhoto("p2", "alice", base.Add(time.Hour)),
		"p3": galleryPhoto("p3", "bob", base),
	}}
	uc := NewPhotoUsecase(repo, nil, nil)

	photos, err := uc.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, photos, 2)
	for _, p := range photos {
		require.Equal(t, "alice", p.UserID)
	}

	photos, err = uc.ListByUser(context.Background(), "carol")
	require.NoError(t, err)
	require.Empty(t, photos)
}

func TestPhotoUsecase_ListByUser_RequiresUserID(t *testing.T) {
	uc := NewPhotoUsecase(&fakePhotoRepo{}, nil, nil)

	_, err := uc.ListByUser(context.Background(), "   ")
	require.ErrorIs(t, err, ErrUnauthenticated)
}
