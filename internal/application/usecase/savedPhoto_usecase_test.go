package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	saveddom "gallery/internal/domain/savedPhoto"
)

type bookmarkRepo struct {
	saved map[string]saveddom.SavedPhoto
}

func (f *bookmarkRepo) Get(_ context.Context, userID, photoID string) (saveddom.SavedPhoto, error) {
	s, ok := f.saved[saveddom.DocID(userID, photoID)]
	if !ok {
		return saveddom.SavedPhoto{}, saveddom.ErrNotFound
	}
	return s, nil
}

func (f *bookmarkRepo) Put(_ context.Context, s saveddom.SavedPhoto) error {
	if f.saved == nil {
		f.saved = map[string]saveddom.SavedPhoto{}
	}
	f.saved[s.DocID()] = s
	return nil
}

func (f *bookmarkRepo) Delete(_ context.Context, userID, photoID string) error {
	key := saveddom.DocID(userID, photoID)
	if _, ok := f.saved[key]; !ok {
		return saveddom.ErrNotFound
	}
	delete(f.saved, key)
	return nil
}

func (f *bookmarkRepo) ListByUserID(_ context.Context, userID string) ([]saveddom.SavedPhoto, error) {
	var out []saveddom.SavedPhoto
	for _, s := range f.saved {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *bookmarkRepo) DeleteByPhotoID(context.Context, string) (int, error) { return 0, nil }

func TestSavedPhoto_SaveIsIdempotent(t *testing.T) {
	repo := &bookmarkRepo{}
	uc := NewSavedPhotoUsecase(repo)

	require.NoError(t, uc.Save(context.Background(), "u1", "p1"))
	require.NoError(t, uc.Save(context.Background(), "u1", "p1"))
	require.Len(t, repo.saved, 1)

	ok, err := uc.IsSaved(context.Background(), "u1", "p1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSavedPhoto_UnsaveMissingIsNoOp(t *testing.T) {
	uc := NewSavedPhotoUsecase(&bookmarkRepo{})

	require.NoError(t, uc.Unsave(context.Background(), "u1", "p1"))
}

func TestSavedPhoto_ListByUser(t *testing.T) {
	repo := &bookmarkRepo{}
	uc := NewSavedPhotoUsecase(repo)

	require.NoError(t, uc.Save(context.Background(), "u1", "p1"))
	require.NoError(t, uc.Save(context.Background(), "u1", "p2"))
	require.NoError(t, uc.Save(context.Background(), "u2", "p1"))

	mine, err := uc.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)

	_, err = uc.ListByUser(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}
