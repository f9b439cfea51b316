package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cleanupdom "gallery/internal/domain/cleanup"
	likedom "gallery/internal/domain/like"
	photodom "gallery/internal/domain/photo"
	saveddom "gallery/internal/domain/savedPhoto"
)

// ----------------------------------------------------------------------
// fakes
// ----------------------------------------------------------------------

type fakePhotoRepo struct {
	photos map[string]photodom.Photo

	deleteErr  error
	deletedIDs []string

	calls *[]string
}

func (f *fakePhotoRepo) record(op string) {
	if f.calls != nil {
		*f.calls = append(*f.calls, op)
	}
}

func (f *fakePhotoRepo) GetByID(_ context.Context, id string) (photodom.Photo, error) {
	p, ok := f.photos[id]
	if !ok {
		return photodom.Photo{}, photodom.ErrNotFound
	}
	return p, nil
}

func (f *fakePhotoRepo) Create(_ context.Context, p photodom.Photo) (photodom.Photo, error) {
	if f.photos == nil {
		f.photos = map[string]photodom.Photo{}
	}
	f.photos[p.ID] = p
	return p, nil
}

func (f *fakePhotoRepo) Delete(_ context.Context, id string) error {
	f.record("photo.delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.photos, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakePhotoRepo) ListPage(context.Context, int, string) ([]photodom.Photo, string, error) {
	return nil, "", nil
}

func (f *fakePhotoRepo) ListByUserID(_ context.Context, userID string) ([]photodom.Photo, error) {
	var out []photodom.Photo
	for _, p := range f.photos {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakePhotoRepo) IncrementVisits(context.Context, string, int64) error { return nil }
func (f *fakePhotoRepo) IncrementLikes(context.Context, string, int64) error  { return nil }

type fakeLikeRepo struct {
	byPhoto map[string][]likedom.Like

	deleteByPhotoErr error
	deletedPhotoIDs  []string
}

func (f *fakeLikeRepo) Get(_ context.Context, userID, photoID string) (likedom.Like, error) {
	for _, l := range f.byPhoto[photoID] {
		if l.UserID == userID {
			return l, nil
		}
	}
	return likedom.Like{}, likedom.ErrNotFound
}
func (f *fakeLikeRepo) Put(context.Context, likedom.Like) error          { return nil }
func (f *fakeLikeRepo) Delete(context.Context, string, string) error     { return nil }

func (f *fakeLikeRepo) DeleteByPhotoID(_ context.Context, photoID string) (int, error) {
	if f.deleteByPhotoErr != nil {
		return 0, f.deleteByPhotoErr
	}
	n := len(f.byPhoto[photoID])
	delete(f.byPhoto, photoID)
	f.deletedPhotoIDs = append(f.deletedPhotoIDs, photoID)
	return n, nil
}

type fakeSavedRepo struct {
	byPhoto map[string][]saveddom.SavedPhoto

	deleteByPhotoErr error
	deletedPhotoIDs  []string
}

func (f *fakeSavedRepo) Get(_ context.Context, userID, photoID string) (saveddom.SavedPhoto, error) {
	for _, s := range f.byPhoto[photoID] {
		if s.UserID == userID {
			return s, nil
		}
	}
	return saveddom.SavedPhoto{}, saveddom.ErrNotFound
}
func (f *fakeSavedRepo) Put(context.Context, saveddom.SavedPhoto) error { return nil }
func (f *fakeSavedRepo) Delete(context.Context, string, string) error   { return nil }
func (f *fakeSavedRepo) ListByUserID(context.Context, string) ([]saveddom.SavedPhoto, error) {
	return nil, nil
}

func (f *fakeSavedRepo) DeleteByPhotoID(_ context.Context, photoID string) (int, error) {
	if f.deleteByPhotoErr != nil {
		return 0, f.deleteByPhotoErr
	}
	n := len(f.byPhoto[photoID])
	delete(f.byPhoto, photoID)
	f.deletedPhotoIDs = append(f.deletedPhotoIDs, photoID)
	return n, nil
}

type fakeQueueRepo struct {
	enqueued   []cleanupdom.Entry
	enqueueErr error

	calls *[]string
}

func (f *fakeQueueRepo) Enqueue(_ context.Context, e cleanupdom.Entry) (cleanupdom.Entry, error) {
	if f.calls != nil {
		*f.calls = append(*f.calls, "queue.enqueue")
	}
	if f.enqueueErr != nil {
		return cleanupdom.Entry{}, f.enqueueErr
	}
	e.ID = "q1"
	f.enqueued = append(f.enqueued, e)
	return e, nil
}

func (f *fakeQueueRepo) ListPending(context.Context, time.Time, int) ([]cleanupdom.Entry, error) {
	return nil, nil
}
func (f *fakeQueueRepo) MarkProcessed(context.Context, []string, time.Time) error { return nil }
func (f *fakeQueueRepo) ListProcessedBefore(context.Context, time.Time, int) ([]cleanupdom.Entry, error) {
	return nil, nil
}
func (f *fakeQueueRepo) DeleteByIDs(context.Context, []string) (int, error) { return 0, nil }

type fakeRefresher struct {
	err     error
	userIDs []string
}

func (f *fakeRefresher) Refresh(_ context.Context, userID string) error {
	f.userIDs = append(f.userIDs, userID)
	return f.err
}

type fakeFeedCache struct {
	removed     []string
	invalidated int
}

func (f *fakeFeedCache) Get(string, int) ([]photodom.Photo, string, bool) { return nil, "", false }
func (f *fakeFeedCache) Set(string, int, []photodom.Photo, string)        {}
func (f *fakeFeedCache) Remove(photoID string)                            { f.removed = append(f.removed, photoID) }
func (f *fakeFeedCache) Invalidate()                                      { f.invalidated++ }

// ----------------------------------------------------------------------
// fixture
// ----------------------------------------------------------------------

const (
	testImageURL = "https://firebasestorage.googleapis.com/v0/b/app.appspot.com/o/images%2Fu1%2Fa.jpg?alt=media"
)

type deleteFixture struct {
	photos    *fakePhotoRepo
	likes     *fakeLikeRepo
	saves     *fakeSavedRepo
	queue     *fakeQueueRepo
	refresher *fakeRefresher
	cache     *fakeFeedCache
	uc        *PhotoDeleteUsecase
	now       time.Time
}

func newDeleteFixture(t *testing.T) *deleteFixture {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := []string{}

	f := &deleteFixture{
		photos: &fakePhotoRepo{
			photos: map[string]photodom.Photo{
				"p1": {ID: "p1", UserID: "u1", ImageURL: testImageURL, Title: "sunset"},
			},
			calls: &calls,
		},
		likes: &fakeLikeRepo{byPhoto: map[string][]likedom.Like{
			"p1": {{UserID: "u1", PhotoID: "p1"}, {UserID: "u2", PhotoID: "p1"}},
		}},
		saves: &fakeSavedRepo{byPhoto: map[string][]saveddom.SavedPhoto{
			"p1": {{UserID: "u3", PhotoID: "p1"}},
		}},
		queue:     &fakeQueueRepo{calls: &calls},
		refresher: &fakeRefresher{},
		cache:     &fakeFeedCache{},
		now:       now,
	}
	f.uc = NewPhotoDeleteUsecase(f.photos, f.likes, f.saves, f.queue, f.refresher, f.cache).
		WithNow(func() time.Time { return now })
	return f
}

func (f *deleteFixture) callOrder() []string { return *f.photos.calls }

// ----------------------------------------------------------------------
// tests
// ----------------------------------------------------------------------

func TestPhotoDelete_CascadeRemovesEverything(t *testing.T) {
	f := newDeleteFixture(t)

	err := f.uc.Delete(context.Background(), "p1", "u1")
	require.NoError(t, err)

	require.NotContains(t, f.photos.photos, "p1")
	require.Empty(t, f.likes.byPhoto["p1"])
	require.Empty(t, f.saves.byPhoto["p1"])
	require.Equal(t, []string{"p1"}, f.cache.removed)
	require.Equal(t, 1, f.cache.invalidated)
	require.Equal(t, []string{"u1"}, f.refresher.userIDs)
}

func TestPhotoDelete_EnqueuesBeforePhotoDocumentIsGone(t *testing.T) {
	f := newDeleteFixture(t)

	require.NoError(t, f.uc.Delete(context.Background(), "p1", "u1"))

	// The locator must be captured while the photo document still exists.
	require.Equal(t, []string{"queue.enqueue", "photo.delete"}, f.callOrder())

	require.Len(t, f.queue.enqueued, 1)
	e := f.queue.enqueued[0]
	require.Equal(t, "p1", e.PhotoID)
	require.Equal(t, testImageURL, e.ImageURL)
	require.Equal(t, "u1", e.UserID)
	require.Equal(t, f.now, e.EnqueuedAt)
	require.False(t, e.Processed)
}

func TestPhotoDelete_MissingPhoto(t *testing.T) {
	f := newDeleteFixture(t)

	err := f.uc.Delete(context.Background(), "nope", "u1")
	require.ErrorIs(t, err, ErrPhotoNotFound)

	require.Empty(t, f.queue.enqueued)
	require.Len(t, f.likes.byPhoto["p1"], 2)
}

func TestPhotoDelete_NotOwnerLeavesEverythingUntouched(t *testing.T) {
	f := newDeleteFixture(t)

	err := f.uc.Delete(context.Background(), "p1", "intruder")
	require.ErrorIs(t, err, ErrPhotoForbidden)

	require.Contains(t, f.photos.photos, "p1")
	require.Len(t, f.likes.byPhoto["p1"], 2)
	require.Len(t, f.saves.byPhoto["p1"], 1)
	require.Empty(t, f.queue.enqueued)
	require.Empty(t, f.cache.removed)
}

func TestPhotoDelete_Unauthenticated(t *testing.T) {
	f := newDeleteFixture(t)

	err := f.uc.Delete(context.Background(), "p1", "  ")
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Contains(t, f.photos.photos, "p1")
}

func TestPhotoDelete_EnqueueFailureDoesNotBlockCascade(t *testing.T) {
	f := newDeleteFixture(t)
	f.queue.enqueueErr = errors.New("firestore unavailable")

	err := f.uc.Delete(context.Background(), "p1", "u1")
	require.NoError(t, err)

	// Orphan blob is the accepted degradation; metadata still goes away.
	require.NotContains(t, f.photos.photos, "p1")
	require.Empty(t, f.likes.byPhoto["p1"])
}

func TestPhotoDelete_CascadeFailuresAreTolerated(t *testing.T) {
	f := newDeleteFixture(t)
	f.likes.deleteByPhotoErr = errors.New("boom")
	f.saves.deleteByPhotoErr = errors.New("boom")

	err := f.uc.Delete(context.Background(), "p1", "u1")
	require.NoError(t, err)
	require.NotContains(t, f.photos.photos, "p1")
}

func TestPhotoDelete_PhotoDocumentFailureIsReturned(t *testing.T) {
	f := newDeleteFixture(t)
	f.photos.deleteErr = errors.New("write contention")

	err := f.uc.Delete(context.Background(), "p1", "u1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPhotoNotFound)

	// Cache stays untouched on failure so readers still see consistent state.
	require.Empty(t, f.cache.removed)
}

func TestPhotoDelete_RefresherFailureIsNotFatal(t *testing.T) {
	f := newDeleteFixture(t)
	f.refresher.err = errors.New("token expired")

	err := f.uc.Delete(context.Background(), "p1", "u1")
	require.NoError(t, err)
	require.NotContains(t, f.photos.photos, "p1")
}

func TestPhotoDelete_RetryAfterSuccessReportsNotFound(t *testing.T) {
	f := newDeleteFixture(t)

	require.NoError(t, f.uc.Delete(context.Background(), "p1", "u1"))

	err := f.uc.Delete(context.Background(), "p1", "u1")
	require.ErrorIs(t, err, ErrPhotoNotFound)
}
