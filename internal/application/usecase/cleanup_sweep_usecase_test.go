package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cleanupdom "gallery/internal/domain/cleanup"
)

// ----------------------------------------------------------------------
// fakes
// ----------------------------------------------------------------------

type fakeSweepQueue struct {
	pending   []cleanupdom.Entry
	processed []cleanupdom.Entry

	listPendingErr   error
	markProcessedErr error
	purgeListErr     error

	gotPendingBefore time.Time
	gotPendingLimit  int
	gotMarkedIDs     []string
	gotMarkedAt      time.Time
	gotPurgeBefore   time.Time
	gotPurgeLimit    int
	gotPurgedIDs     []string
}

func (f *fakeSweepQueue) Enqueue(_ context.Context, e cleanupdom.Entry) (cleanupdom.Entry, error) {
	f.pending = append(f.pending, e)
	return e, nil
}

func (f *fakeSweepQueue) ListPending(_ context.Context, before time.Time, limit int) ([]cleanupdom.Entry, error) {
	f.gotPendingBefore = before
	f.gotPendingLimit = limit
	if f.listPendingErr != nil {
		return nil, f.listPendingErr
	}
	var out []cleanupdom.Entry
	for _, e := range f.pending {
		if !e.EnqueuedAt.After(before) && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSweepQueue) MarkProcessed(_ context.Context, ids []string, at time.Time) error {
	f.gotMarkedIDs = append([]string(nil), ids...)
	f.gotMarkedAt = at
	return f.markProcessedErr
}

func (f *fakeSweepQueue) ListProcessedBefore(_ context.Context, before time.Time, limit int) ([]cleanupdom.Entry, error) {
	f.gotPurgeBefore = before
	f.gotPurgeLimit = limit
	if f.purgeListErr != nil {
		return nil, f.purgeListErr
	}
	var out []cleanupdom.Entry
	for _, e := range f.processed {
		if e.Processed && e.ProcessedAt != nil && !e.ProcessedAt.After(before) && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSweepQueue) DeleteByIDs(_ context.Context, ids []string) (int, error) {
	f.gotPurgedIDs = append([]string(nil), ids...)
	return len(ids), nil
}

type fakeBlobStore struct {
	errByPath map[string]error
	deleted   []string
}

func (f *fakeBlobStore) DeleteByPath(_ context.Context, bucket, objectPath string) error {
	key := bucket + "/" + objectPath
	if err, ok := f.errByPath[key]; ok {
		return err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeSweepMailer struct {
	reports []SweepReport
	err     error
}

func (f *fakeSweepMailer) SendSweepReport(_ context.Context, rep SweepReport) error {
	f.reports = append(f.reports, rep)
	return f.err
}

// ----------------------------------------------------------------------
// helpers
// ----------------------------------------------------------------------

var sweepNow = time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

func pendingEntry(id string, age time.Duration) cleanupdom.Entry {
	return cleanupdom.Entry{
		ID:         id,
		PhotoID:    "photo-" + id,
		ImageURL:   "https://storage.googleapis.com/app-bucket/images/u1/" + id + ".jpg",
		UserID:     "u1",
		EnqueuedAt: sweepNow.Add(-age),
	}
}

func processedEntry(id string, processedAge time.Duration) cleanupdom.Entry {
	at := sweepNow.Add(-processedAge)
	e := pendingEntry(id, processedAge+48*time.Hour)
	e.Processed = true
	e.ProcessedAt = &at
	return e
}

func newSweeper(q *fakeSweepQueue, b *fakeBlobStore) *CleanupSweepUsecase {
	return NewCleanupSweepUsecase(q, b, CleanupSweepConfig{}).
		WithNow(func() time.Time { return sweepNow })
}

// ----------------------------------------------------------------------
// tests
// ----------------------------------------------------------------------

func TestSweep_RetentionWindow(t *testing.T) {
	q := &fakeSweepQueue{pending: []cleanupdom.Entry{
		pendingEntry("young", 23*time.Hour),
		pendingEntry("old", 25*time.Hour),
	}}
	b := &fakeBlobStore{}

	rep, err := newSweeper(q, b).RunScheduledSweep(context.Background())
	require.NoError(t, err)

	// Cutoff is now minus the 24h retention; the 23h-old entry must wait.
	require.Equal(t, sweepNow.Add(-24*time.Hour), q.gotPendingBefore)
	require.Equal(t, 100, q.gotPendingLimit)
	require.Equal(t, SweepReport{Found: 1, Succeeded: 1}, rep)
	require.Equal(t, []string{"app-bucket/images/u1/old.jpg"}, b.deleted)
	require.Equal(t, []string{"old"}, q.gotMarkedIDs)
	require.Equal(t, sweepNow, q.gotMarkedAt)
}

func TestSweep_MissingObjectCountsAsSuccess(t *testing.T) {
	q := &fakeSweepQueue{pending: []cleanupdom.Entry{
		pendingEntry("gone", 48 * time.Hour),
	}}
	b := &fakeBlobStore{errByPath: map[string]error{
		"app-bucket/images/u1/gone.jpg": ErrObjectNotFound,
	}}

	rep, err := newSweeper(q, b).RunScheduledSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, SweepReport{Found: 1, Succeeded: 1}, rep)
	require.Equal(t, []string{"gone"}, q.gotMarkedIDs)
}

func TestSweep_BlobFailureLeavesEntryPending(t *testing.T) {
	q := &fakeSweepQueue{pending: []cleanupdom.Entry{
		pendingEntry("ok", 48 * time.Hour),
		pendingEntry("bad", 48 * time.Hour),
	}}
	b := &fakeBlobStore{errByPath: map[string]error{
		"app-bucket/images/u1/bad.jpg": errors.New("storage 503"),
	}}

	rep, err := newSweeper(q, b).RunScheduledSweep(context.Background())
	require.NoError(t, err)

	require.Equal(t, SweepReport{Found: 2, Succeeded: 1, Failed: 1}, rep)
	require.Equal(t, []string{"ok"}, q.gotMarkedIDs)
}

func TestSweep_BacklogIsBoundedByBatchCap(t *testing.T) {
	q := &fakeSweepQueue{}
	for i := 0; i < 250; i++ {
		q.pending = append(q.pending, pendingEntry("e"+strconv.Itoa(i), 48*time.Hour))
	}
	b := &fakeBlobStore{}

	rep, err := newSweeper(q, b).RunScheduledSweep(context.Background())
	require.NoError(t, err)

	require.Equal(t, 100, rep.Found)
	require.Equal(t, 100, rep.Succeeded)
	require.Len(t, q.gotMarkedIDs, 100)
}

func TestSweep_UndecodableLocatorCountsAsFailed(t *testing.T) {
	broken := pendingEntry("broken", 48 * time.Hour)
	broken.ImageURL = "https://example.com/not-a-storage-url"

	q := &fakeSweepQueue{pending: []cleanupdom.Entry{broken}}
	b := &fakeBlobStore{}

	rep, err := newSweeper(q, b).RunScheduledSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, SweepReport{Found: 1, Failed: 1}, rep)
	require.Empty(t, b.deleted)
	require.Empty(t, q.gotMarkedIDs)
}

func TestSweep_QueueQueryFailureAbortsInvocation(t *testing.T) {
	q := &fakeSweepQueue{listPendingErr: errors.New("firestore down")}
	b := &fakeBlobStore{}

	rep, err := newSweeper(q, b).RunScheduledSweep(context.Background())
	require.Error(t, err)
	require.Equal(t, SweepReport{}, rep)
	require.Empty(t, b.deleted)
}

func TestSweep_MarkProcessedFailureIsTolerated(t *testing.T) {
	q := &fakeSweepQueue{
		pending:          []cleanupdom.Entry{pendingEntry("a", 48 * time.Hour)},
		markProcessedErr: errors.New("batch write failed"),
	}
	b := &fakeBlobStore{}

	// Entry stays pending; next sweep resolves it via the not-found rule.
	rep, err := newSweeper(q, b).RunScheduledSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, SweepReport{Found: 1, Succeeded: 1}, rep)
}

func TestSweep_PurgeOldProcessedEntries(t *testing.T) {
	q := &fakeSweepQueue{processed: []cleanupdom.Entry{
		processedEntry("ancient", 8*24*time.Hour),
		processedEntry("recent", 6*24*time.Hour),
	}}
	b := &fakeBlobStore{}

	rep, err := newSweeper(q, b).RunScheduledSweep(context.Background())
	require.NoError(t, err)

	require.Equal(t, sweepNow.Add(-7*24*time.Hour), q.gotPurgeBefore)
	require.Equal(t, 50, q.gotPurgeLimit)
	require.Equal(t, []string{"ancient"}, q.gotPurgedIDs)
	require.Equal(t, 1, rep.Purged)
}

func TestSweep_PurgeRunsEvenOnEmptyQueue(t *testing.T) {
	q := &fakeSweepQueue{processed: []cleanupdom.Entry{
		processedEntry("ancient", 9 * 24 * time.Hour),
	}}
	b := &fakeBlobStore{}

	rep, err := newSweeper(q, b).RunScheduledSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, SweepReport{Purged: 1}, rep)
}

func TestSweep_CustomConfig(t *testing.T) {
	q := &fakeSweepQueue{}
	b := &fakeBlobStore{}

	uc := NewCleanupSweepUsecase(q, b, CleanupSweepConfig{
		RetentionDelay: time.Hour,
		BatchLimit:     5,
		PurgeAfter:     48 * time.Hour,
		PurgeLimit:     3,
	}).WithNow(func() time.Time { return sweepNow })

	_, err := uc.RunScheduledSweep(context.Background())
	require.NoError(t, err)

	require.Equal(t, sweepNow.Add(-time.Hour), q.gotPendingBefore)
	require.Equal(t, 5, q.gotPendingLimit)
	require.Equal(t, sweepNow.Add(-48*time.Hour), q.gotPurgeBefore)
	require.Equal(t, 3, q.gotPurgeLimit)
}

func TestSweep_MailerOnlyOnFailures(t *testing.T) {
	t.Run("no failures, no mail", func(t *testing.T) {
		q := &fakeSweepQueue{pending: []cleanupdom.Entry{pendingEntry("a", 48 * time.Hour)}}
		m := &fakeSweepMailer{}
		_, err := newSweeper(q, &fakeBlobStore{}).WithMailer(m).RunScheduledSweep(context.Background())
		require.NoError(t, err)
		require.Empty(t, m.reports)
	})

	t.Run("failures trigger report", func(t *testing.T) {
		q := &fakeSweepQueue{pending: []cleanupdom.Entry{pendingEntry("bad", 48 * time.Hour)}}
		b := &fakeBlobStore{errByPath: map[string]error{
			"app-bucket/images/u1/bad.jpg": errors.New("storage 503"),
		}}
		m := &fakeSweepMailer{}
		rep, err := newSweeper(q, b).WithMailer(m).RunScheduledSweep(context.Background())
		require.NoError(t, err)
		require.Equal(t, []SweepReport{rep}, m.reports)
	})

	t.Run("mail failure never fails the sweep", func(t *testing.T) {
		q := &fakeSweepQueue{pending: []cleanupdom.Entry{pendingEntry("bad", 48 * time.Hour)}}
		b := &fakeBlobStore{errByPath: map[string]error{
			"app-bucket/images/u1/bad.jpg": errors.New("storage 503"),
		}}
		m := &fakeSweepMailer{err: errors.New("sendgrid 500")}
		_, err := newSweeper(q, b).WithMailer(m).RunScheduledSweep(context.Background())
		require.NoError(t, err)
	})
}

func TestSweep_ManualTriggerSameSemantics(t *testing.T) {
	q := &fakeSweepQueue{pending: []cleanupdom.Entry{pendingEntry("a", 48 * time.Hour)}}
	b := &fakeBlobStore{}

	rep, err := newSweeper(q, b).RunManualSweep(context.Background(), "admin-1")
	require.NoError(t, err)
	require.Equal(t, SweepReport{Found: 1, Succeeded: 1}, rep)
}

func TestSweep_NotConfigured(t *testing.T) {
	_, err := NewCleanupSweepUsecase(nil, &fakeBlobStore{}, CleanupSweepConfig{}).RunScheduledSweep(context.Background())
	require.ErrorIs(t, err, ErrCleanupRepoNotConfigured)

	_, err = NewCleanupSweepUsecase(&fakeSweepQueue{}, nil, CleanupSweepConfig{}).RunScheduledSweep(context.Background())
	require.ErrorIs(t, err, ErrCleanupStorageNotConfigured)
}
