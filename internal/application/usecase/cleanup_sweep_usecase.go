// internal/application/usecase/cleanup_sweep_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	cleanupdom "gallery/internal/domain/cleanup"
	"gallery/internal/domain/photoImage"
)

var (
	ErrCleanupRepoNotConfigured    = errors.New("cleanup: queue repo not configured")
	ErrCleanupStorageNotConfigured = errors.New("cleanup: object storage not configured")

	// ErrObjectNotFound is returned by BlobStore.DeleteByPath when the target
	// object is already absent. The sweeper treats it as success.
	ErrObjectNotFound = errors.New("cleanup: object not found")
)

const (
	DefaultRetentionDelay = 24 * time.Hour
	DefaultBatchLimit     = 100
	DefaultPurgeAfter     = 7 * 24 * time.Hour
	DefaultPurgeLimit     = 50
)

// CleanupQueueRepo is the persistence port for the storageCleanupQueue
// collection. The coordinator only appends; the sweeper reads pending
// entries, flips their flag in bulk, and purges aged processed entries.
type CleanupQueueRepo interface {
	Enqueue(ctx context.Context, e cleanupdom.Entry) (cleanupdom.Entry, error)

	// ListPending returns up to limit entries with processed == false and
	// enqueuedAt <= before, in enqueue order.
	ListPending(ctx context.Context, before time.Time, limit int) ([]cleanupdom.Entry, error)

	// MarkProcessed sets processed=true, processedAt=at on all ids in one
	// batched write.
	MarkProcessed(ctx context.Context, ids []string, at time.Time) error

	// ListProcessedBefore returns up to limit entries with processed == true
	// and processedAt <= before.
	ListProcessedBefore(ctx context.Context, before time.Time, limit int) ([]cleanupdom.Entry, error)

	// DeleteByIDs batch-deletes entries and returns how many were deleted.
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
}

// BlobStore is the object-deletion port used by the sweeper.
// DeleteByPath must return ErrObjectNotFound for a missing object so that
// double-processing stays idempotent.
type BlobStore interface {
	DeleteByPath(ctx context.Context, bucket, objectPath string) error
}

// SweepReport summarizes one sweep invocation.
type SweepReport struct {
	Found     int `json:"found"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Purged    int `json:"purged"`
}

// SweepReportMailer sends an operational report after a sweep. Optional.
type SweepReportMailer interface {
	SendSweepReport(ctx context.Context, rep SweepReport) error
}

// CleanupSweepConfig tunes the sweep windows and batch caps.
type CleanupSweepConfig struct {
	RetentionDelay time.Duration // pending entries younger than this are skipped
	BatchLimit     int           // max pending entries per sweep
	PurgeAfter     time.Duration // processed entries older than this are purged
	PurgeLimit     int           // max purged entries per sweep
}

func (c CleanupSweepConfig) withDefaults() CleanupSweepConfig {
	if c.RetentionDelay <= 0 {
		c.RetentionDelay = DefaultRetentionDelay
	}
	if c.BatchLimit <= 0 {
		c.BatchLimit = DefaultBatchLimit
	}
	if c.PurgeAfter <= 0 {
		c.PurgeAfter = DefaultPurgeAfter
	}
	if c.PurgeLimit <= 0 {
		c.PurgeLimit = DefaultPurgeLimit
	}
	return c
}

// CleanupSweepUsecase drains the reclamation queue in bounded batches.
//
// Per-entry failures never escape the sweep; a failed entry simply stays
// pending and is retried on the next cadence tick. Only a failure to query
// the queue itself fails the invocation.
type CleanupSweepUsecase struct {
	queueRepo CleanupQueueRepo
	blobs     BlobStore
	mailer    SweepReportMailer

	cfg CleanupSweepConfig
	now func() time.Time
}

func NewCleanupSweepUsecase(queueRepo CleanupQueueRepo, blobs BlobStore, cfg CleanupSweepConfig) *CleanupSweepUsecase {
	return &CleanupSweepUsecase{
		queueRepo: queueRepo,
		blobs:     blobs,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
}

func (u *CleanupSweepUsecase) WithNow(now func() time.Time) *CleanupSweepUsecase {
	u.now = now
	return u
}

func (u *CleanupSweepUsecase) WithMailer(m SweepReportMailer) *CleanupSweepUsecase {
	u.mailer = m
	return u
}

// RunScheduledSweep is the scheduler entry point (daily cadence).
func (u *CleanupSweepUsecase) RunScheduledSweep(ctx context.Context) (SweepReport, error) {
	return u.sweep(ctx)
}

// RunManualSweep is the privilege-gated manual trigger. The privilege check
// belongs to the caller (HTTP layer); this only records who pulled it.
func (u *CleanupSweepUsecase) RunManualSweep(ctx context.Context, actingUserID string) (SweepReport, error) {
	log.Printf("[cleanup] manual sweep triggered uid=%s", strings.TrimSpace(actingUserID))
	return u.sweep(ctx)
}

func (u *CleanupSweepUsecase) sweep(ctx context.Context) (SweepReport, error) {
	var rep SweepReport

	if u.queueRepo == nil {
		return rep, ErrCleanupRepoNotConfigured
	}
	if u.blobs == nil {
		return rep, ErrCleanupStorageNotConfigured
	}

	now := u.now().UTC()
	cutoff := now.Add(-u.cfg.RetentionDelay)
	log.Printf("[cleanup] sweep start cutoff=%s batchLimit=%d", cutoff.Format(time.RFC3339), u.cfg.BatchLimit)

	entries, err := u.queueRepo.ListPending(ctx, cutoff, u.cfg.BatchLimit)
	if err != nil {
		// Cannot even read the queue: fail the invocation and let the
		// scheduler retry on the next tick.
		return rep, fmt.Errorf("cleanup: query queue: %w", err)
	}
	rep.Found = len(entries)

	if rep.Found == 0 {
		log.Printf("[cleanup] no entries to sweep")
		rep.Purged = u.purge(ctx, now)
		return rep, nil
	}

	var done []string
	for _, e := range entries {
		// Resolve the delete target from the captured locator only. The
		// photo document is already gone; nothing may be re-read.
		bucket, objectPath, ok := photoImage.ParseObjectURL(e.ImageURL)
		if !ok {
			log.Printf("[cleanup] WARN: cannot decode locator entry=%s url=%s", e.ID, e.ImageURL)
			rep.Failed++
			continue
		}

		err := u.blobs.DeleteByPath(ctx, bucket, objectPath)
		switch {
		case err == nil:
			rep.Succeeded++
			done = append(done, e.ID)
		case errors.Is(err, ErrObjectNotFound):
			// Already absent (double-processed or manually removed):
			// success for idempotence.
			log.Printf("[cleanup] object already gone entry=%s path=%s", e.ID, objectPath)
			rep.Succeeded++
			done = append(done, e.ID)
		default:
			// Leave pending; retried next sweep.
			log.Printf("[cleanup] WARN: blob delete failed entry=%s path=%s: %v", e.ID, objectPath, err)
			rep.Failed++
		}
	}

	// Single bulk write for the processed flips.
	if len(done) > 0 {
		if err := u.queueRepo.MarkProcessed(ctx, done, now); err != nil {
			// The blobs are gone; the entries stay pending and the next
			// sweep resolves them via the not-found rule.
			log.Printf("[cleanup] WARN: mark processed failed (%d entries): %v", len(done), err)
		}
	}

	rep.Purged = u.purge(ctx, now)

	log.Printf("[cleanup] sweep done found=%d succeeded=%d failed=%d purged=%d",
		rep.Found, rep.Succeeded, rep.Failed, rep.Purged)

	u.mailReport(ctx, rep)
	return rep, nil
}

// purge garbage-collects old processed entries. Best-effort.
func (u *CleanupSweepUsecase) purge(ctx context.Context, now time.Time) int {
	before := now.Add(-u.cfg.PurgeAfter)

	old, err := u.queueRepo.ListProcessedBefore(ctx, before, u.cfg.PurgeLimit)
	if err != nil {
		log.Printf("[cleanup] WARN: purge query failed: %v", err)
		return 0
	}
	if len(old) == 0 {
		return 0
	}

	ids := make([]string, 0, len(old))
	for _, e := range old {
		ids = append(ids, e.ID)
	}
	n, err := u.queueRepo.DeleteByIDs(ctx, ids)
	if err != nil {
		log.Printf("[cleanup] WARN: purge delete failed deleted=%d: %v", n, err)
	}
	return n
}

func (u *CleanupSweepUsecase) mailReport(ctx context.Context, rep SweepReport) {
	if u.mailer == nil || rep.Failed == 0 {
		return
	}
	if err := u.mailer.SendSweepReport(ctx, rep); err != nil {
		log.Printf("[cleanup] WARN: report mail failed: %v", err)
	}
}
