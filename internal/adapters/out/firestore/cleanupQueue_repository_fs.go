// internal/adapters/out/firestore/cleanupQueue_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	cleanupdom "gallery/internal/domain/cleanup"
)

var (
	ErrCleanupQueueRepoFSInvalid = errors.New("firestore: cleanupQueue repository invalid")
)

// CleanupQueueRepositoryFS implements usecase.CleanupQueueRepo on the
// storageCleanupQueue collection.
//
// Write discipline: the deletion coordinator only appends; the sweeper only
// flips processed flags and purges aged processed entries. Nothing else
// writes here.
type CleanupQueueRepositoryFS struct {
	Client *firestore.Client
}

func NewCleanupQueueRepositoryFS(client *firestore.Client) *CleanupQueueRepositoryFS {
	return &CleanupQueueRepositoryFS{Client: client}
}

func (r *CleanupQueueRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("storageCleanupQueue")
}

type cleanupEntryDoc struct {
	PhotoID     string     `firestore:"photoId"`
	ImageURL    string     `firestore:"imageURL"`
	UserID      string     `firestore:"userId"`
	Timestamp   time.Time  `firestore:"timestamp"`
	Processed   bool       `firestore:"processed"`
	ProcessedAt *time.Time `firestore:"processedAt,omitempty"`
}

func (r *CleanupQueueRepositoryFS) Enqueue(ctx context.Context, e cleanupdom.Entry) (cleanupdom.Entry, error) {
	if r == nil || r.Client == nil {
		return cleanupdom.Entry{}, ErrCleanupQueueRepoFSInvalid
	}

	doc := cleanupEntryDoc{
		PhotoID:   strings.TrimSpace(e.PhotoID),
		ImageURL:  strings.TrimSpace(e.ImageURL),
		UserID:    strings.TrimSpace(e.UserID),
		Timestamp: e.EnqueuedAt.UTC(),
		Processed: false,
	}
	if doc.PhotoID == "" {
		return cleanupdom.Entry{}, cleanupdom.ErrInvalidPhotoID
	}
	if doc.ImageURL == "" {
		return cleanupdom.Entry{}, cleanupdom.ErrInvalidImageURL
	}
	if doc.UserID == "" {
		return cleanupdom.Entry{}, cleanupdom.ErrInvalidUserID
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now().UTC()
	}

	docRef := r.col().NewDoc()
	if _, err := docRef.Set(ctx, doc); err != nil {
		return cleanupdom.Entry{}, err
	}
	return toDomCleanupEntry(docRef.ID, doc), nil
}

// ListPending returns pending entries old enough to sweep, capped at limit.
func (r *CleanupQueueRepositoryFS) ListPending(ctx context.Context, before time.Time, limit int) ([]cleanupdom.Entry, error) {
	if r == nil || r.Client == nil {
		return nil, ErrCleanupQueueRepoFSInvalid
	}
	if limit <= 0 {
		return nil, errors.New("firestore: cleanupQueue list limit invalid")
	}

	q := r.col().
		Where("processed", "==", false).
		Where("timestamp", "<=", before.UTC()).
		Limit(limit)
	return r.list(ctx, q)
}

// MarkProcessed flips processed=true / processedAt=at, batched in one commit
// per 400 entries.
func (r *CleanupQueueRepositoryFS) MarkProcessed(ctx context.Context, ids []string, at time.Time) error {
	if r == nil || r.Client == nil {
		return ErrCleanupQueueRepoFSInvalid
	}
	if len(ids) == 0 {
		return nil
	}

	at = at.UTC()
	batch := r.Client.Batch()
	pending := 0

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		batch.Update(r.col().Doc(id), []firestore.Update{
			{Path: "processed", Value: true},
			{Path: "processedAt", Value: at},
		})
		pending++
		if pending%400 == 0 {
			if _, err := batch.Commit(ctx); err != nil {
				return fmt.Errorf("firestore: mark processed commit: %w", err)
			}
			batch = r.Client.Batch()
			pending = 0
		}
	}
	if pending > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("firestore: mark processed commit: %w", err)
		}
	}
	return nil
}

func (r *CleanupQueueRepositoryFS) ListProcessedBefore(ctx context.Context, before time.Time, limit int) ([]cleanupdom.Entry, error) {
	if r == nil || r.Client == nil {
		return nil, ErrCleanupQueueRepoFSInvalid
	}
	if limit <= 0 {
		return nil, errors.New("firestore: cleanupQueue list limit invalid")
	}

	q := r.col().
		Where("processed", "==", true).
		Where("processedAt", "<=", before.UTC()).
		Limit(limit)
	return r.list(ctx, q)
}

func (r *CleanupQueueRepositoryFS) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if r == nil || r.Client == nil {
		return 0, ErrCleanupQueueRepoFSInvalid
	}
	if len(ids) == 0 {
		return 0, nil
	}

	batch := r.Client.Batch()
	pending := 0
	deleted := 0

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		batch.Delete(r.col().Doc(id))
		pending++
		if pending%400 == 0 {
			if _, err := batch.Commit(ctx); err != nil {
				return deleted, fmt.Errorf("firestore: queue purge commit: %w", err)
			}
			deleted += 400
			pending = 0
			batch = r.Client.Batch()
		}
	}
	if pending > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return deleted, fmt.Errorf("firestore: queue purge commit: %w", err)
		}
		deleted += pending
	}
	return deleted, nil
}

func (r *CleanupQueueRepositoryFS) list(ctx context.Context, q firestore.Query) ([]cleanupdom.Entry, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var out []cleanupdom.Entry
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var d cleanupEntryDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, toDomCleanupEntry(snap.Ref.ID, d))
	}
	return out, nil
}

func toDomCleanupEntry(id string, d cleanupEntryDoc) cleanupdom.Entry {
	e := cleanupdom.Entry{
		ID:         strings.TrimSpace(id),
		PhotoID:    strings.TrimSpace(d.PhotoID),
		ImageURL:   strings.TrimSpace(d.ImageURL),
		UserID:     strings.TrimSpace(d.UserID),
		EnqueuedAt: d.Timestamp.UTC(),
		Processed:  d.Processed,
	}
	if d.ProcessedAt != nil {
		t := d.ProcessedAt.UTC()
		e.ProcessedAt = &t
	}
	return e
}
