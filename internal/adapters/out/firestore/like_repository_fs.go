// internal/adapters/out/firestore/like_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	likedom "gallery/internal/domain/like"
)

var (
	ErrLikeRepoFSInvalid = errors.New("firestore: like repository invalid")
)

// LikeRepositoryFS implements usecase.LikeRepo using Firestore.
// Document id is the composite key "{userId}_{photoId}".
type LikeRepositoryFS struct {
	Client *firestore.Client
}

func NewLikeRepositoryFS(client *firestore.Client) *LikeRepositoryFS {
	return &LikeRepositoryFS{Client: client}
}

func (r *LikeRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("likes")
}

type likeDoc struct {
	UserID    string    `firestore:"userId"`
	PhotoID   string    `firestore:"photoId"`
	Timestamp time.Time `firestore:"timestamp"`
}

func (r *LikeRepositoryFS) Get(ctx context.Context, userID, photoID string) (likedom.Like, error) {
	if r == nil || r.Client == nil {
		return likedom.Like{}, ErrLikeRepoFSInvalid
	}
	id := likedom.DocID(userID, photoID)

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return likedom.Like{}, likedom.ErrNotFound
		}
		return likedom.Like{}, err
	}

	var d likeDoc
	if err := snap.DataTo(&d); err != nil {
		return likedom.Like{}, err
	}
	return toDomLike(d), nil
}

func (r *LikeRepositoryFS) Put(ctx context.Context, l likedom.Like) error {
	if r == nil || r.Client == nil {
		return ErrLikeRepoFSInvalid
	}
	doc := likeDoc{
		UserID:    strings.TrimSpace(l.UserID),
		PhotoID:   strings.TrimSpace(l.PhotoID),
		Timestamp: l.Timestamp.UTC(),
	}
	if doc.UserID == "" {
		return likedom.ErrInvalidUserID
	}
	if doc.PhotoID == "" {
		return likedom.ErrInvalidPhotoID
	}
	_, err := r.col().Doc(l.DocID()).Set(ctx, doc)
	return err
}

func (r *LikeRepositoryFS) Delete(ctx context.Context, userID, photoID string) error {
	if r == nil || r.Client == nil {
		return ErrLikeRepoFSInvalid
	}
	_, err := r.col().Doc(likedom.DocID(userID, photoID)).Delete(ctx)
	return err
}

// DeleteByPhotoID query-then-bulk-deletes all likes for the photo.
// Deletes are batched; it returns the count that made it into committed
// batches even when a later batch fails.
func (r *LikeRepositoryFS) DeleteByPhotoID(ctx context.Context, photoID string) (int, error) {
	if r == nil || r.Client == nil {
		return 0, ErrLikeRepoFSInvalid
	}
	photoID = strings.TrimSpace(photoID)
	if photoID == "" {
		return 0, likedom.ErrInvalidPhotoID
	}
	return deleteByQuery(ctx, r.Client, r.col().Where("photoId", "==", photoID))
}

func toDomLike(d likeDoc) likedom.Like {
	return likedom.Like{
		UserID:    strings.TrimSpace(d.UserID),
		PhotoID:   strings.TrimSpace(d.PhotoID),
		Timestamp: d.Timestamp.UTC(),
	}
}

// deleteByQuery deletes every document the query matches, committing in
// chunks of 400 (under the 500 writes-per-batch limit).
func deleteByQuery(ctx context.Context, client *firestore.Client, q firestore.Query) (int, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	batch := client.Batch()
	pending := 0
	deleted := 0

	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return deleted, err
		}
		batch.Delete(snap.Ref)
		pending++
		if pending%400 == 0 {
			if _, err := batch.Commit(ctx); err != nil {
				return deleted, fmt.Errorf("firestore: bulk delete commit: %w", err)
			}
			deleted += 400
			pending = 0
			batch = client.Batch()
		}
	}
	if pending > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return deleted, fmt.Errorf("firestore: bulk delete commit: %w", err)
		}
		deleted += pending
	}
	return deleted, nil
}
