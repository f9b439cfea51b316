// internal/adapters/out/firestore/savedPhoto_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	saveddom "gallery/internal/domain/savedPhoto"
)

var (
	ErrSavedPhotoRepoFSInvalid = errors.New("firestore: savedPhoto repository invalid")
)

// SavedPhotoRepositoryFS implements usecase.SavedPhotoRepo using Firestore.
// Document id is the composite key "{userId}_{photoId}".
type SavedPhotoRepositoryFS struct {
	Client *firestore.Client
}

func NewSavedPhotoRepositoryFS(client *firestore.Client) *SavedPhotoRepositoryFS {
	return &SavedPhotoRepositoryFS{Client: client}
}

func (r *SavedPhotoRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("savedPhotos")
}

type savedPhotoDoc struct {
	UserID    string    `firestore:"userId"`
	PhotoID   string    `firestore:"photoId"`
	Timestamp time.Time `firestore:"timestamp"`
}

func (r *SavedPhotoRepositoryFS) Get(ctx context.Context, userID, photoID string) (saveddom.SavedPhoto, error) {
	if r == nil || r.Client == nil {
		return saveddom.SavedPhoto{}, ErrSavedPhotoRepoFSInvalid
	}

	snap, err := r.col().Doc(saveddom.DocID(userID, photoID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return saveddom.SavedPhoto{}, saveddom.ErrNotFound
		}
		return saveddom.SavedPhoto{}, err
	}

	var d savedPhotoDoc
	if err := snap.DataTo(&d); err != nil {
		return saveddom.SavedPhoto{}, err
	}
	return toDomSavedPhoto(d), nil
}

func (r *SavedPhotoRepositoryFS) Put(ctx context.Context, s saveddom.SavedPhoto) error {
	if r == nil || r.Client == nil {
		return ErrSavedPhotoRepoFSInvalid
	}
	doc := savedPhotoDoc{
		UserID:    strings.TrimSpace(s.UserID),
		PhotoID:   strings.TrimSpace(s.PhotoID),
		Timestamp: s.Timestamp.UTC(),
	}
	if doc.UserID == "" {
		return saveddom.ErrInvalidUserID
	}
	if doc.PhotoID == "" {
		return saveddom.ErrInvalidPhotoID
	}
	_, err := r.col().Doc(s.DocID()).Set(ctx, doc)
	return err
}

func (r *SavedPhotoRepositoryFS) Delete(ctx context.Context, userID, photoID string) error {
	if r == nil || r.Client == nil {
		return ErrSavedPhotoRepoFSInvalid
	}
	_, err := r.col().Doc(saveddom.DocID(userID, photoID)).Delete(ctx)
	return err
}

func (r *SavedPhotoRepositoryFS) ListByUserID(ctx context.Context, userID string) ([]saveddom.SavedPhoto, error) {
	if r == nil || r.Client == nil {
		return nil, ErrSavedPhotoRepoFSInvalid
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, saveddom.ErrInvalidUserID
	}
	return r.list(ctx, r.col().Where("userId", "==", userID).OrderBy("timestamp", firestore.Desc))
}

func (r *SavedPhotoRepositoryFS) DeleteByPhotoID(ctx context.Context, photoID string) (int, error) {
	if r == nil || r.Client == nil {
		return 0, ErrSavedPhotoRepoFSInvalid
	}
	photoID = strings.TrimSpace(photoID)
	if photoID == "" {
		return 0, saveddom.ErrInvalidPhotoID
	}
	return deleteByQuery(ctx, r.Client, r.col().Where("photoId", "==", photoID))
}

func (r *SavedPhotoRepositoryFS) list(ctx context.Context, q firestore.Query) ([]saveddom.SavedPhoto, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var out []saveddom.SavedPhoto
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var d savedPhotoDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, toDomSavedPhoto(d))
	}
	return out, nil
}

func toDomSavedPhoto(d savedPhotoDoc) saveddom.SavedPhoto {
	return saveddom.SavedPhoto{
		UserID:    strings.TrimSpace(d.UserID),
		PhotoID:   strings.TrimSpace(d.PhotoID),
		Timestamp: d.Timestamp.UTC(),
	}
}
