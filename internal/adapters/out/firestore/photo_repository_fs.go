// internal/adapters/out/firestore/photo_repository_fs.go
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

	uc "gallery/internal/application/usecase"
	photodom "gallery/internal/domain/photo"
)

var (
	ErrPhotoRepoFSInvalid = errors.New("firestore: photo repository invalid")
)

// PhotoRepositoryFS implements usecase.PhotoRepo using Firestore.
type PhotoRepositoryFS struct {
	Client *firestore.Client
}

func NewPhotoRepositoryFS(client *firestore.Client) *PhotoRepositoryFS {
	return &PhotoRepositoryFS{Client: client}
}

func (r *PhotoRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("photos")
}

// ----------
// Firestore DTOs
// ----------

type geoPointDoc struct {
	Lat float64 `firestore:"lat"`
	Lng float64 `firestore:"lng"`
}

type photoDoc struct {
	UserID      string       `firestore:"userId"`
	ImageURL    string       `firestore:"imageURL"`
	Title       string       `firestore:"title,omitempty"`
	Description string       `firestore:"description,omitempty"`
	Visits      int64        `firestore:"visits"`
	Likes       int64        `firestore:"likes"`
	AuthorName  string       `firestore:"authorName,omitempty"`
	Location    *geoPointDoc `firestore:"location,omitempty"`
	Timestamp   time.Time    `firestore:"timestamp"`
}

// ----------
// uc.PhotoRepo
// ----------

func (r *PhotoRepositoryFS) GetByID(ctx context.Context, id string) (photodom.Photo, error) {
	if r == nil || r.Client == nil {
		return photodom.Photo{}, ErrPhotoRepoFSInvalid
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return photodom.Photo{}, uc.ErrPhotoIDEmpty
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return photodom.Photo{}, photodom.ErrNotFound
		}
		return photodom.Photo{}, err
	}

	var d photoDoc
	if err := snap.DataTo(&d); err != nil {
		return photodom.Photo{}, err
	}
	return toDomPhoto(snap.Ref.ID, d), nil
}

func (r *PhotoRepositoryFS) Create(ctx context.Context, p photodom.Photo) (photodom.Photo, error) {
	if r == nil || r.Client == nil {
		return photodom.Photo{}, ErrPhotoRepoFSInvalid
	}

	userID := strings.TrimSpace(p.UserID)
	imageURL := strings.TrimSpace(p.ImageURL)
	if userID == "" {
		return photodom.Photo{}, photodom.ErrInvalidUserID
	}
	if imageURL == "" {
		return photodom.Photo{}, photodom.ErrInvalidImageURL
	}

	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	doc := photoDoc{
		UserID:      userID,
		ImageURL:    imageURL,
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		Visits:      p.Visits,
		Likes:       p.Likes,
		AuthorName:  strings.TrimSpace(p.AuthorName),
		Location:    toDocGeoPoint(p.Location),
		Timestamp:   ts.UTC(),
	}

	// ID が空なら採番
	var docRef *firestore.DocumentRef
	if strings.TrimSpace(p.ID) == "" {
		docRef = r.col().NewDoc()
	} else {
		docRef = r.col().Doc(strings.TrimSpace(p.ID))
	}

	if _, err := docRef.Set(ctx, doc); err != nil {
		return photodom.Photo{}, err
	}
	return toDomPhoto(docRef.ID, doc), nil
}

func (r *PhotoRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return ErrPhotoRepoFSInvalid
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return uc.ErrPhotoIDEmpty
	}
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// ListPage returns photos ordered by timestamp desc with document-id cursor.
func (r *PhotoRepositoryFS) ListPage(ctx context.Context, limit int, cursor string) ([]photodom.Photo, string, error) {
	if r == nil || r.Client == nil {
		return nil, "", ErrPhotoRepoFSInvalid
	}
	if limit <= 0 {
		return nil, "", uc.ErrPhotoListLimitInvalid
	}

	q := r.col().OrderBy("timestamp", firestore.Desc).Limit(limit)

	cursor = strings.TrimSpace(cursor)
	if cursor != "" {
		snap, err := r.col().Doc(cursor).Get(ctx)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return nil, "", err
			}
			// Cursor document deleted meanwhile: restart from the top.
		} else {
			q = q.StartAfter(snap)
		}
	}

	it := q.Documents(ctx)
	defer it.Stop()

	var out []photodom.Photo
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, "", err
		}
		var d photoDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, "", err
		}
		out = append(out, toDomPhoto(snap.Ref.ID, d))
	}

	next := ""
	if len(out) == limit {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

// ListByUserID returns the user's photos, newest first.
func (r *PhotoRepositoryFS) ListByUserID(ctx context.Context, userID string) ([]photodom.Photo, error) {
	if r == nil || r.Client == nil {
		return nil, ErrPhotoRepoFSInvalid
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, photodom.ErrInvalidUserID
	}

	q := r.col().
		Where("userId", "==", userID).
		OrderBy("timestamp", firestore.Desc)

	it := q.Documents(ctx)
	defer it.Stop()

	var out []photodom.Photo
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var d photoDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, toDomPhoto(snap.Ref.ID, d))
	}
	return out, nil
}

func (r *PhotoRepositoryFS) IncrementVisits(ctx context.Context, id string, delta int64) error {
	return r.increment(ctx, id, "visits", delta)
}

func (r *PhotoRepositoryFS) IncrementLikes(ctx context.Context, id string, delta int64) error {
	return r.increment(ctx, id, "likes", delta)
}

func (r *PhotoRepositoryFS) increment(ctx context.Context, id, field string, delta int64) error {
	if r == nil || r.Client == nil {
		return ErrPhotoRepoFSInvalid
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return uc.ErrPhotoIDEmpty
	}
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.Increment(delta)},
	})
	if status.Code(err) == codes.NotFound {
		return photodom.ErrNotFound
	}
	return err
}

// ----------
// mapping helpers
// ----------

func toDocGeoPoint(src *photodom.GeoPoint) *geoPointDoc {
	if src == nil {
		return nil
	}
	return &geoPointDoc{Lat: src.Lat, Lng: src.Lng}
}

func toDomGeoPoint(src *geoPointDoc) *photodom.GeoPoint {
	if src == nil {
		return nil
	}
	return &photodom.GeoPoint{Lat: src.Lat, Lng: src.Lng}
}

func toDomPhoto(id string, d photoDoc) photodom.Photo {
	return photodom.Photo{
		ID:          strings.TrimSpace(id),
		UserID:      strings.TrimSpace(d.UserID),
		ImageURL:    strings.TrimSpace(d.ImageURL),
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Visits:      d.Visits,
		Likes:       d.Likes,
		AuthorName:  strings.TrimSpace(d.AuthorName),
		Location:    toDomGeoPoint(d.Location),
		Timestamp:   d.Timestamp.UTC(),
	}
}
