// internal/adapters/out/firestore/user_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	userdom "gallery/internal/domain/user"
)

var (
	ErrUserRepoFSInvalid = errors.New("firestore: user repository invalid")
)

// UserRepositoryFS implements user.Repository (read-only) using Firestore.
//
// users コレクションの DocID は Firebase Auth UID と一致する。
type UserRepositoryFS struct {
	Client *firestore.Client
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

type userDoc struct {
	Email       string    `firestore:"email,omitempty"`
	Name        string    `firestore:"name,omitempty"`
	Bio         string    `firestore:"bio,omitempty"`
	UploadCount int64     `firestore:"uploadCount"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func (r *UserRepositoryFS) GetByID(ctx context.Context, id string) (userdom.User, error) {
	if r == nil || r.Client == nil {
		return userdom.User{}, ErrUserRepoFSInvalid
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return userdom.User{}, userdom.ErrInvalidID
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return userdom.User{}, userdom.ErrNotFound
		}
		return userdom.User{}, err
	}

	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return userdom.User{}, err
	}

	return userdom.User{
		ID:          snap.Ref.ID,
		Email:       strings.TrimSpace(d.Email),
		Name:        strings.TrimSpace(d.Name),
		Bio:         strings.TrimSpace(d.Bio),
		UploadCount: d.UploadCount,
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}
