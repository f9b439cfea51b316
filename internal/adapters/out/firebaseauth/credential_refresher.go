// internal/adapters/out/firebaseauth/credential_refresher.go
package firebaseauth

import (
	"context"
	"errors"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

var ErrRefresherInvalid = errors.New("firebaseauth: credential refresher invalid")

// CredentialRefresher implements usecase.CredentialRefresher with the
// Firebase Admin SDK. Refresh confirms the account still exists and is not
// disabled; a revoked/deleted account fails here instead of half-way
// through a cascade.
type CredentialRefresher struct {
	Auth *fbauth.Client
}

func NewCredentialRefresher(auth *fbauth.Client) *CredentialRefresher {
	return &CredentialRefresher{Auth: auth}
}

func (r *CredentialRefresher) Refresh(ctx context.Context, userID string) error {
	if r == nil || r.Auth == nil {
		return ErrRefresherInvalid
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("firebaseauth: uid is empty")
	}

	rec, err := r.Auth.GetUser(ctx, uid)
	if err != nil {
		return err
	}
	if rec.Disabled {
		return errors.New("firebaseauth: account disabled")
	}
	return nil
}
