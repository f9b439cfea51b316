// internal/domain/user/entity.go
package user

import (
	"errors"
	"strings"
	"time"
)

// User mirrors the users collection document:
// - email: string
// - name: string
// - bio?: string
// - uploadCount: number
// - createdAt: timestamp
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio,omitempty"`
	UploadCount int64     `json:"uploadCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Errors (single source)
var (
	ErrNotFound  = errors.New("user: not found")
	ErrInvalidID = errors.New("user: invalid id")
)

// DisplayName returns the profile name with a stable fallback.
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	return "User"
}
