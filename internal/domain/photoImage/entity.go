// internal/domain/photoImage/entity.go
package photoImage

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrInvalidUserID   = errors.New("photoImage: invalid userId")
	ErrInvalidFileName = errors.New("photoImage: invalid fileName")
)

// 公開URLのベース（GCS の一般的な形式）
const PublicBaseURL = "https://storage.googleapis.com/"

// Storage policy (single bucket):
// - objectPath: images/{userId}/{fileName}
//
// NOTE:
// - This package only builds paths and decodes locators; it never touches
//   the store itself.

// BuildObjectPath returns "images/{userId}/{fileName}".
func BuildObjectPath(userID, fileName string) (string, error) {
	uid := strings.TrimSpace(userID)
	fn := sanitizeFileName(fileName)
	if uid == "" {
		return "", ErrInvalidUserID
	}
	if fn == "" {
		return "", ErrInvalidFileName
	}
	return "images/" + uid + "/" + fn, nil
}

// PublicURL returns https://storage.googleapis.com/<bucket>/<objectPath>.
func PublicURL(bucket, objectPath string) string {
	b := strings.TrimSpace(bucket)
	o := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if b == "" || o == "" {
		return ""
	}
	return PublicBaseURL + b + "/" + o
}

// ParseObjectURL decodes a stored image locator into (bucket, objectPath).
//
// This must stay pure: the sweeper resolves delete targets from the captured
// locator alone, because the photo document is already gone by sweep time.
//
// 対応例:
//   - https://firebasestorage.googleapis.com/v0/b/<bucket>/o/<urlencoded path>?alt=media&...
//   - https://storage.googleapis.com/<bucket>/<object>
//   - https://storage.cloud.google.com/<bucket>/<object>
func ParseObjectURL(u string) (string, string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return "", "", false
	}

	host := strings.ToLower(parsed.Host)

	// Firebase Storage download URL:
	// /v0/b/<bucket>/o/<urlencoded path>
	if host == "firebasestorage.googleapis.com" {
		p := strings.TrimPrefix(parsed.EscapedPath(), "/v0/b/")
		if p == parsed.EscapedPath() {
			return "", "", false
		}
		parts := strings.SplitN(p, "/o/", 2)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", "", false
		}
		objectPath, err := url.PathUnescape(parts[1])
		if err != nil || objectPath == "" {
			return "", "", false
		}
		return parts[0], objectPath, true
	}

	// Plain GCS URL: /<bucket>/<object>
	if host == "storage.googleapis.com" || host == "storage.cloud.google.com" {
		p := strings.TrimLeft(parsed.EscapedPath(), "/")
		if p == "" {
			return "", "", false
		}
		parts := strings.SplitN(p, "/", 2)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", "", false
		}
		objectPath, err := url.PathUnescape(parts[1])
		if err != nil {
			return "", "", false
		}
		return parts[0], objectPath, true
	}

	return "", "", false
}

// sanitizeFileName removes any path fragments and trims.
func sanitizeFileName(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "\\", "/")
	if i := strings.LastIndex(v, "/"); i >= 0 {
		v = v[i+1:]
	}
	v = strings.TrimSpace(v)
	if v == "" || v == "." || v == ".." {
		return ""
	}
	return v
}
