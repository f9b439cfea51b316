// internal/application/usecase/context.go
package usecase

import (
	"context"
	"strings"
)

// usecase 層で使う context key
type ctxKey string

const ctxKeyUserID ctxKey = "userId"

// ミドルウェアなど外側から認証済み userId を注入するためのヘルパー
func WithUserID(ctx context.Context, userID string) context.Context {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyUserID, uid)
}

// usecase 内部で userId を取り出すためのヘルパー
func UserIDFromContext(ctx context.Context) string {
	v := ctx.Value(ctxKeyUserID)
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
