// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	usecase "gallery/internal/application/usecase"
)

// FirebaseAuthClient は firebase auth クライアントのエイリアス。
type FirebaseAuthClient = fbauth.Client

// AuthMiddleware は
//
//   - Authorization: Bearer <ID_TOKEN>
//
// を検証し、認証済み uid を context に詰めて次のハンドラへ渡す。
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// 依存チェック
		if m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		// Firebase ID トークン検証
		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ctx := usecase.WithUserID(r.Context(), uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
