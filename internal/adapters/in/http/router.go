// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"gallery/internal/adapters/in/http/handlers"
	"gallery/internal/adapters/in/http/middleware"
	usecase "gallery/internal/application/usecase"
)

// RouterDeps collects all usecases (and other dependencies) injected from main.go.
type RouterDeps struct {
	FirebaseAuth *middleware.FirebaseAuthClient

	PhotoUC       *usecase.PhotoUsecase
	PhotoUploadUC *usecase.PhotoUploadUsecase
	PhotoDeleteUC *usecase.PhotoDeleteUsecase
	LikeUC        *usecase.LikeUsecase
	SavedPhotoUC  *usecase.SavedPhotoUsecase
	CleanupUC     *usecase.CleanupSweepUsecase

	// Manual-sweep trigger token (nil disables the token gate).
	CleanupTriggerTokens handlers.TriggerTokenSource
}

// NewRouter wires all routes. Every route runs behind Recover; user-facing
// routes additionally run behind the Firebase auth middleware.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	auth := &middleware.AuthMiddleware{FirebaseAuth: deps.FirebaseAuth}

	photoHandler := handlers.NewPhotoHandler(
		deps.PhotoUC,
		deps.PhotoUploadUC,
		deps.PhotoDeleteUC,
		deps.LikeUC,
		deps.SavedPhotoUC,
	)
	mux.Handle("/photos", auth.Handler(photoHandler))
	mux.Handle("/photos/", auth.Handler(photoHandler))

	savedHandler := handlers.NewSavedPhotoHandler(deps.SavedPhotoUC)
	mux.Handle("/saved-photos", auth.Handler(savedHandler))

	// Privileged trigger: gated by shared token, not by user auth.
	cleanupHandler := handlers.NewCleanupHandler(deps.CleanupUC, deps.CleanupTriggerTokens)
	mux.Handle("/internal/cleanup/run", cleanupHandler)

	return middleware.Recover(mux)
}
