// internal/adapters/in/http/handlers/savedPhoto_handler.go
package handlers

import (
	"net/http"

	usecase "gallery/internal/application/usecase"
)

// SavedPhotoHandler は /saved-photos を担当します。
type SavedPhotoHandler struct {
	uc *usecase.SavedPhotoUsecase
}

func NewSavedPhotoHandler(uc *usecase.SavedPhotoUsecase) http.Handler {
	return &SavedPhotoHandler{uc: uc}
}

func (h *SavedPhotoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	ctx := r.Context()
	uid := usecase.UserIDFromContext(ctx)

	saved, err := h.uc.ListByUser(ctx, uid)
	if err != nil {
		writePhotoErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"savedPhotos": saved})
}
