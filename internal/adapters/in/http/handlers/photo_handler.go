// internal/adapters/in/http/handlers/photo_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	usecase "gallery/internal/application/usecase"
	photodom "gallery/internal/domain/photo"
)

// 10MB: matches the client-side compression ceiling.
const maxImageBytes = 10 << 20

// PhotoHandler は /photos 関連のエンドポイントを担当します。
type PhotoHandler struct {
	photoUC  *usecase.PhotoUsecase
	uploadUC *usecase.PhotoUploadUsecase
	deleteUC *usecase.PhotoDeleteUsecase
	likeUC   *usecase.LikeUsecase
	savedUC  *usecase.SavedPhotoUsecase
}

func NewPhotoHandler(
	photoUC *usecase.PhotoUsecase,
	uploadUC *usecase.PhotoUploadUsecase,
	deleteUC *usecase.PhotoDeleteUsecase,
	likeUC *usecase.LikeUsecase,
	savedUC *usecase.SavedPhotoUsecase,
) http.Handler {
	return &PhotoHandler{
		photoUC:  photoUC,
		uploadUC: uploadUC,
		deleteUC: deleteUC,
		likeUC:   likeUC,
		savedUC:  savedUC,
	}
}

// ServeHTTP はHTTPルーティングの入口です。
func (h *PhotoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/photos")
	path = strings.Trim(path, "/")
	parts := []string{}
	if path != "" {
		parts = strings.Split(path, "/")
	}

	switch {
	// GET /photos
	case r.Method == http.MethodGet && len(parts) == 0:
		h.list(w, r)

	// POST /photos
	case r.Method == http.MethodPost && len(parts) == 0:
		h.post(w, r)

	// GET /photos/{id}
	case r.Method == http.MethodGet && len(parts) == 1:
		h.get(w, r, parts[0])

	// DELETE /photos/{id}
	case r.Method == http.MethodDelete && len(parts) == 1:
		h.delete(w, r, parts[0])

	// POST /photos/{id}/visit
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "visit":
		h.visit(w, r, parts[0])

	// POST /photos/{id}/like
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "like":
		h.toggleLike(w, r, parts[0])

	// PUT /photos/{id}/save, DELETE /photos/{id}/save
	case len(parts) == 2 && parts[1] == "save":
		h.save(w, r, parts[0])

	default:
		writeError(w, http.StatusNotFound, "not_found")
	}
}

// GET /photos?limit=10&cursor=<docId>
// GET /photos?userId=<uid>  (a user's own gallery, uncached)
func (h *PhotoHandler) list(w http.ResponseWriter, r *http.Request) {
	if uid := strings.TrimSpace(r.URL.Query().Get("userId")); uid != "" {
		photos, err := h.photoUC.ListByUser(r.Context(), uid)
		if err != nil {
			writePhotoErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"photos": photos})
		return
	}

	limit := parseIntDefault(r.URL.Query().Get("limit"), 10)
	cursor := r.URL.Query().Get("cursor")

	photos, next, err := h.photoUC.ListPage(r.Context(), limit, cursor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"photos": photos,
		"cursor": next,
	})
}

// photoDetail is the GET /photos/{id} payload: the photo plus the calling
// user's own like/bookmark state.
type photoDetail struct {
	photodom.Photo
	Liked bool `json:"liked"`
	Saved bool `json:"saved"`
}

// GET /photos/{id}
func (h *PhotoHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	p, err := h.photoUC.GetByID(ctx, id)
	if err != nil {
		writePhotoErr(w, err)
		return
	}

	out := photoDetail{Photo: p}

	// The viewer's relationship state is decoration. A failed lookup is
	// logged and rendered as false rather than failing the read.
	uid := usecase.UserIDFromContext(ctx)
	if uid != "" {
		if h.likeUC != nil {
			liked, err := h.likeUC.IsLiked(ctx, uid, p.ID)
			if err != nil {
				log.Printf("[photos] WARN: like state lookup failed photoId=%s uid=%s: %v", p.ID, uid, err)
			}
			out.Liked = liked
		}
		if h.savedUC != nil {
			saved, err := h.savedUC.IsSaved(ctx, uid, p.ID)
			if err != nil {
				log.Printf("[photos] WARN: saved state lookup failed photoId=%s uid=%s: %v", p.ID, uid, err)
			}
			out.Saved = saved
		}
	}

	writeJSON(w, http.StatusOK, out)
}

// POST /photos
// multipart/form-data: image (file) + meta (json: title/description/location)
func (h *PhotoHandler) post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := usecase.UserIDFromContext(ctx)

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var in usecase.CreatePhotoInput
	if meta := r.FormValue("meta"); meta != "" {
		if err := json.Unmarshal([]byte(meta), &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid meta json")
			return
		}
	}

	file, hdr, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read image")
		return
	}
	if len(data) > maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	p, err := h.uploadUC.Upload(ctx, uid, in, data, hdr.Header.Get("Content-Type"))
	if err != nil {
		writePhotoErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// DELETE /photos/{id}
func (h *PhotoHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	uid := usecase.UserIDFromContext(ctx)

	if err := h.deleteUC.Delete(ctx, id, uid); err != nil {
		writePhotoErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /photos/{id}/visit
func (h *PhotoHandler) visit(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.photoUC.AddVisit(r.Context(), id); err != nil {
		writePhotoErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /photos/{id}/like
func (h *PhotoHandler) toggleLike(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	uid := usecase.UserIDFromContext(ctx)

	liked, err := h.likeUC.Toggle(ctx, uid, id)
	if err != nil {
		writePhotoErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// PUT/DELETE /photos/{id}/save
func (h *PhotoHandler) save(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	uid := usecase.UserIDFromContext(ctx)

	switch r.Method {
	case http.MethodPut:
		if err := h.savedUC.Save(ctx, uid, id); err != nil {
			writePhotoErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
	case http.MethodDelete:
		if err := h.savedUC.Unsave(ctx, uid, id); err != nil {
			writePhotoErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"saved": false})
	default:
		methodNotAllowed(w)
	}
}

func writePhotoErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrPhotoNotFound), errors.Is(err, photodom.ErrNotFound):
		writeError(w, http.StatusNotFound, "photo not found or already deleted")
	case errors.Is(err, usecase.ErrPhotoForbidden):
		writeError(w, http.StatusForbidden, "you can only delete your own photos")
	case errors.Is(err, usecase.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "authentication required, please sign in again")
	case errors.Is(err, usecase.ErrPhotoIDEmpty), errors.Is(err, usecase.ErrUploadImageEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
