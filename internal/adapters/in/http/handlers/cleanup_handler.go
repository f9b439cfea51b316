// internal/adapters/in/http/handlers/cleanup_handler.go
package handlers

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	usecase "gallery/internal/application/usecase"
)

// TriggerTokenSource resolves the shared token gating the manual sweep.
type TriggerTokenSource interface {
	Token(ctx context.Context) (string, error)
}

// CleanupHandler は手動スイープ用エンドポイントを担当します。
//
// POST /internal/cleanup/run
//
// Callers must present X-Cleanup-Token matching the Secret Manager token
// (Cloud Scheduler / ops scripts). Without a configured token source the
// endpoint refuses; it never runs unauthenticated.
type CleanupHandler struct {
	uc     *usecase.CleanupSweepUsecase
	tokens TriggerTokenSource
}

func NewCleanupHandler(uc *usecase.CleanupSweepUsecase, tokens TriggerTokenSource) http.Handler {
	return &CleanupHandler{uc: uc, tokens: tokens}
}

func (h *CleanupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if h.uc == nil {
		writeError(w, http.StatusServiceUnavailable, "cleanup not configured")
		return
	}

	ctx := r.Context()

	// No token source means the gate cannot be verified; refuse rather
	// than run the sweep for an anonymous caller.
	if h.tokens == nil {
		writeError(w, http.StatusServiceUnavailable, "cleanup trigger not configured")
		return
	}

	want, err := h.tokens.Token(ctx)
	if err != nil {
		log.Printf("[cleanup] WARN: trigger token unavailable: %v", err)
		writeError(w, http.StatusServiceUnavailable, "cleanup trigger unavailable")
		return
	}
	got := strings.TrimSpace(r.Header.Get("X-Cleanup-Token"))
	if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	rep, err := h.uc.RunManualSweep(ctx, usecase.UserIDFromContext(ctx))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
