package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/access"
)

// SettingsHandler はアクセス制御設定のハンドラーを管理する構造体です。
type SettingsHandler struct {
	accessService *access.Service
}

// NewSettingsHandler は新しいSettingsHandlerインスタンスを作成します。
func NewSettingsHandler(accessService *access.Service) *SettingsHandler {
	return &SettingsHandler{accessService: accessService}
}

// GetSettings は現在の機能トグルとポーリング間隔を取得するハンドラーです。
// GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	response := models.SettingsResponse{
		Settings:      h.accessService.GetSettings(),
		PollIntervals: h.accessService.PollIntervals(),
	}

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"settings":       response.Settings,
		"poll_intervals": response.PollIntervals,
	})
}

// ToggleFeature は機能の有効/無効を切り替えるハンドラーです（管理者用）。
// POST /api/admin/settings/toggle
func (h *SettingsHandler) ToggleFeature(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminIDFromContext(r.Context())
	if !ok {
		http.Error(w, "未認証: 管理者IDが見つかりません", http.StatusUnauthorized)
		return
	}

	var req models.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "無効なリクエストボディです", http.StatusBadRequest)
		return
	}

	settings, err := h.accessService.Toggle(req.Feature)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("管理者 %s が機能 %s を切り替えました", adminID, req.Feature)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"settings": settings,
	})
}
