package handlers

import (
	"log"
	"net/http"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/quiz"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/voting"
)

// AdminHandler はイベント間のリセットなど管理者専用の操作を処理します。
type AdminHandler struct {
	votingService *voting.Service
	quizService   *quiz.Service
}

// NewAdminHandler は新しいAdminHandlerインスタンスを作成します。
func NewAdminHandler(votingService *voting.Service, quizService *quiz.Service) *AdminHandler {
	return &AdminHandler{
		votingService: votingService,
		quizService:   quizService,
	}
}

// Reset は投票とクイズの全データを消去するハンドラーです。
// リハーサルと本番の間で呼ぶことを想定しています。
// POST /api/admin/reset
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminIDFromContext(r.Context())
	if !ok {
		http.Error(w, "未認証: 管理者IDが見つかりません", http.StatusUnauthorized)
		return
	}

	h.votingService.ClearAll()
	h.quizService.ClearAll()

	log.Printf("管理者 %s が全データをリセットしました", adminID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "投票とクイズのデータをリセットしました",
	})
}
