package handlers

import (
	"net/http"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/quiz"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/ranking"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/voting"
)

// LeaderboardHandler はクイズと投票を統合した順位表のハンドラーを管理する構造体です。
type LeaderboardHandler struct {
	quizService   *quiz.Service
	votingService *voting.Service
}

// NewLeaderboardHandler は新しいLeaderboardHandlerインスタンスを作成します。
func NewLeaderboardHandler(quizService *quiz.Service, votingService *voting.Service) *LeaderboardHandler {
	return &LeaderboardHandler{
		quizService:   quizService,
		votingService: votingService,
	}
}

// GetUnifiedLeaderboard は統合順位表を取得するハンドラーです。
// GET /api/leaderboard
func (h *LeaderboardHandler) GetUnifiedLeaderboard(w http.ResponseWriter, r *http.Request) {
	quizResults := h.quizService.GetResults()
	performances, ballots := h.votingService.Data()

	leaderboard := ranking.ComputeLeaderboard(quizResults, performances, ballots)
	if leaderboard == nil {
		leaderboard = []models.UnifiedLeaderboardEntry{}
	}

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"leaderboard": leaderboard,
	})
}

// GetGlobalStats はパーティー全体の統計を取得するハンドラーです。
// GET /api/leaderboard/stats
func (h *LeaderboardHandler) GetGlobalStats(w http.ResponseWriter, r *http.Request) {
	quizResults := h.quizService.GetResults()
	performances, ballots := h.votingService.Data()

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   ranking.ComputeGlobalStats(quizResults, performances, ballots),
	})
}
