package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/voting"
)

// VoteHandler はパフォーマンスと投票関連のハンドラーを管理する構造体です。
type VoteHandler struct {
	votingService *voting.Service
}

// NewVoteHandler は新しいVoteHandlerインスタンスを作成します。
func NewVoteHandler(votingService *voting.Service) *VoteHandler {
	return &VoteHandler{votingService: votingService}
}

// GetLeaderboard はパフォーマンスを票数の多い順で取得するハンドラーです。
// GET /api/performances
func (h *VoteHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaderboard := h.votingService.GetLeaderboard()
	if leaderboard == nil {
		leaderboard = []models.Performance{}
	}

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"performances": leaderboard,
	})
}

// AddPerformance は新しいパフォーマンスを登録するハンドラーです。
// POST /api/performances
func (h *VoteHandler) AddPerformance(w http.ResponseWriter, r *http.Request) {
	var req models.PerformanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "無効なリクエストボディです", http.StatusBadRequest)
		return
	}

	performance, err := h.votingService.AddPerformance(req.Performer, req.Task, req.Category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"performance": performance,
	})
}

// Vote は投票を記録するハンドラーです。同じ投票者の2票目は置き換えになります。
// POST /api/votes
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "無効なリクエストボディです", http.StatusBadRequest)
		return
	}

	ok, err := h.votingService.Vote(req.PerformanceID, req.VoterName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": ok,
	})
}
