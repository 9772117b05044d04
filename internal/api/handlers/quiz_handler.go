package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/quiz"
)

// QuizHandler はクイズ結果関連のハンドラーを管理する構造体です。
type QuizHandler struct {
	quizService *quiz.Service
}

// NewQuizHandler は新しいQuizHandlerインスタンスを作成します。
func NewQuizHandler(quizService *quiz.Service) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// PostResult はクイズ結果を保存するハンドラーです。
// POST /api/quiz/results
func (h *QuizHandler) PostResult(w http.ResponseWriter, r *http.Request) {
	var req models.QuizResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "無効なリクエストボディです", http.StatusBadRequest)
		return
	}

	result, err := h.quizService.SaveResult(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// GetResults は全クイズ結果を取得するハンドラーです。
// GET /api/quiz/results
func (h *QuizHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results := h.quizService.GetResults()
	if results == nil {
		results = []models.QuizResult{}
	}

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// GetPlayerStatus は指定したプレイヤーの挑戦状況を取得するハンドラーです。
// 「一人一回」の再挑戦ガードはクライアントがこの結果を見て行います。
// GET /api/quiz/results/{player}
func (h *QuizHandler) GetPlayerStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	player := vars["player"]
	if player == "" {
		http.Error(w, "playerが指定されていません", http.StatusBadRequest)
		return
	}

	completed := h.quizService.HasCompleted(player)

	var entry *models.QuizLeaderboardEntry
	for _, e := range h.quizService.Leaderboard() {
		if e.PlayerName == player {
			found := e
			entry = &found
			break
		}
	}

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"completed": completed,
		"stats":     entry, // 未挑戦の場合はnull
	})
}

// GetLeaderboard はクイズ順位表を取得するハンドラーです。
// GET /api/quiz/leaderboard
func (h *QuizHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaderboard := h.quizService.Leaderboard()
	if leaderboard == nil {
		leaderboard = []models.QuizLeaderboardEntry{}
	}

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"leaderboard": leaderboard,
	})
}
