package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// UserHandler はユーザー関連のハンドラーを管理する構造体です。
type UserHandler struct {
	userRepo database.UserRepository
}

// NewUserHandler は新しいUserHandlerインスタンスを作成します。
func NewUserHandler(userRepo database.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// GetUsers は全ユーザーを取得するハンドラーです。
// GET /api/users
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.GetUsers()
	if err != nil {
		log.Printf("ユーザー取得エラー: %v", err)
		http.Error(w, "ユーザー取得に失敗しました", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

// RegisterUser は新しいユーザーを登録するハンドラーです。
// POST /api/users
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "無効なリクエストボディです", http.StatusBadRequest)
		return
	}

	// バリデーション
	if req.Username == "" {
		http.Error(w, "usernameは必須です", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.CreateUser(&req, r.UserAgent(), clientIP(r))
	if err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			http.Error(w, "そのユーザー名は既に使われています", http.StatusConflict)
			return
		}
		log.Printf("ユーザー登録エラー: %v", err)
		http.Error(w, "ユーザー登録に失敗しました", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Login は表示名ログインを処理するハンドラーです。
// POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "無効なリクエストボディです", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		http.Error(w, "usernameは必須です", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.TouchLastActive(req.Username)
	if err != nil {
		log.Printf("ログインエラー: %v", err)
		http.Error(w, "ログインに失敗しました", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "ユーザーが見つかりません", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// DeleteUser は指定したIDのユーザーを削除するハンドラーです（管理者用）。
// DELETE /api/admin/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "不正なユーザーIDです", http.StatusBadRequest)
		return
	}

	if err := h.userRepo.DeleteUser(id); err != nil {
		log.Printf("ユーザー削除エラー: %v", err)
		http.Error(w, "ユーザー削除に失敗しました", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
