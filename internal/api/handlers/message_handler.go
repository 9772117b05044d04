package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// defaultEmoji はemoji未指定のメッセージに付ける絵文字です。
const defaultEmoji = "🎉"

// MessageHandler はお祝いメッセージ関連のハンドラーを管理する構造体です。
type MessageHandler struct {
	messageRepo database.MessageRepository
}

// NewMessageHandler は新しいMessageHandlerインスタンスを作成します。
func NewMessageHandler(messageRepo database.MessageRepository) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo}
}

// GetMessages は全メッセージを新しい順で取得するハンドラーです。
// GET /api/messages
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageRepo.GetMessages()
	if err != nil {
		log.Printf("メッセージ取得エラー: %v", err)
		http.Error(w, "メッセージ取得に失敗しました", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": messages,
	})
}

// PostMessage は新しいメッセージを投稿するハンドラーです。
// POST /api/messages
func (h *MessageHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req models.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "無効なリクエストボディです", http.StatusBadRequest)
		return
	}

	// バリデーション
	if req.Name == "" || req.Message == "" {
		http.Error(w, "nameとmessageは必須です", http.StatusBadRequest)
		return
	}
	if req.Emoji == "" {
		req.Emoji = defaultEmoji
	}

	message, err := h.messageRepo.CreateMessage(req.Name, req.Message, req.Emoji)
	if err != nil {
		log.Printf("メッセージ保存エラー: %v", err)
		http.Error(w, "メッセージ保存に失敗しました", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": message,
	})
}
