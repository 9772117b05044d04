package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/relay"
)

// upgrader はHTTP接続をWebSocketプロトコルにアップグレードするための設定です。
// 開発中は全Originを許可していますが、本番環境では適切なOriginチェックを行うべきです。
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SpinHandler はスピンコマンドリレーのHTTPリクエストを処理します。
type SpinHandler struct {
	relayService *relay.Service
	hub          *relay.Hub
}

// NewSpinHandler は新しいSpinHandlerインスタンスを作成します。
func NewSpinHandler(relayService *relay.Service, hub *relay.Hub) *SpinHandler {
	return &SpinHandler{
		relayService: relayService,
		hub:          hub,
	}
}

// Poll は最新の未消費コマンドを1件取得するハンドラーです。
// 返したコマンドは消費済みになるため、同じコマンドが二度返ることはありません。
// GET /api/spin
func (h *SpinHandler) Poll(w http.ResponseWriter, r *http.Request) {
	cmd := h.relayService.PollLatestUnconsumed()

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"command": cmd, // 該当なしの場合はnull
	})
}

// Publish は新しいスピンコマンドを発行するハンドラーです。
// POST /api/spin
func (h *SpinHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req models.SpinCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "無効なリクエストボディです", http.StatusBadRequest)
		return
	}

	cmd, err := h.relayService.Publish(req.Subject, req.Payload, req.Category)
	if err != nil {
		// バリデーションエラーのみここに来る（ストア障害はエラーにならない）
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	setNoCacheHeaders(w)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"command": cmd,
	})
}

// Cleanup は保持期間を過ぎた消費済みコマンドを削除するハンドラーです。
// DELETE /api/spin
func (h *SpinHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	h.relayService.Cleanup()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "クリーンアップが完了しました",
	})
}

// ServeWS はディスプレイ端末のWebSocket接続を受け付けるハンドラーです。
// 接続中は発行されたコマンドがプッシュ配信されます（ポーリングの代替）。
// GET /api/spin/ws
func (h *SpinHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		http.Error(w, "WebSocket配信は無効です", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("SpinHandler Error: WebSocketへのアップグレードに失敗しました: %v", err)
		return
	}

	h.hub.RegisterClient(uuid.New().String(), conn)
}
