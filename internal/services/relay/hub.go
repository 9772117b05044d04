package relay

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

const (
	// writeWait はクライアントへの書き込みを諦めるまでの時間です。
	writeWait = 10 * time.Second

	// pongWait はクライアントからのPong応答を待つ時間です。
	pongWait = 60 * time.Second

	// pingPeriod はPing送信の間隔です。pongWaitより短くする必要があります。
	pingPeriod = (pongWait * 9) / 10
)

// DisplayClient はWebSocket接続を持つ単一のディスプレイ端末を表します。
type DisplayClient struct {
	ID     string          // 接続ごとに割り当てる識別子
	Conn   *websocket.Conn // クライアントとの実際のWebSocketコネクション
	Send   chan []byte     // クライアントへメッセージを送信するためのバッファ付きチャネル
	closed bool            // チャネルが閉じられたかどうかのフラグ
	mu     sync.Mutex      // closedフラグ保護用
}

// SafeSend は安全にチャネルにメッセージを送信します（closedチェック付き）
func (c *DisplayClient) SafeSend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false // 既に閉じられている
	}

	select {
	case c.Send <- message:
		return true // 送信成功
	default:
		return false // チャネルがフル
	}
}

// SafeClose は安全にチャネルを閉じます
func (c *DisplayClient) SafeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// Hub はディスプレイ端末へのコマンド配信を管理します。
// ポーリングの代わりにプッシュで受け取りたい端末はここに接続します。
// （ポーリングAPIは引き続き使えるので、WebSocketが切れても表示は止まりません）
type Hub struct {
	clients    map[string]*DisplayClient // clientID -> DisplayClient のマップ
	register   chan *DisplayClient       // 新しいクライアント接続の登録リクエスト用チャネル
	unregister chan *DisplayClient       // クライアント切断の登録解除リクエスト用チャネル
	broadcast  chan []byte               // 発行されたコマンドをブロードキャストするためのチャネル
	quit       chan struct{}             // シャットダウン用チャネル
	mu         sync.RWMutex              // clientsマップへのアクセスを保護するためのRWMutex
}

// NewHub は新しいHubインスタンスを作成し、メインイベントループをバックグラウンドで開始します。
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[string]*DisplayClient),
		register:   make(chan *DisplayClient),
		unregister: make(chan *DisplayClient),
		broadcast:  make(chan []byte, 64),
		quit:       make(chan struct{}),
	}
	go h.Run()
	return h
}

// Run はHubのメインイベントループです。登録・解除・配信をすべてここで直列に処理します。
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("Hub Info: ディスプレイ %s が接続しました（現在 %d 台）", client.ID, h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				client.SafeClose()
			}
			h.mu.Unlock()
			log.Printf("Hub Info: ディスプレイ %s が切断しました（現在 %d 台）", client.ID, h.clientCount())

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if !client.SafeSend(message) {
					log.Printf("Hub Info: ディスプレイ %s への送信をスキップしました（バッファフル）", client.ID)
				}
			}
			h.mu.RUnlock()

		case <-h.quit:
			h.mu.Lock()
			for _, client := range h.clients {
				client.SafeClose()
			}
			h.clients = make(map[string]*DisplayClient)
			h.mu.Unlock()
			return
		}
	}
}

// BroadcastCommand は発行されたコマンドを接続中の全ディスプレイに配信します。
func (h *Hub) BroadcastCommand(cmd *models.SpinCommand) {
	message, err := json.Marshal(map[string]interface{}{
		"type":    "spin_command",
		"command": cmd,
	})
	if err != nil {
		log.Printf("Hub Error: コマンドのエンコードに失敗しました: %v", err)
		return
	}

	select {
	case h.broadcast <- message:
	default:
		log.Printf("Hub Error: ブロードキャストチャネルがフルのため配信をスキップしました")
	}
}

// RegisterClient はWebSocket接続をHubに登録し、読み書きのポンプを開始します。
// シャットダウン後に来た接続はRunループが止まっているため、登録せずに閉じます。
func (h *Hub) RegisterClient(clientID string, conn *websocket.Conn) {
	select {
	case <-h.quit:
		if conn != nil {
			conn.Close()
		}
		return
	default:
	}

	client := &DisplayClient{
		ID:   clientID,
		Conn: conn,
		Send: make(chan []byte, 16),
	}

	select {
	case h.register <- client:
	case <-h.quit:
		if conn != nil {
			conn.Close()
		}
		return
	}

	go client.writePump()
	go h.readPump(client)
}

// ClientCount は現在接続中のディスプレイ台数を返します。
func (h *Hub) ClientCount() int {
	return h.clientCount()
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown はHubを停止し、全接続を閉じます。
func (h *Hub) Shutdown() {
	close(h.quit)
}

// readPump はクライアントからの受信を処理します。
// ディスプレイ端末は送信専用なので、受け取ったメッセージは読み捨てて
// 切断検知とPong処理のためだけに読み続けます。
func (h *Hub) readPump(client *DisplayClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.quit: // Runループ停止後は登録解除を待たない
		}
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Hub Error: ディスプレイ %s の読み取りエラー: %v", client.ID, err)
			}
			return
		}
	}
}

// writePump はSendチャネルのメッセージをクライアントへ書き込みます。
func (c *DisplayClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub側がチャネルを閉じた
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
