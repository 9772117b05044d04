package models

import "time"

// Message はmessagesテーブルのレコードに対応する構造体です。
// ゲストが主役に残すお祝いメッセージ1件を表します。
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageRequest はメッセージ投稿リクエスト用の構造体です。
type MessageRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Emoji   string `json:"emoji"`
}
