package models

import "time"

// SpinCommand はspin_commandsテーブルのレコードに対応する構造体です。
// コントローラー端末が発行した「ルーレットを回す」イベントを表します。
type SpinCommand struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`    // 常に "spin"
	Subject   string    `json:"subject"`   // 選ばれた参加者の名前
	Payload   string    `json:"payload"`   // お題（自由テキスト）
	Category  string    `json:"category"`  // お題のカテゴリ
	CreatedAt time.Time `json:"created_at"`
	Consumed  bool      `json:"consumed"`
}

// SpinCommandRequest はスピンコマンド発行リクエスト用の構造体です。
type SpinCommandRequest struct {
	Subject  string `json:"subject"`
	Payload  string `json:"payload"`
	Category string `json:"category"`
}
