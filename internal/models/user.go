package models

import "time"

// User はusersテーブルのレコードに対応する構造体です。
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"` // 小文字に正規化して保存
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastActive  time.Time `json:"last_active"`
}

// UserRequest はユーザー登録リクエスト用の構造体です。
type UserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// LoginRequest は表示名ログインリクエスト用の構造体です。
type LoginRequest struct {
	Username string `json:"username"`
}
