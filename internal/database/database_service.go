package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq" // PostgreSQLドライバー
)

// DatabaseService provides methods for interacting with the database.
type DatabaseService struct {
	DB *sql.DB
}

// NewDatabaseService creates a new instance of DatabaseService and establishes a database connection.
func NewDatabaseService(databaseURL string) (*DatabaseService, error) {
	log.Printf("データベース接続を試行中: URLの最初の50文字: %s...", databaseURL[:min(len(databaseURL), 50)]) // URLの冒頭をログ出力
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Printf("DatabaseService Error: sql.Openに失敗しました: %v", err)
		return nil, fmt.Errorf("データベースへの接続オブジェクト作成に失敗しました: %w", err)
	}

	// データベース接続の確認 (Ping)
	err = db.Ping()
	if err != nil {
		log.Printf("DatabaseService Error: db.Pingに失敗しました: %v", err)
		return nil, fmt.Errorf("データベースのPingに失敗しました。接続情報やネットワークを確認してください: %w", err)
	}

	log.Println("データベースに正常に接続しました。")
	return &DatabaseService{DB: db}, nil
}

// GetUserDisplayNameByUsername fetches the display name for a given username.
// If the user doesn't exist or display_name is empty, returns "ゲスト".
func (s *DatabaseService) GetUserDisplayNameByUsername(username string) string {
	var displayName sql.NullString
	// users テーブルから username に紐づく display_name を取得するクエリ
	query := `SELECT display_name FROM users WHERE username = $1`
	err := s.DB.QueryRow(query, username).Scan(&displayName)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("DatabaseService Info: ユーザー %s が見つからないため、「ゲスト」を返します", username)
			return "ゲスト"
		}
		log.Printf("DatabaseService Error: 表示名の取得に失敗しました: %v, 「ゲスト」を返します", err)
		return "ゲスト"
	}

	// display_nameがNULLまたは空文字列の場合も「ゲスト」を返す
	if !displayName.Valid || displayName.String == "" {
		return "ゲスト"
	}

	return displayName.String
}

// min helper function for logging
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
