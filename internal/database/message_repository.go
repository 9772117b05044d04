package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// MessageRepository はお祝いメッセージ関連のデータベース操作を定義するインターフェースです。
type MessageRepository interface {
	// CreateMessage は新しいメッセージレコードを作成します
	CreateMessage(name, message, emoji string) (*models.Message, error)

	// GetMessages は全メッセージを新しい順で取得します
	GetMessages() ([]models.Message, error)
}

// messageRepositoryImpl はMessageRepositoryインターフェースの実装です。
type messageRepositoryImpl struct {
	db *sql.DB
}

// NewMessageRepository はMessageRepositoryの新しいインスタンスを作成します。
func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepositoryImpl{db: db}
}

// CreateMessage は新しいメッセージレコードを作成します。
func (r *messageRepositoryImpl) CreateMessage(name, message, emoji string) (*models.Message, error) {
	now := time.Now()
	var id int64

	row := r.db.QueryRow(
		`INSERT INTO messages (name, message, emoji, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, message, emoji, now,
	)
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("メッセージレコードの作成に失敗しました: %w", err)
	}

	return &models.Message{
		ID:        id,
		Name:      name,
		Message:   message,
		Emoji:     emoji,
		CreatedAt: now,
	}, nil
}

// GetMessages は全メッセージを新しい順で取得します。
func (r *messageRepositoryImpl) GetMessages() ([]models.Message, error) {
	rows, err := r.db.Query(
		`SELECT id, name, message, emoji, created_at FROM messages ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("メッセージ取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Message, &m.Emoji, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("メッセージデータのスキャンに失敗しました: %w", err)
		}
		messages = append(messages, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("メッセージ取得中にエラーが発生しました: %w", err)
	}

	return messages, nil
}
