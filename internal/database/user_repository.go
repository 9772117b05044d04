package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// ErrUsernameTaken は登録しようとしたユーザー名が既に使われていることを示します。
var ErrUsernameTaken = fmt.Errorf("そのユーザー名は既に使われています")

// UserRepository はユーザー関連のデータベース操作を定義するインターフェースです。
type UserRepository interface {
	// CreateUser は新しいユーザーレコードを作成します。重複時はErrUsernameTakenを返します
	CreateUser(req *models.UserRequest, userAgent, ipAddress string) (*models.User, error)

	// GetUsers は全ユーザーを新しい順で取得します
	GetUsers() ([]models.User, error)

	// TouchLastActive はユーザー名でログインしたユーザーのlast_activeを更新して返します
	TouchLastActive(username string) (*models.User, error)

	// DeleteUser は指定したIDのユーザーを削除します
	DeleteUser(id int64) error
}

// userRepositoryImpl はUserRepositoryインターフェースの実装です。
type userRepositoryImpl struct {
	db *sql.DB
}

// NewUserRepository はUserRepositoryの新しいインスタンスを作成します。
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

// CreateUser は新しいユーザーレコードを作成します。
// ユーザー名は小文字に正規化して保存し、重複はErrUsernameTakenとして返します。
func (r *userRepositoryImpl) CreateUser(req *models.UserRequest, userAgent, ipAddress string) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	// 既に同名のユーザーがいないか確認
	var existingID int64
	err := r.db.QueryRow(`SELECT id FROM users WHERE username = $1`, username).Scan(&existingID)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("ユーザー名の重複確認に失敗しました: %w", err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	now := time.Now()
	var id int64
	row := r.db.QueryRow(
		`INSERT INTO users (username, display_name, email, user_agent, ip_address, created_at, last_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		username, displayName, req.Email, userAgent, ipAddress, now,
	)
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("ユーザーレコードの作成に失敗しました: %w", err)
	}

	return &models.User{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		Email:       req.Email,
		UserAgent:   userAgent,
		IPAddress:   ipAddress,
		CreatedAt:   now,
		LastActive:  now,
	}, nil
}

// GetUsers は全ユーザーを新しい順で取得します。
func (r *userRepositoryImpl) GetUsers() ([]models.User, error) {
	rows, err := r.db.Query(
		`SELECT id, username, display_name, COALESCE(email, ''), COALESCE(user_agent, ''),
		        COALESCE(ip_address, ''), created_at, last_active
		 FROM users ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ユーザー取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Email, &u.UserAgent,
			&u.IPAddress, &u.CreatedAt, &u.LastActive)
		if err != nil {
			return nil, fmt.Errorf("ユーザーデータのスキャンに失敗しました: %w", err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ユーザー取得中にエラーが発生しました: %w", err)
	}

	return users, nil
}

// TouchLastActive はログインしたユーザーのlast_activeを更新して返します。
// ユーザーが見つからない場合は (nil, nil) を返します。
func (r *userRepositoryImpl) TouchLastActive(username string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	var u models.User
	row := r.db.QueryRow(
		`UPDATE users SET last_active = $1 WHERE username = $2
		 RETURNING id, username, display_name, COALESCE(email, ''), created_at, last_active`,
		time.Now(), username,
	)
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Email, &u.CreatedAt, &u.LastActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ログイン処理に失敗しました: %w", err)
	}

	return &u, nil
}

// DeleteUser は指定したIDのユーザーを削除します。
func (r *userRepositoryImpl) DeleteUser(id int64) error {
	if _, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}
	return nil
}
