package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// CommandRepository はスピンコマンド関連のデータベース操作を定義するインターフェースです。
type CommandRepository interface {
	// CreateCommand は新しいスピンコマンドレコードを作成します
	CreateCommand(cmd *models.SpinCommand) error

	// ClaimLatestUnconsumed はfreshness以内の未消費コマンドのうち最新の1件を
	// 消費済みに更新した上で返します。該当がなければnilを返します
	ClaimLatestUnconsumed(freshness time.Duration) (*models.SpinCommand, error)

	// DeleteConsumedOlderThan は指定時間より古い消費済みコマンドを削除します
	DeleteConsumedOlderThan(retention time.Duration) (int64, error)
}

// commandRepositoryImpl はCommandRepositoryインターフェースの実装です。
type commandRepositoryImpl struct {
	db *sql.DB
}

// NewCommandRepository はCommandRepositoryの新しいインスタンスを作成します。
func NewCommandRepository(db *sql.DB) CommandRepository {
	return &commandRepositoryImpl{db: db}
}

// CreateCommand は新しいスピンコマンドレコードを作成します。
func (r *commandRepositoryImpl) CreateCommand(cmd *models.SpinCommand) error {
	_, err := r.db.Exec(
		`INSERT INTO spin_commands (id, player_name, result, category, timestamp, processed)
		 VALUES ($1, $2, $3, $4, $5, FALSE)`,
		cmd.ID, cmd.Subject, cmd.Payload, cmd.Category, cmd.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("スピンコマンドレコードの作成に失敗しました: %w", err)
	}
	return nil
}

// ClaimLatestUnconsumed は条件付きUPDATE一発でコマンドを確保します。
// SELECTしてからUPDATEする方式だと複数のポーラーが同じコマンドを受け取れてしまうため、
// processed = FALSE の行だけを更新対象にし、更新できた行をRETURNINGで受け取ります。
// 他のポーラーに先を越された場合は単に「コマンドなし」として扱います。
func (r *commandRepositoryImpl) ClaimLatestUnconsumed(freshness time.Duration) (*models.SpinCommand, error) {
	cutoff := time.Now().Add(-freshness)

	query := `
		UPDATE spin_commands
		SET processed = TRUE
		WHERE id = (
			SELECT id FROM spin_commands
			WHERE processed = FALSE AND timestamp >= $1
			ORDER BY timestamp DESC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, player_name, result, category, timestamp
	`

	var cmd models.SpinCommand
	err := r.db.QueryRow(query, cutoff).Scan(
		&cmd.ID,
		&cmd.Subject,
		&cmd.Payload,
		&cmd.Category,
		&cmd.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // 新しい未消費コマンドが存在しない
	}
	if err != nil {
		return nil, fmt.Errorf("スピンコマンドの確保に失敗しました: %w", err)
	}

	cmd.Action = "spin"
	cmd.Consumed = true
	return &cmd, nil
}

// DeleteConsumedOlderThan は保持期間を過ぎた消費済みコマンドだけを削除します。
// 未消費のコマンドは古くても残します（freshnessチェックで配信されないだけ）。
func (r *commandRepositoryImpl) DeleteConsumedOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	res, err := r.db.Exec(
		`DELETE FROM spin_commands WHERE processed = TRUE AND timestamp < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("古いスピンコマンドの削除に失敗しました: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, nil // ドライバが件数を返せなくても削除自体は成功している
	}
	return deleted, nil
}
