package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// QuizRepository はクイズ結果関連のデータベース操作を定義するインターフェースです。
type QuizRepository interface {
	// CreateResult は新しいクイズ結果レコードを作成します
	CreateResult(result *models.QuizResult) (*models.QuizResult, error)

	// GetResults は全クイズ結果を完了時刻の昇順で取得します
	GetResults() ([]models.QuizResult, error)

	// HasCompleted は指定したプレイヤーの完了済み結果が存在するかを返します
	HasCompleted(playerName string) (bool, error)

	// ClearAll は全クイズ結果を削除します
	ClearAll() error
}

// quizRepositoryImpl はQuizRepositoryインターフェースの実装です。
type quizRepositoryImpl struct {
	db *sql.DB
}

// NewQuizRepository はQuizRepositoryの新しいインスタンスを作成します。
func NewQuizRepository(db *sql.DB) QuizRepository {
	return &quizRepositoryImpl{db: db}
}

// CreateResult は新しいクイズ結果レコードを作成します。
func (r *quizRepositoryImpl) CreateResult(result *models.QuizResult) (*models.QuizResult, error) {
	now := time.Now()
	var id int64

	row := r.db.QueryRow(
		`INSERT INTO quiz_results
		 (player_name, score, correct_answers, total_questions, completion_time_seconds, is_perfect_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		result.PlayerName, result.Score, result.CorrectAnswers, result.TotalQuestions,
		result.CompletionTimeSeconds, result.IsPerfectScore, now,
	)

	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("クイズ結果レコードの作成に失敗しました: %w", err)
	}

	saved := *result
	saved.ID = id
	saved.CompletedAt = now
	return &saved, nil
}

// GetResults は全クイズ結果を完了時刻の昇順で取得します。
func (r *quizRepositoryImpl) GetResults() ([]models.QuizResult, error) {
	query := `
		SELECT id, player_name, score, correct_answers, total_questions,
		       completion_time_seconds, is_perfect_score, created_at
		FROM quiz_results
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("クイズ結果取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var results []models.QuizResult
	for rows.Next() {
		var res models.QuizResult
		err := rows.Scan(
			&res.ID, &res.PlayerName, &res.Score, &res.CorrectAnswers,
			&res.TotalQuestions, &res.CompletionTimeSeconds, &res.IsPerfectScore, &res.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("クイズ結果データのスキャンに失敗しました: %w", err)
		}
		results = append(results, res)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("クイズ結果取得中にエラーが発生しました: %w", err)
	}

	return results, nil
}

// HasCompleted は指定したプレイヤーの完了済み結果が存在するかを返します。
// データ層は複数レコードを許容するため（ベストスコア集計に使う）、
// 「一人一回」のビジネスルールはこの判定を使ってUI側で弾きます。
func (r *quizRepositoryImpl) HasCompleted(playerName string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM quiz_results WHERE player_name = $1`,
		playerName,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("クイズ完了確認に失敗しました: %w", err)
	}
	return count > 0, nil
}

// ClearAll は全クイズ結果を削除します。
func (r *quizRepositoryImpl) ClearAll() error {
	if _, err := r.db.Exec(`DELETE FROM quiz_results`); err != nil {
		return fmt.Errorf("クイズ結果の削除に失敗しました: %w", err)
	}
	return nil
}
