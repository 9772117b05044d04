package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// PerformanceRepository はパフォーマンスと投票関連のデータベース操作を定義するインターフェースです。
type PerformanceRepository interface {
	// CreatePerformance は新しいパフォーマンスレコードを作成します
	CreatePerformance(p *models.Performance) error

	// GetPerformances は全パフォーマンスを登録順で取得します
	GetPerformances() ([]models.Performance, error)

	// GetBallots は全投票を取得します
	GetBallots() ([]models.Ballot, error)

	// ReplaceBallot は投票者の既存の投票を取り除き、新しい投票を1トランザクションで記録します。
	// 同じパフォーマンスへの再投票だった場合は何もせずにtrueを返します
	ReplaceBallot(performanceID, voterName string) (bool, error)

	// ClearAll は全パフォーマンスと投票を削除します
	ClearAll() error
}

// performanceRepositoryImpl はPerformanceRepositoryインターフェースの実装です。
type performanceRepositoryImpl struct {
	db *sql.DB
}

// NewPerformanceRepository はPerformanceRepositoryの新しいインスタンスを作成します。
func NewPerformanceRepository(db *sql.DB) PerformanceRepository {
	return &performanceRepositoryImpl{db: db}
}

// CreatePerformance は新しいパフォーマンスレコードを作成します。
func (r *performanceRepositoryImpl) CreatePerformance(p *models.Performance) error {
	_, err := r.db.Exec(
		`INSERT INTO performances (id, performer, task, category, timestamp, total_votes)
		 VALUES ($1, $2, $3, $4, $5, 0)`,
		p.ID, p.Performer, p.Task, p.Category, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("パフォーマンスレコードの作成に失敗しました: %w", err)
	}
	return nil
}

// GetPerformances は全パフォーマンスを登録順で取得します。
// 同票のときの順位が登録順で安定するよう、timestamp昇順で返します。
func (r *performanceRepositoryImpl) GetPerformances() ([]models.Performance, error) {
	query := `SELECT id, performer, task, category, timestamp, total_votes
	          FROM performances ORDER BY timestamp ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("パフォーマンス取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var performances []models.Performance
	for rows.Next() {
		var p models.Performance
		if err := rows.Scan(&p.ID, &p.Performer, &p.Task, &p.Category, &p.CreatedAt, &p.VoteCount); err != nil {
			return nil, fmt.Errorf("パフォーマンスデータのスキャンに失敗しました: %w", err)
		}
		performances = append(performances, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("パフォーマンス取得中にエラーが発生しました: %w", err)
	}

	return performances, nil
}

// GetBallots は全投票を取得します。
func (r *performanceRepositoryImpl) GetBallots() ([]models.Ballot, error) {
	rows, err := r.db.Query(`SELECT performance_id, voter_name, created_at FROM votes`)
	if err != nil {
		return nil, fmt.Errorf("投票データ取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var ballots []models.Ballot
	for rows.Next() {
		var b models.Ballot
		if err := rows.Scan(&b.PerformanceID, &b.VoterName, &b.CastAt); err != nil {
			return nil, fmt.Errorf("投票データのスキャンに失敗しました: %w", err)
		}
		ballots = append(ballots, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("投票データ取得中にエラーが発生しました: %w", err)
	}

	return ballots, nil
}

// ReplaceBallot は「1人1票」の不変条件をトランザクションで守ります。
// 旧投票の削除・票数のデクリメント・新投票の挿入・票数のインクリメントを
// まとめてコミットするので、途中で失敗しても票がずれることはありません。
func (r *performanceRepositoryImpl) ReplaceBallot(performanceID, voterName string) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	// 既存の投票を確認
	var oldPerformanceID string
	err = tx.QueryRow(
		`SELECT performance_id FROM votes WHERE voter_name = $1 FOR UPDATE`,
		voterName,
	).Scan(&oldPerformanceID)

	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("既存投票の確認に失敗しました: %w", err)
	}

	if err == nil {
		if oldPerformanceID == performanceID {
			// 同じパフォーマンスへの再投票は冪等に成功として扱う
			return true, nil
		}

		// 旧投票を削除して旧パフォーマンスの票数を減らす
		if _, err := tx.Exec(`DELETE FROM votes WHERE voter_name = $1`, voterName); err != nil {
			return false, fmt.Errorf("旧投票の削除に失敗しました: %w", err)
		}
		if _, err := tx.Exec(
			`UPDATE performances SET total_votes = total_votes - 1 WHERE id = $1 AND total_votes > 0`,
			oldPerformanceID,
		); err != nil {
			return false, fmt.Errorf("旧パフォーマンスの票数更新に失敗しました: %w", err)
		}
	}

	// 新しい投票を記録して票数を増やす
	now := time.Now()
	if _, err := tx.Exec(
		`INSERT INTO votes (performance_id, voter_name, vote_type, created_at) VALUES ($1, $2, 'up', $3)`,
		performanceID, voterName, now,
	); err != nil {
		return false, fmt.Errorf("新しい投票の記録に失敗しました: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE performances SET total_votes = total_votes + 1 WHERE id = $1`,
		performanceID,
	); err != nil {
		return false, fmt.Errorf("パフォーマンスの票数更新に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return true, nil
}

// ClearAll は全パフォーマンスと投票を削除します（イベント間のリセット用）。
func (r *performanceRepositoryImpl) ClearAll() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM votes`); err != nil {
		return fmt.Errorf("投票データの削除に失敗しました: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM performances`); err != nil {
		return fmt.Errorf("パフォーマンスデータの削除に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}
