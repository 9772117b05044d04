package models

import "time"

// UnifiedLeaderboardEntry はクイズ成績と投票成績を統合した1プレイヤー分の順位表エントリです。
// 永続化されず、QuizResult / Performance / Ballot からの純粋な畳み込みで毎回再計算されます。
type UnifiedLeaderboardEntry struct {
	PlayerName string `json:"player_name"`

	// クイズ成績
	QuizBestScore     int `json:"quiz_best_score"`
	QuizAttempts      int `json:"quiz_attempts"`
	QuizPerfectScores int `json:"quiz_perfect_scores"`
	QuizAverageScore  int `json:"quiz_average_score"`
	QuizBestTime      int `json:"quiz_best_time"`
	QuizRank          int `json:"quiz_rank"`

	// パフォーマンス成績
	PerformanceVotes  int `json:"performance_votes"`
	PerformanceRank   int `json:"performance_rank"`
	TotalPerformances int `json:"total_performances"`

	// 統合成績
	TotalPoints  int       `json:"total_points"`
	OverallRank  int       `json:"overall_rank"`
	Badges       []string  `json:"badges"`
	LastActivity time.Time `json:"last_activity"`
}

// GlobalStats はパーティー全体の統計情報です。
type GlobalStats struct {
	TotalPlayers      int `json:"total_players"`
	TotalQuizAttempts int `json:"total_quiz_attempts"`
	TotalVotes        int `json:"total_votes"`
	PerfectScores     int `json:"perfect_scores"`
	AverageQuizScore  int `json:"average_quiz_score"`
}
