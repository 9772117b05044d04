package models

import "time"

// QuizResult はquiz_resultsテーブルのレコードに対応する構造体です。
// 1回のクイズ挑戦の結果を表し、保存後は変更されません。
type QuizResult struct {
	ID                    int64     `json:"id"`
	PlayerName            string    `json:"player_name"`
	Score                 int       `json:"score"`
	CorrectAnswers        int       `json:"correct_answers"`
	TotalQuestions        int       `json:"total_questions"`
	CompletionTimeSeconds int       `json:"completion_time_seconds"`
	IsPerfectScore        bool      `json:"is_perfect_score"`
	CompletedAt           time.Time `json:"completed_at"`
}

// QuizResultRequest はクイズ結果保存リクエスト用の構造体です。
type QuizResultRequest struct {
	PlayerName            string `json:"player_name"`
	Score                 int    `json:"score"`
	CorrectAnswers        int    `json:"correct_answers"`
	TotalQuestions        int    `json:"total_questions"`
	CompletionTimeSeconds int    `json:"completion_time_seconds"`
	IsPerfectScore        bool   `json:"is_perfect_score"`
}

// QuizLeaderboardEntry はプレイヤーごとのクイズ集計結果です。
// quiz_resultsの全レコードからの畳み込みで算出されます。
type QuizLeaderboardEntry struct {
	PlayerName         string    `json:"player_name"`
	BestScore          int       `json:"best_score"`
	TotalAttempts      int       `json:"total_attempts"`
	BestCompletionTime int       `json:"best_completion_time"`
	AverageScore       int       `json:"average_score"` // 四捨五入した整数
	PerfectScores      int       `json:"perfect_scores"`
	LastPlayed         time.Time `json:"last_played"`
	Rank               int       `json:"rank"`
}
