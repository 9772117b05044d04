package models

import "time"

// パフォーマンスのカテゴリ。ルーレットのお題と対応します。
const (
	CategoryFunny        = "funny"
	CategorySilly        = "silly"
	CategoryEmbarrassing = "embarrassing"
)

// IsValidCategory は指定されたカテゴリが許可された値かどうかを判定します。
func IsValidCategory(category string) bool {
	switch category {
	case CategoryFunny, CategorySilly, CategoryEmbarrassing:
		return true
	}
	return false
}

// Performance はperformancesテーブルのレコードに対応する構造体です。
// ルーレットの結果として記録された「出し物」1件を表します。
type Performance struct {
	ID        string    `json:"id"`
	Performer string    `json:"performer"`
	Task      string    `json:"task"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	VoteCount int       `json:"vote_count"` // Ballotの集合から再計算される派生値
}

// Ballot はvotesテーブルのレコードに対応する構造体です。
// 1人の投票者につき常に最大1件しか存在しません。
type Ballot struct {
	PerformanceID string    `json:"performance_id"`
	VoterName     string    `json:"voter_name"`
	CastAt        time.Time `json:"cast_at"`
}

// PerformanceRequest はパフォーマンス登録リクエスト用の構造体です。
type PerformanceRequest struct {
	Performer string `json:"performer"`
	Task      string `json:"task"`
	Category  string `json:"category"`
}

// VoteRequest は投票リクエスト用の構造体です。
type VoteRequest struct {
	PerformanceID string `json:"performance_id"`
	VoterName     string `json:"voter_name"`
}
