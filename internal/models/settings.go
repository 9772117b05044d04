package models

import "time"

// 機能トグル名の列挙。文字列キーのtypoを境界で弾くため、許可される値を固定します。
const (
	FeatureMessages = "messages"
	FeatureGames    = "games"
	FeatureGallery  = "gallery"
)

// AccessSettings は管理者（コンダクター）が切り替える機能トグルの集合です。
// settingsテーブルの単一行にJSONとして保存されます。
type AccessSettings struct {
	MessagesEnabled bool      `json:"messages_enabled"`
	GamesEnabled    bool      `json:"games_enabled"`
	GalleryEnabled  bool      `json:"gallery_enabled"`
	LastUpdated     time.Time `json:"last_updated"`
}

// PollIntervals はクライアントに通知するポーリング間隔（秒）です。
// 値を変えるときはここだけを変えれば全クライアントに行き渡ります。
type PollIntervals struct {
	SpinCommandSeconds     int `json:"spin_command_seconds"`
	VoteLeaderboardSeconds int `json:"vote_leaderboard_seconds"`
	QuizLeaderboardSeconds int `json:"quiz_leaderboard_seconds"`
}

// SettingsResponse は設定取得APIのレスポンスです。
type SettingsResponse struct {
	Settings      AccessSettings `json:"settings"`
	PollIntervals PollIntervals  `json:"poll_intervals"`
}

// ToggleRequest は機能トグル切り替えリクエスト用の構造体です。
type ToggleRequest struct {
	Feature string `json:"feature"`
}
