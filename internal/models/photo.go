package models

import "time"

// Photo はphotosテーブルのレコードに対応する構造体です。
// 実ファイルはSupabaseストレージに置かれ、ここにはメタデータのみ保存します。
type Photo struct {
	ID         int64     `json:"id"`
	URL        string    `json:"url"`
	Uploader   string    `json:"uploader"`
	Caption    string    `json:"caption"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// PhotoUploadResult はアップロード結果をAPIレスポンスとして返すための構造体です。
// メタデータ保存に失敗してもファイル自体は残るため、URLとWarningを両方持ちます。
type PhotoUploadResult struct {
	URL     string `json:"url"`
	Photo   *Photo `json:"photo,omitempty"`
	Warning string `json:"warning,omitempty"`
}
