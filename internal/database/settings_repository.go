package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// settingsRowID はアクセス制御設定を保存する固定の行IDです。
const settingsRowID = "access-control"

// SettingsRepository はアクセス制御設定のデータベース操作を定義するインターフェースです。
type SettingsRepository interface {
	// GetSettings は保存済みの設定を取得します。未保存の場合は (nil, nil) を返します
	GetSettings() (*models.AccessSettings, error)

	// SaveSettings は設定をupsertで保存します
	SaveSettings(settings *models.AccessSettings) error
}

// settingsRepositoryImpl はSettingsRepositoryインターフェースの実装です。
type settingsRepositoryImpl struct {
	db *sql.DB
}

// NewSettingsRepository はSettingsRepositoryの新しいインスタンスを作成します。
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// GetSettings は保存済みの設定を取得します。
func (r *settingsRepositoryImpl) GetSettings() (*models.AccessSettings, error) {
	var raw []byte
	err := r.db.QueryRow(`SELECT value FROM settings WHERE id = $1`, settingsRowID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("設定の取得に失敗しました: %w", err)
	}

	var settings models.AccessSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("設定データのパースに失敗しました: %w", err)
	}
	return &settings, nil
}

// SaveSettings は設定をupsertで保存します。
func (r *settingsRepositoryImpl) SaveSettings(settings *models.AccessSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("設定データのエンコードに失敗しました: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO settings (id, value, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET value = $2, updated_at = $3`,
		settingsRowID, raw, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("設定の保存に失敗しました: %w", err)
	}
	return nil
}
