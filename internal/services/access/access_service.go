package access

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/quiz"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/relay"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/voting"
)

// Service は機能トグル（メッセージ・ゲーム・ギャラリー）の管理を担当するサービスです。
// 永続ストアが使えないときは最後に読めた設定のローカルコピーで動き続けます。
type Service struct {
	repo database.SettingsRepository // nilの場合はローカルコピーのみで動作

	// toggleMu はToggleの読み取りから保存までをまとめて直列化します。
	// muはローカルコピー保護用で、保持したままrepoを呼ばないよう分けています。
	toggleMu sync.Mutex

	mu    sync.Mutex
	local models.AccessSettings // オフライン時のフォールバックコピー
}

// NewService は新しいアクセス制御サービスを作成します。初期状態は全機能有効です。
func NewService(repo database.SettingsRepository) *Service {
	return &Service{
		repo:  repo,
		local: defaultSettings(),
	}
}

func defaultSettings() models.AccessSettings {
	return models.AccessSettings{
		MessagesEnabled: true,
		GamesEnabled:    true,
		GalleryEnabled:  true,
		LastUpdated:     time.Now(),
	}
}

// GetSettings は現在の設定を返します。
// 永続ストアから読めたらローカルコピーを更新し、読めなければコピーを返します。
func (s *Service) GetSettings() models.AccessSettings {
	if s.repo != nil {
		settings, err := s.repo.GetSettings()
		if err != nil {
			log.Printf("AccessService Error: 設定の取得に失敗しました（ローカルコピーで継続）: %v", err)
		} else if settings != nil {
			s.mu.Lock()
			s.local = *settings
			s.mu.Unlock()
			return *settings
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

// SaveSettings は設定を保存します。ローカルコピーには必ず反映し、
// 永続ストアへの保存失敗はログに残すだけにします。
func (s *Service) SaveSettings(settings models.AccessSettings) models.AccessSettings {
	settings.LastUpdated = time.Now()

	s.mu.Lock()
	s.local = settings
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.SaveSettings(&settings); err != nil {
			log.Printf("AccessService Error: 設定の保存に失敗しました（ローカルコピーのみ更新）: %v", err)
		}
	}

	return settings
}

// Toggle は指定された機能の有効/無効を反転します。
// 許可されていない機能名は設定に触れる前に弾きます。
// 同時トグルで片方の更新が消えないよう、読み取りから保存までを直列化します。
func (s *Service) Toggle(feature string) (models.AccessSettings, error) {
	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	settings := s.GetSettings()

	switch feature {
	case models.FeatureMessages:
		settings.MessagesEnabled = !settings.MessagesEnabled
	case models.FeatureGames:
		settings.GamesEnabled = !settings.GamesEnabled
	case models.FeatureGallery:
		settings.GalleryEnabled = !settings.GalleryEnabled
	default:
		return settings, fmt.Errorf("不正な機能名です: %s", feature)
	}

	return s.SaveSettings(settings), nil
}

// PollIntervals はクライアントに配布するポーリング間隔を返します。
func (s *Service) PollIntervals() models.PollIntervals {
	return models.PollIntervals{
		SpinCommandSeconds:     relay.PollIntervalSeconds,
		VoteLeaderboardSeconds: voting.PollIntervalSeconds,
		QuizLeaderboardSeconds: quiz.PollIntervalSeconds,
	}
}
