package relay

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// コマンドリレーの動作パラメータ。クライアント側のポーリング間隔もここで配布します。
const (
	// FreshnessWindow より古いコマンドは未消費でもポーラーに配信されません。
	FreshnessWindow = 30 * time.Second

	// RetentionWindow を過ぎた消費済みコマンドはCleanupで削除されます。
	RetentionWindow = time.Hour

	// MemoryLogCap はインメモリフォールバックログの最大保持件数です。
	MemoryLogCap = 10

	// PollIntervalSeconds はディスプレイ端末に推奨するポーリング間隔（秒）です。
	PollIntervalSeconds = 3

	// CleanupInterval はサーバー内の定期クリーンアップの実行間隔です。
	CleanupInterval = 10 * time.Minute
)

// Service はスピンコマンドのリレー（発行・取得・掃除）を担当するサービスです。
// 永続ストアが使えない環境でも動くよう、常にインメモリログを併用します。
type Service struct {
	repo   database.CommandRepository // nilの場合はインメモリのみで動作
	memory *memoryLog
	hub    *Hub // nilの場合はWebSocket配信なし
}

// NewService は新しいリレーサービスを作成します。
//
// Parameters:
//
//	repo : 永続ストアのリポジトリ（オフライン構成ではnil）
//	hub  : ディスプレイ端末へのWebSocket配信ハブ（不要ならnil）
func NewService(repo database.CommandRepository, hub *Hub) *Service {
	return &Service{
		repo:   repo,
		memory: newMemoryLog(MemoryLogCap),
		hub:    hub,
	}
}

// Publish は新しいスピンコマンドを発行します。
// 永続ストアへの書き込み失敗はログに残すだけでエラーにしません。
// インメモリログへの追加は必ず成功するため、単一プロセス構成でもリレーは動き続けます。
func (s *Service) Publish(subject, payload, category string) (*models.SpinCommand, error) {
	if subject == "" {
		return nil, fmt.Errorf("subjectは必須です")
	}
	if category != "" && !models.IsValidCategory(category) {
		return nil, fmt.Errorf("不正なカテゴリです: %s", category)
	}

	cmd := &models.SpinCommand{
		ID:        uuid.New().String(),
		Action:    "spin",
		Subject:   subject,
		Payload:   payload,
		Category:  category,
		CreatedAt: time.Now(),
		Consumed:  false,
	}

	if s.repo != nil {
		if err := s.repo.CreateCommand(cmd); err != nil {
			log.Printf("RelayService Error: 永続ストアへの保存に失敗しました（インメモリで継続）: %v", err)
		}
	}

	// フォールバック用に必ずインメモリにも積む
	s.memory.append(cmd)

	if s.hub != nil {
		s.hub.BroadcastCommand(cmd)
	}

	log.Printf("RelayService Info: スピンコマンド %s を発行しました (subject=%s)", cmd.ID, subject)
	return cmd, nil
}

// PollLatestUnconsumed はfreshness以内の最新の未消費コマンドを1件確保して返します。
// 該当がなければnilを返します。
//
// 永続ストアが使える場合はそちらを唯一の真実として扱い、確保できたコマンドの
// インメモリコピーも消費済みに揃えます。永続ストアへの問い合わせ自体が失敗した
// ときだけインメモリログに切り替えます。
func (s *Service) PollLatestUnconsumed() *models.SpinCommand {
	if s.repo != nil {
		cmd, err := s.repo.ClaimLatestUnconsumed(FreshnessWindow)
		if err == nil {
			if cmd != nil {
				// 二重配信を避けるためインメモリ側も消費済みにする
				s.memory.markConsumed(cmd.ID)
				log.Printf("RelayService Info: コマンド %s を配信しました", cmd.ID)
			}
			return cmd
		}
		log.Printf("RelayService Error: 永続ストアからの取得に失敗しました（インメモリで継続）: %v", err)
	}

	cmd := s.memory.claimLatestUnconsumed(FreshnessWindow)
	if cmd != nil {
		log.Printf("RelayService Info: インメモリのコマンド %s を配信しました", cmd.ID)
	}
	return cmd
}

// Cleanup は保持期間を過ぎた消費済みコマンドを両ストアから削除します。
// 何度呼んでも安全です（冪等）。
func (s *Service) Cleanup() {
	if s.repo != nil {
		deleted, err := s.repo.DeleteConsumedOlderThan(RetentionWindow)
		if err != nil {
			log.Printf("RelayService Error: 永続ストアのクリーンアップに失敗しました: %v", err)
		} else if deleted > 0 {
			log.Printf("RelayService Info: 消費済みコマンド %d 件を削除しました", deleted)
		}
	}

	s.memory.cleanup(RetentionWindow)
}

// StartCleanupLoop は定期クリーンアップをバックグラウンドで開始します。
// 返されたチャネルをcloseすると停止します。
func (s *Service) StartCleanupLoop() chan<- struct{} {
	quit := make(chan struct{})
	go func() {
		ticker := time.NewTicker(CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-quit:
				return
			}
		}
	}()
	return quit
}
