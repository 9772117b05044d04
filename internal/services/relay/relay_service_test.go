package relay

import (
	"testing"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// newOfflineService は永続ストアなしのリレーサービスを作成します（インメモリのみ）。
func newOfflineService() *Service {
	return NewService(nil, nil)
}

// TestPublishAndPoll はコマンドの発行とポーリングの基本動作をテストします。
func TestPublishAndPoll(t *testing.T) {
	s := newOfflineService()

	published, err := s.Publish("Emma", "モノマネをする", models.CategoryFunny)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if published.Action != "spin" {
		t.Errorf("Expected action to be 'spin', but got %q", published.Action)
	}
	if published.ID == "" {
		t.Error("Expected a generated command ID, but got empty string")
	}

	polled := s.PollLatestUnconsumed()
	if polled == nil {
		t.Fatal("Expected to receive the published command, but got nil")
	}
	if polled.ID != published.ID {
		t.Errorf("Expected command %s, but got %s", published.ID, polled.ID)
	}
	if polled.Subject != "Emma" || polled.Payload != "モノマネをする" {
		t.Errorf("Polled command does not match published one: %+v", polled)
	}
}

// TestPollConsumesCommandOnce は一度配信されたコマンドが二度と配信されないことをテストします。
func TestPollConsumesCommandOnce(t *testing.T) {
	s := newOfflineService()

	if _, err := s.Publish("Yuki", "早口言葉", models.CategorySilly); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	first := s.PollLatestUnconsumed()
	if first == nil {
		t.Fatal("Expected first poll to return the command, but got nil")
	}

	second := s.PollLatestUnconsumed()
	if second != nil {
		t.Errorf("Expected second poll to return nil, but got command %s", second.ID)
	}
}

// TestPollReturnsLatestCommand は複数の未消費コマンドがあるとき最新が先に配信されることをテストします。
func TestPollReturnsLatestCommand(t *testing.T) {
	s := newOfflineService()

	if _, err := s.Publish("Emma", "課題A", models.CategoryFunny); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	latest, err := s.Publish("Yuki", "課題B", models.CategoryFunny)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	polled := s.PollLatestUnconsumed()
	if polled == nil {
		t.Fatal("Expected a command, but got nil")
	}
	if polled.ID != latest.ID {
		t.Errorf("Expected the latest command %s, but got %s", latest.ID, polled.ID)
	}
}

// TestPollIgnoresStaleCommands はフレッシュネス期限切れのコマンドが配信されないことをテストします。
func TestPollIgnoresStaleCommands(t *testing.T) {
	s := newOfflineService()

	stale := &models.SpinCommand{
		ID:        "stale-command",
		Action:    "spin",
		Subject:   "Emma",
		CreatedAt: time.Now().Add(-FreshnessWindow - time.Second),
	}
	s.memory.append(stale)

	if polled := s.PollLatestUnconsumed(); polled != nil {
		t.Errorf("Expected stale command to be skipped, but got %s", polled.ID)
	}
}

// TestPublishValidation はsubject必須と不正カテゴリの拒否をテストします。
func TestPublishValidation(t *testing.T) {
	s := newOfflineService()

	if _, err := s.Publish("", "お題", models.CategoryFunny); err == nil {
		t.Error("Expected error for empty subject, but got nil")
	}
	if _, err := s.Publish("Emma", "お題", "unknown-category"); err == nil {
		t.Error("Expected error for invalid category, but got nil")
	}
	// カテゴリ省略は許可される
	if _, err := s.Publish("Emma", "お題", ""); err != nil {
		t.Errorf("Expected empty category to be accepted, but got error: %v", err)
	}
}

// TestMemoryLogCap はインメモリログが上限を超えて膨らまないことをテストします。
func TestMemoryLogCap(t *testing.T) {
	s := newOfflineService()

	for i := 0; i < MemoryLogCap+5; i++ {
		if _, err := s.Publish("Emma", "お題", ""); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	if got := s.memory.size(); got != MemoryLogCap {
		t.Errorf("Expected memory log size to be %d, but got %d", MemoryLogCap, got)
	}
}

// TestCleanupKeepsUnconsumed はクリーンアップが古い消費済みだけを削除することをテストします。
func TestCleanupKeepsUnconsumed(t *testing.T) {
	s := newOfflineService()

	oldTime := time.Now().Add(-RetentionWindow - time.Minute)
	s.memory.append(&models.SpinCommand{ID: "old-consumed", CreatedAt: oldTime, Consumed: true})
	s.memory.append(&models.SpinCommand{ID: "old-unconsumed", CreatedAt: oldTime, Consumed: false})
	s.memory.append(&models.SpinCommand{ID: "fresh-consumed", CreatedAt: time.Now(), Consumed: true})

	s.Cleanup()

	if got := s.memory.size(); got != 2 {
		t.Errorf("Expected 2 commands to remain after cleanup, but got %d", got)
	}

	// 残ったのが正しいレコードか確認する
	s.memory.mu.Lock()
	defer s.memory.mu.Unlock()
	for _, cmd := range s.memory.commands {
		if cmd.ID == "old-consumed" {
			t.Error("Expected old consumed command to be deleted, but it remains")
		}
	}
}

// TestCleanupIsIdempotent はクリーンアップを何度呼んでも安全なことをテストします。
func TestCleanupIsIdempotent(t *testing.T) {
	s := newOfflineService()

	s.memory.append(&models.SpinCommand{
		ID:        "old-consumed",
		CreatedAt: time.Now().Add(-RetentionWindow - time.Minute),
		Consumed:  true,
	})

	s.Cleanup()
	first := s.memory.size()
	s.Cleanup()
	second := s.memory.size()

	if first != 0 || second != 0 {
		t.Errorf("Expected 0 commands after cleanup, but got %d then %d", first, second)
	}
}
