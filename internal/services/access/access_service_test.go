package access

import (
	"sync"
	"testing"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// TestDefaultSettings は初期状態で全機能が有効なことをテストします。
func TestDefaultSettings(t *testing.T) {
	s := NewService(nil)

	settings := s.GetSettings()
	if !settings.MessagesEnabled || !settings.GamesEnabled || !settings.GalleryEnabled {
		t.Errorf("Expected all features enabled by default, but got %+v", settings)
	}
}

// TestToggleRoundTrip はトグルを2回適用すると元の状態に戻ることをテストします。
func TestToggleRoundTrip(t *testing.T) {
	s := NewService(nil)

	toggled, err := s.Toggle(models.FeatureMessages)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if toggled.MessagesEnabled {
		t.Error("Expected messages to be disabled after first toggle")
	}
	// 他の機能には触れない
	if !toggled.GamesEnabled || !toggled.GalleryEnabled {
		t.Errorf("Expected other features to remain enabled, but got %+v", toggled)
	}

	toggled, err = s.Toggle(models.FeatureMessages)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !toggled.MessagesEnabled {
		t.Error("Expected messages to be enabled again after second toggle")
	}
}

// TestToggleAllFeatures は定義済みの全機能がトグル可能なことをテストします。
func TestToggleAllFeatures(t *testing.T) {
	s := NewService(nil)

	for _, feature := range []string{models.FeatureMessages, models.FeatureGames, models.FeatureGallery} {
		if _, err := s.Toggle(feature); err != nil {
			t.Errorf("Toggle(%q) failed: %v", feature, err)
		}
	}

	settings := s.GetSettings()
	if settings.MessagesEnabled || settings.GamesEnabled || settings.GalleryEnabled {
		t.Errorf("Expected all features disabled, but got %+v", settings)
	}
}

// TestToggleRejectsUnknownFeature は未定義の機能名が設定に触れずに拒否されることをテストします。
func TestToggleRejectsUnknownFeature(t *testing.T) {
	s := NewService(nil)

	before := s.GetSettings()
	if _, err := s.Toggle("unknown-feature"); err == nil {
		t.Fatal("Expected error for unknown feature, but got nil")
	}

	after := s.GetSettings()
	if before.MessagesEnabled != after.MessagesEnabled ||
		before.GamesEnabled != after.GamesEnabled ||
		before.GalleryEnabled != after.GalleryEnabled {
		t.Error("Expected settings to be unchanged after rejected toggle")
	}
}

// TestConcurrentTogglesDoNotLoseUpdates は同時トグルで更新が失われないことをテストします。
// トグル全体が直列化されていれば、偶数回のトグル後は必ず元の状態に戻ります。
func TestConcurrentTogglesDoNotLoseUpdates(t *testing.T) {
	s := NewService(nil)

	const toggles = 8 // 偶数
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Toggle(models.FeatureGames); err != nil {
				t.Errorf("Toggle failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if !s.GetSettings().GamesEnabled {
		t.Error("Expected games to be enabled after an even number of toggles")
	}
}

// TestSaveSettingsUpdatesTimestamp は保存時にLastUpdatedが更新されることをテストします。
func TestSaveSettingsUpdatesTimestamp(t *testing.T) {
	s := NewService(nil)

	before := s.GetSettings()
	saved := s.SaveSettings(models.AccessSettings{MessagesEnabled: false, GamesEnabled: true, GalleryEnabled: true})
	if saved.LastUpdated.Before(before.LastUpdated) {
		t.Error("Expected LastUpdated to move forward on save")
	}
	if saved.MessagesEnabled {
		t.Error("Expected saved settings to reflect the input")
	}
}

// TestPollIntervals は配布するポーリング間隔が正の値で揃っていることをテストします。
func TestPollIntervals(t *testing.T) {
	s := NewService(nil)

	intervals := s.PollIntervals()
	if intervals.SpinCommandSeconds <= 0 ||
		intervals.VoteLeaderboardSeconds <= 0 ||
		intervals.QuizLeaderboardSeconds <= 0 {
		t.Errorf("Expected positive poll intervals, but got %+v", intervals)
	}
	// スピンコマンドは最も更新頻度が高い
	if intervals.SpinCommandSeconds > intervals.VoteLeaderboardSeconds {
		t.Errorf("Expected spin polling to be at least as frequent as vote polling, but got %+v", intervals)
	}
}
