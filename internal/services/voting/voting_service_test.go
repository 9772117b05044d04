package voting

import (
	"sync"
	"testing"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// newOfflineService は永続ストアなしの投票サービスを作成します（インメモリのみ）。
func newOfflineService() *Service {
	return NewService(nil)
}

// TestAddPerformance はパフォーマンス登録の基本動作をテストします。
func TestAddPerformance(t *testing.T) {
	s := newOfflineService()

	p, err := s.AddPerformance("Emma", "モノマネをする", models.CategoryFunny)
	if err != nil {
		t.Fatalf("AddPerformance failed: %v", err)
	}
	if p.ID == "" {
		t.Error("Expected a generated performance ID, but got empty string")
	}
	if p.VoteCount != 0 {
		t.Errorf("Expected new performance to start with 0 votes, but got %d", p.VoteCount)
	}

	board := s.GetLeaderboard()
	if len(board) != 1 {
		t.Fatalf("Expected 1 performance on the leaderboard, but got %d", len(board))
	}
	if board[0].Performer != "Emma" {
		t.Errorf("Expected performer 'Emma', but got %q", board[0].Performer)
	}
}

// TestAddPerformanceValidation は必須フィールドと不正カテゴリの拒否をテストします。
func TestAddPerformanceValidation(t *testing.T) {
	s := newOfflineService()

	if _, err := s.AddPerformance("", "お題", models.CategoryFunny); err == nil {
		t.Error("Expected error for empty performer, but got nil")
	}
	if _, err := s.AddPerformance("Emma", "", models.CategoryFunny); err == nil {
		t.Error("Expected error for empty task, but got nil")
	}
	if _, err := s.AddPerformance("Emma", "お題", "unknown"); err == nil {
		t.Error("Expected error for invalid category, but got nil")
	}
}

// TestVoteReplacesPreviousBallot は別パフォーマンスへの投票が旧投票の置き換えになることをテストします。
func TestVoteReplacesPreviousBallot(t *testing.T) {
	s := newOfflineService()

	p1, _ := s.AddPerformance("Emma", "モノマネ", models.CategoryFunny)
	p2, _ := s.AddPerformance("Yuki", "早口言葉", models.CategorySilly)

	if _, err := s.Vote(p1.ID, "Alex"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if _, err := s.Vote(p2.ID, "Alex"); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}

	_, ballots := s.Data()
	if len(ballots) != 1 {
		t.Fatalf("Expected exactly 1 ballot for voter, but got %d", len(ballots))
	}
	if ballots[0].PerformanceID != p2.ID {
		t.Errorf("Expected ballot to point to %s, but got %s", p2.ID, ballots[0].PerformanceID)
	}

	board := s.GetLeaderboard()
	for _, p := range board {
		switch p.ID {
		case p1.ID:
			if p.VoteCount != 0 {
				t.Errorf("Expected old performance to have 0 votes, but got %d", p.VoteCount)
			}
		case p2.ID:
			if p.VoteCount != 1 {
				t.Errorf("Expected new performance to have 1 vote, but got %d", p.VoteCount)
			}
		}
	}
}

// TestVoteIsIdempotent は同じパフォーマンスへの再投票が票を増やさないことをテストします。
func TestVoteIsIdempotent(t *testing.T) {
	s := newOfflineService()

	p, _ := s.AddPerformance("Emma", "モノマネ", models.CategoryFunny)

	for i := 0; i < 3; i++ {
		ok, err := s.Vote(p.ID, "Alex")
		if err != nil {
			t.Fatalf("Vote failed: %v", err)
		}
		if !ok {
			t.Error("Expected repeated vote to report success")
		}
	}

	_, ballots := s.Data()
	if len(ballots) != 1 {
		t.Errorf("Expected exactly 1 ballot after repeated votes, but got %d", len(ballots))
	}
}

// TestVoteValidation は必須フィールドの拒否をテストします。
func TestVoteValidation(t *testing.T) {
	s := newOfflineService()

	if _, err := s.Vote("", "Alex"); err == nil {
		t.Error("Expected error for empty performance_id, but got nil")
	}
	if _, err := s.Vote("some-id", ""); err == nil {
		t.Error("Expected error for empty voter_name, but got nil")
	}
}

// TestConcurrentVotesFromSameVoter は同一投票者の並行投票でも票が最大1件に保たれることをテストします。
func TestConcurrentVotesFromSameVoter(t *testing.T) {
	s := newOfflineService()

	p1, _ := s.AddPerformance("Emma", "モノマネ", models.CategoryFunny)
	p2, _ := s.AddPerformance("Yuki", "早口言葉", models.CategorySilly)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		target := p1.ID
		if i%2 == 0 {
			target = p2.ID
		}
		go func(id string) {
			defer wg.Done()
			s.Vote(id, "Alex")
		}(target)
	}
	wg.Wait()

	_, ballots := s.Data()
	if len(ballots) != 1 {
		t.Errorf("Expected exactly 1 ballot after concurrent votes, but got %d", len(ballots))
	}
}

// TestLeaderboardOrder は票数降順と同票時の登録順維持をテストします。
func TestLeaderboardOrder(t *testing.T) {
	s := newOfflineService()

	p1, _ := s.AddPerformance("Emma", "モノマネ", models.CategoryFunny)
	p2, _ := s.AddPerformance("Yuki", "早口言葉", models.CategorySilly)
	p3, _ := s.AddPerformance("Alex", "ダンス", models.CategoryEmbarrassing)

	s.Vote(p2.ID, "voter1")
	s.Vote(p2.ID, "voter2")
	s.Vote(p3.ID, "voter3")

	board := s.GetLeaderboard()
	if len(board) != 3 {
		t.Fatalf("Expected 3 performances, but got %d", len(board))
	}
	if board[0].ID != p2.ID {
		t.Errorf("Expected %s at rank 1, but got %s", p2.ID, board[0].ID)
	}
	if board[1].ID != p3.ID {
		t.Errorf("Expected %s at rank 2, but got %s", p3.ID, board[1].ID)
	}
	// 0票同士は登録順
	if board[2].ID != p1.ID {
		t.Errorf("Expected %s at rank 3, but got %s", p1.ID, board[2].ID)
	}
}

// TestClearAll はリセット後に全データが消えることをテストします。
func TestClearAll(t *testing.T) {
	s := newOfflineService()

	p, _ := s.AddPerformance("Emma", "モノマネ", models.CategoryFunny)
	s.Vote(p.ID, "Alex")

	s.ClearAll()

	performances, ballots := s.Data()
	if len(performances) != 0 || len(ballots) != 0 {
		t.Errorf("Expected empty ledger after ClearAll, but got %d performances and %d ballots",
			len(performances), len(ballots))
	}
}
