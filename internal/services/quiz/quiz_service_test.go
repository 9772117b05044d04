package quiz

import (
	"testing"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// newOfflineService は永続ストアなしのクイズサービスを作成します（インメモリのみ）。
func newOfflineService() *Service {
	return NewService(nil)
}

// TestSaveResult は結果保存の基本動作をテストします。
func TestSaveResult(t *testing.T) {
	s := newOfflineService()

	saved, err := s.SaveResult(&models.QuizResultRequest{
		PlayerName:            "Emma",
		Score:                 80,
		CorrectAnswers:        8,
		TotalQuestions:        10,
		CompletionTimeSeconds: 45,
	})
	if err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if saved.CompletedAt.IsZero() {
		t.Error("Expected CompletedAt to be set, but it is zero")
	}

	results := s.GetResults()
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, but got %d", len(results))
	}
	if results[0].PlayerName != "Emma" || results[0].Score != 80 {
		t.Errorf("Stored result does not match input: %+v", results[0])
	}
}

// TestSaveResultValidation は不正な結果リクエストの拒否をテストします。
func TestSaveResultValidation(t *testing.T) {
	s := newOfflineService()

	cases := []struct {
		name string
		req  models.QuizResultRequest
	}{
		{"empty player", models.QuizResultRequest{Score: 10, CorrectAnswers: 1, TotalQuestions: 10}},
		{"zero questions", models.QuizResultRequest{PlayerName: "Emma", Score: 10, TotalQuestions: 0}},
		{"negative score", models.QuizResultRequest{PlayerName: "Emma", Score: -1, TotalQuestions: 10}},
		{"too many correct answers", models.QuizResultRequest{PlayerName: "Emma", Score: 10, CorrectAnswers: 11, TotalQuestions: 10}},
	}

	for _, tc := range cases {
		if _, err := s.SaveResult(&tc.req); err == nil {
			t.Errorf("Expected error for %s, but got nil", tc.name)
		}
	}

	if len(s.GetResults()) != 0 {
		t.Error("Expected no results to be stored after rejected requests")
	}
}

// TestResultsAreAppendOnly は同じプレイヤーの再挑戦が既存結果を上書きしないことをテストします。
func TestResultsAreAppendOnly(t *testing.T) {
	s := newOfflineService()

	for _, score := range []int{60, 90} {
		if _, err := s.SaveResult(&models.QuizResultRequest{
			PlayerName:     "Emma",
			Score:          score,
			CorrectAnswers: score / 10,
			TotalQuestions: 10,
		}); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}

	results := s.GetResults()
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, but got %d", len(results))
	}
	if results[0].Score != 60 || results[1].Score != 90 {
		t.Errorf("Expected results in completion order [60 90], but got [%d %d]",
			results[0].Score, results[1].Score)
	}
}

// TestHistoryCap はフォールバック履歴が上限を超えて膨らまないことをテストします。
func TestHistoryCap(t *testing.T) {
	s := newOfflineService()

	for i := 0; i < MemoryHistoryCap+10; i++ {
		if _, err := s.SaveResult(&models.QuizResultRequest{
			PlayerName:     "Emma",
			Score:          i,
			TotalQuestions: 200,
		}); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}

	results := s.GetResults()
	if len(results) != MemoryHistoryCap {
		t.Errorf("Expected history to be capped at %d, but got %d", MemoryHistoryCap, len(results))
	}
	// 古い結果から捨てられている
	if results[0].Score != 10 {
		t.Errorf("Expected oldest remaining score to be 10, but got %d", results[0].Score)
	}
}

// TestHasCompleted は完了済みプレイヤーの判定をテストします。
func TestHasCompleted(t *testing.T) {
	s := newOfflineService()

	if s.HasCompleted("Emma") {
		t.Error("Expected HasCompleted to be false before any result")
	}

	if _, err := s.SaveResult(&models.QuizResultRequest{
		PlayerName:     "Emma",
		Score:          50,
		CorrectAnswers: 5,
		TotalQuestions: 10,
	}); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	if !s.HasCompleted("Emma") {
		t.Error("Expected HasCompleted to be true after saving a result")
	}
	if s.HasCompleted("Yuki") {
		t.Error("Expected HasCompleted to be false for other players")
	}
}

// TestAggregateResults はプレイヤーごとの集計（ベスト・平均・パーフェクト数）をテストします。
func TestAggregateResults(t *testing.T) {
	now := time.Now()
	results := []models.QuizResult{
		{PlayerName: "Emma", Score: 70, CompletionTimeSeconds: 60, CompletedAt: now},
		{PlayerName: "Emma", Score: 100, CompletionTimeSeconds: 50, IsPerfectScore: true, CompletedAt: now.Add(time.Minute)},
		{PlayerName: "Yuki", Score: 85, CompletionTimeSeconds: 40, CompletedAt: now},
	}

	entries := AggregateResults(results)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 leaderboard entries, but got %d", len(entries))
	}

	emma := entries[0]
	if emma.PlayerName != "Emma" || emma.Rank != 1 {
		t.Errorf("Expected Emma at rank 1, but got %+v", emma)
	}
	if emma.BestScore != 100 {
		t.Errorf("Expected best score 100, but got %d", emma.BestScore)
	}
	if emma.AverageScore != 85 {
		t.Errorf("Expected average score 85, but got %d", emma.AverageScore)
	}
	if emma.BestCompletionTime != 50 {
		t.Errorf("Expected best completion time 50, but got %d", emma.BestCompletionTime)
	}
	if emma.PerfectScores != 1 {
		t.Errorf("Expected 1 perfect score, but got %d", emma.PerfectScores)
	}
	if emma.TotalAttempts != 2 {
		t.Errorf("Expected 2 attempts, but got %d", emma.TotalAttempts)
	}

	if entries[1].PlayerName != "Yuki" || entries[1].Rank != 2 {
		t.Errorf("Expected Yuki at rank 2, but got %+v", entries[1])
	}
}

// TestAggregateResultsTieBreak は同点時に最短完了時間が上位になることをテストします。
func TestAggregateResultsTieBreak(t *testing.T) {
	results := []models.QuizResult{
		{PlayerName: "Emma", Score: 80, CompletionTimeSeconds: 60},
		{PlayerName: "Yuki", Score: 80, CompletionTimeSeconds: 30},
	}

	entries := AggregateResults(results)
	if entries[0].PlayerName != "Yuki" {
		t.Errorf("Expected Yuki to win the tie on completion time, but got %q first", entries[0].PlayerName)
	}
}

// TestAggregateResultsEmpty は空入力で空の順位表が返ることをテストします。
func TestAggregateResultsEmpty(t *testing.T) {
	entries := AggregateResults(nil)
	if len(entries) != 0 {
		t.Errorf("Expected empty leaderboard for empty input, but got %d entries", len(entries))
	}
}

// TestClearAll はリセット後に結果が全て消えることをテストします。
func TestClearAll(t *testing.T) {
	s := newOfflineService()

	s.SaveResult(&models.QuizResultRequest{PlayerName: "Emma", Score: 50, TotalQuestions: 10})
	s.ClearAll()

	if len(s.GetResults()) != 0 {
		t.Error("Expected no results after ClearAll")
	}
	if s.HasCompleted("Emma") {
		t.Error("Expected HasCompleted to be false after ClearAll")
	}
}
