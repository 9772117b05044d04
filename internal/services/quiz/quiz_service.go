package quiz

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

const (
	// PollIntervalSeconds はクライアントに推奨する順位表の自動更新間隔（秒）です。
	PollIntervalSeconds = 30

	// MemoryHistoryCap はフォールバック保存時に保持する結果の最大件数です。
	// 上限を超えたら古いものから捨てます。
	MemoryHistoryCap = 100
)

// Service はクイズ結果の記録と集計を担当するサービスです。
// 永続ストアが使えないときはインメモリの履歴（直近100件）に切り替えます。
type Service struct {
	repo database.QuizRepository // nilの場合はインメモリのみで動作

	mu      sync.Mutex
	history []models.QuizResult // フォールバック用の履歴
}

// NewService は新しいクイズサービスを作成します。
func NewService(repo database.QuizRepository) *Service {
	return &Service{repo: repo}
}

// SaveResult はクイズ結果を追記します。保存後のレコードは変更されません。
// 永続ストアのエラーで呼び出し側を失敗させることはありません。
func (s *Service) SaveResult(req *models.QuizResultRequest) (*models.QuizResult, error) {
	if req.PlayerName == "" {
		return nil, fmt.Errorf("player_nameは必須です")
	}
	if req.TotalQuestions <= 0 {
		return nil, fmt.Errorf("total_questionsは1以上である必要があります")
	}
	if req.Score < 0 {
		return nil, fmt.Errorf("スコアは0以上である必要があります")
	}
	if req.CorrectAnswers < 0 || req.CorrectAnswers > req.TotalQuestions {
		return nil, fmt.Errorf("correct_answersが問題数と矛盾しています")
	}

	result := &models.QuizResult{
		PlayerName:            req.PlayerName,
		Score:                 req.Score,
		CorrectAnswers:        req.CorrectAnswers,
		TotalQuestions:        req.TotalQuestions,
		CompletionTimeSeconds: req.CompletionTimeSeconds,
		IsPerfectScore:        req.IsPerfectScore,
		CompletedAt:           time.Now(),
	}

	if s.repo != nil {
		saved, err := s.repo.CreateResult(result)
		if err == nil {
			s.appendHistory(*saved)
			return saved, nil
		}
		log.Printf("QuizService Error: クイズ結果の永続化に失敗しました（インメモリで継続）: %v", err)
	}

	s.appendHistory(*result)
	return result, nil
}

// appendHistory はフォールバック履歴に追記し、上限を超えた古い結果を捨てます。
func (s *Service) appendHistory(result models.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, result)
	if len(s.history) > MemoryHistoryCap {
		s.history = s.history[len(s.history)-MemoryHistoryCap:]
	}
}

// GetResults は全クイズ結果を完了時刻の昇順で返します。
func (s *Service) GetResults() []models.QuizResult {
	if s.repo != nil {
		results, err := s.repo.GetResults()
		if err == nil {
			return results
		}
		log.Printf("QuizService Error: クイズ結果の取得に失敗しました（インメモリで継続）: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.QuizResult(nil), s.history...)
}

// HasCompleted は指定したプレイヤーの完了済み結果が存在するかを返します。
// 「一人一回」のビジネスルールはこの判定を使ってUI側で再挑戦を弾きます。
func (s *Service) HasCompleted(playerName string) bool {
	if s.repo != nil {
		done, err := s.repo.HasCompleted(playerName)
		if err == nil {
			return done
		}
		log.Printf("QuizService Error: クイズ完了確認に失敗しました（インメモリで継続）: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.history {
		if r.PlayerName == playerName {
			return true
		}
	}
	return false
}

// Leaderboard は全結果をプレイヤーごとに畳み込んだクイズ順位表を返します。
// ベストスコアの降順、同点なら最短完了時間の昇順で並び、1始まりの順位を振ります。
func (s *Service) Leaderboard() []models.QuizLeaderboardEntry {
	return AggregateResults(s.GetResults())
}

// ClearAll は全クイズ結果を消去します（イベント間のリセット用）。
func (s *Service) ClearAll() {
	if s.repo != nil {
		if err := s.repo.ClearAll(); err != nil {
			log.Printf("QuizService Error: 永続ストアのリセットに失敗しました: %v", err)
		}
	}

	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
	log.Printf("QuizService Info: クイズ結果をリセットしました")
}

// AggregateResults はクイズ結果の集合をプレイヤーごとの順位表エントリに畳み込みます。
// 純粋関数なので、同じ入力からは常に同じ出力が得られます。
func AggregateResults(results []models.QuizResult) []models.QuizLeaderboardEntry {
	type playerStats struct {
		scores   []int
		times    []int
		perfects int
		last     time.Time
	}

	stats := make(map[string]*playerStats)
	var order []string // mapの走査順に依存しないよう初出順を覚えておく

	for _, r := range results {
		st, ok := stats[r.PlayerName]
		if !ok {
			st = &playerStats{last: r.CompletedAt}
			stats[r.PlayerName] = st
			order = append(order, r.PlayerName)
		}
		st.scores = append(st.scores, r.Score)
		st.times = append(st.times, r.CompletionTimeSeconds)
		if r.IsPerfectScore {
			st.perfects++
		}
		if r.CompletedAt.After(st.last) {
			st.last = r.CompletedAt
		}
	}

	entries := make([]models.QuizLeaderboardEntry, 0, len(order))
	for _, name := range order {
		st := stats[name]

		best, bestTime, sum := st.scores[0], st.times[0], 0
		for i := range st.scores {
			if st.scores[i] > best {
				best = st.scores[i]
			}
			if st.times[i] < bestTime {
				bestTime = st.times[i]
			}
			sum += st.scores[i]
		}

		entries = append(entries, models.QuizLeaderboardEntry{
			PlayerName:         name,
			BestScore:          best,
			TotalAttempts:      len(st.scores),
			BestCompletionTime: bestTime,
			AverageScore:       int(math.Round(float64(sum) / float64(len(st.scores)))),
			PerfectScores:      st.perfects,
			LastPlayed:         st.last,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].BestScore != entries[j].BestScore {
			return entries[i].BestScore > entries[j].BestScore
		}
		return entries[i].BestCompletionTime < entries[j].BestCompletionTime
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
