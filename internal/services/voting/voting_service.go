package voting

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// PollIntervalSeconds はクライアントに推奨する順位表ポーリング間隔（秒）です。
const PollIntervalSeconds = 10

// Service はパフォーマンスと投票の台帳を担当するサービスです。
// 永続ストアへの書き込み失敗はインメモリ台帳に切り替えて呼び出し側には返しません。
// 投票は投票者ごとにロックを取って直列化するため、ダブルクリックで
// 票が二重になったり集計がずれたりすることはありません。
type Service struct {
	repo   database.PerformanceRepository // nilの場合はインメモリのみで動作
	memory *memoryStore

	lockMu     sync.Mutex
	voterLocks map[string]*sync.Mutex // voterName -> 投票直列化用ロック
}

// NewService は新しい投票サービスを作成します。
func NewService(repo database.PerformanceRepository) *Service {
	return &Service{
		repo:       repo,
		memory:     newMemoryStore(),
		voterLocks: make(map[string]*sync.Mutex),
	}
}

// voterLock は投票者ごとのロックを返します（なければ作成）。
func (s *Service) voterLock(voterName string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	lock, ok := s.voterLocks[voterName]
	if !ok {
		lock = &sync.Mutex{}
		s.voterLocks[voterName] = lock
	}
	return lock
}

// AddPerformance は新しいパフォーマンスを票数0で登録します。
// 永続ストアのエラーで呼び出し側を失敗させることはありません。
func (s *Service) AddPerformance(performer, task, category string) (*models.Performance, error) {
	if performer == "" {
		return nil, fmt.Errorf("performerは必須です")
	}
	if task == "" {
		return nil, fmt.Errorf("taskは必須です")
	}
	if !models.IsValidCategory(category) {
		return nil, fmt.Errorf("不正なカテゴリです: %s", category)
	}

	p := &models.Performance{
		ID:        uuid.New().String(),
		Performer: performer,
		Task:      task,
		Category:  category,
		CreatedAt: time.Now(),
		VoteCount: 0,
	}

	if s.repo != nil {
		if err := s.repo.CreatePerformance(p); err != nil {
			log.Printf("VotingService Error: パフォーマンスの永続化に失敗しました（インメモリで継続）: %v", err)
		}
	}

	// フォールバック台帳にも常に記録しておく
	s.memory.addPerformance(*p)

	log.Printf("VotingService Info: パフォーマンス %s を登録しました (performer=%s)", p.ID, performer)
	return p, nil
}

// Vote は投票を記録します。同じ投票者の投票は常に最大1件で、
// 別のパフォーマンスへの投票は旧投票の置き換えになります。
// 同じパフォーマンスへの再投票は冪等に成功を返します。
func (s *Service) Vote(performanceID, voterName string) (bool, error) {
	if performanceID == "" {
		return false, fmt.Errorf("performance_idは必須です")
	}
	if voterName == "" {
		return false, fmt.Errorf("voter_nameは必須です")
	}

	// 同一投票者の操作を直列化する（ダブルクリック対策）
	lock := s.voterLock(voterName)
	lock.Lock()
	defer lock.Unlock()

	if s.repo != nil {
		ok, err := s.repo.ReplaceBallot(performanceID, voterName)
		if err == nil {
			// キャッシュも揃えておく
			s.memory.vote(performanceID, voterName)
			return ok, nil
		}
		log.Printf("VotingService Error: 投票の永続化に失敗しました（インメモリで継続）: %v", err)
	}

	s.memory.vote(performanceID, voterName)
	return true, nil
}

// GetLeaderboard は全パフォーマンスを票数の多い順で返します。
// 票数は保存済みカウンタではなく、その場で投票の集合から数え直します。
// 同票の場合は登録順が保たれます（安定ソート）。
func (s *Service) GetLeaderboard() []models.Performance {
	performances, ballots := s.currentData()

	// 票数を投票の集合から再計算する
	counts := make(map[string]int, len(performances))
	for _, b := range ballots {
		counts[b.PerformanceID]++
	}
	for i := range performances {
		performances[i].VoteCount = counts[performances[i].ID]
	}

	sort.SliceStable(performances, func(i, j int) bool {
		return performances[i].VoteCount > performances[j].VoteCount
	})

	return performances
}

// currentData は永続ストアを優先してパフォーマンスと投票を取得します。
// 取得できたらフォールバック台帳も最新化し、失敗したら台帳のコピーを返します。
func (s *Service) currentData() ([]models.Performance, []models.Ballot) {
	if s.repo != nil {
		performances, perr := s.repo.GetPerformances()
		if perr == nil {
			ballots, berr := s.repo.GetBallots()
			if berr == nil {
				s.memory.replaceAll(performances, ballots)
				return performances, ballots
			}
			perr = berr
		}
		log.Printf("VotingService Error: 永続ストアからの取得に失敗しました（インメモリで継続）: %v", perr)
	}

	return s.memory.snapshot()
}

// ClearAll は全パフォーマンスと投票を消去します（イベント間のリセット用）。
func (s *Service) ClearAll() {
	if s.repo != nil {
		if err := s.repo.ClearAll(); err != nil {
			log.Printf("VotingService Error: 永続ストアのリセットに失敗しました: %v", err)
		}
	}
	s.memory.clear()
	log.Printf("VotingService Info: 投票データをリセットしました")
}

// Data は現在のパフォーマンスと投票の集合を返します（統合順位表の計算用）。
func (s *Service) Data() ([]models.Performance, []models.Ballot) {
	return s.currentData()
}
