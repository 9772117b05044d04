package voting

import (
	"sync"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// memoryStore は永続ストアが使えないときのフォールバック用台帳です。
// パフォーマンスと投票をそのまま保持し、全操作を単一のMutexで直列化します。
type memoryStore struct {
	mu           sync.Mutex
	performances []models.Performance
	ballots      []models.Ballot
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

// addPerformance はパフォーマンスを登録順で追加します。既存IDなら何もしません。
func (m *memoryStore) addPerformance(p models.Performance) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.performances {
		if existing.ID == p.ID {
			return
		}
	}
	m.performances = append(m.performances, p)
}

// vote は投票者の既存の投票を置き換えます。
// 同じパフォーマンスへの再投票は何もせず成功として扱います。
func (m *memoryStore) vote(performanceID, voterName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, b := range m.ballots {
		if b.VoterName == voterName {
			if b.PerformanceID == performanceID {
				return // 冪等な再投票
			}
			// 旧投票を取り除く
			m.ballots = append(m.ballots[:i], m.ballots[i+1:]...)
			break
		}
	}

	m.ballots = append(m.ballots, models.Ballot{
		PerformanceID: performanceID,
		VoterName:     voterName,
		CastAt:        time.Now(),
	})
}

// replaceAll は永続ストアから取得した最新データでキャッシュを丸ごと入れ替えます。
func (m *memoryStore) replaceAll(performances []models.Performance, ballots []models.Ballot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.performances = append([]models.Performance(nil), performances...)
	m.ballots = append([]models.Ballot(nil), ballots...)
}

// snapshot は現在のパフォーマンスと投票のコピーを返します。
func (m *memoryStore) snapshot() ([]models.Performance, []models.Ballot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	performances := append([]models.Performance(nil), m.performances...)
	ballots := append([]models.Ballot(nil), m.ballots...)
	return performances, ballots
}

// clear は全データを消去します。
func (m *memoryStore) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.performances = nil
	m.ballots = nil
}
