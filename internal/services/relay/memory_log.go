package relay

import (
	"sync"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

// memoryLog は永続ストアが使えないときのフォールバック用コマンドログです。
// 直近cap件だけを保持し、全操作を単一のMutexで直列化します。
// 消費フラグの反転がロック内で行われるため、同一プロセス内の並行ポーラーが
// 同じコマンドを二重に受け取ることはありません。
type memoryLog struct {
	mu       sync.Mutex
	cap      int
	commands []*models.SpinCommand
}

func newMemoryLog(cap int) *memoryLog {
	return &memoryLog{cap: cap}
}

// append はコマンドのコピーをログ末尾に追加し、上限を超えた古いものを捨てます。
func (l *memoryLog) append(cmd *models.SpinCommand) {
	l.mu.Lock()
	defer l.mu.Unlock()

	copied := *cmd
	l.commands = append(l.commands, &copied)
	if len(l.commands) > l.cap {
		l.commands = l.commands[len(l.commands)-l.cap:]
	}
}

// claimLatestUnconsumed はfreshness以内の最新の未消費コマンドを消費済みにして返します。
func (l *memoryLog) claimLatestUnconsumed(freshness time.Duration) *models.SpinCommand {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-freshness)
	for i := len(l.commands) - 1; i >= 0; i-- {
		cmd := l.commands[i]
		if cmd.Consumed || cmd.CreatedAt.Before(cutoff) {
			continue
		}
		cmd.Consumed = true
		claimed := *cmd
		return &claimed
	}
	return nil
}

// markConsumed は指定IDのコマンドを消費済みにします（永続ストア側と揃えるため）。
func (l *memoryLog) markConsumed(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, cmd := range l.commands {
		if cmd.ID == id {
			cmd.Consumed = true
			return
		}
	}
}

// cleanup は保持期間を過ぎた消費済みコマンドだけを取り除きます。
// 未消費のコマンドは古くても残します。
func (l *memoryLog) cleanup(retention time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	kept := l.commands[:0]
	for _, cmd := range l.commands {
		if cmd.Consumed && cmd.CreatedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, cmd)
	}
	l.commands = kept
}

// size は現在の保持件数を返します（テスト用）。
func (l *memoryLog) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.commands)
}
