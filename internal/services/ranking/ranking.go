// Package ranking はクイズ成績と投票成績を1つの順位表に統合する純粋な計算層です。
// ストアを持たず、同じ入力からは必ず同じ出力を返します。
package ranking

import (
	"sort"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/quiz"
)

// ComputeLeaderboard はクイズ結果・パフォーマンス・投票から統合順位表を計算します。
// 入力が空なら空のスライスを返します（エラーではありません）。
//
// 合計ポイント = クイズベストスコア + 獲得票×10 に、
// パーフェクト・クイズ1位・パフォーマンス1位のボーナスを加えたものです。
// 並び順は合計ポイント降順、同点はクイズベストスコア降順 → 獲得票降順 →
// プレイヤー名昇順で完全に決まります（mapの走査順には依存しません）。
func ComputeLeaderboard(
	quizResults []models.QuizResult,
	performances []models.Performance,
	ballots []models.Ballot,
) []models.UnifiedLeaderboardEntry {
	entries := make(map[string]*models.UnifiedLeaderboardEntry)
	var order []string // 初出順。ソートの安定性をmapに左右されないようにする

	ensure := func(name string) *models.UnifiedLeaderboardEntry {
		if e, ok := entries[name]; ok {
			return e
		}
		e := &models.UnifiedLeaderboardEntry{PlayerName: name, Badges: []string{}}
		entries[name] = e
		order = append(order, name)
		return e
	}

	// クイズ成績をプレイヤーごとに集計する
	quizBoard := quiz.AggregateResults(quizResults)
	for _, q := range quizBoard {
		e := ensure(q.PlayerName)
		e.QuizBestScore = q.BestScore
		e.QuizAttempts = q.TotalAttempts
		e.QuizPerfectScores = q.PerfectScores
		e.QuizAverageScore = q.AverageScore
		e.QuizBestTime = q.BestCompletionTime
		e.QuizRank = q.Rank
		e.LastActivity = q.LastPlayed
	}

	// 票数はパフォーマンス側の保存カウンタではなく投票の集合から数え直す
	voteCounts := make(map[string]int, len(performances))
	for _, b := range ballots {
		voteCounts[b.PerformanceID]++
	}

	// パフォーマー単位に獲得票と出演回数を畳み込む
	for _, p := range performances {
		e := ensure(p.Performer)
		e.PerformanceVotes += voteCounts[p.ID]
		e.TotalPerformances++
		if p.CreatedAt.After(e.LastActivity) {
			e.LastActivity = p.CreatedAt
		}
	}

	// パフォーマンス順位（出演実績のあるプレイヤーのみ、票数降順・初出順安定）
	var performers []*models.UnifiedLeaderboardEntry
	for _, name := range order {
		if entries[name].TotalPerformances > 0 {
			performers = append(performers, entries[name])
		}
	}
	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].PerformanceVotes > performers[j].PerformanceVotes
	})
	for i, e := range performers {
		e.PerformanceRank = i + 1
	}

	// 合計ポイントとバッジ
	for _, name := range order {
		e := entries[name]

		points := e.QuizBestScore + e.PerformanceVotes*VotePointMultiplier
		if e.QuizPerfectScores > 0 {
			points += PerfectScoreBonus
		}
		if e.QuizRank == 1 && e.QuizBestScore > 0 {
			points += QuizChampionBonus
		}
		if e.PerformanceRank == 1 && e.PerformanceVotes > 0 {
			points += TopPerformerBonus
		}
		e.TotalPoints = points

		badges := []string{}
		if e.QuizPerfectScores > 0 {
			badges = append(badges, BadgeQuizMaster)
		}
		if e.QuizRank == 1 && e.QuizBestScore > 0 {
			badges = append(badges, BadgeQuizChampion)
		}
		if e.QuizAttempts >= QuizEnthusiastAttempts {
			badges = append(badges, BadgeQuizEnthusiast)
		}
		if e.PerformanceRank == 1 && e.PerformanceVotes > 0 {
			badges = append(badges, BadgeTopPerformer)
		}
		if e.PerformanceVotes >= CrowdFavoriteVotes {
			badges = append(badges, BadgeCrowdFavorite)
		}
		if e.TotalPerformances >= StageStarPerformances {
			badges = append(badges, BadgeStageStar)
		}
		if e.QuizBestScore > 0 && e.TotalPerformances > 0 {
			badges = append(badges, BadgeAllRounder)
		}
		if e.TotalPoints >= PartyLegendPoints {
			badges = append(badges, BadgePartyLegend)
		}
		e.Badges = badges
	}

	// 総合順位。比較関数は全順序なので入力が同じなら出力のバイト列も同じになる
	result := make([]models.UnifiedLeaderboardEntry, 0, len(order))
	for _, name := range order {
		result = append(result, *entries[name])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalPoints != result[j].TotalPoints {
			return result[i].TotalPoints > result[j].TotalPoints
		}
		if result[i].QuizBestScore != result[j].QuizBestScore {
			return result[i].QuizBestScore > result[j].QuizBestScore
		}
		if result[i].PerformanceVotes != result[j].PerformanceVotes {
			return result[i].PerformanceVotes > result[j].PerformanceVotes
		}
		return result[i].PlayerName < result[j].PlayerName
	})
	for i := range result {
		result[i].OverallRank = i + 1
	}

	return result
}

// ComputeGlobalStats はパーティー全体の統計を計算します。
func ComputeGlobalStats(
	quizResults []models.QuizResult,
	performances []models.Performance,
	ballots []models.Ballot,
) models.GlobalStats {
	players := make(map[string]struct{})
	perfects := 0
	scoreSum := 0

	for _, r := range quizResults {
		players[r.PlayerName] = struct{}{}
		scoreSum += r.Score
		if r.IsPerfectScore {
			perfects++
		}
	}
	for _, p := range performances {
		players[p.Performer] = struct{}{}
	}

	average := 0
	if len(quizResults) > 0 {
		average = (scoreSum + len(quizResults)/2) / len(quizResults)
	}

	return models.GlobalStats{
		TotalPlayers:      len(players),
		TotalQuizAttempts: len(quizResults),
		TotalVotes:        len(ballots),
		PerfectScores:     perfects,
		AverageQuizScore:  average,
	}
}
