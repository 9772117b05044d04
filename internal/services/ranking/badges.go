package ranking

// バッジ名の定義。クライアントはこの文字列をそのまま表示します。
const (
	BadgeQuizMaster     = "Quiz Master"     // パーフェクトスコアを1回以上出した
	BadgeQuizChampion   = "Quiz Champion"   // クイズ順位1位（スコア>0）
	BadgeQuizEnthusiast = "Quiz Enthusiast" // クイズに規定回数以上挑戦した
	BadgeTopPerformer   = "Top Performer"   // パフォーマンス票数1位（票>0）
	BadgeCrowdFavorite  = "Crowd Favorite"  // 規定票数以上を獲得した
	BadgeStageStar      = "Stage Star"      // 規定回数以上パフォーマンスした
	BadgeAllRounder     = "All-Rounder"     // クイズとパフォーマンスの両方で実績がある
	BadgePartyLegend    = "Party Legend"    // 合計ポイントが規定値以上
)

// バッジとボーナスの閾値。ロジックに直値を散らさず、調整はここだけで済ませます。
const (
	// VotePointMultiplier は獲得票1票あたりの換算ポイントです。
	VotePointMultiplier = 10

	// PerfectScoreBonus はパーフェクトスコア保持者への加点です。
	PerfectScoreBonus = 50

	// QuizChampionBonus はクイズ順位1位への加点です。
	QuizChampionBonus = 100

	// TopPerformerBonus はパフォーマンス票数1位への加点です。
	TopPerformerBonus = 100

	// QuizEnthusiastAttempts はQuiz Enthusiastに必要な挑戦回数です。
	QuizEnthusiastAttempts = 5

	// CrowdFavoriteVotes はCrowd Favoriteに必要な票数です。
	CrowdFavoriteVotes = 10

	// StageStarPerformances はStage Starに必要なパフォーマンス回数です。
	StageStarPerformances = 3

	// PartyLegendPoints はParty Legendに必要な合計ポイントです。
	PartyLegendPoints = 500
)
