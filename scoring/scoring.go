// Package scoring holds the pure computations behind attempt results and
// leaderboard ranking. No I/O here: services aggregate the answer data
// and persist whatever these functions return.
package scoring

import "math"

// AttemptScore returns the raw score for a finished attempt. Today the
// rule is one point per correct answer; it stays a named function so a
// weighted rule can land without touching callers.
func AttemptScore(correctCount int) int {
	return correctCount
}

// EligibleForRanking filters out attempts answered implausibly fast
// (automation, blind guessing, double-submits) so they never reach the
// leaderboard. An attempt qualifies when the average time per question
// is at least minAvgSeconds; equality qualifies.
func EligibleForRanking(totalTimeSec float64, questionCount int, minAvgSeconds float64) bool {
	if questionCount <= 0 {
		return false
	}
	return totalTimeSec/float64(questionCount) >= minAvgSeconds
}

// RankingScore combines accuracy with a speed bonus. The bonus is
// proportional to the correct count, so a fast attempt with zero correct
// answers scores zero no matter how quick it was. Attempts that overrun
// the nominal exam duration get no bonus but no penalty either.
// timeBonusFactor is a tunable, expected roughly in 0–1.
func RankingScore(correctCount int, totalTimeSec, durationMinutes, timeBonusFactor float64) float64 {
	durationSec := math.Max(1, durationMinutes*60)
	remainingRatio := math.Max(0, (durationSec-totalTimeSec)/durationSec)
	score := float64(correctCount) + remainingRatio*timeBonusFactor*float64(correctCount)
	return round4(score)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
