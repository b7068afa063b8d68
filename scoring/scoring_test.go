package scoring

import "testing"

func TestAttemptScoreIsCorrectCount(t *testing.T) {
	for _, n := range []int{0, 1, 40, 80} {
		if got := AttemptScore(n); got != n {
			t.Fatalf("AttemptScore(%d) = %d", n, got)
		}
	}
}

func TestEligibilityRejectsEmptyAttempts(t *testing.T) {
	// questionCount <= 0 must short-circuit before any division
	if EligibleForRanking(1000, 0, 10) {
		t.Fatal("zero questions must not be eligible")
	}
	if EligibleForRanking(1000, -3, 10) {
		t.Fatal("negative question count must not be eligible")
	}
}

func TestEligibilityThreshold(t *testing.T) {
	// avg 7.5s/question < 10s threshold
	if EligibleForRanking(600, 80, 10) {
		t.Fatal("600s over 80 questions should be blocked")
	}
	// avg 15s/question >= 10s
	if !EligibleForRanking(1200, 80, 10) {
		t.Fatal("1200s over 80 questions should qualify")
	}
	// boundary: exactly the threshold qualifies
	if !EligibleForRanking(800, 80, 10) {
		t.Fatal("exact threshold should qualify")
	}
}

func TestRankingScoreRewardsRemainingTime(t *testing.T) {
	score := RankingScore(60, 10000, 300, 0.2)
	if score <= 60 {
		t.Fatalf("expected positive time bonus, got %v", score)
	}
	// remainingRatio = 8000/18000, bonus = ratio*0.2*60
	want := round4(60 + (8000.0/18000.0)*0.2*60)
	if score != want {
		t.Fatalf("score = %v, want %v", score, want)
	}
}

func TestRankingScoreZeroFactorCollapsesToRawScore(t *testing.T) {
	for _, correct := range []int{0, 1, 37, 80} {
		if got := RankingScore(correct, 1234, 300, 0); got != float64(correct) {
			t.Fatalf("zero factor: RankingScore(%d) = %v", correct, got)
		}
	}
}

func TestRankingScoreClampsOverrunToRawScore(t *testing.T) {
	// totalTimeSec >= duration ⇒ remaining ratio clamps at zero
	if got := RankingScore(42, 300*60, 300, 0.2); got != 42 {
		t.Fatalf("exact overrun: got %v", got)
	}
	if got := RankingScore(42, 300*60+500, 300, 0.2); got != 42 {
		t.Fatalf("past overrun: got %v", got)
	}
}

func TestRankingScoreZeroCorrectIsAlwaysZero(t *testing.T) {
	for _, factor := range []float64{0, 0.2, 1, 5} {
		if got := RankingScore(0, 10, 300, factor); got != 0 {
			t.Fatalf("zero correct with factor %v scored %v", factor, got)
		}
	}
}

func TestRankingScoreMisconfiguredDuration(t *testing.T) {
	// duration floors at one second instead of dividing by zero
	got := RankingScore(10, 0, 0, 0.5)
	if got != 15 { // full remaining ratio of the 1s floor
		t.Fatalf("zero-duration exam: got %v, want 15", got)
	}
}

func TestRankingScoreRoundsToFourDigits(t *testing.T) {
	got := RankingScore(7, 1000, 60, 0.3)
	// remaining = 2600/3600; 7 + 0.722...*0.3*7 = 8.51666...
	if got != 8.5167 {
		t.Fatalf("got %v, want 8.5167", got)
	}
}
