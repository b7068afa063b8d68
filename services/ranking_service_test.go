package services

import (
	"testing"
	"time"

	"exam-prep-system/config"
)

func newRankingService(tz string) *RankingService {
	return NewRankingService(nil, &config.Config{RankingTimezone: tz}, nil)
}

func TestStartOfWeekIsSundayMidnight(t *testing.T) {
	s := newRankingService("UTC")

	// Wednesday 2026-01-07 15:30 UTC → Sunday 2026-01-04 00:00 UTC
	now := time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC)
	got := s.StartOfWeek(now)
	want := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfWeek = %v, want %v", got, want)
	}

	// a Sunday maps to itself at midnight
	sunday := time.Date(2026, 1, 4, 23, 59, 0, 0, time.UTC)
	if got := s.StartOfWeek(sunday); !got.Equal(want) {
		t.Fatalf("Sunday StartOfWeek = %v, want %v", got, want)
	}
}

func TestStartOfWeekUsesConfiguredTimezone(t *testing.T) {
	s := newRankingService("America/Bahia")

	// 01:00 UTC Sunday is still Saturday 22:00 in Bahia (UTC-3), so the
	// window must start on the previous Sunday, Bahia time.
	now := time.Date(2026, 1, 4, 1, 0, 0, 0, time.UTC)
	got := s.StartOfWeek(now)

	loc, err := time.LoadLocation("America/Bahia")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	want := time.Date(2025, 12, 28, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("StartOfWeek = %v, want %v", got, want)
	}
}

func TestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	s := newRankingService("Not/AZone")
	now := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	want := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	if got := s.StartOfWeek(now); !got.Equal(want) {
		t.Fatalf("fallback StartOfWeek = %v, want %v", got, want)
	}
}
