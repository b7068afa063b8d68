package services

import (
	"time"

	"exam-prep-system/cache"
	"exam-prep-system/config"
	"exam-prep-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const rankingLimit = 100

type RankingService struct {
	DB           *gorm.DB
	Cfg          *config.Config
	RankingCache *cache.RankingCache
	location     *time.Location
}

func NewRankingService(db *gorm.DB, cfg *config.Config, rankingCache *cache.RankingCache) *RankingService {
	loc, err := time.LoadLocation(cfg.RankingTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &RankingService{DB: db, Cfg: cfg, RankingCache: rankingCache, location: loc}
}

// RankedUser is what the leaderboard page shows per row.
type RankedUser struct {
	Name      string `json:"name"`
	City      string `json:"city,omitempty"`
	College   string `json:"college,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

type RankingRow struct {
	Position int        `json:"position"`
	User     RankedUser `json:"user"`
	Score    float64    `json:"score"`
	TimeSec  int        `json:"time_sec"`
}

// GetRanking returns the top entries for a period, optionally filtered
// by the user's city/college/class. Only the unfiltered view is cached;
// filters are rare and cheap to run against the cached superset anyway.
func (s *RankingService) GetRanking(c *fiber.Ctx) error {
	period := c.Query("period", models.PeriodWeek)
	if period != models.PeriodAll && period != models.PeriodWeek {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "period must be WEEK or ALL"})
	}

	city := c.Query("city")
	college := c.Query("college")
	className := c.Query("className")
	filtered := city != "" || college != "" || className != ""

	ctx := c.UserContext()
	var rows []RankingRow
	if !filtered && s.RankingCache.Get(ctx, period, &rows) {
		return c.JSON(rows)
	}

	query := s.DB.Preload("User").Where("period = ?", period)
	if period == models.PeriodWeek {
		query = query.Where("created_at >= ?", s.StartOfWeek(time.Now()))
	}

	var entries []models.LeaderboardEntry
	if err := query.Order("score DESC, time_sec ASC").Limit(rankingLimit).Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load ranking"})
	}

	rows = make([]RankingRow, 0, len(entries))
	for _, entry := range entries {
		if city != "" && entry.User.City != city {
			continue
		}
		if college != "" && entry.User.College != college {
			continue
		}
		if className != "" && entry.User.ClassName != className {
			continue
		}
		rows = append(rows, RankingRow{
			Position: len(rows) + 1,
			User: RankedUser{
				Name:      entry.User.Name,
				City:      entry.User.City,
				College:   entry.User.College,
				ClassName: entry.User.ClassName,
			},
			Score:   entry.Score,
			TimeSec: entry.TimeSec,
		})
	}

	if !filtered {
		s.RankingCache.Set(ctx, period, rows)
	}
	return c.JSON(rows)
}

// StartOfWeek returns midnight of the most recent Sunday in the
// configured ranking timezone; the weekly window starts there.
func (s *RankingService) StartOfWeek(now time.Time) time.Time {
	local := now.In(s.location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}
