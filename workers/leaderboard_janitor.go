package workers

import (
	"context"
	"log"
	"time"

	"exam-prep-system/cache"
	"exam-prep-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// LeaderboardJanitor prunes WEEK leaderboard rows that have fallen out
// of the current weekly window and drops the ranking cache afterwards.
// ALL rows are kept forever. Pruning is cosmetic (queries already window
// on created_at) but keeps the table from growing without bound.
type LeaderboardJanitor struct {
	db          *gorm.DB
	rankings    *cache.RankingCache
	startOfWeek func(time.Time) time.Time
	scheduler   gocron.Scheduler
}

func NewLeaderboardJanitor(db *gorm.DB, rankings *cache.RankingCache, startOfWeek func(time.Time) time.Time) *LeaderboardJanitor {
	return &LeaderboardJanitor{db: db, rankings: rankings, startOfWeek: startOfWeek}
}

// Start schedules the hourly sweep. The first run happens immediately so
// a restart right after the week rollover still cleans up.
func (j *LeaderboardJanitor) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	j.scheduler = sched

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() { j.sweep(ctx) }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	sched.Start()
	log.Println("🧹 Leaderboard janitor running (hourly sweep)")

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()
	return nil
}

func (j *LeaderboardJanitor) sweep(ctx context.Context) {
	cutoff := j.startOfWeek(time.Now())

	result := j.db.WithContext(ctx).
		Where("period = ? AND created_at < ?", models.PeriodWeek, cutoff).
		Delete(&models.LeaderboardEntry{})
	if result.Error != nil {
		log.Printf("⚠️ [JANITOR] Weekly prune failed: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("🧹 [JANITOR] Pruned %d expired weekly entries", result.RowsAffected)
		j.rankings.Invalidate(ctx)
	}
}
