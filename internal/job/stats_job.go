package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"game-board-api/internal/metrics"
	"game-board-api/internal/repository"
)

// StatsJob periodically refreshes the business gauges from the store
type StatsJob struct {
	boardRepo repository.BoardRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewStatsJob creates a new StatsJob instance
func NewStatsJob(boardRepo repository.BoardRepository, m *metrics.Metrics, logger *zap.Logger) *StatsJob {
	return &StatsJob{
		boardRepo: boardRepo,
		metrics:   m,
		logger:    logger,
	}
}

// Run refreshes the boards and memberships gauges. Wired into the cron
// scheduler; also safe to call directly at startup.
func (j *StatsJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	boards, err := j.boardRepo.CountBoards(ctx)
	if err != nil {
		j.logger.Error("Failed to count boards for metrics", zap.Error(err))
		return
	}

	memberships, err := j.boardRepo.CountMemberships(ctx)
	if err != nil {
		j.logger.Error("Failed to count memberships for metrics", zap.Error(err))
		return
	}

	j.metrics.SetBoardsTotal(boards)
	j.metrics.SetMembershipsTotal(memberships)

	j.logger.Debug("Business gauges refreshed",
		zap.Int64("boards", boards),
		zap.Int64("memberships", memberships),
	)
}
