package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/projection"
	"github.com/hotelops/housekeeping/internal/service"
)

// BacklogReporter periodically logs request counts per status.
type BacklogReporter struct {
	requests  *service.RequestService
	logger    *zap.Logger
	scheduler *gocron.Scheduler
}

// NewBacklogReporter builds a reporter scheduled in loc.
func NewBacklogReporter(requests *service.RequestService, logger *zap.Logger, loc *time.Location) *BacklogReporter {
	if loc == nil {
		loc = time.Local
	}
	return &BacklogReporter{
		requests:  requests,
		logger:    logger,
		scheduler: gocron.NewScheduler(loc),
	}
}

// Report logs the current status counts once.
func (r *BacklogReporter) Report(ctx context.Context) (projection.StatusCounts, error) {
	requests, err := r.requests.List(ctx, service.RequestListFilter{})
	if err != nil {
		r.logger.Warn("backlog report failed", zap.Error(err))
		return projection.StatusCounts{}, err
	}
	counts := projection.Stats(requests)
	r.logger.Info("request backlog",
		zap.Int("pending", counts.Pending),
		zap.Int("in_progress", counts.InProgress),
		zap.Int("completed", counts.Completed),
		zap.Int("cancelled", counts.Cancelled),
		zap.Int("total", counts.Total))
	return counts, nil
}

// Start runs Report every interval until ctx is done or Stop is called.
func (r *BacklogReporter) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	if _, err := r.scheduler.Every(interval).Do(func() {
		_, _ = r.Report(ctx)
	}); err != nil {
		return err
	}
	r.scheduler.StartAsync()
	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// Stop halts the schedule.
func (r *BacklogReporter) Stop() {
	if r.scheduler.IsRunning() {
		r.scheduler.Stop()
	}
}
