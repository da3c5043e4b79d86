package services

import (
	"context"
	"time"

	"github.com/rfid-access/backend/internal/metrics"
	"github.com/rfid-access/backend/internal/models"
	"go.uber.org/zap"
)

type DashboardSnapshot struct {
	Cards          ListResult[models.Card]    `json:"cards"`
	Logs           ListResult[models.LogView] `json:"logs"`
	TotalCards     int                        `json:"total_cards"`
	TotalLogs      int                        `json:"total_logs"`
	PollIntervalMS int64                      `json:"poll_interval_ms"`
}

type QueryService struct {
	cards         CardStore
	accessLog     *AccessLogService
	dashboardLogs int
	pollInterval  time.Duration
	log           *zap.Logger
}

func NewQueryService(cards CardStore, accessLog *AccessLogService, dashboardLogs int, pollInterval time.Duration, log *zap.Logger) *QueryService {
	return &QueryService{
		cards:         cards,
		accessLog:     accessLog,
		dashboardLogs: dashboardLogs,
		pollInterval:  pollInterval,
		log:           log,
	}
}

// ListCards returns all cards by uid. If the full query fails it retries with
// uid and mask only, leaving name and division empty.
func (s *QueryService) ListCards(ctx context.Context) ListResult[models.Card] {
	cards, err := s.cards.List(ctx)
	if err == nil {
		return okResult(cards)
	}
	if isContextErr(ctx, err) {
		return failedResult[models.Card](&StorageError{Op: "list cards", Err: err})
	}

	s.log.Warn("card query failed, using degraded query", zap.Error(err))
	metrics.DegradedReads.WithLabelValues("cards").Inc()

	cards, fallbackErr := s.cards.ListBasic(ctx)
	if fallbackErr != nil {
		s.log.Error("card query failed", zap.Error(fallbackErr))
		return failedResult[models.Card](&StorageError{Op: "list cards", Err: err})
	}
	return okResult(cards)
}

func (s *QueryService) ListRecentLogs(ctx context.Context, limit int) ListResult[models.LogView] {
	return s.accessLog.Recent(ctx, limit, true)
}

func (s *QueryService) Dashboard(ctx context.Context) DashboardSnapshot {
	cards := s.ListCards(ctx)
	logs := s.ListRecentLogs(ctx, s.dashboardLogs)
	return DashboardSnapshot{
		Cards:          cards,
		Logs:           logs,
		TotalCards:     len(cards.Data),
		TotalLogs:      len(logs.Data),
		PollIntervalMS: s.pollInterval.Milliseconds(),
	}
}
