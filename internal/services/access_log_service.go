package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rfid-access/backend/internal/events"
	"github.com/rfid-access/backend/internal/metrics"
	"github.com/rfid-access/backend/internal/models"
	"go.uber.org/zap"
)

const DefaultLogLimit = 100

// LogStore is the persistence the access log needs. *repositories.AccessLogRepo satisfies it.
type LogStore interface {
	Append(ctx context.Context, e *models.LogEntry) error
	RecentWithCards(ctx context.Context, limit int) ([]models.LogView, error)
	Recent(ctx context.Context, limit int) ([]models.LogView, error)
}

type AccessLogService struct {
	logs      LogStore
	publisher events.Publisher
	maxLimit  int
	log       *zap.Logger
}

func NewAccessLogService(logs LogStore, publisher events.Publisher, maxLimit int, log *zap.Logger) *AccessLogService {
	if maxLimit <= 0 {
		maxLimit = DefaultLogLimit
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AccessLogService{
		logs:      logs,
		publisher: publisher,
		maxLimit:  maxLimit,
		log:       log,
	}
}

// Append writes one entry and announces it on the live feed. Unknown actions
// are rejected before reaching storage.
func (s *AccessLogService) Append(ctx context.Context, uid, action string, relays *int) (*models.LogEntry, error) {
	if !models.IsValidAction(action) {
		return nil, validation(CodeInvalidAction, "unknown action "+action)
	}
	e := &models.LogEntry{UID: uid, Action: action, Relays: relays}
	if err := s.logs.Append(ctx, e); err != nil {
		return nil, &StorageError{Op: "append log", Err: err}
	}
	metrics.AccessEvents.WithLabelValues(action).Inc()

	payload := map[string]any{
		"id":         e.ID,
		"uid":        e.UID,
		"action":     e.Action,
		"relays":     e.Relays,
		"created_at": e.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, events.ChannelAccess, events.Event{
		Type:    events.EventAccessLogAppended,
		Payload: payload,
	}); err != nil {
		s.log.Warn("failed to publish access event", zap.String("uid", uid), zap.Error(err))
	}
	return e, nil
}

// RecordDeviceEvent appends a GRANTED/DENIED decision reported by a reader.
func (s *AccessLogService) RecordDeviceEvent(ctx context.Context, deviceID, uid, action string, relays *int) (*models.LogEntry, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, validation(CodeNoUID, "uid is required")
	}
	action = strings.ToUpper(strings.TrimSpace(action))
	if !models.IsDeviceAction(action) {
		return nil, validation(CodeInvalidAction, "action must be GRANTED or DENIED")
	}
	if relays != nil && !models.IsValidMask(*relays) {
		return nil, validation(CodeInvalidRelays, "relays must be in [0,255]")
	}

	e, err := s.Append(ctx, uid, action, relays)
	if err != nil {
		return nil, err
	}
	s.log.Info("device event recorded",
		zap.String("device_id", deviceID),
		zap.String("uid", uid),
		zap.String("action", action),
	)
	return e, nil
}

// Recent returns up to limit newest entries. When joinWithCards is set and the
// join fails, it retries without the cards table. It never returns an error
// directly; failures are carried in the result.
func (s *AccessLogService) Recent(ctx context.Context, limit int, joinWithCards bool) ListResult[models.LogView] {
	limit = s.clampLimit(limit)

	var primaryErr error
	if joinWithCards {
		logs, err := s.logs.RecentWithCards(ctx, limit)
		if err == nil {
			return okResult(logs)
		}
		if isContextErr(ctx, err) {
			return failedResult[models.LogView](&StorageError{Op: "list logs", Err: err})
		}
		s.log.Warn("joined log query failed, using degraded query", zap.Error(err))
		metrics.DegradedReads.WithLabelValues("logs").Inc()
		primaryErr = err
	}

	logs, err := s.logs.Recent(ctx, limit)
	if err != nil {
		if primaryErr != nil {
			err = primaryErr
		}
		s.log.Error("log query failed", zap.Error(err))
		return failedResult[models.LogView](&StorageError{Op: "list logs", Err: err})
	}
	return okResult(logs)
}

func (s *AccessLogService) clampLimit(limit int) int {
	if limit <= 0 || limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func isContextErr(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
