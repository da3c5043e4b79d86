package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rfid-access/backend/internal/metrics"
	"github.com/rfid-access/backend/internal/models"
	"go.uber.org/zap"
)

// Accepted updated_at layouts. The first one is what the legacy admin form posts.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// CardStore is the persistence the registry and query service need.
// *repositories.CardRepo satisfies it.
type CardStore interface {
	Upsert(ctx context.Context, c models.Card) error
	Delete(ctx context.Context, uid string) (int64, error)
	List(ctx context.Context) ([]models.Card, error)
	ListBasic(ctx context.Context) ([]models.Card, error)
}

type UpsertCardInput struct {
	UID       string
	Name      string
	Division  string
	Mask      string // decimal text; empty means 0
	UpdatedAt string // optional
}

type RegistryService struct {
	cards     CardStore
	accessLog *AccessLogService
	now       func() time.Time
	log       *zap.Logger
}

func NewRegistryService(cards CardStore, accessLog *AccessLogService, log *zap.Logger) *RegistryService {
	return &RegistryService{
		cards:     cards,
		accessLog: accessLog,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// UpsertCard validates the input, writes the card atomically and records an ADD entry.
func (s *RegistryService) UpsertCard(ctx context.Context, in UpsertCardInput) error {
	uid := strings.TrimSpace(in.UID)
	if uid == "" {
		return validation(CodeNoUID, "uid is required")
	}
	mask, err := ParseMask(in.Mask)
	if err != nil {
		return validation(CodeInvalidMask, err.Error())
	}

	updatedAt := s.now()
	if v := strings.TrimSpace(in.UpdatedAt); v != "" {
		t, err := ParseTimestamp(v)
		if err != nil {
			return validation(CodeInvalidUpdatedAt, err.Error())
		}
		updatedAt = t
	}

	card := models.Card{
		UID:       uid,
		Name:      strings.TrimSpace(in.Name),
		Division:  strings.TrimSpace(in.Division),
		Mask:      mask,
		UpdatedAt: &updatedAt,
	}
	if err := s.cards.Upsert(ctx, card); err != nil {
		return &StorageError{Op: "upsert card", Err: err}
	}

	s.appendLog(ctx, uid, models.ActionAdd, &mask)
	return nil
}

// RemoveCard deletes the card; an unknown uid is not an error.
func (s *RegistryService) RemoveCard(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return validation(CodeNoUID, "uid is required")
	}

	n, err := s.cards.Delete(ctx, uid)
	if err != nil {
		return &StorageError{Op: "remove card", Err: err}
	}
	if n == 0 {
		s.log.Debug("remove of unknown card", zap.String("uid", uid))
	}

	s.appendLog(ctx, uid, models.ActionRemove, nil)
	return nil
}

// appendLog records the side-effect entry. Failures are reported, never returned.
func (s *RegistryService) appendLog(ctx context.Context, uid, action string, relays *int) {
	if _, err := s.accessLog.Append(ctx, uid, action, relays); err != nil {
		metrics.LogAppendFailures.Inc()
		s.log.Error("failed to append access log",
			zap.String("uid", uid),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// ParseTimestamp accepts "2006-01-02 15:04:05" (interpreted as UTC) or RFC 3339.
func ParseTimestamp(v string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseMask reads a relay mask from form or JSON text. Empty means no relays.
func ParseMask(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	mask, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("mask %q is not an integer", v)
	}
	if !models.IsValidMask(mask) {
		return 0, fmt.Errorf("mask must be in [%d,%d]", models.MaskMin, models.MaskMax)
	}
	return mask, nil
}
