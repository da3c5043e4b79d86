package services

import (
	"context"
	"testing"
	"time"

	"github.com/rfid-access/backend/internal/models"
	"go.uber.org/zap"
)

type harness struct {
	cards     *fakeCardStore
	logs      *fakeLogStore
	pub       *recordingPublisher
	accessLog *AccessLogService
	registry  *RegistryService
	query     *QueryService
}

func newHarness() *harness {
	log := zap.NewNop()
	cards := newFakeCardStore()
	logs := newFakeLogStore(cards)
	pub := &recordingPublisher{}
	accessLog := NewAccessLogService(logs, pub, 100, log)
	return &harness{
		cards:     cards,
		logs:      logs,
		pub:       pub,
		accessLog: accessLog,
		registry:  NewRegistryService(cards, accessLog, log),
		query:     NewQueryService(cards, accessLog, 20, 5*time.Second, log),
	}
}

func TestUpsertThenListIsIdempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := h.registry.UpsertCard(ctx, UpsertCardInput{UID: "A1B2", Mask: "5"}); err != nil {
			t.Fatalf("UpsertCard: %v", err)
		}
	}
	if err := h.registry.UpsertCard(ctx, UpsertCardInput{UID: "A1B2", Mask: "7"}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}

	res := h.query.ListCards(ctx)
	if !res.OK() {
		t.Fatalf("ListCards error: %v", res.Err)
	}
	count := 0
	for _, c := range res.Data {
		if c.UID == "A1B2" {
			count++
			if c.Mask != 7 {
				t.Errorf("expected latest mask 7, got %d", c.Mask)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one card A1B2, got %d", count)
	}
}

func TestUpsertValidation(t *testing.T) {
	tests := []struct {
		name string
		in   UpsertCardInput
		code string
	}{
		{"empty uid", UpsertCardInput{UID: "", Mask: "1"}, CodeNoUID},
		{"blank uid", UpsertCardInput{UID: "   ", Mask: "1"}, CodeNoUID},
		{"mask too big", UpsertCardInput{UID: "A1", Mask: "256"}, CodeInvalidMask},
		{"negative mask", UpsertCardInput{UID: "A1", Mask: "-1"}, CodeInvalidMask},
		{"bad timestamp", UpsertCardInput{UID: "A1", Mask: "1", UpdatedAt: "yesterday"}, CodeInvalidUpdatedAt},
		{"mask not a number", UpsertCardInput{UID: "A1", Mask: "five"}, CodeInvalidMask},
		{"missing uid reported before bad mask", UpsertCardInput{UID: "", Mask: "five"}, CodeNoUID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			err := h.registry.UpsertCard(context.Background(), tt.in)
			ve, ok := AsValidation(err)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Code != tt.code {
				t.Errorf("code = %q, want %q", ve.Code, tt.code)
			}
			if len(h.cards.cards) != 0 {
				t.Errorf("storage mutated on validation failure: %v", h.cards.cards)
			}
			if len(h.logs.entries) != 0 {
				t.Errorf("log written on validation failure: %v", h.logs.entries)
			}
		})
	}
}

func TestUpsertUsesSuppliedTimestamp(t *testing.T) {
	h := newHarness()
	err := h.registry.UpsertCard(context.Background(), UpsertCardInput{
		UID: "A1B2", Mask: "3", UpdatedAt: "2024-05-01 10:00:00",
	})
	if err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}

	c, _ := h.cards.get("A1B2")
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if c.UpdatedAt == nil || !c.UpdatedAt.Equal(want) {
		t.Fatalf("updated_at = %v, want %v", c.UpdatedAt, want)
	}
}

func TestUpsertDefaultsTimestampToNow(t *testing.T) {
	h := newHarness()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	h.registry.now = func() time.Time { return fixed }

	if err := h.registry.UpsertCard(context.Background(), UpsertCardInput{UID: "A1B2", Mask: "3"}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	c, _ := h.cards.get("A1B2")
	if c.UpdatedAt == nil || !c.UpdatedAt.Equal(fixed) {
		t.Fatalf("updated_at = %v, want %v", c.UpdatedAt, fixed)
	}
}

func TestUpsertKeepsNameWhenOmitted(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_ = h.registry.UpsertCard(ctx, UpsertCardInput{UID: "A1B2", Name: "Alice", Division: "Ops", Mask: "1"})
	_ = h.registry.UpsertCard(ctx, UpsertCardInput{UID: "A1B2", Mask: "2"})

	c, _ := h.cards.get("A1B2")
	if c.Name != "Alice" || c.Division != "Ops" || c.Mask != 2 {
		t.Fatalf("unexpected card: %+v", c)
	}
}

func TestRemoveMissingCardSucceeds(t *testing.T) {
	h := newHarness()
	_ = h.registry.UpsertCard(context.Background(), UpsertCardInput{UID: "KEEP", Mask: "1"})

	if err := h.registry.RemoveCard(context.Background(), "NOPE"); err != nil {
		t.Fatalf("RemoveCard of unknown uid: %v", err)
	}
	if _, ok := h.cards.get("KEEP"); !ok || len(h.cards.cards) != 1 {
		t.Fatalf("storage changed: %v", h.cards.cards)
	}
}

func TestRemoveEmptyUID(t *testing.T) {
	h := newHarness()
	err := h.registry.RemoveCard(context.Background(), "")
	ve, ok := AsValidation(err)
	if !ok || ve.Code != CodeNoUID {
		t.Fatalf("expected no_uid, got %v", err)
	}
	if len(h.logs.entries) != 0 {
		t.Fatalf("log written on validation failure")
	}
}

func TestEachWriteProducesOneLogEntry(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_ = h.registry.UpsertCard(ctx, UpsertCardInput{UID: "A1B2", Mask: "5"})
	if len(h.logs.entries) != 1 || h.logs.entries[0].Action != models.ActionAdd {
		t.Fatalf("expected one ADD entry, got %+v", h.logs.entries)
	}
	if r := h.logs.entries[0].Relays; r == nil || *r != 5 {
		t.Fatalf("expected relays 5, got %v", r)
	}

	_ = h.registry.RemoveCard(ctx, "A1B2")
	if len(h.logs.entries) != 2 || h.logs.entries[1].Action != models.ActionRemove {
		t.Fatalf("expected ADD then REMOVE, got %+v", h.logs.entries)
	}
	if h.logs.entries[1].Relays != nil {
		t.Fatalf("REMOVE entry must have null relays")
	}
}

func TestAddRemoveScenario(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	if err := h.registry.UpsertCard(ctx, UpsertCardInput{UID: "A1B2", Mask: "5"}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	res := h.query.ListCards(ctx)
	if len(res.Data) != 1 || res.Data[0].UID != "A1B2" || res.Data[0].Mask != 5 {
		t.Fatalf("unexpected cards after upsert: %+v", res.Data)
	}

	if err := h.registry.RemoveCard(ctx, "A1B2"); err != nil {
		t.Fatalf("RemoveCard: %v", err)
	}
	res = h.query.ListCards(ctx)
	if len(res.Data) != 0 {
		t.Fatalf("expected no cards after remove, got %+v", res.Data)
	}

	got := h.logs.actionsFor("A1B2")
	if len(got) != 2 || got[0] != models.ActionAdd || got[1] != models.ActionRemove {
		t.Fatalf("expected [ADD REMOVE], got %v", got)
	}
}

func TestLogFailureDoesNotFailUpsert(t *testing.T) {
	h := newHarness()
	h.logs.failAppend = true

	if err := h.registry.UpsertCard(context.Background(), UpsertCardInput{UID: "A1B2", Mask: "5"}); err != nil {
		t.Fatalf("UpsertCard must succeed when the log write fails, got %v", err)
	}
	if _, ok := h.cards.get("A1B2"); !ok {
		t.Fatal("card not stored")
	}
	if err := h.registry.RemoveCard(context.Background(), "A1B2"); err != nil {
		t.Fatalf("RemoveCard must succeed when the log write fails, got %v", err)
	}
}

func TestStorageFailurePropagatesOnWrite(t *testing.T) {
	h := newHarness()
	h.cards.failWrite = true

	err := h.registry.UpsertCard(context.Background(), UpsertCardInput{UID: "A1B2", Mask: "5"})
	if !IsStorage(err) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if len(h.logs.entries) != 0 {
		t.Fatal("log written for failed upsert")
	}

	err = h.registry.RemoveCard(context.Background(), "A1B2")
	if !IsStorage(err) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-05-01 10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"2024-05-01T12:00:00+02:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"01/05/2024", time.Time{}, false},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if tt.ok && err != nil {
			t.Errorf("ParseTimestamp(%q) error: %v", tt.in, err)
			continue
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("ParseTimestamp(%q) expected error", tt.in)
			}
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMask(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"5", 5, false},
		{" 255 ", 255, false},
		{"0", 0, false},
		{"256", 0, true},
		{"-1", 0, true},
		{"5.0", 0, true},
		{"0x05", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMask(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMask(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMask(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
