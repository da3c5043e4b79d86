package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rfid-access/backend/internal/events"
	"github.com/rfid-access/backend/internal/models"
)

var errStoreDown = errors.New("connection refused")

type fakeCardStore struct {
	mu        sync.Mutex
	cards     map[string]models.Card
	failWrite bool
	failList  bool
	failBasic bool
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: map[string]models.Card{}}
}

func (f *fakeCardStore) Upsert(_ context.Context, c models.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return errStoreDown
	}
	if existing, ok := f.cards[c.UID]; ok {
		if c.Name == "" {
			c.Name = existing.Name
		}
		if c.Division == "" {
			c.Division = existing.Division
		}
	}
	f.cards[c.UID] = c
	return nil
}

func (f *fakeCardStore) Delete(_ context.Context, uid string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return 0, errStoreDown
	}
	if _, ok := f.cards[uid]; !ok {
		return 0, nil
	}
	delete(f.cards, uid)
	return 1, nil
}

func (f *fakeCardStore) sorted() []models.Card {
	var out []models.Card
	for _, c := range f.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}

func (f *fakeCardStore) List(context.Context) ([]models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errors.New(`column "division" does not exist`)
	}
	return f.sorted(), nil
}

func (f *fakeCardStore) ListBasic(context.Context) ([]models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBasic {
		return nil, errStoreDown
	}
	var out []models.Card
	for _, c := range f.sorted() {
		out = append(out, models.Card{UID: c.UID, Mask: c.Mask})
	}
	return out, nil
}

func (f *fakeCardStore) get(uid string) (models.Card, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[uid]
	return c, ok
}

type fakeLogStore struct {
	mu         sync.Mutex
	cards      *fakeCardStore
	entries    []models.LogEntry
	nextID     int64
	failAppend bool
	failJoin   bool
	failPlain  bool
}

func newFakeLogStore(cards *fakeCardStore) *fakeLogStore {
	return &fakeLogStore{cards: cards}
}

func (f *fakeLogStore) Append(_ context.Context, e *models.LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend {
		return errStoreDown
	}
	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now().UTC()
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeLogStore) newest(limit int, join bool) []models.LogView {
	var out []models.LogView
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := f.entries[i]
		created := e.CreatedAt
		v := models.LogView{ID: e.ID, UID: e.UID, Action: e.Action, Relays: e.Relays, CreatedAt: &created}
		if join && f.cards != nil {
			if c, ok := f.cards.get(e.UID); ok {
				v.Name, v.Division = c.Name, c.Division
			}
		}
		out = append(out, v)
	}
	return out
}

func (f *fakeLogStore) RecentWithCards(_ context.Context, limit int) ([]models.LogView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failJoin {
		return nil, errors.New(`column c.name does not exist`)
	}
	return f.newest(limit, true), nil
}

func (f *fakeLogStore) Recent(_ context.Context, limit int) ([]models.LogView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPlain {
		return nil, errStoreDown
	}
	return f.newest(limit, false), nil
}

func (f *fakeLogStore) actionsFor(uid string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.entries {
		if e.UID == uid {
			out = append(out, e.Action)
		}
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errStoreDown
	}
	p.events = append(p.events, e)
	return nil
}
