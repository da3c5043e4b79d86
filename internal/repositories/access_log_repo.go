package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/rfid-access/backend/internal/models"
)

type AccessLogRepo struct {
	db DBTX
}

func NewAccessLogRepo(db DBTX) *AccessLogRepo {
	return &AccessLogRepo{db: db}
}

// Append inserts the entry and fills in the id and created_at assigned by the store.
func (r *AccessLogRepo) Append(ctx context.Context, e *models.LogEntry) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO rfid_logs (uid, action, relays)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, e.UID, e.Action, nullInt(e.Relays)).Scan(&e.ID, &e.CreatedAt)
}

// RecentWithCards returns the newest entries joined with the card registry.
func (r *AccessLogRepo) RecentWithCards(ctx context.Context, limit int) ([]models.LogView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.uid, COALESCE(c.name, ''), COALESCE(c.division, ''),
		       r.action, r.relays, r.created_at
		FROM rfid_logs r
		LEFT JOIN cards c ON r.uid = c.uid
		ORDER BY r.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.LogView
	for rows.Next() {
		var (
			l         models.LogView
			relays    sql.NullInt64
			createdAt sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.UID, &l.Name, &l.Division, &l.Action, &relays, &createdAt); err != nil {
			return nil, err
		}
		l.Relays = intPtr(relays)
		l.CreatedAt = timePtr(createdAt)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Recent returns the newest entries without touching the cards table.
func (r *AccessLogRepo) Recent(ctx context.Context, limit int) ([]models.LogView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, uid, action, relays, created_at
		FROM rfid_logs
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.LogView
	for rows.Next() {
		var (
			l         models.LogView
			relays    sql.NullInt64
			createdAt sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.UID, &l.Action, &relays, &createdAt); err != nil {
			return nil, err
		}
		l.Relays = intPtr(relays)
		l.CreatedAt = timePtr(createdAt)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
