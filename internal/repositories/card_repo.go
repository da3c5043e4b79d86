package repositories

import (
	"context"
	"database/sql"

	"github.com/rfid-access/backend/internal/models"
)

type CardRepo struct {
	db DBTX
}

func NewCardRepo(db DBTX) *CardRepo {
	return &CardRepo{db: db}
}

// Upsert inserts the card or, on uid conflict, overwrites mask and updated_at.
// Empty name/division never clobber stored values.
func (r *CardRepo) Upsert(ctx context.Context, c models.Card) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cards (uid, name, division, mask, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), cards.name),
			division = COALESCE(NULLIF(EXCLUDED.division, ''), cards.division),
			mask = EXCLUDED.mask,
			updated_at = EXCLUDED.updated_at
	`, c.UID, c.Name, c.Division, c.Mask, c.UpdatedAt)
	return err
}

// Delete removes the card and reports how many rows went away.
func (r *CardRepo) Delete(ctx context.Context, uid string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE uid = $1`, uid)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *CardRepo) List(ctx context.Context) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT uid, COALESCE(name, ''), COALESCE(division, ''), mask, updated_at
		FROM cards ORDER BY uid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var (
			c         models.Card
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&c.UID, &c.Name, &c.Division, &c.Mask, &updatedAt); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			c.UpdatedAt = &t
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ListBasic reads only uid and mask, for deployments whose cards table
// predates the name/division columns.
func (r *CardRepo) ListBasic(ctx context.Context) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT uid, mask FROM cards ORDER BY uid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.UID, &c.Mask); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
