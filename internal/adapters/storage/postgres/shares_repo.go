package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"therapy-journal/internal/domain/shares"
)

type SharesRepo struct {
	db *sql.DB
}

func NewSharesRepo(db *sql.DB) *SharesRepo {
	return &SharesRepo{db: db}
}

// Upsert: el par (item_id, therapist_id) es PRIMARY KEY de item_shares,
// así que activar pisa siempre la misma fila (nunca acumula historial).
func (r *SharesRepo) Upsert(ctx context.Context, s shares.Share) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO item_shares (item_id, therapist_id, shared_at, revoked_at)
		VALUES ($1, $2, $3, NULL)
		ON CONFLICT (item_id, therapist_id)
		DO UPDATE SET shared_at = EXCLUDED.shared_at, revoked_at = NULL
	`, s.ItemID, s.TherapistID, s.SharedAt)
	return err
}

func (r *SharesRepo) Revoke(ctx context.Context, itemID, therapistID string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE item_shares
		SET revoked_at = $3
		WHERE item_id = $1
		  AND therapist_id = $2
		  AND revoked_at IS NULL
	`, itemID, therapistID, at)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *SharesRepo) GetActive(ctx context.Context, itemID, therapistID string) (shares.Share, bool, error) {
	itemID = strings.TrimSpace(itemID)
	therapistID = strings.TrimSpace(therapistID)
	if itemID == "" || therapistID == "" {
		return shares.Share{}, false, nil
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT item_id, therapist_id, shared_at, revoked_at
		FROM item_shares
		WHERE item_id = $1
		  AND therapist_id = $2
		  AND revoked_at IS NULL
	`, itemID, therapistID)

	s, err := scanShare(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return shares.Share{}, false, nil
		}
		return shares.Share{}, false, err
	}
	return s, true, nil
}

func (r *SharesRepo) ListActiveByTherapist(ctx context.Context, therapistID string) ([]shares.Share, error) {
	therapistID = strings.TrimSpace(therapistID)
	if therapistID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, therapist_id, shared_at, revoked_at
		FROM item_shares
		WHERE therapist_id = $1
		  AND revoked_at IS NULL
		ORDER BY shared_at DESC
	`, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectShares(rows)
}

func (r *SharesRepo) ListActiveByItem(ctx context.Context, itemID string) ([]shares.Share, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, therapist_id, shared_at, revoked_at
		FROM item_shares
		WHERE item_id = $1
		  AND revoked_at IS NULL
		ORDER BY shared_at DESC
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectShares(rows)
}

func scanShare(row rowScanner) (shares.Share, error) {
	var s shares.Share
	var revokedAt sql.NullTime

	if err := row.Scan(&s.ItemID, &s.TherapistID, &s.SharedAt, &revokedAt); err != nil {
		return shares.Share{}, err
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		s.RevokedAt = &t
	}
	return s, nil
}

func collectShares(rows *sql.Rows) ([]shares.Share, error) {
	out := make([]shares.Share, 0)
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
