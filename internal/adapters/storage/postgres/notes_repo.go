package postgres

import (
	"context"
	"database/sql"
	"strings"

	"therapy-journal/internal/domain/notes"
)

type NotesRepo struct {
	db *sql.DB
}

func NewNotesRepo(db *sql.DB) *NotesRepo {
	return &NotesRepo{db: db}
}

func (r *NotesRepo) Create(ctx context.Context, n notes.Note) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO item_notes (id, item_id, patient_id, body, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, n.ID, n.ItemID, n.PatientID, n.Body, n.CreatedAt)
	return err
}

func (r *NotesRepo) GetByID(ctx context.Context, id string) (notes.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return notes.Note{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, item_id, patient_id, body, created_at
		FROM item_notes
		WHERE id = $1
	`, id)

	var n notes.Note
	if err := row.Scan(&n.ID, &n.ItemID, &n.PatientID, &n.Body, &n.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return notes.Note{}, ErrNotFound
		}
		return notes.Note{}, err
	}
	return n, nil
}

func (r *NotesRepo) ListByItem(ctx context.Context, itemID string) ([]notes.Note, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, patient_id, body, created_at
		FROM item_notes
		WHERE item_id = $1
		ORDER BY created_at ASC
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notes.Note, 0)
	for rows.Next() {
		var n notes.Note
		if err := rows.Scan(&n.ID, &n.ItemID, &n.PatientID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM item_notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByItem: purga total, cero filas afectadas también es éxito.
func (r *NotesRepo) DeleteByItem(ctx context.Context, itemID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM item_notes WHERE item_id = $1`, itemID)
	return err
}
