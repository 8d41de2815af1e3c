package postgres

import (
	"context"
	"database/sql"
	"strings"

	"therapy-journal/internal/domain/items"
)

type ItemsRepo struct {
	db *sql.DB
}

func NewItemsRepo(db *sql.DB) *ItemsRepo {
	return &ItemsRepo{db: db}
}

const itemColumns = `
	id, patient_id, kind,
	title, text_content,
	storage_bucket, storage_path, mime_type,
	created_at`

func (r *ItemsRepo) Create(ctx context.Context, it items.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (
			id, patient_id, kind,
			title, text_content,
			storage_bucket, storage_path, mime_type,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		it.ID,
		it.PatientID,
		string(it.Kind),
		toNullString(it.Title),
		toNullString(it.TextContent),
		toNullString(it.StorageBucket),
		toNullString(it.StoragePath),
		toNullString(it.MimeType),
		it.CreatedAt,
	)
	return err
}

func (r *ItemsRepo) GetByID(ctx context.Context, id string) (items.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return items.Item{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1
	`, id)

	it, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return items.Item{}, ErrNotFound
		}
		return items.Item{}, err
	}
	return it, nil
}

func (r *ItemsRepo) ListByPatient(ctx context.Context, patientID string) ([]items.Item, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *ItemsRepo) ListByIDs(ctx context.Context, ids []string) ([]items.Item, error) {
	if len(ids) == 0 {
		return []items.Item{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = ANY($1)
		ORDER BY created_at DESC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *ItemsRepo) UpdateText(ctx context.Context, id, title, text string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET title = $2, text_content = $3
		WHERE id = $1
	`, id, toNullString(title), text)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete borra la fila del item. item_shares y item_notes tienen FK con
// ON DELETE CASCADE, así que caen transitivamente (las notas igual se
// purgan antes en el paso 1 del cascade del service).
func (r *ItemsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (items.Item, error) {
	var it items.Item
	var kind string
	var title, text, bucket, path, mime sql.NullString

	if err := row.Scan(
		&it.ID,
		&it.PatientID,
		&kind,
		&title,
		&text,
		&bucket,
		&path,
		&mime,
		&it.CreatedAt,
	); err != nil {
		return items.Item{}, err
	}

	it.Kind = items.Kind(kind)
	it.Title = fromNullString(title)
	it.TextContent = fromNullString(text)
	it.StorageBucket = fromNullString(bucket)
	it.StoragePath = fromNullString(path)
	it.MimeType = fromNullString(mime)

	return it, nil
}

func collectItems(rows *sql.Rows) ([]items.Item, error) {
	out := make([]items.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
