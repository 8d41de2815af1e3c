package postgres

import (
	"context"
	"database/sql"
	"strings"

	"therapy-journal/internal/domain/relationships"
)

type LinksRepo struct {
	db *sql.DB
}

func NewLinksRepo(db *sql.DB) *LinksRepo {
	return &LinksRepo{db: db}
}

// ListActiveByPatient: created_at DESC para que el primero sea el
// terapeuta efectivo (última vinculación gana).
func (r *LinksRepo) ListActiveByPatient(ctx context.Context, patientID string) ([]relationships.Link, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, patient_id, therapist_id, status, created_at
		FROM therapist_patients
		WHERE patient_id = $1
		  AND status = 'active'
		ORDER BY created_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLinks(rows)
}

func (r *LinksRepo) ListActiveByTherapist(ctx context.Context, therapistID string) ([]relationships.Link, error) {
	therapistID = strings.TrimSpace(therapistID)
	if therapistID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, patient_id, therapist_id, status, created_at
		FROM therapist_patients
		WHERE therapist_id = $1
		  AND status = 'active'
		ORDER BY created_at DESC
	`, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLinks(rows)
}

func collectLinks(rows *sql.Rows) ([]relationships.Link, error) {
	out := make([]relationships.Link, 0)
	for rows.Next() {
		var l relationships.Link
		var status string
		if err := rows.Scan(&l.ID, &l.PatientID, &l.TherapistID, &status, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Status = relationships.Status(status)
		out = append(out, l)
	}
	return out, rows.Err()
}
