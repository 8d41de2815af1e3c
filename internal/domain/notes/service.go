package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) Add(ctx context.Context, patientID, itemID, body string) (Note, error) {
	patientID = strings.TrimSpace(patientID)
	itemID = strings.TrimSpace(itemID)
	body = strings.TrimSpace(body)

	if patientID == "" || itemID == "" || body == "" {
		return Note{}, ErrInvalidInput
	}

	n := Note{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		PatientID: patientID,
		Body:      body,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (s *Service) ListByItem(ctx context.Context, itemID string) ([]Note, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByItem(ctx, itemID)
}

// Delete borra una nota propia.
func (s *Service) Delete(ctx context.Context, patientID, noteID string) error {
	patientID = strings.TrimSpace(patientID)
	noteID = strings.TrimSpace(noteID)
	if patientID == "" || noteID == "" {
		return ErrInvalidInput
	}

	n, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return ErrNotFound
	}
	if n.PatientID != patientID {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, noteID)
}

// DeleteByItem purga las notas de un item. Lo consume el cascade
// delete de items vía la interface NotePurger.
func (s *Service) DeleteByItem(ctx context.Context, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByItem(ctx, itemID)
}
