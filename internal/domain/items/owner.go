package items

import "context"

// OwnerOf expone el patientID dueño de un item.
// Se usa para evitar ciclos de imports entre módulos (items <-> shares).
func (s *Service) OwnerOf(ctx context.Context, itemID string) (string, error) {
	it, err := s.GetByID(ctx, itemID)
	if err != nil {
		return "", err
	}
	return it.PatientID, nil
}
