package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// MedicationService manages the saved medication list
type MedicationService struct {
	repo   MedicationRepository
	logger *zap.Logger
}

// NewMedicationService creates a new medication service
func NewMedicationService(repo MedicationRepository, logger *zap.Logger) *MedicationService {
	return &MedicationService{
		repo:   repo,
		logger: logger,
	}
}

// List returns the saved medications in insertion order
func (s *MedicationService) List(ctx context.Context) ([]string, error) {
	meds, err := s.repo.LoadMedications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}
	return meds, nil
}

// Add saves a medication. Names are normalized before the duplicate check.
func (s *MedicationService) Add(ctx context.Context, name string) (string, error) {
	name = NormalizeName(name)
	if name == "" {
		return "", ErrEmptyDrugName
	}

	meds, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	for _, med := range meds {
		if med == name {
			return name, ErrMedicationExists
		}
	}

	if err := s.repo.SaveMedications(ctx, append(meds, name)); err != nil {
		return "", fmt.Errorf("failed to save medications: %w", err)
	}

	s.logger.Debug("Added medication", zap.String("medication", name))
	return name, nil
}

// Remove deletes a saved medication
func (s *MedicationService) Remove(ctx context.Context, name string) (string, error) {
	name = NormalizeName(name)
	if name == "" {
		return "", ErrEmptyDrugName
	}

	meds, err := s.List(ctx)
	if err != nil {
		return "", err
	}

	kept := make([]string, 0, len(meds))
	for _, med := range meds {
		if med != name {
			kept = append(kept, med)
		}
	}
	if len(kept) == len(meds) {
		return name, ErrMedicationNotFound
	}

	if err := s.repo.SaveMedications(ctx, kept); err != nil {
		return "", fmt.Errorf("failed to save medications: %w", err)
	}

	s.logger.Debug("Removed medication", zap.String("medication", name))
	return name, nil
}
