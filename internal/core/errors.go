package core

import "errors"

var (
	// ErrNotFound is returned when a cache entry is not found
	ErrNotFound = errors.New("cache entry not found")
	// ErrEmptyDrugName is returned when a drug name is blank after trimming
	ErrEmptyDrugName = errors.New("drug name is empty")
	// ErrMedicationExists is returned when adding a saved medication twice
	ErrMedicationExists = errors.New("medication already in list")
	// ErrMedicationNotFound is returned when removing an unknown medication
	ErrMedicationNotFound = errors.New("medication not in list")
	// ErrNoMedications is returned when checking against an empty list
	ErrNoMedications = errors.New("no saved medications")
	// ErrNoHistory is returned when exporting an empty history
	ErrNoHistory = errors.New("no history")
)
