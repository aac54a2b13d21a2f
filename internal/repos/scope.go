package repos

import "gorm.io/gorm"

// wherePhase applies the nullable phase-index filter. A nil phase matches
// only rows with a NULL phase_index; it never matches a concrete phase.
func wherePhase(tx *gorm.DB, phase *int) *gorm.DB {
	if phase == nil {
		return tx.Where("phase_index IS NULL")
	}
	return tx.Where("phase_index = ?", *phase)
}
