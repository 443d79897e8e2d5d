package database

import (
	"gorm.io/gorm"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

// RosterStore is the gorm-backed persistence collaborator for the roster
// generator. It satisfies roster.Store.
type RosterStore struct {
	DB *gorm.DB
}

// NewRosterStore wraps the given database handle.
func NewRosterStore(db *gorm.DB) *RosterStore {
	return &RosterStore{DB: db}
}

// ListEntries returns every roster entry.
func (s *RosterStore) ListEntries() ([]models.ShiftEntry, error) {
	var entries []models.ShiftEntry
	if err := s.DB.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceEntries swaps the full roster for the given batch inside one
// transaction, so a generation run either lands completely or not at all.
func (s *RosterStore) ReplaceEntries(entries []models.ShiftEntry) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.ShiftEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 200).Error
	})
}
