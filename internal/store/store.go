// Package store provides durable, uniqueness-enforcing storage for timer
// records on top of gorm.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/KUKARAF/webtimer/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record matches the given id or name.
	ErrNotFound = errors.New("timer not found")
	// ErrDuplicateName is returned when a record with the same name already
	// exists. The failed insert leaves storage untouched.
	ErrDuplicateName = errors.New("timer name already in use")
)

// TimerStore is the durable mapping from timer identifier to timer record.
// All methods are safe for concurrent use; uniqueness is enforced by the
// database unique index inside a single INSERT, so two concurrent creates
// with the same name can never both succeed.
type TimerStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *TimerStore {
	return &TimerStore{db: db}
}

// Insert assigns a fresh id to rec and persists it atomically. The name
// uniqueness check and the write are one unit: the unique index rejects
// duplicates at commit time.
func (s *TimerStore) Insert(rec *models.TimerRecord) (string, error) {
	rec.ID = uuid.New().String()

	if err := s.db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrDuplicateName
		}
		return "", fmt.Errorf("insert timer: %w", err)
	}
	return rec.ID, nil
}

func (s *TimerStore) GetByID(id string) (*models.TimerRecord, error) {
	var rec models.TimerRecord
	if err := s.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get timer by id: %w", err)
	}
	return &rec, nil
}

func (s *TimerStore) GetByName(name string) (*models.TimerRecord, error) {
	var rec models.TimerRecord
	if err := s.db.Where("name = ?", name).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get timer by name: %w", err)
	}
	return &rec, nil
}

// Delete removes the record with the given id. It is idempotent: deleting a
// missing id is not an error, the bool reports whether anything was removed.
func (s *TimerStore) Delete(id string) (bool, error) {
	res := s.db.Where("id = ?", id).Delete(&models.TimerRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("delete timer: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListAll returns every record in insertion order.
func (s *TimerStore) ListAll() ([]models.TimerRecord, error) {
	var recs []models.TimerRecord
	if err := s.db.Order("seq").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}
	return recs, nil
}

// DeleteExpiredBefore removes all records whose expiry is at or before
// cutoff and returns how many were removed. Used only by the reclamation
// sweep; matching nothing is a silent no-op.
func (s *TimerStore) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	res := s.db.Where("expires_at <= ?", cutoff).Delete(&models.TimerRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired timers: %w", res.Error)
	}
	return res.RowsAffected, nil
}
