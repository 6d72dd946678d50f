package models

import "time"

// TimerRecord is the persisted fact of a countdown's existence. Records are
// immutable once written; only the derived view (time left, expired flag)
// changes over time.
//
// Seq is an internal auto-increment key that fixes insertion order for
// listing; it never leaves the process. ID is the public opaque identifier.
// Name is nullable, and the unique index only bites when it is present
// because SQL unique indexes admit multiple NULLs.
type TimerRecord struct {
	Seq             uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ID              string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Name            *string   `gorm:"uniqueIndex;size:200" json:"name"`
	DurationSeconds int64     `gorm:"not null" json:"duration_seconds"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt       time.Time `gorm:"index;not null" json:"expires_at"`
}

func (TimerRecord) TableName() string { return "timers" }
