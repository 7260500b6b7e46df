package model

import "time"

// KVEntry is a namespaced blob, used by the to-do list.
type KVEntry struct {
	Namespace string `gorm:"primaryKey;size:128"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}
