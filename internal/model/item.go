package model

import "time"

// Item is a shareable catalog item as stored in the database.
//
// Availability and Available hold the two representations older catalog
// dumps used. Rows written by the service only ever set Availability.
type Item struct {
	ID           int64   `gorm:"primaryKey"`
	Name         string  `gorm:"size:256;not null"`
	Availability *string `gorm:"size:16"`
	Available    *bool
	ThumbnailURL string `gorm:"size:2048"`
	Version      int64  `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
