package domain

import "time"

type MenuItem struct {
	ID           uint
	Name         string
	Price        float64
	Category     string
	ImageURL     *string
	IsAvailable  bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
