package domain

import "time"

type Table struct {
	ID        uint
	Number    string
	CreatedAt time.Time
}
