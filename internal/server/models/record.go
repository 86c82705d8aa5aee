// Package models holds the server-side persistence types.
package models

import "time"

// Record is a history record as stored for one owner. ImageKey is the object
// storage key of the published image, empty until the first publish.
type Record struct {
	ID        string
	OwnerID   string
	Content   string
	Direction string
	Kind      string
	CreatedAt time.Time
	Deleted   bool
	ImageKey  string
	UpdatedAt time.Time
}
