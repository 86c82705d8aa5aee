// Package models defines the client-side history record.
package models

import (
	"time"

	"github.com/dmitrijs2005/kodex/internal/payload"
	"github.com/google/uuid"
)

// Direction tells whether a record came from scanning or generating.
type Direction string

const (
	DirectionScanned   Direction = "scanned"
	DirectionGenerated Direction = "generated"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionScanned || d == DirectionGenerated
}

// HistoryRecord is one scanned or generated payload. Records are never
// mutated after creation; Deleted and Pending only track sync state.
type HistoryRecord struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Direction Direction    `json:"direction"`
	Kind      payload.Kind `json:"kind"`
	Timestamp time.Time    `json:"timestamp"`

	// ImagePath is the saved PNG of a generated record, if any.
	ImagePath string `json:"image_path,omitempty"`

	// Deleted marks a tombstone kept until the deletion is synced.
	Deleted bool `json:"-"`
	// Pending marks local changes not yet pushed to the sync server.
	Pending bool `json:"-"`
}

// NewRecord creates a pending record with a fresh id. The timestamp is
// truncated to milliseconds, the stored precision.
func NewRecord(content string, dir Direction, kind payload.Kind, now time.Time) *HistoryRecord {
	return &HistoryRecord{
		ID:        uuid.NewString(),
		Content:   content,
		Direction: dir,
		Kind:      kind,
		Timestamp: now.UTC().Truncate(time.Millisecond),
		Pending:   true,
	}
}

// Overview is a listing row.
type Overview struct {
	ID        string
	Kind      payload.Kind
	Direction Direction
	Timestamp time.Time
	Preview   string
}

const previewLen = 48

// Overview returns a single-line preview of r.
func (r *HistoryRecord) Overview() Overview {
	p := []rune(r.Content)
	for i, c := range p {
		if c == '\n' || c == '\r' {
			p[i] = ' '
		}
	}
	if len(p) > previewLen {
		p = append(p[:previewLen-1], '…')
	}
	return Overview{
		ID:        r.ID,
		Kind:      r.Kind,
		Direction: r.Direction,
		Timestamp: r.Timestamp,
		Preview:   string(p),
	}
}
