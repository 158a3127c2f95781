package shelf

import (
	"errors"
	"time"
)

// Reading statuses
const (
	StatusUnread  = "unread"
	StatusReading = "reading"
	StatusRead    = "read"
)

var (
	// ErrNotFound is returned when no entry has the requested id
	ErrNotFound = errors.New("shelf entry not found")
	// ErrInvalidEntry is returned when an entry fails validation
	ErrInvalidEntry = errors.New("invalid shelf entry")
)

// Entry is a book on the user's personal shelf
type Entry struct {
	ID             int64     `db:"id" json:"id" yaml:"id"`
	Title          string    `db:"title" json:"title" yaml:"title"`
	Author         string    `db:"author" json:"author" yaml:"author"`
	Category       string    `db:"category" json:"category" yaml:"category"`
	Description    string    `db:"description" json:"description" yaml:"description"`
	PersonalRating float64   `db:"personal_rating" json:"personal_rating" yaml:"personal_rating"`
	ReadingStatus  string    `db:"reading_status" json:"reading_status" yaml:"reading_status"`
	Tags           string    `db:"tags" json:"tags" yaml:"tags"`
	DateAdded      time.Time `db:"date_added" json:"date_added" yaml:"date_added"`
}

// Patch lists the fields to change on an entry. Nil fields are left alone.
type Patch struct {
	Title          *string  `json:"title,omitempty"`
	Author         *string  `json:"author,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Description    *string  `json:"description,omitempty"`
	PersonalRating *float64 `json:"personal_rating,omitempty"`
	ReadingStatus  *string  `json:"reading_status,omitempty"`
	Tags           *string  `json:"tags,omitempty"`
}

// Stats summarizes the shelf
type Stats struct {
	Total         int            `json:"total" yaml:"total"`
	ByStatus      map[string]int `json:"by_status" yaml:"by_status"`
	AverageRating float64        `json:"average_rating" yaml:"average_rating"`
}

// ValidStatus reports whether s is a known reading status
func ValidStatus(s string) bool {
	switch s {
	case StatusUnread, StatusReading, StatusRead:
		return true
	}
	return false
}
