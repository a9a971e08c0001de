package repository

import "time"

// Subject is something that can be rated.
type Subject struct {
	ID        string
	Name      string
	MaxStars  int
	AllowHalf bool
	CreatedAt time.Time
}

// Source values for rating events.
const (
	SourceKeyboard = "keyboard"
	SourcePointer  = "pointer"
	SourceCLI      = "cli"
	SourceImport   = "import"
)

// RatingEvent is one committed rating of a subject. The newest event is the
// subject's current rating.
type RatingEvent struct {
	ID        string
	SubjectID string
	Value     float64
	Source    string
	CreatedAt time.Time
}

// SubjectRating pairs a subject with its current value.
type SubjectRating struct {
	Subject Subject
	Value   float64
	Rated   bool
}
