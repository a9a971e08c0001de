package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jask/starrate/internal/database"
)

// Snapshot is the export document.
type Snapshot struct {
	ExportedAt time.Time         `yaml:"exported_at"`
	Subjects   []SubjectSnapshot `yaml:"subjects"`
}

type SubjectSnapshot struct {
	Name      string          `yaml:"name"`
	Max       int             `yaml:"max"`
	AllowHalf bool            `yaml:"allow_half"`
	Value     *float64        `yaml:"value"`
	History   []EventSnapshot `yaml:"history,omitempty"`
}

type EventSnapshot struct {
	Value  float64   `yaml:"value"`
	Source string    `yaml:"source"`
	At     time.Time `yaml:"at"`
}

// Snapshot collects every subject, its current value (nil when never
// rated), and optionally its history.
func (s *RatingService) Snapshot(ctx context.Context, withHistory bool) (Snapshot, error) {
	current, err := s.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{ExportedAt: database.Now()}
	for _, sr := range current {
		ss := SubjectSnapshot{Name: sr.Subject.Name, Max: sr.Subject.MaxStars, AllowHalf: sr.Subject.AllowHalf}
		if sr.Rated {
			v := sr.Value
			ss.Value = &v
		}
		if withHistory {
			events, err := s.Ratings.History(ctx, sr.Subject.ID)
			if err != nil {
				return Snapshot{}, fmt.Errorf("rating history: %w", err)
			}
			for _, e := range events {
				ss.History = append(ss.History, EventSnapshot{Value: e.Value, Source: e.Source, At: e.CreatedAt})
			}
		}
		snap.Subjects = append(snap.Subjects, ss)
	}
	return snap, nil
}

// Export writes the snapshot as YAML.
func (s *RatingService) Export(ctx context.Context, w io.Writer, withHistory bool) error {
	snap, err := s.Snapshot(ctx, withHistory)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return enc.Close()
}
