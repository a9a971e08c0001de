package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jask/starrate/internal/database/repository"
	"github.com/jask/starrate/rating"
)

var (
	ErrEmptySubject    = errors.New("subject name required")
	ErrSubjectNotFound = errors.New("subject not found")
)

// RatingService rates subjects. Every value it stores has passed through a
// rating.Widget, so stored values obey the same clamp as interactive ones.
type RatingService struct {
	Subjects *repository.SubjectRepo
	Ratings  *repository.RatingRepo
	// Defaults supplies presentation and read-only settings; each subject
	// overrides Max and AllowHalf.
	Defaults rating.Config
	Logger   *zap.Logger
}

// RateResult is what Rate stored.
type RateResult struct {
	Subject   repository.Subject
	Requested float64
	Event     repository.RatingEvent
}

// Clamped reports whether the stored value differs from the requested one.
func (r RateResult) Clamped() bool {
	return r.Requested != r.Event.Value
}

func (s *RatingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// WidgetConfig returns the widget configuration for subj.
func (s *RatingService) WidgetConfig(subj repository.Subject) rating.Config {
	cfg := s.Defaults
	cfg.Max = subj.MaxStars
	cfg.AllowHalf = subj.AllowHalf
	return cfg
}

// Resolve finds a subject by exact name, then by closest name.
func (s *RatingService) Resolve(ctx context.Context, name string) (repository.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Subject{}, ErrEmptySubject
	}
	subj, err := s.Subjects.ByName(ctx, name)
	if err != nil {
		return repository.Subject{}, fmt.Errorf("lookup subject: %w", err)
	}
	if subj == nil {
		subj, err = s.Subjects.Closest(ctx, name)
		if err != nil {
			return repository.Subject{}, fmt.Errorf("lookup subject: %w", err)
		}
		if subj == nil {
			return repository.Subject{}, fmt.Errorf("%w: %q", ErrSubjectNotFound, name)
		}
		s.logger().Debug("fuzzy subject match", zap.String("query", name), zap.String("subject", subj.Name))
	}
	return *subj, nil
}

// AddSubject creates or updates a subject. A non-positive maxStars falls
// back to the default max.
func (s *RatingService) AddSubject(ctx context.Context, name string, maxStars int, allowHalf bool) (repository.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Subject{}, ErrEmptySubject
	}
	if maxStars <= 0 {
		maxStars = s.Defaults.Max
	}
	subj := repository.Subject{ID: repository.SubjectID(name), Name: name, MaxStars: maxStars, AllowHalf: allowHalf}
	if err := s.Subjects.Upsert(ctx, subj); err != nil {
		return repository.Subject{}, fmt.Errorf("save subject: %w", err)
	}
	return subj, nil
}

// Current returns a subject's latest value, 0 when never rated.
func (s *RatingService) Current(ctx context.Context, subjectID string) (float64, error) {
	e, err := s.Ratings.Latest(ctx, subjectID)
	if err != nil {
		return 0, fmt.Errorf("latest rating: %w", err)
	}
	if e == nil {
		return 0, nil
	}
	return e.Value, nil
}

// Rate requests value for the named subject through a headless widget
// seeded with the subject's current value, then stores what the widget
// reported.
func (s *RatingService) Rate(ctx context.Context, name string, value float64, source string) (RateResult, error) {
	subj, err := s.Resolve(ctx, name)
	if err != nil {
		return RateResult{}, err
	}
	current, err := s.Current(ctx, subj.ID)
	if err != nil {
		return RateResult{}, err
	}

	var notified []float64
	cfg := s.WidgetConfig(subj)
	cfg.DefaultValue = current
	cfg.OnChange = func(v float64) { notified = append(notified, v) }
	rating.New(cfg).RequestChange(value)

	e, err := s.Save(ctx, subj.ID, notified[len(notified)-1], source)
	if err != nil {
		return RateResult{}, err
	}
	return RateResult{Subject: subj, Requested: value, Event: e}, nil
}

// Save stores a value already produced by a widget, stamped now.
func (s *RatingService) Save(ctx context.Context, subjectID string, value float64, source string) (repository.RatingEvent, error) {
	return s.SaveAt(ctx, subjectID, value, source, time.Time{})
}

// SaveAt is Save with the event time chosen by the caller. Hosts that write
// from several goroutines stamp events when the change is accepted, so the
// latest event is the latest change however the writes interleave. A zero
// at means now.
func (s *RatingService) SaveAt(ctx context.Context, subjectID string, value float64, source string, at time.Time) (repository.RatingEvent, error) {
	e, err := s.Ratings.Record(ctx, repository.RatingEvent{SubjectID: subjectID, Value: value, Source: source, CreatedAt: at})
	if err != nil {
		s.logger().Error("save rating", zap.String("subject", subjectID), zap.Float64("value", value), zap.Error(err))
		return repository.RatingEvent{}, fmt.Errorf("save rating: %w", err)
	}
	s.logger().Info("rating saved", zap.String("subject", subjectID), zap.Float64("value", value), zap.String("source", source))
	return e, nil
}

// List returns every subject with its current value.
func (s *RatingService) List(ctx context.Context) ([]repository.SubjectRating, error) {
	out, err := s.Ratings.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return out, nil
}

// History returns the named subject and its events, oldest first.
func (s *RatingService) History(ctx context.Context, name string) (repository.Subject, []repository.RatingEvent, error) {
	subj, err := s.Resolve(ctx, name)
	if err != nil {
		return repository.Subject{}, nil, err
	}
	events, err := s.Ratings.History(ctx, subj.ID)
	if err != nil {
		return repository.Subject{}, nil, fmt.Errorf("rating history: %w", err)
	}
	return subj, events, nil
}
