package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RatingRepo handles rating events.
type RatingRepo struct {
	db *sql.DB
}

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// Record appends an event. ID and CreatedAt are filled in when empty.
func (r *RatingRepo) Record(ctx context.Context, e RatingEvent) (RatingEvent, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO rating_events(id, subject_id, value, source, created_at)
	VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.SubjectID, e.Value, e.Source, e.CreatedAt)
	if err != nil {
		return RatingEvent{}, err
	}
	return e, nil
}

// Latest returns the newest event for a subject, or nil when it has never
// been rated.
func (r *RatingRepo) Latest(ctx context.Context, subjectID string) (*RatingEvent, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, subject_id, value, source, created_at FROM rating_events
	WHERE subject_id = ?
	ORDER BY created_at DESC, rowid DESC
	LIMIT 1`, subjectID)
	var e RatingEvent
	if err := row.Scan(&e.ID, &e.SubjectID, &e.Value, &e.Source, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// History returns a subject's events, oldest first.
func (r *RatingRepo) History(ctx context.Context, subjectID string) ([]RatingEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, subject_id, value, source, created_at FROM rating_events
	WHERE subject_id = ?
	ORDER BY created_at, rowid`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RatingEvent
	for rows.Next() {
		var e RatingEvent
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.Value, &e.Source, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Current lists every subject with its latest value.
func (r *RatingRepo) Current(ctx context.Context) ([]SubjectRating, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT s.id, s.name, s.max_stars, s.allow_half, s.created_at,
	 (SELECT e.value FROM rating_events e WHERE e.subject_id = s.id
	  ORDER BY e.created_at DESC, e.rowid DESC LIMIT 1)
	FROM subjects s
	ORDER BY s.name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SubjectRating
	for rows.Next() {
		var (
			sr    SubjectRating
			value sql.NullFloat64
		)
		if err := rows.Scan(&sr.Subject.ID, &sr.Subject.Name, &sr.Subject.MaxStars, &sr.Subject.AllowHalf, &sr.Subject.CreatedAt, &value); err != nil {
			return nil, err
		}
		sr.Value, sr.Rated = value.Float64, value.Valid
		out = append(out, sr)
	}
	return out, rows.Err()
}

// DeleteAll removes every event inside tx.
func (r *RatingRepo) DeleteAll(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM rating_events`)
	return err
}
