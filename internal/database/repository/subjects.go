package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
)

// SubjectRepo handles subjects.
type SubjectRepo struct {
	db *sql.DB
}

func NewSubjectRepo(db *sql.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// SubjectID derives a stable id from a subject name, so re-adding a name is
// an upsert rather than a duplicate.
func SubjectID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("subject:"+strings.ToLower(strings.TrimSpace(name)))).String()
}

func (r *SubjectRepo) Upsert(ctx context.Context, s Subject) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO subjects(id, name, max_stars, allow_half, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 max_stars=excluded.max_stars,
	 allow_half=excluded.allow_half;
	`, s.ID, s.Name, s.MaxStars, s.AllowHalf, s.CreatedAt)
	return err
}

func (r *SubjectRepo) Get(ctx context.Context, id string) (*Subject, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, max_stars, allow_half, created_at FROM subjects WHERE id = ?`, id)
	return scanSubject(row)
}

func (r *SubjectRepo) ByName(ctx context.Context, name string) (*Subject, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, max_stars, allow_half, created_at FROM subjects WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(name))
	return scanSubject(row)
}

func (r *SubjectRepo) List(ctx context.Context) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, max_stars, allow_half, created_at FROM subjects ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.MaxStars, &s.AllowHalf, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Closest returns the subject whose name is nearest to name by edit
// distance, or nil when nothing is within a third of the name's length
// (at least two edits).
func (r *SubjectRepo) Closest(ctx context.Context, name string) (*Subject, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	target := strings.ToLower(strings.TrimSpace(name))
	limit := max(2, len([]rune(target))/3)

	var best *Subject
	bestDist := limit + 1
	for i := range all {
		d := levenshtein.ComputeDistance(target, strings.ToLower(all[i].Name))
		if d < bestDist {
			best, bestDist = &all[i], d
		}
	}
	return best, nil
}

func (r *SubjectRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	return err
}

func scanSubject(row *sql.Row) (*Subject, error) {
	var s Subject
	if err := row.Scan(&s.ID, &s.Name, &s.MaxStars, &s.AllowHalf, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
