package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jask/starrate/internal/database/repository"
)

// IngestService bulk-loads ratings.
type IngestService struct {
	Ratings *RatingService
}

type IngestResult struct {
	Imported int
	Created  int
	Clamped  int
	Errors   []error
}

// ImportCSV reads "subject,value" rows. An optional header row starting with
// "subject" is skipped. Unknown subjects are created with the default max and
// half-step setting. Values go through RatingService.Rate, so out-of-range
// values are clamped rather than rejected.
func (s *IngestService) ImportCSV(ctx context.Context, r io.Reader) (IngestResult, error) {
	res := IngestResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if len(rec) < 2 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: expected 2 columns", line))
			continue
		}
		name, valueStr := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if line == 1 && strings.EqualFold(name, "subject") {
			continue
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d value: %w", line, err))
			continue
		}

		existing, err := s.Ratings.Subjects.ByName(ctx, name)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d subject: %w", line, err))
			continue
		}
		if existing == nil && name != "" {
			if _, err := s.Ratings.AddSubject(ctx, name, 0, s.Ratings.Defaults.AllowHalf); err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("line %d subject: %w", line, err))
				continue
			}
			res.Created++
		}

		out, err := s.Ratings.Rate(ctx, name, value, repository.SourceImport)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if out.Clamped() {
			res.Clamped++
		}
		res.Imported++
	}
	return res, nil
}
