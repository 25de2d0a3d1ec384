// ABOUTME: Reading CRUD and query operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for bp_records.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/bp/internal/models"
)

const readingColumns = `id, systolic, diastolic, heart_rate, recorded_at, notes`

// maxWindowDays caps day windows so calendar arithmetic cannot overflow.
const maxWindowDays = 366 * 10000

// DaysAgo returns the start of a window covering the last days days.
// Windows reaching before year 1 start at year 1.
func DaysAgo(now time.Time, days int) time.Time {
	floor := time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	if days > maxWindowDays {
		return floor
	}
	since := now.AddDate(0, 0, -days)
	if since.Before(floor) {
		return floor
	}
	return since
}

// Create stores a new reading and returns it as persisted. RecordedAt
// defaults to the store clock when unset. Ranges are not re-validated here.
func (d *DB) Create(ctx context.Context, r *models.Reading) (*models.Reading, error) {
	if r == nil {
		return nil, fmt.Errorf("create reading: %w", ErrMissingField)
	}
	if r.Systolic == 0 {
		return nil, fmt.Errorf("create reading: systolic: %w", ErrMissingField)
	}
	if r.Diastolic == 0 {
		return nil, fmt.Errorf("create reading: diastolic: %w", ErrMissingField)
	}

	recordedAt := r.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = d.now()
	}

	// heart_rate is NOT NULL; an absent heart rate is stored as 0.
	result, err := d.db.ExecContext(ctx, `
		INSERT INTO bp_records (systolic, diastolic, heart_rate, recorded_at, notes)
		VALUES (?, ?, ?, ?, ?)`,
		r.Systolic,
		r.Diastolic,
		r.HeartRateValue(),
		models.FormatTimestamp(recordedAt),
		r.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("create reading: %w: %w", ErrPersistence, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create reading: %w: %w", ErrPersistence, err)
	}

	stored, err := d.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("create reading: re-read: %w", err)
	}
	return stored, nil
}

// GetByID retrieves a reading by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*models.Reading, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+readingColumns+` FROM bp_records WHERE id = ?`, id)

	r, err := scanReading(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get reading %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get reading %d: %w: %w", id, ErrPersistence, err)
	}
	return r, nil
}

// Query returns a page of readings, newest first, plus the number of readings
// matching the day filter. Parameters are validated in order (limit, offset,
// days) and the first invalid one is reported.
func (d *DB) Query(ctx context.Context, opts QueryOptions) (*QueryResult, error) {
	limit := DefaultLimit
	if opts.Limit != nil {
		limit = *opts.Limit
		if limit < 1 || limit > MaxLimit {
			return nil, &ParameterError{Param: "limit", Reason: fmt.Sprintf("must be between 1 and %d", MaxLimit)}
		}
	}
	if opts.Offset < 0 {
		return nil, &ParameterError{Param: "offset", Reason: "must be a non-negative integer"}
	}

	var (
		where string
		args  []any
	)
	if opts.SinceDays != nil {
		days := *opts.SinceDays
		if days < 1 {
			return nil, &ParameterError{Param: "days", Reason: "must be a positive integer"}
		}
		since := DaysAgo(d.now(), days)
		where = ` WHERE recorded_at >= ?`
		args = append(args, models.FormatTimestamp(since))
	}

	var total int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bp_records`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count readings: %w: %w", ErrPersistence, err)
	}

	query := `SELECT ` + readingColumns + ` FROM bp_records` + where +
		` ORDER BY recorded_at DESC, id DESC LIMIT ? OFFSET ?`
	records, err := d.list(ctx, query, append(args, limit, opts.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}

	return &QueryResult{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  opts.Offset,
	}, nil
}

// Range returns every reading with from <= recorded_at <= to, newest first.
// Either bound may be nil.
func (d *DB) Range(ctx context.Context, from, to *time.Time) ([]*models.Reading, error) {
	var (
		conds []string
		args  []any
	)
	if from != nil {
		conds = append(conds, "recorded_at >= ?")
		args = append(args, models.FormatTimestamp(*from))
	}
	if to != nil {
		conds = append(conds, "recorded_at <= ?")
		args = append(args, models.FormatTimestamp(*to))
	}

	query := `SELECT ` + readingColumns + ` FROM bp_records`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY recorded_at DESC, id DESC"

	records, err := d.list(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("range readings: %w", err)
	}
	return records, nil
}

// Delete removes a reading by ID. It reports whether a row was removed;
// deleting a missing ID is not an error.
func (d *DB) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := d.db.ExecContext(ctx, "DELETE FROM bp_records WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete reading %d: %w: %w", id, ErrPersistence, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete reading %d: %w: %w", id, ErrPersistence, err)
	}
	return affected > 0, nil
}

// Count returns the number of stored readings.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bp_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count readings: %w: %w", ErrPersistence, err)
	}
	return n, nil
}

func (d *DB) list(ctx context.Context, query string, args ...any) ([]*models.Reading, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer rows.Close()

	readings := []*models.Reading{}
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return readings, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanReading scans a single row into a Reading, mapping the stored 0 heart
// rate back to nil.
func scanReading(s scanner) (*models.Reading, error) {
	var (
		r          models.Reading
		heartRate  int
		recordedAt string
		notes      sql.NullString
	)

	if err := s.Scan(&r.ID, &r.Systolic, &r.Diastolic, &heartRate, &recordedAt, &notes); err != nil {
		return nil, err
	}

	t, err := models.ParseTimestamp(recordedAt)
	if err != nil {
		return nil, fmt.Errorf("scan reading %d: %w", r.ID, err)
	}
	r.RecordedAt = t

	if heartRate != 0 {
		r.HeartRate = &heartRate
	}
	if notes.Valid {
		r.Notes = &notes.String
	}
	return &r, nil
}
