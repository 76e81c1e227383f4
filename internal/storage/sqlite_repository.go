package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

const streakMetaKey = "streak"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, category, daily_target, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.Category, in.DailyTarget, boolInt(in.Completed), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, category, daily_target, completed, created_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET name = ?, category = ?, daily_target = ?, completed = ?
		WHERE id = ?`,
		in.Name, in.Category, in.DailyTarget, boolInt(in.Completed), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ListTasks returns the task store in creation order, which is the display
// order of the task list.
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, daily_target, completed, created_at
		FROM tasks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// UpsertDayRecord fully replaces any existing row for the record's date.
// Last write wins; there is no merge.
func (r *SQLiteRepository) UpsertDayRecord(ctx context.Context, in DayRecord) error {
	names, err := json.Marshal(in.CompletedTasks)
	if err != nil {
		return fmt.Errorf("encode completed tasks: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO day_records (date, completion_percentage, xp_earned, completed_tasks)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			completion_percentage = excluded.completion_percentage,
			xp_earned = excluded.xp_earned,
			completed_tasks = excluded.completed_tasks`,
		in.Date, in.CompletionPercentage, in.XPEarned, string(names),
	)
	return err
}

func (r *SQLiteRepository) GetDayRecord(ctx context.Context, date string) (DayRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT date, completion_percentage, xp_earned, completed_tasks
		FROM day_records WHERE date = ?`, date)
	rec, err := scanDayRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DayRecord{}, ErrNotFound
		}
		return DayRecord{}, err
	}
	return rec, nil
}

func (r *SQLiteRepository) ListDayRecords(ctx context.Context) ([]DayRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, completion_percentage, xp_earned, completed_tasks
		FROM day_records ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DayRecord, 0)
	for rows.Next() {
		rec, scanErr := scanDayRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetStreak reads the persisted streak counter. A missing or corrupt value
// reads as zero rather than an error.
func (r *SQLiteRepository) GetStreak(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, streakMetaKey)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	streak, err := strconv.Atoi(raw)
	if err != nil || streak < 0 {
		return 0, nil
	}
	return streak, nil
}

func (r *SQLiteRepository) SetStreak(ctx context.Context, streak int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		streakMetaKey, strconv.Itoa(streak),
	)
	return err
}

func (r *SQLiteRepository) ListBadges(ctx context.Context) ([]BadgeGrant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, earned, earned_at FROM badges ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BadgeGrant, 0)
	for rows.Next() {
		grant, scanErr := scanBadgeGrant(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, grant)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpsertBadge(ctx context.Context, in BadgeGrant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO badges (id, earned, earned_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			earned = excluded.earned,
			earned_at = excluded.earned_at`,
		in.ID, boolInt(in.Earned), nullTime(in.EarnedAt),
	)
	return err
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var completed int
	var created string
	if err := s.Scan(&out.ID, &out.Name, &out.Category, &out.DailyTarget, &completed, &created); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	out.Completed = completed == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanDayRecord(s scanner) (DayRecord, error) {
	var out DayRecord
	var names string
	if err := s.Scan(&out.Date, &out.CompletionPercentage, &out.XPEarned, &names); err != nil {
		return DayRecord{}, err
	}
	// Corrupted stored values read as missing, never as an error.
	if err := json.Unmarshal([]byte(names), &out.CompletedTasks); err != nil {
		out.CompletedTasks = nil
	}
	return out, nil
}

func scanBadgeGrant(s scanner) (BadgeGrant, error) {
	var out BadgeGrant
	var earned int
	var earnedAt sql.NullString
	if err := s.Scan(&out.ID, &earned, &earnedAt); err != nil {
		return BadgeGrant{}, err
	}
	at, err := parseNullableTime(earnedAt)
	if err != nil {
		return BadgeGrant{}, err
	}
	out.Earned = earned == 1
	out.EarnedAt = at
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
