package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/routined/internal/model"
)

const (
	sqliteTimeLayout = time.RFC3339Nano
	sqliteDateLayout = time.DateOnly

	writeAttempts = 3
	writeBackoff  = 25 * time.Millisecond
)

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

// OpenSQLite opens the database with write transactions starting as
// IMMEDIATE, so read-modify-write sequences inside one transaction are
// serialized against concurrent writers.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
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

func (r *SQLiteRepository) CreateTask(ctx context.Context, in model.Task) error {
	scheduleJSON, err := marshalSchedule(in.Schedule)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, name, personal_message, icon_name, signature, duration_estimate, active, schedule, created_at, last_edited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.OwnerID, in.Name, in.PersonalMessage, in.IconName, in.Signature,
		in.DurationEstimate, boolInt(in.Active), scheduleJSON, mustTime(in.CreatedAt), mustTime(in.LastEditedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, personal_message, icon_name, signature, duration_estimate, active, schedule, created_at, last_edited_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in model.Task) error {
	scheduleJSON, err := marshalSchedule(in.Schedule)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET name = ?, personal_message = ?, icon_name = ?, signature = ?, duration_estimate = ?, active = ?, schedule = ?, last_edited_at = ?
		WHERE id = ?`,
		in.Name, in.PersonalMessage, in.IconName, in.Signature, in.DurationEstimate,
		boolInt(in.Active), scheduleJSON, mustTime(in.LastEditedAt), in.ID,
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

func (r *SQLiteRepository) ListTasksForUser(ctx context.Context, ownerID string) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, personal_message, icon_name, signature, duration_estimate, active, schedule, created_at, last_edited_at
		FROM tasks WHERE owner_id = ? ORDER BY name ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateHabit(ctx context.Context, in model.Habit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO habits (id, owner_id, name, personal_message, icon_name, signature, to_be_enforced, target_period, target_value, active, created_at, last_edited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.OwnerID, in.Name, in.PersonalMessage, in.IconName, in.Signature,
		boolInt(in.ToBeEnforced), string(in.TargetPeriod), in.TargetValue, boolInt(in.Active),
		mustTime(in.CreatedAt), mustTime(in.LastEditedAt),
	)
	return err
}

func (r *SQLiteRepository) GetHabit(ctx context.Context, id string) (model.Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, personal_message, icon_name, signature, to_be_enforced, target_period, target_value, active, created_at, last_edited_at
		FROM habits WHERE id = ?`, id)
	habit, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Habit{}, ErrNotFound
		}
		return model.Habit{}, err
	}
	return habit, nil
}

func (r *SQLiteRepository) UpdateHabit(ctx context.Context, in model.Habit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE habits
		SET name = ?, personal_message = ?, icon_name = ?, signature = ?, to_be_enforced = ?, target_period = ?, target_value = ?, active = ?, last_edited_at = ?
		WHERE id = ?`,
		in.Name, in.PersonalMessage, in.IconName, in.Signature, boolInt(in.ToBeEnforced),
		string(in.TargetPeriod), in.TargetValue, boolInt(in.Active), mustTime(in.LastEditedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteHabit(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListHabitsForUser(ctx context.Context, ownerID string) ([]model.Habit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, personal_message, icon_name, signature, to_be_enforced, target_period, target_value, active, created_at, last_edited_at
		FROM habits WHERE owner_id = ? ORDER BY name ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Habit, 0)
	for rows.Next() {
		habit, scanErr := scanHabit(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, habit)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListCompletionsOnDate(ctx context.Context, taskID string, date time.Time) ([]Completion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, date, duration_actual, marked_done_at
		FROM completions WHERE task_id = ? AND date = ?
		ORDER BY marked_done_at ASC, id ASC`, taskID, mustDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Completion, 0)
	for rows.Next() {
		item, scanErr := scanCompletion(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CompletionCountsByDate(ctx context.Context, taskID string, from, to time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, COUNT(*) FROM completions
		WHERE task_id = ? AND date >= ? AND date <= ?
		GROUP BY date`, taskID, mustDate(from), mustDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, err
		}
		out[date] = count
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkTaskDone(ctx context.Context, in MarkDone) (int, error) {
	if err := in.Reflection.Validate(); err != nil {
		return 0, err
	}
	count := 0
	err := r.withWriteTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(tx.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, in.TaskID)); err != nil {
			return err
		}

		date := mustDate(in.Date)
		var consumed int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM completions WHERE task_id = ? AND date = ?`,
			in.TaskID, date).Scan(&consumed); err != nil {
			return err
		}
		if consumed >= in.Scheduled {
			return ErrNoPendingOccurrence
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO completions (id, task_id, date, duration_actual, marked_done_at)
			VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), in.TaskID, date, in.DurationActual, mustTime(in.MarkedDoneAt),
		); err != nil {
			return err
		}
		count = consumed + 1

		return insertIntrospection(ctx, tx, Introspection{
			ID:         uuid.NewString(),
			Kind:       IntrospectionTask,
			RefID:      in.TaskID,
			Date:       in.Date,
			Reflection: in.Reflection,
			CreatedAt:  in.MarkedDoneAt,
		})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SQLiteRepository) HabitCountsByDate(ctx context.Context, habitID string, from, to time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, count FROM habit_counters
		WHERE habit_id = ? AND date >= ? AND date <= ?`,
		habitID, mustDate(from), mustDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, err
		}
		out[date] = count
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) IncrementHabitCounter(ctx context.Context, in RecordTick) (int, error) {
	if err := in.Reflection.Validate(); err != nil {
		return 0, err
	}
	count := 0
	err := r.withWriteTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(tx.QueryRowContext(ctx, `SELECT 1 FROM habits WHERE id = ?`, in.HabitID)); err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx, `
			INSERT INTO habit_counters (habit_id, date, count) VALUES (?, ?, 1)
			ON CONFLICT (habit_id, date) DO UPDATE SET count = count + 1
			RETURNING count`,
			in.HabitID, mustDate(in.Date)).Scan(&count); err != nil {
			return err
		}

		return insertIntrospection(ctx, tx, Introspection{
			ID:           uuid.NewString(),
			Kind:         IntrospectionHabit,
			RefID:        in.HabitID,
			Date:         in.Date,
			CounterValue: count,
			Reflection:   in.Reflection,
			CreatedAt:    in.RecordedAt,
		})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SQLiteRepository) ListIntrospections(ctx context.Context, kind IntrospectionKind, refID string, from, to time.Time) ([]Introspection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, ref_id, date, counter_value, mood_before, mood_after, previous_activity, next_activity, created_at
		FROM introspections
		WHERE kind = ? AND ref_id = ? AND date >= ? AND date <= ?
		ORDER BY created_at ASC, id ASC`,
		string(kind), refID, mustDate(from), mustDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Introspection, 0)
	for rows.Next() {
		item, scanErr := scanIntrospection(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// withWriteTx runs fn inside an IMMEDIATE transaction, retrying a bounded
// number of times when sqlite reports the database busy or locked. After
// the budget is exhausted the caller sees ErrConflict.
func (r *SQLiteRepository) withWriteTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < writeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(writeBackoff << attempt):
			}
		}

		err := func() error {
			tx, err := r.db.BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			defer func() { _ = tx.Rollback() }()
			if err := fn(tx); err != nil {
				return err
			}
			return tx.Commit()
		}()
		if err == nil {
			return nil
		}
		if !isBusy(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", ErrConflict, lastErr)
}

func insertIntrospection(ctx context.Context, tx *sql.Tx, in Introspection) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO introspections (id, kind, ref_id, date, counter_value, mood_before, mood_after, previous_activity, next_activity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, string(in.Kind), in.RefID, mustDate(in.Date), in.CounterValue,
		in.Reflection.MoodBefore, in.Reflection.MoodAfter,
		in.Reflection.PreviousActivity, in.Reflection.NextActivity, mustTime(in.CreatedAt),
	)
	return err
}

func requireRow(row *sql.Row) error {
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

func marshalSchedule(s model.Schedule) (string, error) {
	raw, err := json.Marshal(s.Strings())
	if err != nil {
		return "", fmt.Errorf("marshal schedule: %w", err)
	}
	return string(raw), nil
}

func unmarshalSchedule(raw string) (model.Schedule, error) {
	var specs [][][]string
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return model.Schedule{}, fmt.Errorf("unmarshal schedule: %w", err)
	}
	return model.ParseSchedule(specs)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func mustDate(v time.Time) string {
	y, m, d := v.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(sqliteDateLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func parseRequiredDate(v string) (time.Time, error) {
	return time.Parse(sqliteDateLayout, v)
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

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var active int
	var scheduleJSON, created, edited string
	if err := s.Scan(&out.ID, &out.OwnerID, &out.Name, &out.PersonalMessage, &out.IconName,
		&out.Signature, &out.DurationEstimate, &active, &scheduleJSON, &created, &edited); err != nil {
		return model.Task{}, err
	}
	schedule, err := unmarshalSchedule(scheduleJSON)
	if err != nil {
		return model.Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Task{}, err
	}
	editedAt, err := parseRequiredTime(edited)
	if err != nil {
		return model.Task{}, err
	}
	out.Active = active == 1
	out.Schedule = schedule
	out.CreatedAt = createdAt
	out.LastEditedAt = editedAt
	return out, nil
}

func scanHabit(s scanner) (model.Habit, error) {
	var out model.Habit
	var enforced, active int
	var period, created, edited string
	if err := s.Scan(&out.ID, &out.OwnerID, &out.Name, &out.PersonalMessage, &out.IconName,
		&out.Signature, &enforced, &period, &out.TargetValue, &active, &created, &edited); err != nil {
		return model.Habit{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Habit{}, err
	}
	editedAt, err := parseRequiredTime(edited)
	if err != nil {
		return model.Habit{}, err
	}
	out.ToBeEnforced = enforced == 1
	out.Active = active == 1
	out.TargetPeriod = model.TargetPeriod(period)
	out.CreatedAt = createdAt
	out.LastEditedAt = editedAt
	return out, nil
}

func scanCompletion(s scanner) (Completion, error) {
	var out Completion
	var date, marked string
	if err := s.Scan(&out.ID, &out.TaskID, &date, &out.DurationActual, &marked); err != nil {
		return Completion{}, err
	}
	d, err := parseRequiredDate(date)
	if err != nil {
		return Completion{}, err
	}
	markedAt, err := parseRequiredTime(marked)
	if err != nil {
		return Completion{}, err
	}
	out.Date = d
	out.MarkedDoneAt = markedAt
	return out, nil
}

func scanIntrospection(s scanner) (Introspection, error) {
	var out Introspection
	var kind, date, created string
	if err := s.Scan(&out.ID, &kind, &out.RefID, &date, &out.CounterValue,
		&out.Reflection.MoodBefore, &out.Reflection.MoodAfter,
		&out.Reflection.PreviousActivity, &out.Reflection.NextActivity, &created); err != nil {
		return Introspection{}, err
	}
	d, err := parseRequiredDate(date)
	if err != nil {
		return Introspection{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Introspection{}, err
	}
	out.Kind = IntrospectionKind(kind)
	out.Date = d
	out.CreatedAt = createdAt
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
