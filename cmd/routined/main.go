package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/sandeepkv93/routined/internal/dashboard"
	"github.com/sandeepkv93/routined/internal/kpi"
	"github.com/sandeepkv93/routined/internal/model"
	"github.com/sandeepkv93/routined/internal/scheduler"
	"github.com/sandeepkv93/routined/internal/storage"
	"github.com/sandeepkv93/routined/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "routined failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	dbPath := strings.TrimSpace(os.Getenv("ROUTINED_DB"))
	if dbPath == "" {
		dbPath = "routined.db"
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", dbPath))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := storage.MigrateUp(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := seedIfEmpty(ctx, repo, cfg.UserID); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	svc := dashboard.NewService(repo, kpi.Policy{
		LookbackDays: cfg.LookbackDays,
		LatelyDays:   cfg.LatelyDays,
	}, nil)

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	program := tea.NewProgram(update.NewModelWithConfig(svc, engine, notifier, cfg))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// seedIfEmpty plants a starter task and habit for a fresh database so the
// first launch has something on the board.
func seedIfEmpty(ctx context.Context, repo *storage.SQLiteRepository, userID string) error {
	tasks, err := repo.ListTasksForUser(ctx, userID)
	if err != nil {
		return err
	}
	habits, err := repo.ListHabitsForUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(tasks) > 0 || len(habits) > 0 {
		return nil
	}

	cells := make([][][]string, model.CycleWeeks)
	for w := range cells {
		cells[w] = make([][]string, model.DaysPerWeek)
		for d := range cells[w] {
			cells[w][d] = []string{"any"}
		}
	}
	schedule, err := model.ParseSchedule(cells)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	task := model.Task{
		ID:               uuid.NewString(),
		OwnerID:          userID,
		Name:             "Plan the day",
		PersonalMessage:  "Five minutes of planning beats an hour of drifting.",
		IconName:         "default-task",
		DurationEstimate: 5,
		Active:           true,
		Schedule:         schedule,
		CreatedAt:        now,
		LastEditedAt:     now,
	}
	task.Signature = task.ComputeSignature()
	if err := repo.CreateTask(ctx, task); err != nil {
		return err
	}

	habit := model.Habit{
		ID:              uuid.NewString(),
		OwnerID:         userID,
		Name:            "Glasses of water",
		PersonalMessage: "Stay hydrated.",
		IconName:        "default-habit",
		ToBeEnforced:    false,
		TargetPeriod:    model.PeriodDaily,
		TargetValue:     8,
		Active:          true,
		CreatedAt:       now,
		LastEditedAt:    now,
	}
	habit.Signature = habit.ComputeSignature()
	return repo.CreateHabit(ctx, habit)
}
