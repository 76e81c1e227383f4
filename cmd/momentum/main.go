package main

import (
	"database/sql"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/momentum/internal/rollover"
	"github.com/sandeepkv93/momentum/internal/storage"
	"github.com/sandeepkv93/momentum/internal/update"
)

func main() {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	db, err := sql.Open("sqlite3", cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "momentum: open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := storage.MigrateUp(db); err != nil {
		fmt.Fprintf(os.Stderr, "momentum: migrate database: %v\n", err)
		os.Exit(1)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "momentum: init repository: %v\n", err)
		os.Exit(1)
	}

	notifier := update.DesktopNotifier(update.NoopDesktopNotifier{})
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	watcher := rollover.NewWatcher(cfg.RolloverBuffer)
	watcher.Start()

	m := update.NewModelWithConfig(repo, notifier, cfg)
	m.Watcher = watcher

	program := tea.NewProgram(m)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "momentum failed: %v\n", err)
		os.Exit(1)
	}
}
