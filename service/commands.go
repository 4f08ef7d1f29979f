package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Samdami/Altsamdamiblog/app/repositories"
)

const (
	backupDatabaseFile = "blog.db"
	backupSessionsFile = "sessions.bak"
)

// Commands runs the "db" maintenance subcommands against the configured stores.
type Commands struct {
	cfg    Config
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
}

func NewCommands(cfg Config, in io.Reader, out io.Writer) *Commands {
	return &Commands{
		cfg:    cfg,
		in:     bufio.NewReader(in),
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
}

// HandleCommand handles db subcommands and returns an exit code.
func (c *Commands) HandleCommand(args []string) int {
	if len(args) < 1 {
		c.printHelp()
		return 1
	}

	switch args[0] {
	case "init":
		return c.initDb()
	case "clean":
		return c.clean()
	case "backup":
		return c.backup()
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(c.out, "Error: backup directory required for restore")
			return 1
		}
		return c.restore(args[1])
	case "help":
		c.printHelp()
		return 0
	default:
		fmt.Fprintf(c.out, "Unknown db command: %s\n\n", args[0])
		c.printHelp()
		return 1
	}
}

func (c *Commands) printHelp() {
	helpText := `Usage: blog db <command>

Commands:
  init                            Create the database and session store
  clean                           Delete the database and all sessions
  backup                          Snapshot the database and sessions into the backup directory
  restore <dir>                   Restore from a snapshot directory created by backup
  help                            Display this help message
`
	fmt.Fprintln(c.out, helpText)
}

func (c *Commands) exists() bool {
	_, err := os.Stat(c.cfg.DatabaseFile)
	return err == nil
}

func (c *Commands) confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, _ := c.in.ReadString('\n')
	response := strings.TrimSpace(line)
	return response == "y" || response == "Y"
}

// initDb creates an empty, migrated database and session store.
func (c *Commands) initDb() int {
	if c.exists() {
		fmt.Fprintln(c.out, "Database already exists. Use 'clean' first if you want to reinitialize.")
		return 0
	}

	db, kv, err := openStores(c.cfg, c.logger)
	if err != nil {
		fmt.Fprintf(c.out, "Failed to initialize database: %v\n", err)
		return 1
	}
	defer db.Close()
	defer kv.Close()

	fmt.Fprintln(c.out, "Database initialized successfully")
	return 0
}

// clean removes the database and the session store.
func (c *Commands) clean() int {
	_, sessErr := os.Stat(c.cfg.SessionDir)
	if !c.exists() && os.IsNotExist(sessErr) {
		fmt.Fprintln(c.out, "Database is already clean (does not exist)")
		return 0
	}

	if !c.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(c.out, "Operation cancelled")
		return 1
	}

	if err := c.removeStores(); err != nil {
		fmt.Fprintf(c.out, "Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Fprintln(c.out, "Database cleaned successfully")
	return 0
}

func (c *Commands) removeStores() error {
	for _, path := range []string{c.cfg.DatabaseFile, c.cfg.DatabaseFile + "-wal", c.cfg.DatabaseFile + "-shm"} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return os.RemoveAll(c.cfg.SessionDir)
}

// backup snapshots both stores into a fresh timestamped directory.
func (c *Commands) backup() int {
	if !c.exists() {
		fmt.Fprintln(c.out, "No database exists to backup")
		return 1
	}

	dir := filepath.Join(c.cfg.BackupDir, fmt.Sprintf("backup_%d", c.now().Unix()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(c.out, "Failed to create backup directory: %v\n", err)
		return 1
	}

	db, kv, err := openStores(c.cfg, c.logger)
	if err != nil {
		fmt.Fprintf(c.out, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()
	defer kv.Close()

	if err := db.BackupTo(context.Background(), filepath.Join(dir, backupDatabaseFile)); err != nil {
		fmt.Fprintf(c.out, "Failed to backup database: %v\n", err)
		return 1
	}

	f, err := os.Create(filepath.Join(dir, backupSessionsFile))
	if err != nil {
		fmt.Fprintf(c.out, "Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := repositories.NewBadgerSessionRepository(kv).Backup(f); err != nil {
		fmt.Fprintf(c.out, "Failed to backup sessions: %v\n", err)
		return 1
	}

	fmt.Fprintf(c.out, "Database backed up successfully to %s\n", dir)
	return 0
}

// restore replaces the current stores with the snapshot in dir.
func (c *Commands) restore(dir string) int {
	dbBackup := filepath.Join(dir, backupDatabaseFile)
	fi, err := os.Stat(dbBackup)
	if err != nil {
		fmt.Fprintf(c.out, "Backup does not exist: %s\n", dbBackup)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Fprintf(c.out, "Backup file is empty: %s\n", dbBackup)
		return 1
	}

	if c.exists() {
		if !c.confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(c.out, "Operation cancelled")
			return 1
		}
	}
	staged, err := stageCopy(dbBackup, c.cfg.DatabaseFile)
	if err != nil {
		fmt.Fprintf(c.out, "Failed to restore database: %v\n", err)
		return 1
	}
	defer os.Remove(staged)

	if err := c.removeStores(); err != nil {
		fmt.Fprintf(c.out, "Failed to remove existing database: %v\n", err)
		return 1
	}
	if err := os.Rename(staged, c.cfg.DatabaseFile); err != nil {
		fmt.Fprintf(c.out, "Failed to restore database: %v\n", err)
		return 1
	}

	db, kv, err := openStores(c.cfg, c.logger)
	if err != nil {
		fmt.Fprintf(c.out, "Failed to open restored database: %v\n", err)
		return 1
	}
	defer db.Close()
	defer kv.Close()

	if f, err := os.Open(filepath.Join(dir, backupSessionsFile)); err == nil {
		defer f.Close()
		if err := repositories.NewBadgerSessionRepository(kv).Restore(f); err != nil {
			fmt.Fprintf(c.out, "Failed to restore sessions: %v\n", err)
			return 1
		}
	}

	fmt.Fprintln(c.out, "Database restored successfully")
	return 0
}

// stageCopy copies src into a temporary file beside dst and returns its path.
// The temporary file is removed if the copy fails.
func stageCopy(src, dst string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".restore-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}
