package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Samdami/Altsamdamiblog/app/models"
	"github.com/Samdami/Altsamdamiblog/app/repositories"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := LoadConfig()
	cfg.DatabaseFile = filepath.Join(dir, "data", "blog.db")
	cfg.SessionDir = filepath.Join(dir, "data", "sessions")
	cfg.BackupDir = filepath.Join(dir, "backups")
	cfg.Port = 0
	return cfg
}

func runCommand(cfg Config, input string, args ...string) (int, string) {
	var out bytes.Buffer
	code := NewCommands(cfg, strings.NewReader(input), &out).HandleCommand(args)
	return code, out.String()
}

func TestHandleCommand(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectedExit   int
	}{
		{
			name:           "no arguments",
			args:           []string{},
			expectedOutput: "Usage: blog db <command>",
			expectedExit:   1,
		},
		{
			name:           "help",
			args:           []string{"help"},
			expectedOutput: "restore <dir>",
			expectedExit:   0,
		},
		{
			name:           "unknown command",
			args:           []string{"explode"},
			expectedOutput: "Unknown db command: explode",
			expectedExit:   1,
		},
		{
			name:           "restore without directory",
			args:           []string{"restore"},
			expectedOutput: "backup directory required",
			expectedExit:   1,
		},
		{
			name:           "backup without database",
			args:           []string{"backup"},
			expectedOutput: "No database exists to backup",
			expectedExit:   1,
		},
		{
			name:           "clean without database",
			args:           []string{"clean"},
			expectedOutput: "already clean",
			expectedExit:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := runCommand(cfg, "", tt.args...)
			assert.Equal(t, tt.expectedExit, code)
			assert.Contains(t, out, tt.expectedOutput)
		})
	}
}

func TestInitAndClean(t *testing.T) {
	cfg := testConfig(t)

	code, out := runCommand(cfg, "", "init")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Database initialized successfully")
	assert.FileExists(t, cfg.DatabaseFile)
	assert.DirExists(t, cfg.SessionDir)

	code, out = runCommand(cfg, "", "init")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Database already exists")

	code, out = runCommand(cfg, "n\n", "clean")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Operation cancelled")
	assert.FileExists(t, cfg.DatabaseFile)

	code, out = runCommand(cfg, "y\n", "clean")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Database cleaned successfully")
	assert.NoFileExists(t, cfg.DatabaseFile)
	assert.NoDirExists(t, cfg.SessionDir)
}

func TestBackupAndRestore(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	// Seed a user and a session.
	db, kv, err := openStores(cfg, discardLogger())
	require.NoError(t, err)
	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	require.NoError(t, db.Users().Create(ctx, user))
	require.NoError(t, repositories.NewBadgerSessionRepository(kv).Create(ctx, "key", &models.Session{UserID: user.ID}, time.Hour))
	require.NoError(t, kv.Close())
	require.NoError(t, db.Close())

	cmds := NewCommands(cfg, strings.NewReader(""), &bytes.Buffer{})
	cmds.now = func() time.Time { return time.Unix(1700000000, 0) }
	require.Equal(t, 0, cmds.HandleCommand([]string{"backup"}))

	backupDir := filepath.Join(cfg.BackupDir, "backup_1700000000")
	assert.FileExists(t, filepath.Join(backupDir, backupDatabaseFile))
	assert.FileExists(t, filepath.Join(backupDir, backupSessionsFile))

	code, _ := runCommand(cfg, "y\n", "clean")
	require.Equal(t, 0, code)

	code, out := runCommand(cfg, "", "restore", backupDir)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Database restored successfully")

	db, kv, err = openStores(cfg, discardLogger())
	require.NoError(t, err)
	defer db.Close()
	defer kv.Close()

	restored, err := db.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, restored.ID)

	session, err := repositories.NewBadgerSessionRepository(kv).Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
}

func TestRestoreRequiresConfirmation(t *testing.T) {
	cfg := testConfig(t)
	code, _ := runCommand(cfg, "", "init")
	require.Equal(t, 0, code)

	backupDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, backupDatabaseFile), []byte("not empty"), 0644))

	code, out := runCommand(cfg, "n\n", "restore", backupDir)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Operation cancelled")
	assert.FileExists(t, cfg.DatabaseFile)

	code, out = runCommand(cfg, "", "restore", filepath.Join(backupDir, "missing"))
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Backup does not exist")
}

func TestRestoreKeepsLiveDatabaseWhenCopyFails(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	db, kv, err := openStores(cfg, discardLogger())
	require.NoError(t, err)
	require.NoError(t, db.Users().Create(ctx, &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}))
	require.NoError(t, kv.Close())
	require.NoError(t, db.Close())

	// A directory where the database file should be cannot be copied.
	backupDir := t.TempDir()
	unreadable := filepath.Join(backupDir, backupDatabaseFile)
	require.NoError(t, os.MkdirAll(unreadable, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(unreadable, "junk"), []byte("x"), 0644))

	code, out := runCommand(cfg, "y\n", "restore", backupDir)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Failed to restore database")

	leftovers, err := filepath.Glob(cfg.DatabaseFile + ".restore-*")
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	db, kv, err = openStores(cfg, discardLogger())
	require.NoError(t, err)
	defer db.Close()
	defer kv.Close()

	_, err = db.Users().GetByUsername(ctx, "alice")
	assert.NoError(t, err)
}
