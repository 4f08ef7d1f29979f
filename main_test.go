package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Samdami/Altsamdamiblog/service"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BLOG_DATABASE_FILE", filepath.Join(dir, "blog.db"))
	t.Setenv("BLOG_SESSION_DIR", filepath.Join(dir, "sessions"))
	t.Setenv("BLOG_BACKUP_DIR", filepath.Join(dir, "backups"))

	tests := []struct {
		name           string
		args           []string
		expectedExit   int
		expectedOutput string
	}{
		{
			name:           "no arguments",
			args:           []string{},
			expectedExit:   1,
			expectedOutput: "Usage: blog <command>",
		},
		{
			name:           "help command",
			args:           []string{"help"},
			expectedExit:   0,
			expectedOutput: "Usage: blog <command> [options]",
		},
		{
			name:           "version command",
			args:           []string{"VERSION"},
			expectedExit:   0,
			expectedOutput: "blog version " + service.Version,
		},
		{
			name:           "unknown command",
			args:           []string{"unknown"},
			expectedExit:   1,
			expectedOutput: "Unknown command: unknown",
		},
		{
			name:           "db help",
			args:           []string{"db", "help"},
			expectedExit:   0,
			expectedOutput: "Usage: blog db <command>",
		},
		{
			name:           "db init",
			args:           []string{"db", "init"},
			expectedExit:   0,
			expectedOutput: "Database initialized successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			code := run(tt.args, strings.NewReader(""), &out)

			assert.Equal(t, tt.expectedExit, code)
			assert.Contains(t, out.String(), tt.expectedOutput)
		})
	}
}

func TestMainExitCode(t *testing.T) {
	var got int
	oldExit := exit
	defer func() { exit = oldExit }()
	exit = func(code int) { got = code }

	var out bytes.Buffer
	exit(run([]string{"help"}, strings.NewReader(""), &out))
	assert.Equal(t, 0, got)
}

func TestPrintHelp(t *testing.T) {
	var out bytes.Buffer
	printHelp(&out)

	for _, cmd := range []string{"help", "version", "serve", "db"} {
		assert.Contains(t, out.String(), cmd)
	}
}
