package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/metalagman/gantt/internal/logging"
	"github.com/rs/zerolog/log"
)

func TestRedirectLogsToFileWithDebug(t *testing.T) {
	dir := t.TempDir()
	logging.Init(true)
	t.Cleanup(func() { logging.Init(false) })

	restore, err := redirectLogs(dir)
	if err != nil {
		t.Fatalf("redirect logs: %v", err)
	}
	log.Info().Str("project_id", "p1").Msg("rows saved")
	restore()

	data, err := os.ReadFile(filepath.Join(dir, tuiLogFile))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{`"message":"table editor started"`, `"project_id":"p1"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("log file missing %s:\n%s", want, data)
		}
	}
	if !logging.DebugEnabled() {
		t.Fatal("debug logging not restored")
	}
}

func TestRedirectLogsDropsWithoutDebug(t *testing.T) {
	dir := t.TempDir()
	logging.Init(false)

	restore, err := redirectLogs(dir)
	if err != nil {
		t.Fatalf("redirect logs: %v", err)
	}
	log.Info().Msg("dropped")
	restore()

	if _, err := os.Stat(filepath.Join(dir, tuiLogFile)); !os.IsNotExist(err) {
		t.Fatalf("expected no log file, stat err = %v", err)
	}
	if logging.DebugEnabled() {
		t.Fatal("debug logging enabled after restore")
	}
}

func TestTaskCommandHasTableEditor(t *testing.T) {
	cmd, _, err := taskCmd().Find([]string{"table"})
	if err != nil {
		t.Fatalf("find table: %v", err)
	}
	if cmd.Name() != "table" {
		t.Fatalf("got command %q", cmd.Name())
	}
	if cmd.Flags().Lookup("status") == nil || cmd.Flags().Lookup("sort") == nil {
		t.Fatal("table command is missing filter flags")
	}
}
