package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/metalagman/gantt/internal/logging"
	"github.com/metalagman/gantt/internal/tui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const tuiLogFile = "tui.log"

func taskTableCmd() *cobra.Command {
	var status, resource, priority []string
	var sortBy string
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Edit the task table in the terminal",
		Long: "Opens the filtered task table as an editable grid. Edits are kept " +
			"locally and applied to every shown task at once on save.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), projectFlag(cmd))
			if err != nil {
				return err
			}
			if err := applyFilterFlags(st, status, resource, priority, sortBy); err != nil {
				return err
			}

			restore, err := redirectLogs(e.cfg.Data.Dir)
			if err != nil {
				return err
			}
			defer restore()

			program := tea.NewProgram(
				tui.NewEditor(cmd.Context(), e.svc, st),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("run table editor: %w", err)
			}
			return nil
		},
	}
	addFilterFlags(cmd, &status, &resource, &priority, &sortBy)
	return cmd
}

// redirectLogs keeps log lines off the terminal while a full screen program
// owns it. With debug logging they go to a JSON file under dir, otherwise they
// are dropped. The returned func restores console logging.
func redirectLogs(dir string) (func(), error) {
	debug := logging.DebugEnabled()
	restore := func() { logging.Init(debug) }
	if !debug {
		logging.InitWriter(false, false, io.Discard)
		return restore, nil
	}

	path := filepath.Join(dir, tuiLogFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	logging.InitWriter(true, true, f)
	log.Debug().Str("path", path).Msg("table editor started")
	return func() {
		_ = f.Close()
		restore()
	}, nil
}
