package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/sheet"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var name string
	var check bool
	cmd := &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Create a project from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			sh, err := sheet.Read(path, f)
			if err != nil {
				return err
			}
			ok, reason := sheet.Validate(sh)
			if check {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), reason)
				if !ok {
					return model.Validationf("%s", reason)
				}
				return nil
			}
			if !ok {
				return model.Validationf("%s", reason)
			}

			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			if strings.TrimSpace(name) == "" {
				base := filepath.Base(path)
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}
			p, warnings, err := e.svc.ImportSheet(cmd.Context(), e.newState(), sh, name)
			if err != nil {
				return err
			}
			logWarnings(warnings)
			log.Info().Str("project_id", p.ID).Int("tasks", len(p.Tasks)).Msgf("project %q imported", p.Name)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (default: file name)")
	cmd.Flags().BoolVar(&check, "check", false, "only validate the file")
	return cmd
}
