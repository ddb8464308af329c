package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(projectListCmd())
	cmd.AddCommand(projectCreateCmd())
	cmd.AddCommand(projectShowCmd())
	cmd.AddCommand(projectRenameCmd())
	cmd.AddCommand(projectDuplicateCmd())
	cmd.AddCommand(projectDeleteCmd())
	return cmd
}

func projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			items, err := e.svc.Projects(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				log.Info().Msg("no projects")
				return nil
			}
			out := cmd.OutOrStdout()
			for _, item := range items {
				_, _ = fmt.Fprintf(out, "%s\t%d\t%s\t%s\n",
					item.ID, item.TaskCount, item.UpdatedAt.Format("2006-01-02 15:04"), item.Name)
			}
			return nil
		},
	}
}

func projectCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create an empty project",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			p, err := e.svc.CreateProject(cmd.Context(), e.newState(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			log.Info().Str("project_id", p.ID).Msgf("project %q created", p.Name)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
}

func projectShowCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show project statistics and tasks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			md := projectReport(st.Project, e.svc.Stats(st), e.svc.Rows(st))
			if !plain {
				md = renderMarkdown(md)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw Markdown")
	return cmd
}

func projectRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := e.svc.RenameProject(cmd.Context(), st, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			log.Info().Str("project_id", args[0]).Msgf("project renamed to %q", st.Project.Name)
			return nil
		},
	}
}

func projectDuplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate [id]",
		Short: "Copy a project with fresh task ids",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			p, err := e.svc.DuplicateProject(cmd.Context(), st)
			if err != nil {
				return err
			}
			log.Info().Str("project_id", p.ID).Msgf("project %q created", p.Name)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
}

func projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := e.svc.DeleteProject(cmd.Context(), e.newState(), args[0]); err != nil {
				return err
			}
			log.Info().Str("project_id", args[0]).Msg("project deleted")
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
