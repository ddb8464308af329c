package main

import (
	"fmt"
	"strings"

	"github.com/metalagman/gantt/internal/app"
	"github.com/metalagman/gantt/internal/model"
	"github.com/metalagman/gantt/internal/view"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the tasks of a project",
	}
	cmd.PersistentFlags().StringP("project", "p", "", "project id (default: most recently updated)")
	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskEditCmd())
	cmd.AddCommand(taskDoneCmd())
	cmd.AddCommand(taskDeleteCmd())
	cmd.AddCommand(taskTableCmd())
	return cmd
}

// taskFlags are the editable task fields.
type taskFlags struct {
	start, end  string
	resource    string
	status      string
	priority    string
	description string
	dependsOn   []string
}

func (f *taskFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "end date (YYYY-MM-DD)")
	fs.StringVar(&f.resource, "resource", "", "assigned resource")
	fs.StringVar(&f.status, "status", string(model.StatusNotStarted), "status (not_started|in_progress|done|late)")
	fs.StringVar(&f.priority, "priority", string(model.PriorityMedium), "priority (low|medium|high|critical)")
	fs.StringVar(&f.description, "description", "", "free text")
	fs.StringSliceVar(&f.dependsOn, "depends-on", nil, "task name or id this task depends on (repeatable)")
}

// apply copies the flags set on the command line onto t. With all set every
// field is copied regardless.
func (f *taskFlags) apply(fs *pflag.FlagSet, p *model.Project, t *model.Task, all bool) ([]model.ResolutionWarning, error) {
	changed := func(name string) bool { return all || fs.Changed(name) }
	if changed("start") {
		d, err := model.ParseDate(f.start)
		if err != nil {
			return nil, model.Validationf("start: %v", err)
		}
		t.StartDate = d
	}
	if changed("end") {
		d, err := model.ParseDate(f.end)
		if err != nil {
			return nil, model.Validationf("end: %v", err)
		}
		t.EndDate = d
	}
	if changed("resource") {
		t.Resource = f.resource
	}
	if changed("status") {
		s, err := model.ParseStatus(f.status)
		if err != nil {
			return nil, err
		}
		t.Status = s
	}
	if changed("priority") {
		pr, err := model.ParsePriority(f.priority)
		if err != nil {
			return nil, err
		}
		t.Priority = pr
	}
	if changed("description") {
		t.Description = f.description
	}
	var warnings []model.ResolutionWarning
	if changed("depends-on") {
		t.Dependencies, warnings = view.ResolveRefs(p, t.ID, f.dependsOn)
	}
	return warnings, nil
}

func taskAddCmd() *cobra.Command {
	var flags taskFlags
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), projectFlag(cmd))
			if err != nil {
				return err
			}
			t := model.Task{Name: strings.TrimSpace(strings.Join(args, " "))}
			warnings, err := flags.apply(cmd.Flags(), st.Project, &t, true)
			if err != nil {
				return err
			}
			saved, more, err := e.svc.SaveTask(cmd.Context(), st, t)
			if err != nil {
				return err
			}
			logWarnings(append(warnings, more...))
			log.Info().Str("task_id", saved.ID).Msgf("task %q added", saved.Name)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		},
	}
	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func taskEditCmd() *cobra.Command {
	var flags taskFlags
	var name string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), projectFlag(cmd))
			if err != nil {
				return err
			}
			idx := st.Project.TaskIndex(args[0])
			if idx < 0 {
				return model.NotFoundf("task %q", args[0])
			}
			t := st.Project.Tasks[idx].Clone()
			if cmd.Flags().Changed("name") {
				t.Name = name
			}
			warnings, err := flags.apply(cmd.Flags(), st.Project, &t, false)
			if err != nil {
				return err
			}
			saved, more, err := e.svc.SaveTask(cmd.Context(), st, t)
			if err != nil {
				return err
			}
			logWarnings(append(warnings, more...))
			log.Info().Str("task_id", saved.ID).Msg("task updated")
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&name, "name", "", "task name")
	return cmd
}

func taskListCmd() *cobra.Command {
	var status, resource, priority []string
	var sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
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
			rows := e.svc.Rows(st)
			if len(rows) == 0 {
				log.Info().Msg("no tasks")
				return nil
			}
			out := cmd.OutOrStdout()
			for _, r := range rows {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.StartDate, r.EndDate, r.Status, r.Priority, r.Resource, r.Name, r.Dependencies)
			}
			return nil
		},
	}
	addFilterFlags(cmd, &status, &resource, &priority, &sortBy)
	return cmd
}

func taskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), projectFlag(cmd))
			if err != nil {
				return err
			}
			if err := e.svc.MarkDone(cmd.Context(), st, args[0]); err != nil {
				return err
			}
			log.Info().Msgf("task %s done", args[0])
			return nil
		},
	}
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task and the dependencies pointing at it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), projectFlag(cmd))
			if err != nil {
				return err
			}
			if err := e.svc.DeleteTask(cmd.Context(), st, args[0]); err != nil {
				return err
			}
			log.Info().Msgf("task %s deleted", args[0])
			return nil
		},
	}
}

func projectFlag(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("project")
	return id
}

func addFilterFlags(cmd *cobra.Command, status, resource, priority *[]string, sortBy *string) {
	cmd.Flags().StringSliceVar(status, "status", nil, "keep only these statuses")
	cmd.Flags().StringSliceVar(resource, "resource", nil, "keep only these resources")
	cmd.Flags().StringSliceVar(priority, "priority", nil, "keep only these priorities")
	cmd.Flags().StringVar(sortBy, "sort", "", "sort key (start_date|end_date|duration|resource|priority)")
}

func applyFilterFlags(st *app.State, status, resource, priority []string, sortBy string) error {
	for _, v := range status {
		s, err := model.ParseStatus(v)
		if err != nil {
			return err
		}
		st.Filter.Statuses = append(st.Filter.Statuses, s)
	}
	for _, v := range priority {
		p, err := model.ParsePriority(v)
		if err != nil {
			return err
		}
		st.Filter.Priorities = append(st.Filter.Priorities, p)
	}
	st.Filter.Resources = resource
	if sortBy != "" {
		key, err := view.ParseSortKey(sortBy)
		if err != nil {
			return err
		}
		st.Sort = key
	}
	return nil
}
