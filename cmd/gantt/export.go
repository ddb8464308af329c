package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/metalagman/gantt/internal/app"
	"github.com/metalagman/gantt/internal/export"
	"github.com/metalagman/gantt/internal/sheet"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export charts and task tables",
	}
	cmd.AddCommand(exportChartCmd())
	cmd.AddCommand(exportRowsCmd())
	cmd.AddCommand(exportExampleCmd())
	return cmd
}

func exportChartCmd() *cobra.Command {
	var project, format, output string
	var width int
	var status, resource, priority []string
	var sortBy string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the Gantt chart",
		Long: "Render the Gantt chart through the export chain (svg, png, html, scene). " +
			"With --format the chain starts at that stage; --format text draws it in the terminal.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), project)
			if err != nil {
				return err
			}
			if err := applyFilterFlags(st, status, resource, priority, sortBy); err != nil {
				return err
			}
			res, err := renderChart(cmd.Context(), e.svc, st, format, width)
			if err != nil {
				return err
			}
			for _, f := range res.Failures {
				log.Warn().Err(f).Msg("export stage skipped")
			}
			if output == "" && res.Format != export.FormatText {
				output = "gantt" + res.Extension()
			}
			if err := writeOutput(cmd.OutOrStdout(), output, res.Payload); err != nil {
				return err
			}
			if output != "" {
				log.Info().Str("format", string(res.Format)).Str("file", output).Msg("chart exported")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "project id (default: most recently updated)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "first stage to try (svg|png|html|scene|text)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, '-' for stdout")
	cmd.Flags().IntVar(&width, "width", export.DefaultTerminalWidth, "bar width of the text chart")
	addFilterFlags(cmd, &status, &resource, &priority, &sortBy)
	return cmd
}

func renderChart(ctx context.Context, svc *app.Service, st *app.State, format string, width int) (export.Result, error) {
	if format == "" {
		return svc.ExportChart(ctx, st), nil
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return export.Result{}, err
	}
	if f == export.FormatText {
		r := export.Terminal{Width: width}
		payload, err := r.Render(ctx, svc.Chart(st))
		if err != nil {
			return export.Result{}, err
		}
		return export.Result{Payload: payload, MIMEType: r.MIMEType(), Format: f}, nil
	}
	return svc.ExportChartAs(ctx, st, f)
}

func exportRowsCmd() *cobra.Command {
	var project, output string
	var status, resource, priority []string
	var sortBy string
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Export the filtered task table as CSV or Excel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := sheet.FormatOf(output)
			if err != nil {
				return err
			}
			e, closeFn, err := openEnv()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := e.openProject(cmd.Context(), project)
			if err != nil {
				return err
			}
			if err := applyFilterFlags(st, status, resource, priority, sortBy); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := e.svc.ExportRows(st, &buf, f); err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes()); err != nil {
				return err
			}
			log.Info().Str("file", output).Msg("tasks exported")
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "project id (default: most recently updated)")
	cmd.Flags().StringVarP(&output, "output", "o", "tasks.csv", "output file (.csv or .xlsx)")
	addFilterFlags(cmd, &status, &resource, &priority, &sortBy)
	return cmd
}

func exportExampleCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example spreadsheet to start from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := sheet.FormatOf(output)
			if err != nil {
				return err
			}
			sh := sheet.ExampleFor(time.Now())
			var buf bytes.Buffer
			if f == sheet.FormatXLSX {
				err = sheet.WriteXLSX(&buf, sh, "Example")
			} else {
				err = sheet.WriteCSV(&buf, sh)
			}
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes()); err != nil {
				return err
			}
			log.Info().Str("file", output).Msg("example written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "gantt_example.xlsx", "output file (.csv or .xlsx)")
	return cmd
}

// writeOutput writes payload to path, or to stdout when path is empty or "-".
func writeOutput(stdout io.Writer, path string, payload []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
