package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wpinrui/tp/internal/service"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

func (c *cli) listCmd() *cobra.Command {
	var students, lessons bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show every student and lesson",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := service.ListAll
			switch {
			case students && lessons:
				return appErrors.Clone(appErrors.ErrValidation, "use at most one of --students and --lessons")
			case students:
				scope = service.ListStudents
			case lessons:
				scope = service.ListLessons
			}
			return c.run(cmd, service.ListRequest{Scope: string(scope)})
		},
	}
	cmd.Flags().BoolVar(&students, "students", false, "reset only the student view")
	cmd.Flags().BoolVar(&lessons, "lessons", false, "reset only the lesson view")
	return cmd
}

func (c *cli) clearCmd() *cobra.Command {
	var req service.ClearRequest
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every student and lesson",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, req)
		},
	}
	cmd.Flags().BoolVarP(&req.Confirm, "yes", "y", false, "confirm that all data should be deleted")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var format string
	var all bool
	cmd := &cobra.Command{
		Use:       "export students|lessons",
		Short:     "Write the shown students or lessons to a CSV or PDF file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(service.ExportStudents), string(service.ExportLessons)},
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.exports.Generate(cmd.Context(), service.ExportRequest{
				Collection: service.ExportCollection(args[0]),
				Format:     service.ExportFormat(format),
				All:        all,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out.out, "%s %d rows written to %s\n",
				color.GreenString("Exported"), result.Rows, c.app.exports.Path(result.RelativePath))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(service.ExportCSV), "csv or pdf")
	cmd.Flags().BoolVar(&all, "all", false, "export every record, ignoring the current filter")
	return cmd
}
