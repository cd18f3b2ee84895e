// Package main provides the TutorAid CLI entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// cli carries state shared by every subcommand of one invocation.
type cli struct {
	envFile string
	noColor bool
	app     *app
	out     *printer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{out: newPrinter(os.Stdout, os.Stderr)}
	root := c.rootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		c.out.Error(err)
		if c.app != nil {
			c.app.close()
		}
		stop()
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "tutoraid",
		Short:   "Manage students, lessons and enrollments",
		Version: version,
		Long: `TutorAid keeps track of students, the lessons they attend and their payments.

Every command that changes data saves both collections before it returns.

Examples:
  tutoraid student add "Amy Tan" --phone 91234567 --parent-name "Bob Tan"
  tutoraid lesson add Math --capacity 10 --price 80.00 --timing "Mon 4pm"
  tutoraid enroll "Amy Tan" Math
  tutoraid student view "Amy Tan"
  tutoraid serve`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.noColor {
				color.NoColor = true
			}
			return c.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.close()
				c.app = nil
			}
		},
	}

	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "configuration file (default .env)")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable coloured output")

	root.AddGroup(
		&cobra.Group{ID: "records", Title: "Records:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "runtime", Title: "Runtime:"},
	)
	c.addCommands(root)
	root.AddCommand(c.serveCmd(), c.shellCmd())
	return root
}

// addCommands attaches the data commands shared by the root and the shell.
func (c *cli) addCommands(root *cobra.Command) {
	for _, cmd := range []*cobra.Command{c.studentCmd(), c.lessonCmd(), c.enrollCmd(), c.unenrollCmd()} {
		cmd.GroupID = "records"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{c.listCmd(), c.clearCmd(), c.exportCmd()} {
		cmd.GroupID = "views"
		root.AddCommand(cmd)
	}
}

// open builds the app once per process and reports load problems.
func (c *cli) open(ctx context.Context) error {
	if c.app != nil {
		return nil
	}
	a, err := newApp(ctx, c.envFile)
	if err != nil {
		return err
	}
	c.app = a
	for _, problem := range a.problems {
		c.out.Warn(problem)
	}
	return nil
}
