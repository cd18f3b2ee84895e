package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/wpinrui/tp/internal/service"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

const shellPrompt = "tutoraid> "

func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "shell",
		Short:   "Run commands interactively against one loaded data set",
		GroupID: "runtime",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.shell(cmd.Context(), os.Stdin)
		},
	}
}

// shell reads one command per line until exit, end of input or cancellation.
// A failing command prints its error and the session carries on.
func (c *cli) shell(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(c.out.out, color.CyanString("TutorAid %s. Type help for commands, exit to quit.", version))
	c.out.Views(c.app.commands.Views())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out.out, shellPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(c.out.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		args, err := splitLine(scanner.Text())
		if err != nil {
			c.out.Error(appErrors.Clonef(appErrors.ErrValidation, "%v", err))
			continue
		}
		if len(args) == 0 {
			continue
		}

		exit, err := c.shellLine(ctx, args)
		if err != nil {
			c.out.Error(err)
		}
		if exit {
			return nil
		}
	}
}

// shellLine runs one parsed line and reports whether the session should end.
func (c *cli) shellLine(ctx context.Context, args []string) (bool, error) {
	switch strings.ToLower(args[0]) {
	case "help":
		return false, c.runCommand(ctx, service.HelpCommand{})
	case "exit", "quit":
		return true, c.runCommand(ctx, service.ExitCommand{})
	}

	root := &cobra.Command{
		Use:           "tutoraid",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(c.out.out)
	root.SetErr(c.out.err)
	root.AddGroup(
		&cobra.Group{ID: "records", Title: "Records:"},
		&cobra.Group{ID: "views", Title: "Views:"},
	)
	c.addCommands(root)
	root.SetArgs(args)
	return false, root.ExecuteContext(ctx)
}

// runCommand executes a command that has no request form.
func (c *cli) runCommand(ctx context.Context, cmd service.Command) error {
	result, err := c.app.commands.Execute(ctx, cmd)
	if err != nil {
		return err
	}
	c.out.Feedback(result)
	return nil
}

// splitLine breaks a line into words with POSIX shell quoting.
func splitLine(line string) ([]string, error) {
	return shellquote.Split(line)
}
