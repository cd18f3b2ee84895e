package main

import (
	"github.com/spf13/cobra"

	"github.com/wpinrui/tp/internal/service"
)

// run dispatches req and prints the feedback and the refreshed views.
func (c *cli) run(cmd *cobra.Command, req service.CommandRequest) error {
	result, err := c.app.commands.Dispatch(cmd.Context(), req)
	if err != nil {
		return err
	}
	c.out.Feedback(result)
	if !result.ShowHelp && !result.Exit {
		c.out.Views(c.app.commands.Views())
	}
	return nil
}

// changed returns a pointer to the flag value when the flag was given.
func changed(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func (c *cli) studentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "student",
		Aliases: []string{"s"},
		Short:   "Add, edit and inspect students",
	}
	cmd.AddCommand(
		c.studentAddCmd(),
		c.studentDeleteCmd(),
		c.studentEditCmd(),
		c.studentPaymentCmd(true),
		c.studentPaymentCmd(false),
		c.progressCmd(),
		c.studentViewCmd(),
	)
	return cmd
}

func (c *cli) studentAddCmd() *cobra.Command {
	var req service.AddStudentRequest
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return c.run(cmd, req)
		},
	}
	cmd.Flags().StringVar(&req.Phone, "phone", "", "student phone number")
	cmd.Flags().StringVar(&req.ParentName, "parent-name", "", "parent name")
	cmd.Flags().StringVar(&req.ParentPhone, "parent-phone", "", "parent phone number")
	return cmd
}

func (c *cli) studentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a student and remove them from their lessons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, service.StudentRequest{Name: args[0], Delete: true})
		},
	}
}

func (c *cli) studentEditCmd() *cobra.Command {
	var name, phone, parentName, parentPhone string
	cmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Edit a student; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, service.EditStudentRequest{
				Target:      args[0],
				Name:        changed(cmd, "name", name),
				Phone:       changed(cmd, "phone", phone),
				ParentName:  changed(cmd, "parent-name", parentName),
				ParentPhone: changed(cmd, "parent-phone", parentPhone),
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number, empty to clear")
	cmd.Flags().StringVar(&parentName, "parent-name", "", "new parent name, empty to clear")
	cmd.Flags().StringVar(&parentPhone, "parent-phone", "", "new parent phone number, empty to clear")
	return cmd
}

func (c *cli) studentPaymentCmd(paid bool) *cobra.Command {
	use, short := "unpaid NAME", "Mark a student as not paid"
	if paid {
		use, short = "paid NAME", "Mark a student as paid"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, service.PaymentRequest{Name: args[0], Paid: paid})
		},
	}
}

func (c *cli) progressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Record or remove progress entries",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME PROGRESS",
			Short: "Record the latest progress of a student",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.run(cmd, service.ProgressRequest{Name: args[0], Progress: args[1]})
			},
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Remove the latest progress entry of a student",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.run(cmd, service.ProgressRequest{Name: args[0], Delete: true})
			},
		},
	)
	return cmd
}

func (c *cli) studentViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view NAME",
		Short: "Show a student and the lessons they attend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, service.StudentRequest{Name: args[0]})
		},
	}
}
