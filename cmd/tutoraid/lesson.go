package main

import (
	"github.com/spf13/cobra"

	"github.com/wpinrui/tp/internal/service"
)

func (c *cli) lessonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lesson",
		Aliases: []string{"l"},
		Short:   "Add, edit and inspect lessons",
	}
	cmd.AddCommand(
		c.lessonAddCmd(),
		c.lessonDeleteCmd(),
		c.lessonEditCmd(),
		c.lessonViewCmd(),
	)
	return cmd
}

func (c *cli) lessonAddCmd() *cobra.Command {
	var req service.AddLessonRequest
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return c.run(cmd, req)
		},
	}
	cmd.Flags().StringVar(&req.Capacity, "capacity", "", "maximum number of students")
	cmd.Flags().StringVar(&req.Price, "price", "", "fee, e.g. 80 or 80.50")
	cmd.Flags().StringVar(&req.Timing, "timing", "", "schedule, e.g. \"Mon 4pm\"")
	return cmd
}

func (c *cli) lessonDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a lesson and unenrol its students",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, service.LessonRequest{Name: args[0], Delete: true})
		},
	}
}

func (c *cli) lessonEditCmd() *cobra.Command {
	var name, capacity, price, timing string
	cmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Edit a lesson; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, service.EditLessonRequest{
				Target:   args[0],
				Name:     changed(cmd, "name", name),
				Capacity: changed(cmd, "capacity", capacity),
				Price:    changed(cmd, "price", price),
				Timing:   changed(cmd, "timing", timing),
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&capacity, "capacity", "", "new capacity, empty for no limit")
	cmd.Flags().StringVar(&price, "price", "", "new price, empty to clear")
	cmd.Flags().StringVar(&timing, "timing", "", "new timing, empty to clear")
	return cmd
}

func (c *cli) lessonViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view NAME",
		Short: "Show a lesson and its students",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, service.LessonRequest{Name: args[0]})
		},
	}
}

func (c *cli) enrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll STUDENT LESSON",
		Short: "Enrol a student in a lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, service.EnrollmentRequest{Student: args[0], Lesson: args[1]})
		},
	}
}

func (c *cli) unenrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unenroll STUDENT LESSON",
		Short: "Remove a student from a lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, service.EnrollmentRequest{Student: args[0], Lesson: args[1], Unenroll: true})
		},
	}
}
