package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/wpinrui/tp/internal/models"
	"github.com/wpinrui/tp/internal/service"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// printer renders feedback, errors and the filtered views.
type printer struct {
	out io.Writer
	err io.Writer
}

func newPrinter(out, err io.Writer) *printer {
	return &printer{out: out, err: err}
}

// Feedback prints a command result.
func (p *printer) Feedback(result service.CommandResult) {
	if result.ShowHelp {
		fmt.Fprintln(p.out, result.Feedback)
		return
	}
	fmt.Fprintln(p.out, color.GreenString(result.Feedback))
}

// Error prints err with its code, if any.
func (p *printer) Error(err error) {
	appErr := appErrors.FromError(err)
	if appErr.Code == appErrors.ErrInternal.Code {
		fmt.Fprintf(p.err, "%s %v\n", color.RedString("Error:"), err)
		return
	}
	fmt.Fprintf(p.err, "%s %s\n", color.RedString("Error [%s]:", appErr.Code), appErr.Error())
}

// Warn prints a non-fatal problem.
func (p *printer) Warn(err error) {
	fmt.Fprintf(p.err, "%s %v\n", color.YellowString("Warning:"), err)
}

// Views prints both filtered views.
func (p *printer) Views(views service.ViewSnapshot) {
	p.Students(views.Students, views.Order)
	p.Lessons(views.Lessons, views.Order)
}

// Students prints one line per student followed by details.
func (p *printer) Students(students []models.Student, order models.Ordering) {
	fmt.Fprintln(p.out, color.CyanString("Students (%d)", len(students)))
	fmt.Fprintln(p.out, strings.Repeat("─", 60))
	for i, s := range students {
		status := color.RedString(s.PaymentStatus().String())
		if s.PaymentStatus() == models.Paid {
			status = color.GreenString(s.PaymentStatus().String())
		}
		fmt.Fprintf(p.out, "%2d. %s  %s\n", i+1, color.New(color.Bold).Sprint(s.Name()), status)
		if s.Phone().IsSet() {
			fmt.Fprintf(p.out, "    phone: %s\n", s.Phone())
		}
		if s.ParentName().IsSet() || s.ParentPhone().IsSet() {
			fmt.Fprintf(p.out, "    parent: %s %s\n", s.ParentName(), s.ParentPhone())
		}
		fmt.Fprintf(p.out, "    progress: %s\n", s.CurrentProgress())
		if lessons := order.LessonsOf(s); len(lessons) > 0 {
			fmt.Fprintf(p.out, "    lessons: %s\n", strings.Join(lessons, ", "))
		}
	}
	fmt.Fprintln(p.out)
}

// Lessons prints one line per lesson followed by details.
func (p *printer) Lessons(lessons []models.Lesson, order models.Ordering) {
	fmt.Fprintln(p.out, color.CyanString("Lessons (%d)", len(lessons)))
	fmt.Fprintln(p.out, strings.Repeat("─", 60))
	for i, l := range lessons {
		seats := strconv.Itoa(l.Students().Len()) + " enrolled"
		if limit, ok := l.Capacity().Limit(); ok {
			seats = fmt.Sprintf("%d/%d", l.Students().Len(), limit)
			if l.IsFull() {
				seats = color.YellowString(seats + " full")
			}
		}
		fmt.Fprintf(p.out, "%2d. %s  %s\n", i+1, color.New(color.Bold).Sprint(l.Name()), seats)
		if l.Timing().IsSet() {
			fmt.Fprintf(p.out, "    timing: %s\n", l.Timing())
		}
		if l.Price().IsSet() {
			fmt.Fprintf(p.out, "    price: %s\n", l.Price().Display())
		}
		if students := order.StudentsOf(l); len(students) > 0 {
			fmt.Fprintf(p.out, "    students: %s\n", strings.Join(students, ", "))
		}
	}
	fmt.Fprintln(p.out)
}
