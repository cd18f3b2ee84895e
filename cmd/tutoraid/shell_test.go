package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr error
	}{
		{name: "plain words", line: "lesson add Math", want: []string{"lesson", "add", "Math"}},
		{name: "extra spaces", line: "  list   --students ", want: []string{"list", "--students"}},
		{name: "double quotes", line: `enroll "Amy Tan" Math`, want: []string{"enroll", "Amy Tan", "Math"}},
		{name: "single quotes keep backslash", line: `student progress add Amy 'a\b'`, want: []string{"student", "progress", "add", "Amy", `a\b`}},
		{name: "escaped space", line: `student add Amy\ Tan`, want: []string{"student", "add", "Amy Tan"}},
		{name: "empty quotes", line: `lesson edit Math --timing ""`, want: []string{"lesson", "edit", "Math", "--timing", ""}},
		{name: "flag with quoted value", line: `lesson add Art --timing="Mon 4pm"`, want: []string{"lesson", "add", "Art", "--timing=Mon 4pm"}},
		{name: "blank", line: "   ", want: []string{}},
		{name: "unterminated double quote", line: `student add "Amy`, wantErr: shellquote.UnterminatedDoubleQuoteError},
		{name: "unterminated single quote", line: `student add 'Amy`, wantErr: shellquote.UnterminatedSingleQuoteError},
		{name: "trailing backslash", line: `student add Amy\`, wantErr: shellquote.UnterminatedEscapeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitLine(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newShellFixture(t *testing.T) (*cli, *bytes.Buffer, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	studentsPath := filepath.Join(dir, "students.json")
	t.Setenv("STUDENTS_FILE_PATH", studentsPath)
	t.Setenv("LESSONS_FILE_PATH", filepath.Join(dir, "lessons.json"))
	t.Setenv("EXPORTS_DIR", filepath.Join(dir, "exports"))
	t.Setenv("STORAGE_DRIVER", "json")
	t.Setenv("ENABLE_METRICS", "false")
	t.Setenv("ENABLE_REDIS_EVENTS", "false")
	t.Setenv("LOG_LEVEL", "error")

	color.NoColor = true

	var out, errOut bytes.Buffer
	c := &cli{envFile: filepath.Join(dir, "missing.env"), out: newPrinter(&out, &errOut)}
	require.NoError(t, c.open(context.Background()))
	t.Cleanup(func() { c.app.close() })
	return c, &out, &errOut, studentsPath
}

func TestShellRunsUntilExit(t *testing.T) {
	c, out, errOut, studentsPath := newShellFixture(t)

	input := strings.Join([]string{
		`student add "Amy Tan" --phone 91234567`,
		`lesson add Math --capacity 1 --price 80`,
		`enroll "Amy Tan" Math`,
		`bogus`,
		`student add "Ben Lim`,
		``,
		`help`,
		`exit`,
		`student add Ben`,
	}, "\n")

	require.NoError(t, c.shell(context.Background(), strings.NewReader(input)))

	assert.Contains(t, out.String(), "New student added: Amy Tan")
	assert.Contains(t, out.String(), "Enrolled Amy Tan in Math")
	assert.Contains(t, out.String(), "lesson add | delete | edit | view")
	assert.Contains(t, out.String(), "Exiting TutorAid as requested")
	assert.Contains(t, errOut.String(), `unknown command "bogus"`)
	assert.Contains(t, errOut.String(), "Unterminated double-quoted string")

	data, err := os.ReadFile(studentsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Amy Tan")
	assert.NotContains(t, string(data), "Ben")
}

func TestShellKeepsGoingAfterCommandError(t *testing.T) {
	c, out, errOut, _ := newShellFixture(t)

	input := strings.Join([]string{
		`lesson add Math --capacity 1`,
		`student add Amy`,
		`student add Ben`,
		`enroll Amy Math`,
		`enroll Ben Math`,
		`lesson view Math`,
	}, "\n")

	require.NoError(t, c.shell(context.Background(), strings.NewReader(input)))

	assert.Contains(t, errOut.String(), "Error [CAPACITY_EXCEEDED]")
	assert.Contains(t, out.String(), "Viewing lesson: Math")
	assert.Contains(t, out.String(), "1/1 full")
}
