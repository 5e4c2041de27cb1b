// Package testutil provides fakes and fixtures shared by package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/manage/internal/runner"
)

// FakeRunner records invocations instead of starting processes.
type FakeRunner struct {
	Calls    []runner.Cmd
	Replaced []runner.Cmd

	// Respond returns the outcome of a Run call. When nil every call
	// succeeds with empty output.
	Respond func(c runner.Cmd) (runner.Result, error)
	// ReplaceErr is returned from Replace.
	ReplaceErr error
}

// Run implements runner.Runner.
func (f *FakeRunner) Run(_ context.Context, c runner.Cmd) (runner.Result, error) {
	f.Calls = append(f.Calls, c)
	if f.Respond != nil {
		return f.Respond(c)
	}
	return runner.Result{}, nil
}

// Replace implements runner.Runner.
func (f *FakeRunner) Replace(c runner.Cmd) error {
	f.Replaced = append(f.Replaced, c)
	return f.ReplaceErr
}

// Lines returns every recorded Run call as a space-joined command line.
func (f *FakeRunner) Lines() []string {
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}

// Last returns the most recent Run call.
func (f *FakeRunner) Last() runner.Cmd {
	if len(f.Calls) == 0 {
		return runner.Cmd{}
	}
	return f.Calls[len(f.Calls)-1]
}

// Contains reports whether the joined command line of c contains every part.
func Contains(c runner.Cmd, parts ...string) bool {
	line := c.String()
	for _, p := range parts {
		if !strings.Contains(line, p) {
			return false
		}
	}
	return true
}

// WriteFile creates dir/name with content, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
