package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sgaunet/release-toolbox/pkg/backport"
	"github.com/sgaunet/release-toolbox/pkg/release"
	"github.com/sgaunet/release-toolbox/pkg/runner"
)

// CommandRunner is a mock command runner with call tracking.
// A command fails when it contains one of the Failures keys.
type CommandRunner struct {
	recorder

	Failures map[string]error
	Outputs  map[string]string
}

// NewCommandRunner creates a mock runner where every command succeeds.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		Failures: make(map[string]error),
		Outputs:  make(map[string]string),
	}
}

// Run records the command and returns the configured output or failure.
func (m *CommandRunner) Run(_ context.Context, command string, env map[string]string) (*runner.Result, error) {
	m.trackCall("Run", map[string]any{"command": command, "env": env})

	res := &runner.Result{Output: match(m.Outputs, command)}
	for _, key := range sortedKeys(m.Failures) {
		if strings.Contains(command, key) {
			res.ExitCode = 1
			return res, fmt.Errorf("%w: %w", runner.ErrCommandFailed, m.Failures[key])
		}
	}
	return res, nil
}

// Commands returns the command lines run so far, in order.
func (m *CommandRunner) Commands() []string {
	var out []string
	for _, call := range m.GetCalls() {
		if call.Method == "Run" {
			out = append(out, call.Args["command"].(string))
		}
	}
	return out
}

func match(outputs map[string]string, command string) string {
	for _, key := range sortedKeys(outputs) {
		if strings.Contains(command, key) {
			return outputs[key]
		}
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ensure CommandRunner implements the runner interfaces.
var (
	_ release.CommandRunner  = (*CommandRunner)(nil)
	_ backport.CommandRunner = (*CommandRunner)(nil)
)
