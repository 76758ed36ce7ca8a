/*
© Copyright IBM Corporation 2026

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package moduletest provides a fake command runner for testing modules
package moduletest

import (
	"context"
	"fmt"
	"sync"

	"github.com/websphere-automation/was-modules/internal/command"
	"github.com/websphere-automation/was-modules/internal/logger"
	"github.com/websphere-automation/was-modules/internal/module"
)

// Runner is a command.Runner which records the commands it is asked to
// run, and returns canned output instead
type Runner struct {
	// Respond returns the output for a command line.  If nil, every command
	// succeeds with no output.
	Respond func(argv []string) command.Output

	mu    sync.Mutex
	calls [][]string
}

// Exec records the command and returns the response for it
func (r *Runner) Exec(_ context.Context, name string, arg ...string) (command.Output, error) {
	argv := append([]string{name}, arg...)
	r.mu.Lock()
	r.calls = append(r.calls, argv)
	r.mu.Unlock()
	var out command.Output
	if r.Respond != nil {
		out = r.Respond(argv)
	}
	if out.RC != 0 {
		return out, fmt.Errorf("%v: exit status %v", name, out.RC)
	}
	return out, nil
}

// Calls returns every command run so far
func (r *Runner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := make([][]string, len(r.calls))
	copy(calls, r.calls)
	return calls
}

// Context returns a module Context using the Runner, which discards logs
func (r *Runner) Context(checkMode bool) *module.Context {
	c := module.NewContext(context.Background(), logger.Discard())
	c.Runner = r
	c.CheckMode = checkMode
	return c
}

// Run executes a module with args using the Runner
func (r *Runner) Run(m module.Module, checkMode bool, args map[string]interface{}) module.Result {
	return m.Execute(r.Context(checkMode), args)
}
