/*
© Copyright IBM Corporation 2017, 2026

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

// Package command contains code to run external commands
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Output is the captured result of a completed command
type Output struct {
	Stdout string
	Stderr string
	RC     int
}

// Runner runs external commands and waits for them to complete.
// A non-nil error is returned if the command could not be started or
// exited with a non-zero return code; Output is populated in both cases.
type Runner interface {
	Exec(ctx context.Context, name string, arg ...string) (Output, error)
}

// ExecRunner is a Runner for processes on the local host
type ExecRunner struct {
	// Dir is the working directory of the command; empty means the current directory
	Dir string
	// Env is appended to the environment of the current process
	Env []string
}

// Exec runs the named program with the given arguments.  Stdout and stderr
// are captured separately.
func (r ExecRunner) Exec(ctx context.Context, name string, arg ...string) (Output, error) {
	// #nosec G204
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	out := Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		RC:     -1,
	}
	if cmd.ProcessState != nil {
		out.RC = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return out, fmt.Errorf("%v: %w", cmd.Path, err)
	}
	return out, nil
}

// String renders a command line for display.  Arguments containing
// whitespace are quoted.
func String(name string, arg ...string) string {
	parts := make([]string, 0, len(arg)+1)
	for _, a := range append([]string{name}, arg...) {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
