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

package module

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/websphere-automation/was-modules/internal/command"
	"github.com/websphere-automation/was-modules/internal/logger"
)

// ReadArgs reads module arguments from a file.  The file holds either a JSON
// object or, for old style invocations, space separated key=value pairs.
func ReadArgs(fileName string) (map[string]interface{}, error) {
	b, err := os.ReadFile(filepath.Clean(fileName))
	if err != nil {
		return nil, err
	}
	return ParseArgs(b)
}

// ParseArgs parses module arguments, see ReadArgs
func ParseArgs(b []byte) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return args, nil
	}
	if trimmed[0] == '{' {
		err := json.Unmarshal(trimmed, &args)
		if err != nil {
			return nil, fmt.Errorf("unable to parse module arguments: %w", err)
		}
		return args, nil
	}
	for _, field := range strings.Fields(string(trimmed)) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("unable to parse module argument %q, expected key=value", field)
		}
		args[k] = v
	}
	return args, nil
}

// Invoke runs a module against already parsed arguments
func Invoke(ctx context.Context, m Module, args map[string]interface{}, runner command.Runner, log *logger.Logger) Result {
	if Debug(args) {
		log.SetDebug(true)
	}
	c := &Context{
		Ctx:       ctx,
		Runner:    runner,
		Log:       log,
		CheckMode: CheckMode(args),
	}
	log.Debugf("Running module %v (check mode: %v)", m.Name(), c.CheckMode)
	r := m.Execute(c, args)
	if r.Failed {
		log.Errorf("%v: %v", m.Name(), r.Msg)
	} else {
		log.Debugf("%v: changed=%v %v", m.Name(), r.Changed, r.Msg)
	}
	return r
}

// Print writes the Result as JSON and returns the exit code for it
func Print(w io.Writer, r Result) int {
	b, err := json.Marshal(r)
	if err != nil {
		fmt.Fprintf(w, `{"failed": true, "msg": %q}`+"\n", err.Error())
		return 1
	}
	fmt.Fprintln(w, string(b))
	if r.Failed {
		return 1
	}
	return 0
}

// Main runs a module with the arguments in argsFile, as Ansible runs binary
// modules, and returns the process exit code
func Main(ctx context.Context, m Module, argsFile string, stdout io.Writer, log *logger.Logger) int {
	args, err := ReadArgs(argsFile)
	if err != nil {
		return Print(stdout, Fail(fmt.Sprintf("Error reading module arguments: %v", err)))
	}
	return Print(stdout, Invoke(ctx, m, args, command.ExecRunner{}, log))
}
