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

// wasctl runs WebSphere administration modules.  When invoked under the
// name of a module, as Ansible runs binary modules, it runs that module with
// the argument file given as the only argument.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/websphere-automation/was-modules/internal/appserver"
	"github.com/websphere-automation/was-modules/internal/cleanup"
	"github.com/websphere-automation/was-modules/internal/command"
	"github.com/websphere-automation/was-modules/internal/dmgr"
	"github.com/websphere-automation/was-modules/internal/ihs"
	"github.com/websphere-automation/was-modules/internal/im"
	"github.com/websphere-automation/was-modules/internal/imcl"
	"github.com/websphere-automation/was-modules/internal/keystore"
	"github.com/websphere-automation/was-modules/internal/logcheck"
	"github.com/websphere-automation/was-modules/internal/logger"
	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/nodeagent"
	"github.com/websphere-automation/was-modules/internal/pmt"
	"github.com/websphere-automation/was-modules/internal/tx"
	"github.com/websphere-automation/was-modules/internal/wasversion"
	"github.com/websphere-automation/was-modules/internal/webgate"
)

func newRegistry() (*module.Registry, error) {
	return module.NewRegistry(
		appserver.Module,
		cleanup.Module,
		dmgr.Module,
		ihs.Module,
		im.Module,
		imcl.Module,
		keystore.Module,
		logcheck.Module,
		nodeagent.Module,
		pmt.Module,
		tx.Module,
		wasversion.Module,
		webgate.Module,
	)
}

// runModuleBinary runs m as an Ansible binary module
func runModuleBinary(ctx context.Context, m module.Module, args []string, stdout, stderr io.Writer) int {
	log, err := logger.FromEnv(stderr, m.Name())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if len(args) != 1 {
		return module.Print(stdout, module.Fail(fmt.Sprintf("Usage: %v <args_file>", m.Name())))
	}
	return module.Main(ctx, m, args[0], stdout, log)
}

func doMain(ctx context.Context, args []string, stdout, stderr io.Writer, runner command.Runner) int {
	registry, err := newRegistry()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if len(args) == 0 {
		args = []string{"wasctl"}
	}
	if m, ok := registry.Lookup(filepath.Base(args[0])); ok {
		return runModuleBinary(ctx, m, args[1:], stdout, stderr)
	}

	a := newApp(registry, stdout, stderr, runner)
	cmd := a.rootCommand()
	cmd.SetArgs(args[1:])
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err = cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return a.exitCode
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rc := doMain(ctx, os.Args, os.Stdout, os.Stderr, command.ExecRunner{})
	stop()
	os.Exit(rc)
}
