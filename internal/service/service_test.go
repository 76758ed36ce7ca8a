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

package service

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/websphere-automation/was-modules/internal/command"
	"github.com/websphere-automation/was-modules/internal/module/moduletest"
)

func newService(dir string) Service {
	return Service{
		Name:      "server1",
		PidFile:   filepath.Join(dir, "server1.pid"),
		Start:     Command{Path: filepath.Join(dir, "startServer.sh"), Args: []string{"server1"}},
		Stop:      Command{Path: filepath.Join(dir, "stopServer.sh"), Args: []string{"server1"}},
		StartHint: "See log for details ---> start.log",
		StopHint:  "See log for details ---> stop.log",
	}
}

func writePid(t *testing.T, s Service, pid int) {
	t.Helper()
	err := os.WriteFile(s.PidFile, []byte(strconv.Itoa(pid)+"\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

var ensureTests = []struct {
	state     string
	pid       int
	checkMode bool
	changed   bool
	msg       string
	commands  []string
}{
	{"start", 0, false, true, "Successfully started server1", []string{"startServer.sh"}},
	{"start", -1, false, false, "server1 is already running", nil},
	{"start", 0, true, true, "server1 will be started", nil},
	{"stop", 0, false, false, "server1 is not running", nil},
	{"stop", -1, false, true, "Successfully stopped server1", []string{"stopServer.sh"}},
	{"stop", -1, true, true, "server1 will be stopped", nil},
	{"restart", -1, false, true, "Successfully restarted server1", []string{"stopServer.sh", "startServer.sh"}},
	{"restart", 0, false, true, "Successfully restarted server1", []string{"startServer.sh"}},
	{"restart", -1, true, true, "server1 will be restarted", nil},
}

func TestEnsure(t *testing.T) {
	for _, table := range ensureTests {
		dir := t.TempDir()
		s := newService(dir)
		if table.pid == -1 {
			writePid(t, s, os.Getpid())
		}
		r := &moduletest.Runner{}
		res := s.Ensure(r.Context(table.checkMode), table.state)
		if res.Failed {
			t.Errorf("%v: expected success; got %v", table.state, res.Msg)
		}
		if res.Changed != table.changed {
			t.Errorf("%v: expected changed=%v; got %v", table.state, table.changed, res.Changed)
		}
		if res.Msg != table.msg {
			t.Errorf("%v: expected msg %q; got %q", table.state, table.msg, res.Msg)
		}
		var commands []string
		for _, c := range r.Calls() {
			commands = append(commands, filepath.Base(c[0]))
		}
		if diff := cmp.Diff(table.commands, commands); diff != "" {
			t.Errorf("%v: unexpected commands (-want +got):\n%v", table.state, diff)
		}
	}
}

func TestEnsureFailure(t *testing.T) {
	s := newService(t.TempDir())
	r := &moduletest.Runner{Respond: func(argv []string) command.Output {
		return command.Output{RC: 246, Stdout: "ADMU3011E: Server launched but failed initialization"}
	}}
	res := s.Ensure(r.Context(false), Start)
	if !res.Failed {
		t.Fatal("Expected failure")
	}
	expected := "Failed to start server1. See log for details ---> start.log"
	if res.Msg != expected {
		t.Errorf("Expected %q; got %q", expected, res.Msg)
	}
	if res.RC == nil || *res.RC != 246 {
		t.Errorf("Expected rc=246; got %v", res.RC)
	}
}

func TestEnsureRestartStopFailure(t *testing.T) {
	s := newService(t.TempDir())
	writePid(t, s, os.Getpid())
	r := &moduletest.Runner{Respond: func(argv []string) command.Output {
		if strings.HasSuffix(argv[0], "stopServer.sh") {
			return command.Output{RC: 1}
		}
		return command.Output{}
	}}
	res := s.Ensure(r.Context(false), Restart)
	if !res.Failed || !strings.HasPrefix(res.Msg, "Failed to stop server1") {
		t.Errorf("Expected stop failure; got %+v", res)
	}
	if len(r.Calls()) != 1 {
		t.Errorf("Expected start not to run; got %v", r.Calls())
	}
}

func TestEnsureRestartStartFailure(t *testing.T) {
	s := newService(t.TempDir())
	writePid(t, s, os.Getpid())
	r := &moduletest.Runner{Respond: func(argv []string) command.Output {
		if strings.HasSuffix(argv[0], "startServer.sh") {
			return command.Output{RC: 1}
		}
		return command.Output{}
	}}
	res := s.Ensure(r.Context(false), Restart)
	if !res.Failed {
		t.Fatalf("Expected start failure; got %+v", res)
	}
	if !res.Changed {
		t.Error("Expected changed=true as the server was stopped")
	}
	expected := "Failed to start server1. See log for details ---> start.log"
	if res.Msg != expected {
		t.Errorf("Expected %q; got %q", expected, res.Msg)
	}
	if len(r.Calls()) != 2 {
		t.Errorf("Expected stop then start; got %v", r.Calls())
	}
}

func TestEnsureStalePid(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("Skipping tests for package which only works on Linux")
	}
	s := newService(t.TempDir())
	// Larger than any pid_max, so the process cannot exist
	writePid(t, s, 1<<30)
	r := &moduletest.Runner{}
	res := s.Ensure(r.Context(true), Start)
	expected := "server1 will be started (stale pid file " + s.PidFile + " was ignored)"
	if !res.Changed || res.Msg != expected {
		t.Errorf("Expected %q in check mode; got %+v", expected, res)
	}
	if len(r.Calls()) != 0 {
		t.Errorf("Expected no commands in check mode; got %v", r.Calls())
	}
	res = s.Ensure(r.Context(false), Start)
	if !res.Changed || !strings.Contains(res.Msg, "stale pid file") {
		t.Errorf("Expected start with stale pid note; got %+v", res)
	}
	res = s.Ensure(r.Context(false), Stop)
	if res.Changed || !strings.HasPrefix(res.Msg, "server1 is not running") {
		t.Errorf("Expected not running; got %+v", res)
	}
}

func TestEnsureInvalidState(t *testing.T) {
	s := newService(t.TempDir())
	r := &moduletest.Runner{}
	res := s.Ensure(r.Context(false), "check")
	if !res.Failed {
		t.Error("Expected failure for invalid state")
	}
}

// TestEnsureScripts runs real start and stop scripts which manage the pid file
func TestEnsureScripts(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("Skipping tests for package which only works on Linux")
	}
	dir := t.TempDir()
	s := newService(dir)
	scripts := map[string]string{
		"startServer.sh": "#!/bin/bash\necho $$ > " + s.PidFile + "\necho ADMU3000I: Server $1 open for e-business\n",
		"stopServer.sh":  "#!/bin/bash\nrm -f " + s.PidFile + "\necho ADMU4000I: Server $1 stop completed.\n",
	}
	for name, body := range scripts {
		err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0700)
		if err != nil {
			t.Fatal(err)
		}
	}
	c := (&moduletest.Runner{}).Context(false)
	c.Runner = command.ExecRunner{}

	res := s.Ensure(c, Start)
	if res.Failed || !res.Changed {
		t.Fatalf("Expected start; got %+v", res)
	}
	if !strings.Contains(res.Stdout, "open for e-business") {
		t.Errorf("Expected script output; got %q", res.Stdout)
	}
	// The script's shell has exited, so its pid is stale
	res = s.Ensure(c, Stop)
	if res.Changed {
		t.Errorf("Expected stale pid file to mean not running; got %+v", res)
	}
	writePid(t, s, os.Getpid())
	res = s.Ensure(c, Stop)
	if res.Failed || !res.Changed {
		t.Fatalf("Expected stop; got %+v", res)
	}
	if _, err := os.Stat(s.PidFile); !os.IsNotExist(err) {
		t.Errorf("Expected pid file to be removed; got %v", err)
	}
}
