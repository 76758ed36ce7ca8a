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

package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"golang.org/x/sys/unix"
)

func writePidFile(t *testing.T, content string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "server1.pid")
	err := os.WriteFile(f, []byte(content), 0600)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCheckAbsent(t *testing.T) {
	s, err := Check(filepath.Join(t.TempDir(), "missing.pid"))
	if err != nil {
		t.Fatal(err)
	}
	if s != Absent {
		t.Errorf("Expected %v; got %v", Absent, s)
	}
}

func TestCheckOwnProcess(t *testing.T) {
	f := writePidFile(t, strconv.Itoa(os.Getpid())+"\n")
	s, err := Check(f)
	if err != nil {
		t.Fatal(err)
	}
	if s != Running {
		t.Errorf("Expected %v; got %v", Running, s)
	}
}

func TestCheckStale(t *testing.T) {
	orig := signalZero
	defer func() { signalZero = orig }()
	signalZero = func(pid int) error {
		if pid != 4242 {
			t.Errorf("Expected pid 4242; got %v", pid)
		}
		return unix.ESRCH
	}
	f := writePidFile(t, "4242")
	s, err := Check(f)
	if err != nil {
		t.Fatal(err)
	}
	if s != Stale {
		t.Errorf("Expected %v; got %v", Stale, s)
	}
}

func TestCheckPermissionDenied(t *testing.T) {
	orig := signalZero
	defer func() { signalZero = orig }()
	signalZero = func(pid int) error {
		return unix.EPERM
	}
	f := writePidFile(t, "1")
	s, _ := Check(f)
	if s != Running {
		t.Errorf("Expected process owned by another user to be %v; got %v", Running, s)
	}
}

func TestCheckGarbage(t *testing.T) {
	for _, content := range []string{"", "abc", "-5", "0"} {
		f := writePidFile(t, content)
		s, err := Check(f)
		if err != nil {
			t.Fatal(err)
		}
		if s != Running {
			t.Errorf("Expected pid file %q to count as %v; got %v", content, Running, s)
		}
	}
}

func TestRead(t *testing.T) {
	f := writePidFile(t, " 1234 \nextra")
	pid, err := Read(f)
	if err != nil {
		t.Fatal(err)
	}
	if pid != 1234 {
		t.Errorf("Expected 1234; got %v", pid)
	}
}
