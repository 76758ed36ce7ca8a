/*
© Copyright IBM Corporation 2018, 2026

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

// Package pidfile decides whether a WebSphere process is running from the
// pid file it writes on startup
package pidfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/websphere-automation/was-modules/internal/pathutils"
	"golang.org/x/sys/unix"
)

// State describes what a pid file says about its process
type State int

const (
	// Absent means there is no pid file
	Absent State = iota
	// Running means the pid file exists and its process was not found to be dead
	Running
	// Stale means the pid file names a process which no longer exists
	Stale
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Running:
		return "running"
	case Stale:
		return "stale"
	}
	return "unknown"
}

// signalZero is replaced in tests
var signalZero = func(pid int) error {
	return unix.Kill(pid, 0)
}

// Read returns the pid stored in the pid file
func Read(fileName string) (int, error) {
	b, err := os.ReadFile(filepath.Clean(fileName))
	if err != nil {
		return 0, err
	}
	line := strings.TrimSpace(strings.SplitN(string(b), "\n", 2)[0])
	pid, err := strconv.Atoi(line)
	if err != nil {
		return 0, err
	}
	if pid <= 0 {
		return 0, errors.New("invalid pid " + line)
	}
	return pid, nil
}

// Check works out the State of the process owning the pid file.  Existence
// of the pid file is the primary check; a pid file is only reported Stale
// when it holds a valid pid and that process is known not to exist.
func Check(fileName string) (State, error) {
	exists, err := pathutils.Exists(fileName)
	if err != nil {
		return Absent, err
	}
	if !exists {
		return Absent, nil
	}
	pid, err := Read(fileName)
	if err != nil {
		// Unreadable pid files still mean the process was started
		return Running, nil
	}
	err = signalZero(pid)
	if errors.Is(err, unix.ESRCH) {
		return Stale, nil
	}
	return Running, nil
}
