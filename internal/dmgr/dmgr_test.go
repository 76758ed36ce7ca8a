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

package dmgr

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/websphere-automation/was-modules/internal/module/moduletest"
)

func TestStartManager(t *testing.T) {
	root := t.TempDir()
	r := &moduletest.Runner{}
	res := r.Run(Module, false, map[string]interface{}{
		"state":   "start",
		"path":    root,
		"profile": "Dmgr01",
	})
	if res.Failed || !res.Changed {
		t.Fatalf("Expected changed; got %+v", res)
	}
	expected := "Successfully started Deployment Manager for profile Dmgr01"
	if res.Msg != expected {
		t.Errorf("Expected %q; got %q", expected, res.Msg)
	}
	want := [][]string{{filepath.Join(root, "profiles/Dmgr01/bin/startManager.sh")}}
	if diff := cmp.Diff(want, r.Calls()); diff != "" {
		t.Errorf("Unexpected commands (-want +got):\n%v", diff)
	}
}

func TestStopManagerWithCredentials(t *testing.T) {
	root := t.TempDir()
	pid := filepath.Join(root, "profiles/Dmgr01/logs/dmgr/dmgr.pid")
	err := os.MkdirAll(filepath.Dir(pid), 0700)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(pid, []byte(strconv.Itoa(os.Getpid())), 0600)
	if err != nil {
		t.Fatal(err)
	}
	r := &moduletest.Runner{}
	res := r.Run(Module, false, map[string]interface{}{
		"state":          "stop",
		"path":           root,
		"profile":        "Dmgr01",
		"admin_user":     "wasadmin",
		"admin_password": "secret",
	})
	if res.Failed || !res.Changed {
		t.Fatalf("Expected changed; got %+v", res)
	}
	want := [][]string{{filepath.Join(root, "profiles/Dmgr01/bin/stopManager.sh"), "-username", "wasadmin", "-password", "secret"}}
	if diff := cmp.Diff(want, r.Calls()); diff != "" {
		t.Errorf("Unexpected commands (-want +got):\n%v", diff)
	}
	if res.Cmd != filepath.Join(root, "profiles/Dmgr01/bin/stopManager.sh")+" -username wasadmin -password ********" {
		t.Errorf("Expected password to be masked; got %v", res.Cmd)
	}
}

func TestManagerMissingArgs(t *testing.T) {
	r := &moduletest.Runner{}
	res := r.Run(Module, false, map[string]interface{}{"state": "start"})
	expected := "missing required arguments: path, profile"
	if !res.Failed || res.Msg != expected {
		t.Errorf("Expected failure %q; got %+v", expected, res)
	}
}
