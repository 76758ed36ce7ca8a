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
package tx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/websphere-automation/was-modules/internal/command"
	"github.com/websphere-automation/was-modules/internal/module/moduletest"
)

func touch(t *testing.T, file string) {
	t.Helper()
	err := os.MkdirAll(filepath.Dir(file), 0700)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(file, nil, 0700)
	if err != nil {
		t.Fatal(err)
	}
}

func presentArgs(path string) map[string]interface{} {
	return map[string]interface{}{
		"state":          "present",
		"src":            "/was855/ITX",
		"response_file":  "/tmp/tx.rsp",
		"path":           path,
		"process_server": "/opt/IBM/ProcessServer",
		"log_file":       "/tmp/install_TX.log",
	}
}

func TestInstall(t *testing.T) {
	path := t.TempDir()
	r := &moduletest.Runner{}
	res := r.Run(Module, false, presentArgs(path))
	if res.Failed || !res.Changed || res.Msg != "Successfully installed TX and deployed WTX OSGi" {
		t.Errorf("Unexpected result %+v", res)
	}
	want := [][]string{
		{"/was855/ITX/DTXINST", "-s", "/tmp/tx.rsp", "-I", "/tmp/install_TX.log"},
		{filepath.Join(path, "OSGi/deploy/wtxDeployOSGi.sh"), "/opt/IBM/ProcessServer"},
	}
	if diff := cmp.Diff(want, r.Calls()); diff != "" {
		t.Errorf("Unexpected commands (-want +got):\n%v", diff)
	}
}

func TestInstallAlreadyPresent(t *testing.T) {
	path := t.TempDir()
	touch(t, filepath.Join(path, "bin", "dtxinfo"))
	r := &moduletest.Runner{}
	res := r.Run(Module, false, presentArgs(path))
	if res.Failed || res.Changed || res.Msg != "TX is already installed at "+path {
		t.Errorf("Unexpected result %+v", res)
	}
	if len(r.Calls()) != 0 {
		t.Errorf("Expected no commands; got %v", r.Calls())
	}
}

func TestInstallCheckMode(t *testing.T) {
	path := t.TempDir()
	r := &moduletest.Runner{}
	res := r.Run(Module, true, presentArgs(path))
	if res.Failed || !res.Changed || res.Msg != "TX will be installed at "+path {
		t.Errorf("Unexpected result %+v", res)
	}
	if len(r.Calls()) != 0 {
		t.Errorf("Expected no commands; got %v", r.Calls())
	}
}

func TestInstallFailure(t *testing.T) {
	path := t.TempDir()
	r := &moduletest.Runner{Respond: func(argv []string) command.Output {
		return command.Output{RC: 1, Stderr: "DTX0012E"}
	}}
	res := r.Run(Module, false, presentArgs(path))
	if !res.Failed || res.Changed || res.Msg != "Failed to install TX. Check /tmp/install_TX.log for details" || res.Stderr != "DTX0012E" {
		t.Errorf("Unexpected result %+v", res)
	}
	if len(r.Calls()) != 1 {
		t.Errorf("Expected deploy to be skipped; got %v", r.Calls())
	}
}

func TestDeployFailure(t *testing.T) {
	path := t.TempDir()
	r := &moduletest.Runner{Respond: func(argv []string) command.Output {
		if strings.HasSuffix(argv[0], "wtxDeployOSGi.sh") {
			return command.Output{RC: 2}
		}
		return command.Output{}
	}}
	res := r.Run(Module, false, presentArgs(path))
	if !res.Failed || !res.Changed || res.Msg != "Failed to deploy WTX OSGi" {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestUninstall(t *testing.T) {
	path := t.TempDir()
	args := map[string]interface{}{"state": "absent", "path": path}
	r := &moduletest.Runner{}
	res := r.Run(Module, false, args)
	if res.Failed || res.Changed || res.Msg != "TX is not installed on the server" {
		t.Errorf("Unexpected result %+v", res)
	}
	touch(t, filepath.Join(path, "bin", "dtxinfo"))
	res = r.Run(Module, true, args)
	if !res.Changed || len(r.Calls()) != 0 {
		t.Errorf("Expected check mode change without commands; got %+v", res)
	}
	res = r.Run(Module, false, args)
	if res.Failed || !res.Changed || res.Msg != "Successfully uninstalled TX" {
		t.Errorf("Unexpected result %+v", res)
	}
	want := [][]string{{filepath.Join(path, "dtx_install", uninstaller)}}
	if diff := cmp.Diff(want, r.Calls()); diff != "" {
		t.Errorf("Unexpected commands (-want +got):\n%v", diff)
	}
}

func TestPresentRequiresResponseFile(t *testing.T) {
	r := &moduletest.Runner{}
	res := r.Run(Module, false, map[string]interface{}{"state": "present", "src": "/was855/ITX"})
	if !res.Failed || res.Msg != "state is present but the following are missing: response_file" {
		t.Errorf("Unexpected result %+v", res)
	}
}
