/*
© Copyright IBM Corporation 2023, 2026

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

package pathutils

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {

	tests := []struct {
		uncleaned string
		filepath  string
		cleaned   string
	}{
		{"/a/rooted/path", "some.file", "/a/rooted/path/some.file"},
		{"../../../a/relative/path", "abc.txt", "a/relative/path/abc.txt"},
		{"a/path" + ".p12", "some.file", "a/path.p12/some.file"},
		{"/", "bin", "/bin"},
		{"abc/def", "../../a/relative/path", "abc/def/a/relative/path"},
	}

	for _, test := range tests {
		cleaned := CleanPath(test.uncleaned, test.filepath)

		if !strings.EqualFold(cleaned, test.cleaned) {
			t.Fatalf("file path sanitisation failed. Expected %s but got %s\n", test.cleaned, cleaned)
		}
	}
}

func TestCheckInstallRoot(t *testing.T) {
	tests := []struct {
		dir string
		ok  bool
	}{
		{"/opt/IBM/WebSphere/AppServer", true},
		{"/opt/WebSphere85/AppServer", true},
		{"/", false},
		{"/var", false},
		{"/var/log/messages", false},
		{"/usr/local", false},
		{"/opt/../etc", false},
		{"/variant/AppServer", true},
	}
	for _, test := range tests {
		err := CheckInstallRoot(test.dir)
		if test.ok && err != nil {
			t.Errorf("Expected %v to be accepted; got %v", test.dir, err)
		}
		if !test.ok && err == nil {
			t.Errorf("Expected %v to be rejected", test.dir)
		}
	}
}

func TestLayout(t *testing.T) {
	root := "/opt/IBM/WebSphere/AppServer"
	tests := []struct {
		got      string
		expected string
	}{
		{ServerPidFile(root, "AppSrv01", "server1"), root + "/profiles/AppSrv01/logs/server1/server1.pid"},
		{NodeAgentPidFile(root, "AppSrv01"), root + "/profiles/AppSrv01/logs/nodeagent/nodeagent.pid"},
		{DmgrPidFile(root, "Dmgr01"), root + "/profiles/Dmgr01/logs/dmgr/dmgr.pid"},
		{ProfileBin(root, "../../etc"), root + "/profiles/etc/bin"},
		{IHSPidFile("/opt/IBM/HTTPServer", "adminctl"), "/opt/IBM/HTTPServer/logs/admin.pid"},
		{IHSPidFile("/opt/IBM/HTTPServer", "apachectl"), "/opt/IBM/HTTPServer/logs/httpd.pid"},
	}
	for _, test := range tests {
		if test.got != test.expected {
			t.Errorf("Expected %v; got %v", test.expected, test.got)
		}
	}
}
