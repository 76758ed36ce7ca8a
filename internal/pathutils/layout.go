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

package pathutils

// ProfileDir returns the directory of a profile under a WAS installation root
func ProfileDir(root, profile string) string {
	return CleanPath(root, "profiles", profile)
}

// ProfileBin returns the bin directory of a profile
func ProfileBin(root, profile string) string {
	return CleanPath(ProfileDir(root, profile), "bin")
}

// ProfileLogs returns the logs directory of a profile
func ProfileLogs(root, profile string) string {
	return CleanPath(ProfileDir(root, profile), "logs")
}

// ServerPidFile returns the pid file written by an application server
func ServerPidFile(root, profile, server string) string {
	return CleanPath(ProfileLogs(root, profile), server, server+".pid")
}

// NodeAgentPidFile returns the pid file written by the node agent of a profile
func NodeAgentPidFile(root, profile string) string {
	return ServerPidFile(root, profile, "nodeagent")
}

// DmgrPidFile returns the pid file written by the deployment manager of a profile
func DmgrPidFile(root, profile string) string {
	return ServerPidFile(root, profile, "dmgr")
}

// IHSPidFile returns the pid file for an IBM HTTP Server control program,
// adminctl or apachectl
func IHSPidFile(ihsRoot, ctl string) string {
	name := "httpd.pid"
	if ctl == "adminctl" {
		name = "admin.pid"
	}
	return CleanPath(ihsRoot, "logs", name)
}
