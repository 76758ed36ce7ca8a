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

// Package cleanup implements the ibm_cleanup module, which clears the
// temporary directories and caches of a stopped profile
package cleanup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
)

// AllowedRoots are the installation roots cleanup runs against without
// further configuration
var AllowedRoots = []string{
	"/opt/WebSphere/AppServer",
	"/opt/WebSphere85/AppServer",
	"/opt/WebSphere/AppServer8.5.5",
	"/opt/IBM/WebSphere/AppServer",
	"/opt/IBM/ProcessServer",
}

// dirs are removed from the profile directory
var dirs = []string{"wstemp", "temp", "workspace"}

// Params are the arguments of ibm_cleanup
type Params struct {
	WASRoot      string   `mapstructure:"was_root"`
	Profile      string   `mapstructure:"profile_name"`
	AllowedRoots []string `mapstructure:"allowed_roots"`
}

// Validate checks the arguments
func (p *Params) Validate() error {
	err := module.Required("", "was_root", p.WASRoot, "profile_name", p.Profile)
	if err != nil {
		return err
	}
	err = module.OneOf("was_root", filepath.Clean(p.WASRoot), append(AllowedRoots, p.AllowedRoots...)...)
	if err != nil {
		return err
	}
	return pathutils.CheckInstallRoot(p.WASRoot)
}

// Module is ibm_cleanup
var Module = module.New("ibm_cleanup", nil, run)

// PidFiles returns every pid file under dir
func PidFiles(dir string) ([]string, error) {
	var pids []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".pid") {
			pids = append(pids, path)
		}
		return nil
	})
	return pids, err
}

func run(c *module.Context, p *Params) module.Result {
	profile := pathutils.ProfileDir(p.WASRoot, p.Profile)
	pids, err := PidFiles(pathutils.ProfileLogs(p.WASRoot, p.Profile))
	if err != nil {
		return module.Fail(fmt.Sprintf("Unable to search for pid files: %v", err))
	}
	if len(pids) > 0 {
		r := module.Fail("Won't run cleanup as java processes are still running... please stop them then try again")
		r.Stdout = strings.Join(pids, "\n")
		return r
	}
	var present []string
	for _, d := range dirs {
		dir := pathutils.CleanPath(profile, d)
		if _, err := os.Stat(dir); err == nil {
			present = append(present, dir)
		}
	}
	if len(present) == 0 {
		return module.Ok("Cleanup dirs have already been deleted")
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("%v and the class and osgi caches will be cleared", strings.Join(present, ", "))).
			With("removed", present)
	}
	for _, dir := range present {
		c.Log.Debugf("Removing %v", dir)
		err = os.RemoveAll(dir)
		if err != nil {
			return module.Fail(fmt.Sprintf("Unable to remove %v: %v", dir, err))
		}
	}
	bin := pathutils.ProfileBin(p.WASRoot, p.Profile)
	inv := c.Exec(pathutils.CleanPath(bin, "clearClassCache.sh"))
	if inv.Failed() {
		return module.Fail("Something went wrong and failed to clean all class cache").WithInvocation(inv).With("removed", present)
	}
	inv = c.Exec(pathutils.CleanPath(bin, "osgiCfgInit.sh"), "-all")
	return module.Outcome(inv, "Successfully cleared class cache and osgi cache", "Failed to clear osgi cache").
		With("removed", present)
}
