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

package imcl

import (
	"strings"

	"github.com/websphere-automation/was-modules/internal/module"
)

// CLI runs the Installation Manager command line tool
type CLI struct {
	// Path is the imcl binary, for example /opt/IBM/InstallationManager/eclipse/tools/imcl
	Path string
}

// ListInstalled runs listInstalledPackages and returns the package ids it
// reports, one per line
func (cli CLI) ListInstalled(c *module.Context) ([]string, module.Invocation) {
	inv := c.Exec(cli.Path, "listInstalledPackages")
	if inv.Failed() {
		return nil, inv
	}
	return parseList(inv.Stdout), inv
}

func parseList(out string) []string {
	var packages []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		packages = append(packages, line)
	}
	return packages
}

// matches returns true if the listed package is the id, either exactly or
// as the id of an offering followed by its version
func matches(listed, id string) bool {
	return listed == id || strings.HasPrefix(listed, id+"_")
}

// Installed splits ids into those which appear in the installed list and
// those which do not
func Installed(installed []string, ids []string) (found []string, missing []string) {
	for _, id := range ids {
		present := false
		for _, listed := range installed {
			if matches(listed, id) {
				present = true
				break
			}
		}
		if present {
			found = append(found, id)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

// Run runs imcl with the given arguments
func (cli CLI) Run(c *module.Context, arg ...string) module.Invocation {
	return c.Exec(cli.Path, arg...)
}
