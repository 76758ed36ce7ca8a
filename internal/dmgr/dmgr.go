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

// Package dmgr implements the ibm_manager module, which starts and stops a
// deployment manager
package dmgr

import (
	"fmt"

	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
	"github.com/websphere-automation/was-modules/internal/service"
)

// Params are the arguments of ibm_manager, shared with ibm_node
type Params struct {
	State         string `mapstructure:"state"`
	Path          string `mapstructure:"path"`
	Profile       string `mapstructure:"profile"`
	AdminUser     string `mapstructure:"admin_user"`
	AdminPassword string `mapstructure:"admin_password"`
}

// Validate checks the required arguments are present
func (p *Params) Validate() error {
	err := module.Required("", "state", p.State, "path", p.Path, "profile", p.Profile)
	if err != nil {
		return err
	}
	return module.OneOf("state", p.State, service.Start, service.Stop, service.Restart)
}

// Secrets returns the admin password
func (p *Params) Secrets() []string {
	return []string{p.AdminPassword}
}

// Credentials returns the -username and -password options for a stop script
func (p *Params) Credentials() []string {
	if p.AdminUser == "" {
		return nil
	}
	return []string{"-username", p.AdminUser, "-password", p.AdminPassword}
}

// Module is ibm_manager
var Module = module.New("ibm_manager", nil, run)

// Service returns the deployment manager of the profile
func Service(p *Params) service.Service {
	bin := pathutils.ProfileBin(p.Path, p.Profile)
	return service.Service{
		Name:      fmt.Sprintf("Deployment Manager for profile %v", p.Profile),
		PidFile:   pathutils.DmgrPidFile(p.Path, p.Profile),
		Start:     service.Command{Path: pathutils.CleanPath(bin, "startManager.sh")},
		Stop:      service.Command{Path: pathutils.CleanPath(bin, "stopManager.sh"), Args: p.Credentials()},
		StartHint: logHint(p, "startServer.log"),
		StopHint:  logHint(p, "stopServer.log"),
	}
}

func logHint(p *Params, log string) string {
	return "See log for details ---> " + pathutils.CleanPath(pathutils.ProfileLogs(p.Path, p.Profile), "dmgr", log)
}

func run(c *module.Context, p *Params) module.Result {
	return Service(p).Ensure(c, p.State)
}
