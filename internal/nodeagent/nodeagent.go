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

// Package nodeagent implements the ibm_node module, which starts and stops
// the node agent of a federated profile
package nodeagent

import (
	"fmt"

	"github.com/websphere-automation/was-modules/internal/dmgr"
	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
	"github.com/websphere-automation/was-modules/internal/service"
)

// Module is ibm_node
var Module = module.New("ibm_node", nil, func(c *module.Context, p *dmgr.Params) module.Result {
	return Service(p).Ensure(c, p.State)
})

// Service returns the node agent of the profile
func Service(p *dmgr.Params) service.Service {
	bin := pathutils.ProfileBin(p.Path, p.Profile)
	logs := pathutils.CleanPath(pathutils.ProfileLogs(p.Path, p.Profile), "nodeagent")
	return service.Service{
		Name:      fmt.Sprintf("node agent for profile %v", p.Profile),
		PidFile:   pathutils.NodeAgentPidFile(p.Path, p.Profile),
		Start:     service.Command{Path: pathutils.CleanPath(bin, "startNode.sh")},
		Stop:      service.Command{Path: pathutils.CleanPath(bin, "stopNode.sh"), Args: p.Credentials()},
		StartHint: "See log for details ---> " + pathutils.CleanPath(logs, "startServer.log"),
		StopHint:  "See log for details ---> " + pathutils.CleanPath(logs, "stopServer.log"),
	}
}
