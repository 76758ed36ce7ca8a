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
// Package tx implements the ibm_tx module, which installs and removes the
// WebSphere Transformation Extender for Integration Servers
package tx

import (
	"fmt"

	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
)

const (
	// DefaultPath is the default TX installation root
	DefaultPath = "/opt/wtx/tx4is"
	// DefaultProcessServer is the Process Server the OSGi bundles are deployed to
	DefaultProcessServer = "/opt/IBM/ProcessServer"
	// DefaultLogFile receives the installer log
	DefaultLogFile = "/opt/wtx/temp/install_TX.log"

	uninstaller = "IBM_WebSphere_Transformation_Extender_for_Integration_Servers.uninstall"
)

// Params are the arguments of ibm_tx
type Params struct {
	State string `mapstructure:"state"`
	// Src is the directory holding DTXINST
	Src           string `mapstructure:"src"`
	ResponseFile  string `mapstructure:"response_file"`
	Path          string `mapstructure:"path"`
	ProcessServer string `mapstructure:"process_server"`
	LogFile       string `mapstructure:"log_file"`
}

// Validate checks the arguments
func (p *Params) Validate() error {
	err := module.Required("", "state", p.State)
	if err != nil {
		return err
	}
	err = module.OneOf("state", p.State, "present", "absent")
	if err != nil {
		return err
	}
	if p.State == "present" {
		return module.Required("state is present", "src", p.Src, "response_file", p.ResponseFile)
	}
	return nil
}

// Module is ibm_tx
var Module = module.New("ibm_tx", func() *Params {
	return &Params{Path: DefaultPath, ProcessServer: DefaultProcessServer, LogFile: DefaultLogFile}
}, run)

func run(c *module.Context, p *Params) module.Result {
	dtxinfo := pathutils.CleanPath(p.Path, "bin", "dtxinfo")
	installed, err := pathutils.Exists(dtxinfo)
	if err != nil {
		return module.Fail(err.Error())
	}
	if p.State == "present" {
		if installed {
			return module.Ok(fmt.Sprintf("TX is already installed at %v", p.Path))
		}
		return install(c, p)
	}
	if !installed {
		return module.Ok("TX is not installed on the server")
	}
	if c.CheckMode {
		return module.Changed("TX will be uninstalled")
	}
	inv := c.Exec(pathutils.CleanPath(p.Path, "dtx_install", uninstaller))
	return module.Outcome(inv, "Successfully uninstalled TX", "Failed to uninstall TX")
}

// install runs the silent installer, then deploys the TX OSGi bundles into
// Process Server
func install(c *module.Context, p *Params) module.Result {
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("TX will be installed at %v", p.Path))
	}
	inv := c.Exec(pathutils.CleanPath(p.Src, "DTXINST"), "-s", p.ResponseFile, "-I", p.LogFile)
	r := module.Outcome(inv, "",
		fmt.Sprintf("Failed to install TX. Check %v for details", p.LogFile))
	if r.Failed {
		return r
	}
	inv = c.Exec(pathutils.CleanPath(p.Path, "OSGi", "deploy", "wtxDeployOSGi.sh"), p.ProcessServer)
	r = module.Outcome(inv, "Successfully installed TX and deployed WTX OSGi", "Failed to deploy WTX OSGi")
	// TX itself is installed even if the deploy failed
	r.Changed = true
	return r
}
