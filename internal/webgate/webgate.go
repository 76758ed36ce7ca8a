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
// Package webgate implements the ibm_webgate module, which installs Oracle
// WebGate and wires an instance of it into IBM HTTP Server
package webgate

import (
	"fmt"

	"github.com/websphere-automation/was-modules/internal/ihs"
	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
)

const (
	// DefaultOracleHome is where the WebGate installer puts its product files
	DefaultOracleHome = "/opt/OAM/oracle/product/11.1.1/as_1"
	// DefaultInstanceHome is the WebGate instance created for IHS
	DefaultInstanceHome = "/opt/OAM/oracle/Middleware/Oracle_OAMWebGate1"
	// DefaultJavaHome is passed to the installer as -jreLoc
	DefaultJavaHome = "/usr"
)

// Params are the arguments of ibm_webgate
type Params struct {
	// Src is the directory holding runInstaller
	Src          string `mapstructure:"src"`
	ResponseFile string `mapstructure:"response_file"`
	// InventoryPointer is the oraInst.loc file
	InventoryPointer string `mapstructure:"ora_inst"`
	OracleHome       string `mapstructure:"oracle_home"`
	InstanceHome     string `mapstructure:"instance_home"`
	JavaHome         string `mapstructure:"java_home"`
	IHSPath          string `mapstructure:"ihs_path"`
}

// Validate checks the arguments
func (p *Params) Validate() error {
	return module.Required("", "src", p.Src, "response_file", p.ResponseFile, "ora_inst", p.InventoryPointer)
}

// Module is ibm_webgate
var Module = module.New("ibm_webgate", func() *Params {
	return &Params{
		OracleHome:   DefaultOracleHome,
		InstanceHome: DefaultInstanceHome,
		JavaHome:     DefaultJavaHome,
		IHSPath:      ihs.DefaultPath,
	}
}, run)

func run(c *module.Context, p *Params) module.Result {
	httpdConf := pathutils.CleanPath(p.IHSPath, "conf", "httpd.conf")
	// EditHttpConf keeps the untouched configuration as httpd.conf.ORIG
	configured, err := pathutils.Exists(httpdConf + ".ORIG")
	if err != nil {
		return module.Fail(err.Error())
	}
	if configured {
		return module.Ok("Oracle WebGate is already installed on the server")
	}
	java := pathutils.CleanPath(p.JavaHome, "bin", "java")
	hasJava, err := pathutils.Exists(java)
	if err != nil {
		return module.Fail(err.Error())
	}
	if !hasJava {
		return module.Fail(fmt.Sprintf("No Java was found at %v. Please install Java to continue.", java))
	}
	installed, err := pathutils.Exists(p.OracleHome)
	if err != nil {
		return module.Fail(err.Error())
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Oracle WebGate will be configured in %v", httpdConf))
	}

	changed := false
	if !installed {
		inv := c.Exec(pathutils.CleanPath(p.Src, "runInstaller"),
			"-silent", "-response", p.ResponseFile,
			"-jreLoc", p.JavaHome,
			"-invPtrLoc", p.InventoryPointer,
			"-ignoreSysPrereqs")
		r := module.Outcome(inv, "", "Failed to install Oracle WebGate")
		if r.Failed {
			return r
		}
		changed = true
	}

	tools := pathutils.CleanPath(p.OracleHome, "webgate", "ihs", "tools")
	inv := c.Exec(pathutils.CleanPath(tools, "deployWebGate", "deployWebGateInstance.sh"),
		"-w", p.InstanceHome, "-oh", p.OracleHome, "-ws", "ihs")
	r := module.Outcome(inv, "", "Failed to create WebGate instance")
	if r.Failed {
		r.Changed = changed
		return r
	}

	inv = c.Exec(pathutils.CleanPath(tools, "setup", "InstallTools", "EditHttpConf"),
		"-f", httpdConf, "-w", p.InstanceHome, "-oh", p.OracleHome, "-ws", "ihs")
	r = module.Outcome(inv, "Successfully created IHS Oracle WebGate instance",
		fmt.Sprintf("Failed to add WebGate to %v", httpdConf))
	// The instance exists even if httpd.conf could not be edited
	r.Changed = true
	return r
}
