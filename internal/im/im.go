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

// Package im implements the ibm_im module, which installs and removes IBM
// Installation Manager
package im

import (
	"fmt"

	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
)

// Params are the arguments of ibm_im
type Params struct {
	State string `mapstructure:"state"`
	// Src is the directory holding the installer (userinstc) or uninstaller (uninstallc)
	Src  string `mapstructure:"src"`
	Dest string `mapstructure:"dest"`
}

// Validate checks the arguments
func (p *Params) Validate() error {
	err := module.Required("", "state", p.State, "src", p.Src)
	if err != nil {
		return err
	}
	err = module.OneOf("state", p.State, "present", "absent")
	if err != nil {
		return err
	}
	if p.State == "present" {
		return module.Required("state is present", "dest", p.Dest)
	}
	return nil
}

// Module is ibm_im
var Module = module.New("ibm_im", nil, run)

func run(c *module.Context, p *Params) module.Result {
	if p.State == "present" {
		return install(c, p)
	}
	return uninstall(c, p)
}

func install(c *module.Context, p *Params) module.Result {
	imcl := pathutils.CleanPath(p.Dest, "eclipse", "tools", "imcl")
	exists, err := pathutils.Exists(imcl)
	if err != nil {
		return module.Fail(err.Error())
	}
	if exists {
		return module.Ok(fmt.Sprintf("Installation Manager already exists at %v", p.Dest))
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Installation Manager will be installed at %v", p.Dest))
	}
	inv := c.Exec(pathutils.CleanPath(p.Src, "userinstc"), "-acceptLicense", "-installationDirectory", p.Dest)
	return module.Outcome(inv,
		fmt.Sprintf("Successfully installed IBM IM at %v", p.Dest),
		fmt.Sprintf("Failed to install IBM IM at %v", p.Dest))
}

func uninstall(c *module.Context, p *Params) module.Result {
	uninstallc := pathutils.CleanPath(p.Src, "uninstallc")
	exists, err := pathutils.Exists(uninstallc)
	if err != nil {
		return module.Fail(err.Error())
	}
	if !exists {
		return module.Ok("IBM IM is not present.")
	}
	if c.CheckMode {
		return module.Changed("IBM IM will be uninstalled.")
	}
	inv := c.Exec(uninstallc)
	return module.Outcome(inv, "Successfully uninstalled IBM IM", "Failed to uninstall IBM IM.")
}
