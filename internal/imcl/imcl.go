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

// Package imcl implements the ibm_imcl module, which installs, updates, rolls
// back and removes packages with the Installation Manager command line
package imcl

import (
	"fmt"
	"strings"

	"github.com/websphere-automation/was-modules/internal/module"
)

// Default log files
const (
	InstallLog = "/tmp/IBM-Install.log"
	UpdateLog  = "/tmp/IBM-Update.log"
)

// Params are the arguments of ibm_imcl
type Params struct {
	State          string   `mapstructure:"state"`
	Path           string   `mapstructure:"path"`
	Name           []string `mapstructure:"name"`
	Src            string   `mapstructure:"src"`
	Dest           string   `mapstructure:"dest"`
	SharedResource string   `mapstructure:"shared_resource"`
	Properties     string   `mapstructure:"properties"`
	SecureStorage  string   `mapstructure:"secure_storage"`
	PasswordFile   string   `mapstructure:"password_file"`
	RemoveAll      bool     `mapstructure:"remove_all"`
	ResponseFile   string   `mapstructure:"response_file"`
	Log            string   `mapstructure:"log"`
}

// IDs returns the package ids, which may be given as a list or separated by spaces
func (p *Params) IDs() []string {
	var ids []string
	for _, n := range p.Name {
		ids = append(ids, strings.Fields(n)...)
	}
	return ids
}

// Validate checks the arguments
func (p *Params) Validate() error {
	err := module.Required("", "state", p.State, "path", p.Path)
	if err != nil {
		return err
	}
	err = module.OneOf("state", p.State, "present", "absent", "update", "rollback")
	if err != nil {
		return err
	}
	if p.RemoveAll && p.State != "absent" {
		return fmt.Errorf("remove_all is only supported with state: absent")
	}
	if (p.SecureStorage == "") != (p.PasswordFile == "") {
		return fmt.Errorf("parameters are required together: secure_storage, password_file")
	}
	ids := strings.Join(p.IDs(), " ")
	switch p.State {
	case "present":
		if p.ResponseFile != "" {
			return nil
		}
		return module.Required("state is present", "name", ids, "src", p.Src, "dest", p.Dest)
	case "update":
		return module.Required("state is update", "name", ids, "src", p.Src)
	case "rollback":
		return module.Required("state is rollback", "name", ids)
	}
	if !p.RemoveAll {
		return module.Required("state is absent", "name", ids)
	}
	return nil
}

func (p *Params) logFile() string {
	switch {
	case p.Log != "":
		return p.Log
	case p.State == "update":
		return UpdateLog
	}
	return InstallLog
}

func (p *Params) secureStorage() []string {
	if p.SecureStorage == "" {
		return nil
	}
	return []string{"-secureStorageFile", p.SecureStorage, "-masterPasswordFile", p.PasswordFile}
}

// Module is ibm_imcl
var Module = module.New("ibm_imcl", nil, run)

func run(c *module.Context, p *Params) module.Result {
	cli := CLI{Path: p.Path}
	if p.State == "present" && p.ResponseFile != "" {
		return installResponseFile(c, cli, p)
	}
	installed, inv := cli.ListInstalled(c)
	if inv.Failed() {
		return module.Fail("Failed to list installed packages").WithInvocation(inv)
	}
	var r module.Result
	switch {
	case p.RemoveAll:
		r = removeAll(c, cli, p, installed)
	case p.State == "present":
		r = install(c, cli, p, installed)
	case p.State == "update":
		r = update(c, cli, p, installed)
	case p.State == "rollback":
		r = rollback(c, cli, p, installed)
	default:
		r = uninstall(c, cli, p, installed)
	}
	if installed == nil {
		installed = []string{}
	}
	return r.With("packages", installed)
}

func install(c *module.Context, cli CLI, p *Params, installed []string) module.Result {
	ids := p.IDs()
	names := strings.Join(ids, " ")
	if _, missing := Installed(installed, ids); len(missing) == 0 {
		return module.Ok(fmt.Sprintf("Package %v is already present.", names))
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Package: %v will be installed to location %v", names, p.Dest))
	}
	args := []string{"-acceptLicense", "-repositories", p.Src, "-installationDirectory", p.Dest, "-log", p.logFile()}
	if p.SharedResource != "" {
		args = append(args, "-sharedResourcesDirectory", p.SharedResource)
	}
	args = append(args, "install")
	args = append(args, ids...)
	if p.Properties != "" {
		args = append(args, "-properties", p.Properties)
	}
	args = append(args, p.secureStorage()...)
	return module.Outcome(cli.Run(c, args...),
		fmt.Sprintf("Successfully installed package(s) %v to location: %v", names, p.Dest),
		fmt.Sprintf("Failed to install package(s) %v. See log %v for details.", names, p.logFile()))
}

func installResponseFile(c *module.Context, cli CLI, p *Params) module.Result {
	rsp, err := ReadResponseFile(p.ResponseFile)
	if err != nil {
		return module.Fail(err.Error())
	}
	offerings := rsp.OfferingIDs()
	if rsp.Installed() {
		return module.Ok(fmt.Sprintf("Packages from response file %v are already installed", p.ResponseFile)).
			With("offerings", offerings)
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Packages from response file %v will be installed", p.ResponseFile)).
			With("offerings", offerings)
	}
	inv := cli.Run(c, "-acceptLicense", "-log", p.logFile(), "-input", p.ResponseFile)
	return module.Outcome(inv,
		fmt.Sprintf("Successfully installed packages from response file %v", p.ResponseFile),
		fmt.Sprintf("Failed to install packages from response file %v. See log %v for details.", p.ResponseFile, p.logFile())).
		With("offerings", offerings)
}

func update(c *module.Context, cli CLI, p *Params, installed []string) module.Result {
	ids := p.IDs()
	names := strings.Join(ids, " ")
	if _, missing := Installed(installed, ids); len(missing) == 0 {
		return module.Ok(fmt.Sprintf("Package %v is already present.", names))
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Package: %v will be updated", names))
	}
	args := []string{"-acceptLicense"}
	if p.SharedResource != "" {
		args = append(args, "-sharedResourcesDirectory", p.SharedResource)
	}
	args = append(args, "install")
	args = append(args, ids...)
	args = append(args, "-repositories", p.Src, "-log", p.logFile())
	if p.Dest != "" {
		args = append(args, "-installationDirectory", p.Dest)
	}
	args = append(args, p.secureStorage()...)
	return module.Outcome(cli.Run(c, args...),
		fmt.Sprintf("Successfully updated package(s) %v", names),
		fmt.Sprintf("Failed to update package(s) %v. See log %v for details.", names, p.logFile()))
}

func rollback(c *module.Context, cli CLI, p *Params, installed []string) module.Result {
	ids := p.IDs()
	names := strings.Join(ids, " ")
	if _, missing := Installed(installed, ids); len(missing) == 0 {
		return module.Ok(fmt.Sprintf("Package %v is already the installed version", names))
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Package %v will be rolled back", names))
	}
	args := append([]string{"rollback"}, ids...)
	if p.Src != "" {
		args = append(args, "-repositories", p.Src)
	}
	args = append(args, "-log", p.logFile())
	return module.Outcome(cli.Run(c, args...),
		fmt.Sprintf("Successfully rolled back package: %v", names),
		fmt.Sprintf("Failed to rollback package: %v", names))
}

func uninstall(c *module.Context, cli CLI, p *Params, installed []string) module.Result {
	ids := p.IDs()
	found, _ := Installed(installed, ids)
	if len(found) == 0 {
		return module.Ok(fmt.Sprintf("Package %v is not present. Nothing to remove.", strings.Join(ids, " ")))
	}
	names := strings.Join(found, " ")
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Package %v will be removed.", names))
	}
	args := append([]string{"uninstall"}, found...)
	args = append(args, "-log", p.logFile())
	return module.Outcome(cli.Run(c, args...),
		fmt.Sprintf("Successfully uninstalled package(s) %v", names),
		fmt.Sprintf("Failed to uninstall package(s) %v", names))
}

func removeAll(c *module.Context, cli CLI, p *Params, installed []string) module.Result {
	if len(installed) == 0 {
		return module.Ok("No packages are installed. Nothing to remove.")
	}
	if c.CheckMode {
		return module.Changed("All packages will be removed")
	}
	return module.Outcome(cli.Run(c, "uninstallAll"),
		"Successfully removed all packages",
		"Failed to uninstall all products. See stderr/stdout for details...")
}
