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

// Package pmt implements the ibm_pmt module, which creates, deletes, backs up,
// restores and augments WebSphere profiles with the profile management tools
package pmt

import (
	"fmt"
	"os"
	"strings"

	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
)

// Profile types
const (
	Management = "management"
	Custom     = "custom"
	Default    = "default"
)

// Params are the arguments of ibm_pmt
type Params struct {
	State           string `mapstructure:"state"`
	Path            string `mapstructure:"path"`
	Profile         string `mapstructure:"profile"`
	ProfilePath     string `mapstructure:"profile_path"`
	ProfileType     string `mapstructure:"profile_type"`
	AdminUser       string `mapstructure:"admin_user"`
	AdminPassword   string `mapstructure:"admin_password"`
	Security        string `mapstructure:"security"`
	CellName        string `mapstructure:"cell_name"`
	NodeName        string `mapstructure:"node_name"`
	HostName        string `mapstructure:"host_name"`
	DmgrHost        string `mapstructure:"dmgr_host"`
	DmgrPort        string `mapstructure:"dmgr_port"`
	Dest            string `mapstructure:"dest"`
	AugmentTemplate string `mapstructure:"augment_template"`
}

// Validate checks the arguments
func (p *Params) Validate() error {
	err := module.Required("", "state", p.State, "path", p.Path, "profile", p.Profile)
	if err != nil {
		return err
	}
	err = module.OneOf("state", p.State, "present", "absent", "backup", "restore", "augment")
	if err != nil {
		return err
	}
	err = module.OneOf("security", p.Security, "enabled", "disabled")
	if err != nil {
		return err
	}
	switch p.State {
	case "present":
		err = module.Required("state is present", "profile_type", p.ProfileType)
		if err != nil {
			return err
		}
		err = module.OneOf("profile_type", p.ProfileType, Management, Custom, Default)
		if err != nil {
			return err
		}
		if p.ProfileType == Custom {
			return module.Required("profile_type is custom", "dmgr_host", p.DmgrHost)
		}
		if p.securityEnabled() {
			return module.Required("security is enabled", "admin_user", p.AdminUser, "admin_password", p.AdminPassword)
		}
	case "backup", "restore":
		return module.Required("state is "+p.State, "dest", p.Dest, "admin_user", p.AdminUser, "admin_password", p.AdminPassword)
	case "augment":
		return module.Required("state is augment", "augment_template", p.AugmentTemplate)
	}
	return nil
}

// Secrets returns the admin password
func (p *Params) Secrets() []string {
	return []string{p.AdminPassword}
}

func (p *Params) securityEnabled() bool {
	return p.Security == "enabled"
}

func (p *Params) profilePath() string {
	if p.ProfilePath != "" {
		return p.ProfilePath
	}
	return pathutils.ProfileDir(p.Path, p.Profile)
}

func (p *Params) manageProfiles() string {
	return pathutils.CleanPath(p.Path, "bin", "manageprofiles.sh")
}

func (p *Params) template(name string) string {
	return pathutils.CleanPath(p.Path, "profileTemplates", name)
}

func (p *Params) archive() string {
	return pathutils.CleanPath(p.Dest, p.Profile+"_backup.zip")
}

// Module is ibm_pmt
var Module = module.New("ibm_pmt", func() *Params {
	return &Params{Security: "enabled"}
}, run)

// ParseList parses the bracketed, comma separated list printed by
// manageprofiles.sh -listProfiles and -listAugments
func ParseList(out string) []string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}
		var items []string
		for _, item := range strings.Split(line[1:len(line)-1], ",") {
			item = strings.TrimSpace(item)
			if item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	return nil
}

func run(c *module.Context, p *Params) module.Result {
	inv := c.Exec(p.manageProfiles(), "-listProfiles")
	if inv.Failed() {
		return module.Fail("Failed to list profiles").WithInvocation(inv)
	}
	profiles := ParseList(inv.Stdout)
	exists := false
	for _, name := range profiles {
		if name == p.Profile {
			exists = true
		}
	}
	if profiles == nil {
		profiles = []string{}
	}
	var r module.Result
	switch p.State {
	case "present":
		r = create(c, p, exists)
	case "absent":
		r = remove(c, p, exists)
	case "backup":
		r = backup(c, p, exists)
	case "restore":
		r = restore(c, p, exists)
	case "augment":
		r = augment(c, p, exists)
	}
	return r.With("profiles", profiles)
}

func (p *Params) createArgs() []string {
	args := []string{"-create", "-profileName", p.Profile, "-profilePath", p.profilePath()}
	switch p.ProfileType {
	case Management:
		args = append(args, "-templatePath", p.template("management"), "-serverType", "DEPLOYMENT_MANAGER")
	case Custom:
		args = append(args, "-templatePath", p.template("managed"), "-dmgrHost", p.DmgrHost)
		if p.DmgrPort != "" {
			args = append(args, "-dmgrPort", p.DmgrPort)
		}
		if p.AdminUser != "" {
			args = append(args, "-dmgrAdminUserName", p.AdminUser, "-dmgrAdminPassword", p.AdminPassword)
		}
	case Default:
		args = append(args, "-templatePath", p.template("default"))
	}
	if p.ProfileType != Custom {
		args = append(args, "-enableAdminSecurity", fmt.Sprint(p.securityEnabled()))
		if p.securityEnabled() {
			args = append(args, "-adminUserName", p.AdminUser, "-adminPassword", p.AdminPassword)
		}
	}
	for _, opt := range [][2]string{{"-cellName", p.CellName}, {"-nodeName", p.NodeName}, {"-hostName", p.HostName}} {
		if opt[1] != "" {
			args = append(args, opt[0], opt[1])
		}
	}
	if p.ProfileType != Custom {
		args = append(args, "-personalCertValidityPeriod", "15", "-signingCertValidityPeriod", "20")
	}
	return args
}

func create(c *module.Context, p *Params, exists bool) module.Result {
	if exists {
		return module.Ok(fmt.Sprintf("Profile %v already exists in cell", p.Profile))
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Profile %v will be created", p.Profile))
	}
	return module.Outcome(c.Exec(p.manageProfiles(), p.createArgs()...),
		fmt.Sprintf("Successfully created %v profile %v", p.ProfileType, p.Profile),
		fmt.Sprintf("Failed to create profile %v. Review errors and try again.", p.Profile))
}

func remove(c *module.Context, p *Params, exists bool) module.Result {
	if !exists {
		return module.Ok(fmt.Sprintf("Profile %v does not exist in cell", p.Profile))
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Profile: %v will be removed", p.Profile))
	}
	inv := c.Exec(p.manageProfiles(), "-delete", "-profileName", p.Profile)
	switch {
	case !inv.Failed():
		return module.Changed(fmt.Sprintf("Successfully deleted profile: %v", p.Profile)).WithInvocation(inv)
	case inv.RC == 2:
		// manageprofiles reports partial success when files are left behind
		return module.Changed(fmt.Sprintf("Deleted profile: %v with warnings. See manageprofiles logs for details.", p.Profile)).WithInvocation(inv)
	}
	return module.Fail(fmt.Sprintf("Profile: %v failed to delete.", p.Profile)).WithInvocation(inv)
}

func backup(c *module.Context, p *Params, exists bool) module.Result {
	if !exists {
		return module.Fail(fmt.Sprintf("Profile %v does not exist in cell. Nothing to back up.", p.Profile))
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Profile: %v will be backed up", p.Profile))
	}
	inv := c.Exec(pathutils.CleanPath(p.profilePath(), "bin", "backupConfig.sh"), p.archive(), "-nostop",
		"-username", p.AdminUser, "-password", p.AdminPassword, "-profileName", p.Profile)
	return module.Outcome(inv,
		fmt.Sprintf("Successfully backed up profile: %v to %v", p.Profile, p.archive()),
		fmt.Sprintf("Failed to backup profile: %v", p.Profile)).With("archive", p.archive())
}

func restore(c *module.Context, p *Params, exists bool) module.Result {
	if !exists {
		return module.Fail(fmt.Sprintf("Profile %v does not exist in cell. Nothing to restore.", p.Profile))
	}
	if _, err := os.Stat(p.archive()); err != nil {
		return module.Fail(fmt.Sprintf("Backup archive %v does not exist", p.archive()))
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Profile: %v will be restored", p.Profile))
	}
	inv := c.Exec(pathutils.CleanPath(p.profilePath(), "bin", "restoreConfig.sh"), p.archive(),
		"-username", p.AdminUser, "-password", p.AdminPassword, "-profileName", p.Profile)
	return module.Outcome(inv,
		fmt.Sprintf("Successfully restored profile %v", p.Profile),
		fmt.Sprintf("Failed to restore profile: %v", p.Profile)).With("archive", p.archive())
}

func augment(c *module.Context, p *Params, exists bool) module.Result {
	if !exists {
		return module.Fail(fmt.Sprintf("Profile %v does not exist in cell. Nothing to augment.", p.Profile))
	}
	template := p.template(p.AugmentTemplate)
	inv := c.Exec(p.manageProfiles(), "-listAugments", "-profileName", p.Profile)
	if inv.Failed() {
		return module.Fail(fmt.Sprintf("Failed to list augments of profile %v", p.Profile)).WithInvocation(inv)
	}
	for _, a := range ParseList(inv.Stdout) {
		if a == p.AugmentTemplate || a == template || strings.HasSuffix(a, "/"+p.AugmentTemplate) {
			return module.Ok(fmt.Sprintf("Profile %v is already augmented with %v", p.Profile, p.AugmentTemplate))
		}
	}
	if c.CheckMode {
		return module.Changed(fmt.Sprintf("Profile %v will be augmented with %v", p.Profile, p.AugmentTemplate))
	}
	return module.Outcome(c.Exec(p.manageProfiles(), "-augment", "-profileName", p.Profile, "-templatePath", template),
		fmt.Sprintf("Successfully augmented profile %v with %v", p.Profile, p.AugmentTemplate),
		fmt.Sprintf("Failed to augment profile %v with %v", p.Profile, p.AugmentTemplate))
}
