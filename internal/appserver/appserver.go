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

// Package appserver implements the ibm_server module, which starts, stops
// and checks the status of application servers in a profile
package appserver

import (
	"fmt"
	"strings"

	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
	"github.com/websphere-automation/was-modules/internal/service"
	"golang.org/x/sync/errgroup"
)

// Check is the state which reports server status without changing it
const Check = "check"

// Params are the arguments of ibm_server
type Params struct {
	State         string   `mapstructure:"state"`
	WASRoot       string   `mapstructure:"was_root"`
	Profile       string   `mapstructure:"profile_name"`
	Servers       []string `mapstructure:"server_name"`
	Nowait        bool     `mapstructure:"nowait"`
	AdminUser     string   `mapstructure:"admin_user"`
	AdminPassword string   `mapstructure:"admin_password"`
	Parallel      int      `mapstructure:"parallel"`
}

// Validate checks the required arguments are present
func (p *Params) Validate() error {
	err := module.Required("", "state", p.State, "was_root", p.WASRoot, "profile_name", p.Profile)
	if err != nil {
		return err
	}
	if len(p.Servers) == 0 {
		return fmt.Errorf("missing required arguments: server_name")
	}
	if p.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got: %v", p.Parallel)
	}
	return module.OneOf("state", p.State, service.Start, service.Stop, service.Restart, Check)
}

// Secrets returns the admin password
func (p *Params) Secrets() []string {
	return []string{p.AdminPassword}
}

func (p *Params) credentials() []string {
	if p.AdminUser == "" {
		return nil
	}
	return []string{"-username", p.AdminUser, "-password", p.AdminPassword}
}

// Module is ibm_server
var Module = module.New("ibm_server", func() *Params {
	return &Params{Parallel: 1}
}, run)

func logHint(p *Params, server, log string) string {
	return "See log for details ---> " + pathutils.CleanPath(pathutils.ProfileLogs(p.WASRoot, p.Profile), server, log)
}

// Service returns the named application server of the profile
func Service(p *Params, server string) service.Service {
	bin := pathutils.ProfileBin(p.WASRoot, p.Profile)
	startArgs := []string{server}
	if p.Nowait {
		startArgs = append(startArgs, "-nowait")
	}
	return service.Service{
		Name:      "server " + server,
		PidFile:   pathutils.ServerPidFile(p.WASRoot, p.Profile, server),
		Start:     service.Command{Path: pathutils.CleanPath(bin, "startServer.sh"), Args: startArgs},
		Stop:      service.Command{Path: pathutils.CleanPath(bin, "stopServer.sh"), Args: append([]string{server}, p.credentials()...)},
		StartHint: logHint(p, server, "startServer.log"),
		StopHint:  logHint(p, server, "stopServer.log"),
	}
}

func status(c *module.Context, p *Params, server string) module.Result {
	bin := pathutils.ProfileBin(p.WASRoot, p.Profile)
	inv := c.Exec(pathutils.CleanPath(bin, "serverStatus.sh"), append([]string{server}, p.credentials()...)...)
	if inv.Failed() {
		return module.Fail("Failed to check server status. " + logHint(p, server, "serverStatus.log")).WithInvocation(inv)
	}
	return module.Ok(fmt.Sprintf("Status of server %v: %v", server, summary(inv.Stdout, server))).WithInvocation(inv)
}

// summary picks the ADMU status line for the server out of serverStatus.sh output
func summary(stdout, server string) string {
	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, "ADMU05") && strings.Contains(line, server) {
			if i := strings.Index(line, "ADMU05"); i >= 0 {
				return strings.TrimSpace(line[i:])
			}
		}
	}
	return "unknown"
}

func run(c *module.Context, p *Params) module.Result {
	results := make([]module.Result, len(p.Servers))
	g := errgroup.Group{}
	g.SetLimit(p.Parallel)
	for i, server := range p.Servers {
		i, server := i, server
		g.Go(func() error {
			if p.State == Check {
				results[i] = status(c, p, server)
			} else {
				results[i] = Service(p, server).Ensure(c, p.State)
			}
			return nil
		})
	}
	_ = g.Wait()
	if len(results) == 1 {
		return results[0].With("servers", report(c, p.Servers, results))
	}
	return merge(c, p.Servers, results)
}

func report(c *module.Context, servers []string, results []module.Result) []map[string]interface{} {
	out := make([]map[string]interface{}, len(results))
	for i, r := range results {
		entry := map[string]interface{}{
			"server":  servers[i],
			"changed": r.Changed,
			"failed":  r.Failed,
			"msg":     c.Redact(r.Msg),
		}
		if r.RC != nil {
			entry["rc"] = *r.RC
		}
		if r.Stdout != "" {
			entry["stdout"] = c.Redact(r.Stdout)
		}
		if r.Stderr != "" {
			entry["stderr"] = c.Redact(r.Stderr)
		}
		out[i] = entry
	}
	return out
}

// merge combines per-server results: changed if any changed, failed if any failed
func merge(c *module.Context, servers []string, results []module.Result) module.Result {
	var merged module.Result
	msgs := make([]string, 0, len(results))
	for _, r := range results {
		merged.Changed = merged.Changed || r.Changed
		merged.Failed = merged.Failed || r.Failed
		msgs = append(msgs, r.Msg)
	}
	merged.Msg = strings.Join(msgs, "; ")
	return merged.With("servers", report(c, servers, results))
}
