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

// Package ihs implements the ibm_ihs module, which sends the IBM HTTP Server
// or its administration server into a running state
package ihs

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/websphere-automation/was-modules/internal/htpasswd"
	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
	"github.com/websphere-automation/was-modules/internal/pidfile"
	"github.com/websphere-automation/was-modules/internal/service"
)

// DefaultPath is the default IHS installation root
const DefaultPath = "/opt/IBM/WebSphere/HTTPServer"

// Control programs
const (
	AdminCtl  = "adminctl"
	ApacheCtl = "apachectl"
)

// Params are the arguments of ibm_ihs
type Params struct {
	State         string `mapstructure:"state"`
	Name          string `mapstructure:"name"`
	Path          string `mapstructure:"path"`
	AdminUser     string `mapstructure:"admin_user"`
	AdminPassword string `mapstructure:"admin_password"`
	Wait          bool   `mapstructure:"wait"`
	Timeout       int    `mapstructure:"timeout"`
}

// Validate checks the arguments
func (p *Params) Validate() error {
	err := module.Required("", "state", p.State, "name", p.Name, "path", p.Path)
	if err != nil {
		return err
	}
	err = module.OneOf("state", p.State, service.Start, service.Stop, service.Restart)
	if err != nil {
		return err
	}
	err = module.OneOf("name", p.Name, AdminCtl, ApacheCtl)
	if err != nil {
		return err
	}
	if p.AdminUser != "" && p.Name != AdminCtl {
		return fmt.Errorf("admin_user is only supported with name: %v", AdminCtl)
	}
	if p.AdminUser != "" && p.AdminPassword == "" {
		return fmt.Errorf("admin_user is set but the following are missing: admin_password")
	}
	if p.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got: %v", p.Timeout)
	}
	return nil
}

// Secrets returns the admin password
func (p *Params) Secrets() []string {
	return []string{p.AdminPassword}
}

// Module is ibm_ihs
var Module = module.New("ibm_ihs", func() *Params {
	return &Params{Path: DefaultPath, Timeout: 60}
}, run)

// pollInterval is the first wait between pid file checks
var pollInterval = 250 * time.Millisecond

func run(c *module.Context, p *Params) module.Result {
	pid := pathutils.IHSPidFile(p.Path, p.Name)
	ps, err := pidfile.Check(pid)
	if err != nil {
		return module.Fail(fmt.Sprintf("Unable to check pid file %v: %v", pid, err))
	}
	running := ps == pidfile.Running

	passwdChanged := false
	if p.AdminUser != "" && p.State != service.Stop {
		file := pathutils.CleanPath(p.Path, "conf", "admin.passwd")
		passwdChanged, err = htpasswd.EnsureUser(file, p.AdminUser, p.AdminPassword, c.CheckMode)
		if err != nil {
			return module.Fail(fmt.Sprintf("Unable to update %v: %v", file, err))
		}
		if passwdChanged {
			c.Log.Printf("Set password of %v in %v", p.AdminUser, file)
		}
	}

	switch {
	case p.State == service.Start && running:
		r := module.Ok(fmt.Sprintf("Service %v is already running", p.Name))
		r.Changed = passwdChanged
		return r
	case p.State == service.Stop && !running:
		return module.Ok(fmt.Sprintf("Service %v is already stopped", p.Name))
	case c.CheckMode:
		return module.Changed(fmt.Sprintf("Service %v will be sent into state: %v", p.Name, p.State))
	}

	inv := c.Exec(pathutils.CleanPath(p.Path, "bin", p.Name), p.State)
	r := module.Outcome(inv,
		fmt.Sprintf("Successfully sent service: %v into state: %v", p.Name, p.State),
		fmt.Sprintf("Failed to send service %v into state: %v. See stdout/stderr for details.", p.Name, p.State))
	if r.Failed || !p.Wait {
		return r
	}
	err = waitFor(c, pid, p.State != service.Stop, time.Duration(p.Timeout)*time.Second)
	if err != nil {
		r.Failed = true
		r.Msg = fmt.Sprintf("Service %v did not reach state: %v within %v seconds", p.Name, p.State, p.Timeout)
	}
	return r
}

var errPending = errors.New("pid file not in the expected state yet")

// waitFor polls the pid file until the process is running (or not) or the
// timeout expires
func waitFor(c *module.Context, pid string, running bool, timeout time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = pollInterval
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = timeout
	return backoff.Retry(func() error {
		ps, err := pidfile.Check(pid)
		if err != nil {
			return backoff.Permanent(err)
		}
		if (ps == pidfile.Running) != running {
			c.Log.Debugf("Waiting for %v: %v", pid, ps)
			return errPending
		}
		return nil
	}, backoff.WithContext(b, c.Ctx))
}
