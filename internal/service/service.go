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

// Package service starts and stops WebSphere processes which record their
// state in a pid file
package service

import (
	"fmt"

	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pidfile"
)

// States accepted by Ensure
const (
	Start   = "start"
	Stop    = "stop"
	Restart = "restart"
)

// Command is an external program and its arguments
type Command struct {
	Path string
	Args []string
}

// Service is a process controlled by a start and a stop script
type Service struct {
	// Name is used in messages, for example "node agent for profile AppSrv01"
	Name    string
	PidFile string
	Start   Command
	Stop    Command
	// StartHint and StopHint are appended to failure messages
	StartHint string
	StopHint  string
}

// State returns whether the service is running according to its pid file
func (s Service) State() (pidfile.State, error) {
	return pidfile.Check(s.PidFile)
}

// Ensure brings the service into the requested state
func (s Service) Ensure(c *module.Context, state string) module.Result {
	err := module.OneOf("state", state, Start, Stop, Restart)
	if err != nil {
		return module.Fail(err.Error())
	}
	ps, err := s.State()
	if err != nil {
		return module.Fail(fmt.Sprintf("Unable to check pid file %v: %v", s.PidFile, err))
	}
	running := ps == pidfile.Running
	if ps == pidfile.Stale {
		c.Log.Printf("Ignoring stale pid file %v", s.PidFile)
	}

	var r module.Result
	switch state {
	case Start:
		if running {
			return module.Ok(fmt.Sprintf("%v is already running", s.Name))
		}
		if c.CheckMode {
			return module.Changed(s.note(ps, fmt.Sprintf("%v will be started", s.Name)))
		}
		r = s.start(c)
	case Stop:
		if !running {
			return module.Ok(s.note(ps, fmt.Sprintf("%v is not running", s.Name)))
		}
		if c.CheckMode {
			return module.Changed(fmt.Sprintf("%v will be stopped", s.Name))
		}
		r = s.stop(c)
	case Restart:
		if c.CheckMode {
			return module.Changed(fmt.Sprintf("%v will be restarted", s.Name))
		}
		stopped := false
		if running {
			r = s.stop(c)
			if r.Failed {
				return r
			}
			stopped = true
		}
		r = s.start(c)
		if !r.Failed {
			r.Msg = fmt.Sprintf("Successfully restarted %v", s.Name)
		}
		// A failed start still leaves the service stopped
		r.Changed = r.Changed || stopped
	}
	if !r.Failed {
		r.Msg = s.note(ps, r.Msg)
	}
	return r
}

func (s Service) note(ps pidfile.State, msg string) string {
	if ps != pidfile.Stale {
		return msg
	}
	return fmt.Sprintf("%v (stale pid file %v was ignored)", msg, s.PidFile)
}

func (s Service) start(c *module.Context) module.Result {
	inv := c.Exec(s.Start.Path, s.Start.Args...)
	return module.Outcome(inv,
		fmt.Sprintf("Successfully started %v", s.Name),
		failure("start", s.Name, s.StartHint))
}

func (s Service) stop(c *module.Context) module.Result {
	inv := c.Exec(s.Stop.Path, s.Stop.Args...)
	return module.Outcome(inv,
		fmt.Sprintf("Successfully stopped %v", s.Name),
		failure("stop", s.Name, s.StopHint))
}

func failure(verb, name, hint string) string {
	if hint == "" {
		return fmt.Sprintf("Failed to %v %v", verb, name)
	}
	return fmt.Sprintf("Failed to %v %v. %v", verb, name, hint)
}
