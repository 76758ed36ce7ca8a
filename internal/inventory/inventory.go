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

// Package inventory describes the WebSphere processes on a host which are
// reported by the exporter
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/websphere-automation/was-modules/internal/pathutils"
)

// Kinds of process in an inventory
const (
	KindDmgr      = "dmgr"
	KindNodeAgent = "nodeagent"
	KindServer    = "server"
	KindAdminctl  = "adminctl"
	KindApachectl = "apachectl"
)

// DefaultWASRoot is used when an inventory does not name an install root
const DefaultWASRoot = "/opt/IBM/WebSphere/AppServer"

// Profile lists the processes belonging to one WAS profile
type Profile struct {
	Name      string   `yaml:"name"`
	Dmgr      bool     `yaml:"dmgr"`
	NodeAgent bool     `yaml:"nodeagent"`
	Servers   []string `yaml:"servers"`
}

// IHS is an IBM HTTP Server installation
type IHS struct {
	Path string `yaml:"path"`
}

// Inventory is the set of processes expected on a host
type Inventory struct {
	WASRoot  string    `yaml:"was_root"`
	Profiles []Profile `yaml:"profiles"`
	IHS      []IHS     `yaml:"ihs"`
}

// Process is a single pid-file guarded process from an inventory
type Process struct {
	Kind    string
	Profile string
	Name    string
	PidFile string
}

// Load reads an inventory from a YAML file
func Load(file string) (*Inventory, error) {
	b, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		return nil, err
	}
	inv, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", file, err)
	}
	return inv, nil
}

// Parse decodes an inventory document.  Unknown keys are rejected.
func Parse(b []byte) (*Inventory, error) {
	inv := &Inventory{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	err := dec.Decode(inv)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if inv.WASRoot == "" {
		inv.WASRoot = DefaultWASRoot
	}
	return inv, inv.Validate()
}

// Validate checks that every profile and IHS entry is usable
func (inv *Inventory) Validate() error {
	seen := map[string]bool{}
	for i, p := range inv.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profiles[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("profiles[%d]: duplicate profile %v", i, p.Name)
		}
		seen[p.Name] = true
	}
	for i, h := range inv.IHS {
		if h.Path == "" {
			return fmt.Errorf("ihs[%d]: path is required", i)
		}
	}
	return nil
}

// Processes expands the inventory into the list of pid files to check, in
// file order
func (inv *Inventory) Processes() []Process {
	var procs []Process
	for _, p := range inv.Profiles {
		if p.Dmgr {
			procs = append(procs, Process{KindDmgr, p.Name, "dmgr", pathutils.DmgrPidFile(inv.WASRoot, p.Name)})
		}
		if p.NodeAgent {
			procs = append(procs, Process{KindNodeAgent, p.Name, "nodeagent", pathutils.NodeAgentPidFile(inv.WASRoot, p.Name)})
		}
		for _, s := range p.Servers {
			procs = append(procs, Process{KindServer, p.Name, s, pathutils.ServerPidFile(inv.WASRoot, p.Name, s)})
		}
	}
	for _, h := range inv.IHS {
		for _, ctl := range []string{KindAdminctl, KindApachectl} {
			procs = append(procs, Process{ctl, "", h.Path, pathutils.IHSPidFile(h.Path, ctl)})
		}
	}
	return procs
}
