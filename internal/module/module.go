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

// Package module contains the plumbing shared by the WebSphere modules:
// decoding of arguments, running commands and reporting a Result
package module

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/websphere-automation/was-modules/internal/command"
	"github.com/websphere-automation/was-modules/internal/logger"
	"github.com/websphere-automation/was-modules/internal/redact"
)

const (
	checkModeKey = "_ansible_check_mode"
	debugKey     = "_ansible_debug"
	frameworkKey = "_ansible_"
)

// Validator is implemented by params which check their own consistency
type Validator interface {
	Validate() error
}

// SecretHolder is implemented by params holding values that must never be
// shown in results or logs
type SecretHolder interface {
	Secrets() []string
}

// Module is a single automation adapter
type Module interface {
	// Name is the name the module is invoked by
	Name() string
	// Keys lists the parameters the module accepts
	Keys() []string
	// Execute decodes args and runs the module
	Execute(c *Context, args map[string]interface{}) Result
}

// Context carries what a module needs to run
type Context struct {
	Ctx       context.Context
	Runner    command.Runner
	Log       *logger.Logger
	CheckMode bool

	redactor *redact.Redactor
}

// NewContext creates a Context which runs commands on the local host
func NewContext(ctx context.Context, log *logger.Logger) *Context {
	return &Context{
		Ctx:    ctx,
		Runner: command.ExecRunner{},
		Log:    log,
	}
}

// Invocation is a completed command
type Invocation struct {
	// Cmd is the command line, with secrets masked
	Cmd string
	command.Output
	Err error
}

// Failed returns true if the command could not be run or returned non-zero
func (i Invocation) Failed() bool {
	return i.Err != nil
}

// Exec runs a command through the Context's Runner
func (c *Context) Exec(name string, arg ...string) Invocation {
	display := command.String(name, c.redactor.Args(arg)...)
	c.Log.Debugf("Running %v", display)
	out, err := c.Runner.Exec(c.Ctx, name, arg...)
	if err != nil {
		c.Log.Debugf("Command %v failed with rc %v: %v", display, out.RC, err)
	}
	return Invocation{Cmd: display, Output: out, Err: err}
}

// Redact masks the secrets of the running module in s
func (c *Context) Redact(s string) string {
	return c.redactor.String(s)
}

// Outcome maps a command to a Result: changed with okMsg when the command
// succeeded, failed with failMsg otherwise
func Outcome(inv Invocation, okMsg, failMsg string) Result {
	if inv.Failed() {
		r := Fail(failMsg).WithInvocation(inv)
		if inv.RC < 0 {
			r.Stderr = strings.TrimSpace(r.Stderr + "\n" + inv.Err.Error())
		}
		return r
	}
	return Changed(okMsg).WithInvocation(inv)
}

type definition[P any] struct {
	name     string
	defaults func() *P
	run      func(*Context, *P) Result
}

// New defines a module.  defaults returns the params before arguments are
// decoded over them; it may be nil.
func New[P any](name string, defaults func() *P, run func(*Context, *P) Result) Module {
	return &definition[P]{name: name, defaults: defaults, run: run}
}

func (d *definition[P]) Name() string {
	return d.name
}

func (d *definition[P]) Keys() []string {
	return paramKeys(reflect.TypeOf((*P)(nil)).Elem())
}

func (d *definition[P]) Execute(c *Context, args map[string]interface{}) Result {
	p := new(P)
	if d.defaults != nil {
		p = d.defaults()
	}
	err := Decode(d.name, args, p)
	if err != nil {
		return Fail(err.Error())
	}
	c.redactor = nil
	if s, ok := interface{}(p).(SecretHolder); ok {
		c.redactor = redact.New(s.Secrets()...)
	}
	if v, ok := interface{}(p).(Validator); ok {
		err = v.Validate()
		if err != nil {
			return Fail(err.Error()).redact(c.redactor)
		}
	}
	return d.run(c, p).redact(c.redactor)
}

// Decode decodes module arguments into params, rejecting unknown keys.
// Framework keys are ignored.
func Decode(name string, args map[string]interface{}, params interface{}) error {
	valid := map[string]bool{}
	for _, k := range paramKeys(reflect.TypeOf(params).Elem()) {
		valid[k] = true
	}
	filtered := map[string]interface{}{}
	var unknown []string
	for k, v := range args {
		switch {
		case strings.HasPrefix(k, frameworkKey):
		case !valid[k]:
			unknown = append(unknown, k)
		default:
			filtered[k] = v
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("Unsupported parameters for (%v) module: %v", name, strings.Join(unknown, ", "))
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       boolHook,
		WeaklyTypedInput: true,
		Result:           params,
	})
	if err != nil {
		return err
	}
	err = decoder.Decode(filtered)
	if err != nil {
		return fmt.Errorf("Invalid parameters for (%v) module: %v", name, err)
	}
	return nil
}

// boolHook accepts the yes/no/on/off spellings of booleans
func boolHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(data.(string))) {
	case "yes", "y", "on", "true", "1":
		return true, nil
	case "no", "n", "off", "false", "0", "":
		return false, nil
	}
	return data, nil
}

func paramKeys(t reflect.Type) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("mapstructure"), ",")
		if tag[0] == "-" || !f.IsExported() {
			continue
		}
		if f.Anonymous && len(tag) > 1 && tag[1] == "squash" {
			keys = append(keys, paramKeys(f.Type)...)
			continue
		}
		name := tag[0]
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// CheckMode reports whether args request check mode
func CheckMode(args map[string]interface{}) bool {
	return truthy(args[checkModeKey])
}

// Debug reports whether args request debug output
func Debug(args map[string]interface{}) bool {
	return truthy(args[debugKey])
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := boolHook(reflect.TypeOf(""), reflect.TypeOf(true), t)
		r, ok := b.(bool)
		return ok && r
	}
	return false
}

// OneOf returns an error unless value is one of choices
func OneOf(param string, value string, choices ...string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	return fmt.Errorf("value of %v must be one of: %v, got: %v", param, strings.Join(choices, ", "), value)
}

// Required returns an error naming every empty parameter in pairs of
// (name, value)
func Required(condition string, pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if condition == "" {
		return fmt.Errorf("missing required arguments: %v", strings.Join(missing, ", "))
	}
	return fmt.Errorf("%v but the following are missing: %v", condition, strings.Join(missing, ", "))
}
