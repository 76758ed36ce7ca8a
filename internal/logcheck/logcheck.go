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

// Package logcheck implements the ibm_logcheck module, which looks for a
// message code in the end of a log file
package logcheck

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/websphere-automation/was-modules/internal/module"
)

// Params are the arguments of ibm_logcheck
type Params struct {
	Path      string `mapstructure:"path"`
	ErrorCode string `mapstructure:"error_code"`
	Lines     int    `mapstructure:"lines"`
}

// Validate checks the arguments
func (p *Params) Validate() error {
	err := module.Required("", "path", p.Path, "error_code", p.ErrorCode)
	if err != nil {
		return err
	}
	if p.Lines < 1 {
		return fmt.Errorf("lines must be at least 1, got: %v", p.Lines)
	}
	return nil
}

// Module is ibm_logcheck
var Module = module.New("ibm_logcheck", func() *Params {
	return &Params{Lines: 2000}
}, run)

// Tail returns the last n lines of the file
func Tail(fileName string, n int) ([]string, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ring := make([]string, 0, n)
	start := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) < n {
			ring = append(ring, scanner.Text())
			continue
		}
		ring[start] = scanner.Text()
		start = (start + 1) % n
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return append(ring[start:], ring[:start]...), nil
}

func run(c *module.Context, p *Params) module.Result {
	lines, err := Tail(p.Path, p.Lines)
	if err != nil {
		return module.Fail(fmt.Sprintf("Unable to read %v: %v", p.Path, err))
	}
	var matches []string
	for _, line := range lines {
		if strings.Contains(line, p.ErrorCode) {
			matches = append(matches, line)
		}
	}
	c.Log.Debugf("Found %v lines containing %v in the last %v lines of %v", len(matches), p.ErrorCode, len(lines), p.Path)
	if len(matches) == 0 {
		return module.Ok("no errors to report")
	}
	r := module.Fail(fmt.Sprintf("There is an error in %v", p.Path)).With("matches", len(matches))
	r.Stdout = strings.Join(matches, "\n") + "\n"
	return r
}
