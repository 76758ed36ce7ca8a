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

package module

import (
	"encoding/json"

	"github.com/websphere-automation/was-modules/internal/redact"
)

// Result is the document a module prints on completion
type Result struct {
	Changed bool   `json:"changed"`
	Failed  bool   `json:"failed,omitempty"`
	Msg     string `json:"msg,omitempty"`
	RC      *int   `json:"rc,omitempty"`
	Stdout  string `json:"stdout,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
	Cmd     string `json:"cmd,omitempty"`
	// Data holds module specific return values, flattened into the document
	Data map[string]interface{} `json:"-"`
}

// Ok returns an unchanged, successful Result
func Ok(msg string) Result {
	return Result{Msg: msg}
}

// Changed returns a changed, successful Result
func Changed(msg string) Result {
	return Result{Changed: true, Msg: msg}
}

// Fail returns a failed Result
func Fail(msg string) Result {
	return Result{Failed: true, Msg: msg}
}

// With returns a copy of the Result with an additional return value
func (r Result) With(key string, value interface{}) Result {
	data := make(map[string]interface{}, len(r.Data)+1)
	for k, v := range r.Data {
		data[k] = v
	}
	data[key] = value
	r.Data = data
	return r
}

// WithInvocation returns a copy of the Result carrying the command line,
// return code and output of inv
func (r Result) WithInvocation(inv Invocation) Result {
	rc := inv.RC
	r.RC = &rc
	r.Cmd = inv.Cmd
	r.Stdout = inv.Stdout
	r.Stderr = inv.Stderr
	return r
}

func (r Result) redact(red *redact.Redactor) Result {
	r.Msg = red.String(r.Msg)
	r.Stdout = red.String(r.Stdout)
	r.Stderr = red.String(r.Stderr)
	r.Cmd = red.String(r.Cmd)
	return r
}

// MarshalJSON writes the fixed fields and the module specific values as one object
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	b, err := json.Marshal(plain(r))
	if err != nil || len(r.Data) == 0 {
		return b, err
	}
	doc := map[string]interface{}{}
	err = json.Unmarshal(b, &doc)
	if err != nil {
		return nil, err
	}
	for k, v := range r.Data {
		if _, reserved := doc[k]; !reserved {
			doc[k] = v
		}
	}
	return json.Marshal(doc)
}
