/*
© Copyright IBM Corporation 2019, 2026

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

// Package redact masks sensitive values in command lines and command output
package redact

import (
	"sort"
	"strings"
)

// Mask is what sensitive values are replaced with
const Mask = "********"

// sensitiveFlags are command-line options of the WebSphere tools whose value is a secret
var sensitiveFlags = []string{
	"-password",
	"-adminPassword",
	"-dmgrAdminPassword",
	"-keyStorePassword",
	"-pw",
}

// Redactor replaces known secret values
type Redactor struct {
	secrets []string
}

// New creates a Redactor for the given secret values.  Empty values are ignored.
func New(secrets ...string) *Redactor {
	r := &Redactor{}
	for _, s := range secrets {
		if s != "" {
			r.secrets = append(r.secrets, s)
		}
	}
	// Longest first, so that a secret containing another is fully masked
	sort.Slice(r.secrets, func(i, j int) bool {
		return len(r.secrets[i]) > len(r.secrets[j])
	})
	return r
}

// String returns s with every secret value masked
func (r *Redactor) String(s string) string {
	if r == nil {
		return s
	}
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, Mask)
	}
	return s
}

// Args returns a copy of args where the value following any sensitive flag,
// and any known secret, is masked
func (r *Redactor) Args(args []string) []string {
	out := make([]string, len(args))
	maskNext := false
	for i, a := range args {
		switch {
		case maskNext:
			out[i] = Mask
			maskNext = false
		case isSensitiveFlag(a):
			out[i] = a
			maskNext = true
		default:
			out[i] = r.String(a)
		}
	}
	return out
}

func isSensitiveFlag(arg string) bool {
	for _, f := range sensitiveFlags {
		if strings.EqualFold(arg, f) {
			return true
		}
	}
	return false
}
