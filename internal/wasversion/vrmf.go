/*
© Copyright IBM Corporation 2020, 2026

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

package wasversion

import (
	"fmt"
	"strconv"
	"strings"
)

// VRMF is a Version, Release, Modification and Fix level, such as 9.0.5.7
type VRMF struct {
	Version      int
	Release      int
	Modification int
	Fix          int
}

func (v VRMF) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Version, v.Release, v.Modification, v.Fix)
}

// ParseVRMF parses a dotted version.  Missing trailing fields are zero, and
// any fields after the fix level are ignored.
func ParseVRMF(s string) (*VRMF, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	var fields [4]int
	for i := 0; i < len(parts) && i < len(fields); i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", s, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid version %q: negative field", s)
		}
		fields[i] = n
	}
	if fields[0] < 1 {
		return nil, fmt.Errorf("invalid version %q: version must be at least 1", s)
	}
	return &VRMF{fields[0], fields[1], fields[2], fields[3]}, nil
}

// Compare returns 0 if v == other, -1 if v < other and +1 if v > other,
// comparing each field numerically
func (v VRMF) Compare(other VRMF) int {
	a := [4]int{v.Version, v.Release, v.Modification, v.Fix}
	b := [4]int{other.Version, other.Release, other.Modification, other.Fix}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Compare parses and compares two versions, see VRMF.Compare
func Compare(current, check string) (int, error) {
	c, err := ParseVRMF(current)
	if err != nil {
		return 0, err
	}
	o, err := ParseVRMF(check)
	if err != nil {
		return 0, err
	}
	return c.Compare(*o), nil
}
