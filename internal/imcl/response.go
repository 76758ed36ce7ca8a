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

package imcl

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// ResponseFile is an Installation Manager response file
type ResponseFile struct {
	XMLName  xml.Name `xml:"agent-input"`
	Profiles []struct {
		ID              string `xml:"id,attr"`
		InstallLocation string `xml:"installLocation,attr"`
	} `xml:"profile"`
	Offerings []struct {
		ID      string `xml:"id,attr"`
		Profile string `xml:"profile,attr"`
	} `xml:"install>offering"`
}

// ReadResponseFile parses a response file
func ReadResponseFile(fileName string) (*ResponseFile, error) {
	b, err := os.ReadFile(filepath.Clean(fileName))
	if err != nil {
		return nil, err
	}
	rsp := &ResponseFile{}
	err = xml.Unmarshal(b, rsp)
	if err != nil {
		return nil, fmt.Errorf("unable to parse response file %v: %w", fileName, err)
	}
	return rsp, nil
}

// InstallLocations returns the installLocation of every profile
func (r *ResponseFile) InstallLocations() []string {
	var locations []string
	for _, p := range r.Profiles {
		if p.InstallLocation != "" {
			locations = append(locations, p.InstallLocation)
		}
	}
	return locations
}

// OfferingIDs returns the ids of the offerings to install
func (r *ResponseFile) OfferingIDs() []string {
	var ids []string
	for _, o := range r.Offerings {
		ids = append(ids, o.ID)
	}
	return ids
}

// Installed returns true if every install location already exists
func (r *ResponseFile) Installed() bool {
	locations := r.InstallLocations()
	if len(locations) == 0 {
		return false
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err != nil {
			return false
		}
	}
	return true
}
