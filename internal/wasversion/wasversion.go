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

// Package wasversion implements the ibm_versioninfo module, which reports the
// installed version of a WebSphere product
package wasversion

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/websphere-automation/was-modules/internal/module"
	"github.com/websphere-automation/was-modules/internal/pathutils"
)

// Products which write a version file
var Products = []string{"WAS", "ND", "IHS", "BPM", "BASE", "PLG"}

// Product is the content of a properties/version/<product>.product file
type Product struct {
	XMLName   xml.Name `xml:"product"`
	Name      string   `xml:"name,attr"`
	ID        string   `xml:"id"`
	Version   string   `xml:"version"`
	BuildInfo struct {
		Date  string `xml:"date,attr"`
		Level string `xml:"level,attr"`
	} `xml:"build-info"`
}

// ProductFile returns the version file of a product
func ProductFile(root, product string) string {
	return pathutils.CleanPath(root, "properties", "version", product+".product")
}

// ReadProduct parses a product version file
func ReadProduct(fileName string) (*Product, error) {
	b, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	p := &Product{}
	err = xml.Unmarshal(b, p)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %v: %w", fileName, err)
	}
	p.Version = strings.TrimSpace(p.Version)
	if p.Version == "" {
		return nil, fmt.Errorf("no version found in %v", fileName)
	}
	return p, nil
}

// Params are the arguments of ibm_versioninfo
type Params struct {
	WASRoot        string `mapstructure:"was_root"`
	Product        string `mapstructure:"product"`
	MinimumVersion string `mapstructure:"minimum_version"`
}

// Validate checks the arguments
func (p *Params) Validate() error {
	err := module.Required("", "was_root", p.WASRoot, "product", p.Product)
	if err != nil {
		return err
	}
	err = module.OneOf("product", p.Product, Products...)
	if err != nil {
		return err
	}
	if p.MinimumVersion != "" {
		_, err = ParseVRMF(p.MinimumVersion)
	}
	return err
}

// Module is ibm_versioninfo
var Module = module.New("ibm_versioninfo", nil, run)

func run(c *module.Context, p *Params) module.Result {
	file := ProductFile(p.WASRoot, p.Product)
	prod, err := ReadProduct(file)
	if errors.Is(err, os.ErrNotExist) {
		return module.Fail(fmt.Sprintf("%v does not exist. This may mean that %v is not installed", file, p.Product))
	}
	if err != nil {
		return module.Fail(err.Error())
	}
	r := module.Ok(fmt.Sprintf("Current version of %v is: %v", p.Product, prod.Version)).
		With("version", prod.Version).
		With("name", prod.Name).
		With("build_level", prod.BuildInfo.Level).
		With("build_date", prod.BuildInfo.Date)
	if p.MinimumVersion == "" {
		return r
	}
	cmp, err := Compare(prod.Version, p.MinimumVersion)
	if err != nil {
		return module.Fail(err.Error())
	}
	if cmp < 0 {
		r.Failed = true
		r.Msg = fmt.Sprintf("%v version %v is lower than required %v", p.Product, prod.Version, p.MinimumVersion)
	}
	return r
}
