/*
© Copyright IBM Corporation 2018, 2026

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

// Package keystore implements the ibm_keystore module, which reports
// certificates in a PKCS#12 key or trust store which are close to expiry
package keystore

import (
	"crypto/x509"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/websphere-automation/was-modules/internal/module"
	pkcs "software.sslmate.com/src/go-pkcs12"
)

// DefaultPassword is the password WebSphere gives the key and trust stores it creates
const DefaultPassword = "WebAS"

// KeyStore describes a PKCS#12 keystore file
type KeyStore struct {
	Filename string
	Password string
}

// Certificates returns every certificate in the keystore: the personal
// certificate and its chain, or the signer certificates of a trust store
func (ks *KeyStore) Certificates() ([]*x509.Certificate, error) {
	data, err := os.ReadFile(filepath.Clean(ks.Filename))
	if err != nil {
		return nil, err
	}
	_, cert, caCerts, err := pkcs.DecodeChain(data, ks.Password)
	if err == nil {
		return append([]*x509.Certificate{cert}, caCerts...), nil
	}
	certs, trustErr := pkcs.DecodeTrustStore(data, ks.Password)
	if trustErr == nil {
		return certs, nil
	}
	return nil, fmt.Errorf("unable to decode %v: %w", ks.Filename, err)
}

// Certificate is the expiry report for one certificate
type Certificate struct {
	Subject  string `json:"subject"`
	Issuer   string `json:"issuer"`
	Serial   string `json:"serial"`
	NotAfter string `json:"not_after"`
	DaysLeft int    `json:"days_left"`
}

// now is replaced in tests
var now = time.Now

// Report describes the certificates, soonest expiry first
func Report(certs []*x509.Certificate) []Certificate {
	t := now()
	report := make([]Certificate, 0, len(certs))
	for _, c := range certs {
		report = append(report, Certificate{
			Subject:  c.Subject.String(),
			Issuer:   c.Issuer.String(),
			Serial:   c.SerialNumber.String(),
			NotAfter: c.NotAfter.UTC().Format(time.RFC3339),
			DaysLeft: int(math.Floor(c.NotAfter.Sub(t).Hours() / 24)),
		})
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].DaysLeft < report[j].DaysLeft
	})
	return report
}

// Params are the arguments of ibm_keystore
type Params struct {
	Path     string `mapstructure:"path"`
	Password string `mapstructure:"password"`
	WarnDays int    `mapstructure:"warn_days"`
}

// Validate checks the arguments
func (p *Params) Validate() error {
	err := module.Required("", "path", p.Path)
	if err != nil {
		return err
	}
	if p.WarnDays < 0 {
		return fmt.Errorf("warn_days must not be negative, got: %v", p.WarnDays)
	}
	return nil
}

// Secrets returns the keystore password
func (p *Params) Secrets() []string {
	return []string{p.Password}
}

// Module is ibm_keystore
var Module = module.New("ibm_keystore", func() *Params {
	return &Params{Password: DefaultPassword, WarnDays: 30}
}, run)

func run(c *module.Context, p *Params) module.Result {
	ks := &KeyStore{Filename: p.Path, Password: p.Password}
	certs, err := ks.Certificates()
	if err != nil {
		return module.Fail(err.Error())
	}
	report := Report(certs)
	var expiring []string
	for _, cert := range report {
		switch {
		case cert.DaysLeft < 0:
			expiring = append(expiring, fmt.Sprintf("%v (expired %v)", cert.Subject, cert.NotAfter))
		case cert.DaysLeft <= p.WarnDays:
			expiring = append(expiring, fmt.Sprintf("%v (expires %v)", cert.Subject, cert.NotAfter))
		}
	}
	c.Log.Debugf("Read %v certificates from %v", len(report), p.Path)
	if len(expiring) > 0 {
		return module.Fail(fmt.Sprintf("Certificates in %v expire within %v days: %v", p.Path, p.WarnDays, strings.Join(expiring, "; "))).
			With("certificates", report)
	}
	return module.Ok(fmt.Sprintf("All %v certificates in %v are valid for more than %v days", len(report), p.Path, p.WarnDays)).
		With("certificates", report)
}
