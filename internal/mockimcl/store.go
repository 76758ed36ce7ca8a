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

// Package mockimcl is a stand-in for the Installation Manager package
// registry, kept in two text files with one package id per line
package mockimcl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Files kept in the store directory
const (
	RepositoryFile = ".repository.config"
	InstalledFile  = ".internal.config"
)

// HomeEnv overrides the store directory
const HomeEnv = "MOCK_IMCL_HOME"

// NotFoundError is returned when a package is not in the repository
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Package: %v not found. Check .repository config to ensure correct spelling.", e.ID)
}

// Store holds the available and installed packages
type Store struct {
	Dir string
	mu  sync.Mutex
}

// DefaultDir returns $MOCK_IMCL_HOME, or the home directory of the current user
func DefaultDir() (string, error) {
	if dir, ok := os.LookupEnv(HomeEnv); ok && dir != "" {
		return dir, nil
	}
	return os.UserHomeDir()
}

// New creates a Store in dir
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(file string) string {
	return filepath.Join(s.Dir, file)
}

// Init creates the store files if they do not exist.  Existing content is kept.
func (s *Store) Init() error {
	for _, file := range []string{RepositoryFile, InstalledFile} {
		f, err := os.OpenFile(s.path(file), os.O_RDONLY|os.O_CREATE, 0640)
		if err != nil {
			return fmt.Errorf("unable to create %v: %w", s.path(file), err)
		}
		f.Close()
	}
	return nil
}

func (s *Store) read(file string) ([]string, error) {
	b, err := os.ReadFile(s.path(file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}

// write replaces the file, via a temporary file so readers never see it half written
func (s *Store) write(file string, ids []string) error {
	tmp, err := os.CreateTemp(s.Dir, file+".*")
	if err != nil {
		return err
	}
	var content string
	if len(ids) > 0 {
		content = strings.Join(ids, "\n") + "\n"
	}
	_, err = tmp.WriteString(content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(file))
}

// Repository returns the ids of all available packages
func (s *Store) Repository() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(RepositoryFile)
}

// AddToRepository makes packages available for install
func (s *Store) AddToRepository(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	available, err := s.read(RepositoryFile)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !contains(available, id) {
			available = append(available, id)
		}
	}
	return s.write(RepositoryFile, available)
}

// List returns the ids of the installed packages
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(InstalledFile)
}

func contains(ids []string, id string) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

// resolve finds id in the repository.  An offering id without a version
// resolves to the highest version available.
func resolve(available []string, id string) (string, bool) {
	if contains(available, id) {
		return id, true
	}
	var versions []string
	for _, a := range available {
		if strings.HasPrefix(a, id+"_") {
			versions = append(versions, a)
		}
	}
	if len(versions) == 0 {
		return "", false
	}
	sort.Slice(versions, func(i, j int) bool {
		return compareVersions(versions[i][len(id)+1:], versions[j][len(id)+1:]) < 0
	})
	return versions[len(versions)-1], true
}

// compareVersions orders offering versions such as 8.5.5012.20170627_1412.
// Numeric fields compare as numbers and anything else compares as text.
func compareVersions(a, b string) int {
	split := func(r rune) bool { return r == '.' || r == '_' }
	af := strings.FieldsFunc(a, split)
	bf := strings.FieldsFunc(b, split)
	for i := 0; i < len(af) && i < len(bf); i++ {
		an, aerr := strconv.Atoi(af[i])
		bn, berr := strconv.Atoi(bf[i])
		switch {
		case aerr == nil && berr == nil && an != bn:
			if an < bn {
				return -1
			}
			return 1
		case (aerr != nil || berr != nil) && af[i] != bf[i]:
			return strings.Compare(af[i], bf[i])
		}
	}
	switch {
	case len(af) < len(bf):
		return -1
	case len(af) > len(bf):
		return 1
	}
	return 0
}

// Install records the package as installed in dest, returning a message
// describing what happened
func (s *Store) Install(dest, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	available, err := s.read(RepositoryFile)
	if err != nil {
		return "", err
	}
	full, ok := resolve(available, id)
	if !ok {
		return "", &NotFoundError{ID: id}
	}
	installed, err := s.read(InstalledFile)
	if err != nil {
		return "", err
	}
	if contains(installed, full) {
		return fmt.Sprintf("Package %v is already installed.", full), nil
	}
	err = s.write(InstalledFile, append(installed, full))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Package %v was successfully installed to %v.", full, dest), nil
}

// Remove records the package as no longer installed.  id may be an offering
// id without a version.
func (s *Store) Remove(dest, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	installed, err := s.read(InstalledFile)
	if err != nil {
		return "", err
	}
	var kept, removed []string
	for _, i := range installed {
		if i == id || strings.HasPrefix(i, id+"_") {
			removed = append(removed, i)
		} else {
			kept = append(kept, i)
		}
	}
	if len(removed) == 0 {
		return fmt.Sprintf("Package: %v is not installed. Nothing to remove.", id), nil
	}
	err = s.write(InstalledFile, kept)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Package %v has been removed from %v", strings.Join(removed, " "), dest), nil
}

// RemoveAll removes every installed package, returning their ids
func (s *Store) RemoveAll() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	installed, err := s.read(InstalledFile)
	if err != nil {
		return nil, err
	}
	return installed, s.write(InstalledFile, nil)
}

// Rollback replaces installed versions of the offering with the given
// version, which must be in the repository
func (s *Store) Rollback(dest, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	available, err := s.read(RepositoryFile)
	if err != nil {
		return "", err
	}
	if !contains(available, id) {
		return "", &NotFoundError{ID: id}
	}
	installed, err := s.read(InstalledFile)
	if err != nil {
		return "", err
	}
	offering, _, _ := strings.Cut(id, "_")
	var kept []string
	for _, i := range installed {
		if i != offering && !strings.HasPrefix(i, offering+"_") {
			kept = append(kept, i)
		}
	}
	err = s.write(InstalledFile, append(kept, id))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Package %v was rolled back in %v.", id, dest), nil
}
