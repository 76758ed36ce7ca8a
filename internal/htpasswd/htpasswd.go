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

// Package htpasswd maintains the password file of the IBM HTTP Server
// administration server
package htpasswd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// File is a parsed htpasswd file.  Users keep the order they appear in.
type File struct {
	path   string
	hashes map[string]string
	users  []string
}

func encryptPassword(password string) (string, error) {
	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}

// Read parses the htpasswd file.  A missing file is treated as empty.
func Read(path string) (*File, error) {
	f := &File{path: path, hashes: map[string]string{}}
	pwdsBytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, err
	}
	lines := strings.Split(string(pwdsBytes), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		name, hash, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		f.put(strings.TrimSpace(name), strings.TrimSpace(hash))
	}
	return f, nil
}

func (f *File) put(user, hash string) {
	if _, exists := f.hashes[user]; !exists {
		f.users = append(f.users, user)
	}
	f.hashes[user] = hash
}

// SetPassword sets the encrypted password for the user
func (f *File) SetPassword(user string, password string) error {
	if len(strings.TrimSpace(user)) == 0 || len(strings.TrimSpace(password)) == 0 {
		return fmt.Errorf("UserId or Password are empty")
	}
	if strings.Contains(user, ":") {
		return fmt.Errorf("UserId must not contain ':'")
	}
	pwd, err := encryptPassword(password)
	if err != nil {
		return err
	}
	f.put(user, pwd)
	return nil
}

// AuthenticateUser checks the password of the user.  found is false if the
// user is not in the file; ok is true only if the password matches.
func (f *File) AuthenticateUser(user string, password string) (found bool, ok bool, err error) {
	hash, found := f.hashes[user]
	if !found {
		return false, false, fmt.Errorf("user %v not found", user)
	}
	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		return true, false, err
	}
	return true, true, nil
}

// GetBytes returns the contents of the htpasswd file
func (f *File) GetBytes() []byte {
	var b strings.Builder
	for _, name := range f.users {
		b.WriteString(name + ":" + f.hashes[name] + "\n")
	}
	return []byte(b.String())
}

// Write saves the file
func (f *File) Write() error {
	return os.WriteFile(f.path, f.GetBytes(), 0600)
}

// EnsureUser makes sure the user is in the file at path with the given
// password, returning true if the file needed to change.  With dryRun the
// file is not written.
func EnsureUser(path, user, password string, dryRun bool) (bool, error) {
	f, err := Read(path)
	if err != nil {
		return false, err
	}
	_, ok, _ := f.AuthenticateUser(user, password)
	if ok {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	err = f.SetPassword(user, password)
	if err != nil {
		return false, err
	}
	err = f.Write()
	if err != nil {
		return false, fmt.Errorf("unable to write %v: %w", path, err)
	}
	return true, nil
}
