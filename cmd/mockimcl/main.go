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

// mockimcl behaves like the Installation Manager imcl command, keeping
// package state in two text files instead of installing anything
package main

import (
	"fmt"
	"os"

	"github.com/websphere-automation/was-modules/internal/logger"
	"github.com/websphere-automation/was-modules/internal/mockimcl"
)

func doMain() int {
	log, err := logger.FromEnv(os.Stderr, "mockimcl")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	dir, err := mockimcl.DefaultDir()
	if err != nil {
		log.Errorf("Unable to find package store: %v", err)
		return 1
	}
	log.Debugf("Using package store in %v", dir)
	return mockimcl.Run(mockimcl.New(dir), os.Args[1:], os.Stdout, os.Stderr)
}

func main() {
	os.Exit(doMain())
}
