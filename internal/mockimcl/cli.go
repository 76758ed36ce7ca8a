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

package mockimcl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/websphere-automation/was-modules/internal/imcl"
)

// valueFlags are imcl options which take a value
var valueFlags = map[string]bool{
	"-repositories":             true,
	"-installationDirectory":    true,
	"-log":                      true,
	"-sharedResourcesDirectory": true,
	"-properties":               true,
	"-secureStorageFile":        true,
	"-masterPasswordFile":       true,
	"-input":                    true,
	"-preferences":              true,
	"-keyring":                  true,
}

// Invocation is a parsed imcl command line
type Invocation struct {
	Command string
	IDs     []string
	Options map[string]string
}

// Parse splits an imcl command line into its command, package ids and options
func Parse(args []string) (Invocation, error) {
	inv := Invocation{Options: map[string]string{}}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case valueFlags[a]:
			if i+1 >= len(args) {
				return inv, fmt.Errorf("option %v requires a value", a)
			}
			inv.Options[a] = args[i+1]
			i++
		case strings.HasPrefix(a, "-"):
			inv.Options[a] = ""
		case inv.Command == "":
			inv.Command = a
		default:
			inv.IDs = append(inv.IDs, a)
		}
	}
	if inv.Command == "" && inv.Options["-input"] != "" {
		inv.Command = "input"
	}
	return inv, nil
}

// Run emulates imcl against the store, writing output as imcl would and
// returning the exit code
func Run(store *Store, args []string, stdout io.Writer, stderr io.Writer) int {
	inv, err := Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	err = store.Init()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	dest := inv.Options["-installationDirectory"]
	switch inv.Command {
	case "listInstalledPackages":
		var ids []string
		ids, err = store.List()
		for _, id := range ids {
			fmt.Fprintln(stdout, id)
		}
	case "install":
		err = each(inv.IDs, stdout, func(id string) (string, error) {
			return store.Install(dest, id)
		})
	case "uninstall":
		err = each(inv.IDs, stdout, func(id string) (string, error) {
			return store.Remove(dest, id)
		})
	case "rollback":
		err = each(inv.IDs, stdout, func(id string) (string, error) {
			return store.Rollback(dest, id)
		})
	case "uninstallAll":
		var removed []string
		removed, err = store.RemoveAll()
		for _, id := range removed {
			fmt.Fprintf(stdout, "Uninstalled %v\n", id)
		}
	case "input":
		err = installResponseFile(store, inv.Options["-input"], stdout)
	case "version":
		fmt.Fprintln(stdout, "Installation Manager (mock)")
	case "":
		err = errors.New("no command specified")
	default:
		err = fmt.Errorf("unknown command %v", inv.Command)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func each(ids []string, stdout io.Writer, f func(string) (string, error)) error {
	if len(ids) == 0 {
		return errors.New("no packages specified")
	}
	for _, id := range ids {
		msg, err := f(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, msg)
	}
	return nil
}

func installResponseFile(store *Store, fileName string, stdout io.Writer) error {
	rsp, err := imcl.ReadResponseFile(fileName)
	if err != nil {
		return err
	}
	dest := ""
	if locations := rsp.InstallLocations(); len(locations) > 0 {
		dest = locations[0]
	}
	return each(rsp.OfferingIDs(), stdout, func(id string) (string, error) {
		return store.Install(dest, id)
	})
}
