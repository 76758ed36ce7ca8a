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
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/websphere-automation/was-modules/internal/command"
	"github.com/websphere-automation/was-modules/internal/journal"
	"github.com/websphere-automation/was-modules/internal/logger"
	"github.com/websphere-automation/was-modules/internal/metrics"
	"github.com/websphere-automation/was-modules/internal/module"
)

type app struct {
	registry *module.Registry
	stdout   io.Writer
	stderr   io.Writer
	runner   command.Runner

	configFile string
	debug      bool
	config     *Config
	log        *logger.Logger

	exitCode int
}

func newApp(registry *module.Registry, stdout, stderr io.Writer, runner command.Runner) *app {
	return &app{
		registry: registry,
		stdout:   stdout,
		stderr:   stderr,
		runner:   runner,
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "wasctl",
		Short: "Run WebSphere Application Server administration modules",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(viper.New(), a.configFile)
			if err != nil {
				return err
			}
			a.config = config
			a.log, err = logger.FromEnv(a.stderr, "wasctl")
			if err != nil {
				return err
			}
			if a.debug || config.Debug {
				a.log.SetDebug(true)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default $HOME/.wasctl.yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(a.runCommand(), a.listCommand(), a.exporterCommand())
	return root
}

// openJournal returns the configured journal, or nil if there is none
func (a *app) openJournal() (*journal.Journal, error) {
	if a.config.Journal.Dir == "" {
		return nil, nil
	}
	return journal.New(a.config.Journal.Dir, a.config.Journal.MaxBytes, a.config.Journal.Files)
}

func (a *app) runCommand() *cobra.Command {
	var (
		argsFile  string
		extraArgs []string
		checkMode bool
	)
	cmd := &cobra.Command{
		Use:   "run <module>",
		Short: "Run a module and print its result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := a.registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown module %v, see 'wasctl list'", args[0])
			}
			moduleArgs := map[string]interface{}{}
			if argsFile != "" {
				var err error
				moduleArgs, err = module.ReadArgs(argsFile)
				if err != nil {
					return err
				}
			}
			for _, arg := range extraArgs {
				k, v, ok := strings.Cut(arg, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid argument %q, expected key=value", arg)
				}
				moduleArgs[k] = v
			}
			if checkMode {
				moduleArgs["_ansible_check_mode"] = true
			}
			applyDefaults(m, a.config.Defaults, moduleArgs)

			j, err := a.openJournal()
			if err != nil {
				return err
			}
			result := module.Invoke(cmd.Context(), m, moduleArgs, a.runner, a.log)
			if j != nil {
				err = j.Record(m.Name(), result)
				if err != nil {
					a.log.Errorf("Failed to write journal: %v", err)
				}
			}
			a.exitCode = module.Print(a.stdout, result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&argsFile, "args-file", "f", "", "file holding the module arguments as JSON or key=value pairs")
	cmd.Flags().StringArrayVarP(&extraArgs, "arg", "a", nil, "module argument as key=value, may be repeated")
	cmd.Flags().BoolVar(&checkMode, "check", false, "report what would change without changing anything")
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.registry.Names() {
				m, _ := a.registry.Lookup(name)
				fmt.Fprintf(a.stdout, "%v\t%v\n", name, strings.Join(m.Keys(), ","))
			}
			return nil
		},
	}
}

func (a *app) exporterCommand() *cobra.Command {
	var (
		inventoryFile string
		listen        string
		textfile      string
	)
	cmd := &cobra.Command{
		Use:   "exporter",
		Short: "Export the running state of WebSphere processes to Prometheus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if textfile != "" {
				return metrics.WriteTextfile(inventoryFile, textfile, a.log)
			}
			opts := metrics.Options{
				InventoryFile: inventoryFile,
				Listen:        listen,
			}
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			if j != nil {
				opts.Audit = j
			}
			return metrics.Serve(cmd.Context(), opts, a.log)
		},
	}
	cmd.Flags().StringVar(&inventoryFile, "inventory", "", "YAML inventory of the processes to report")
	cmd.Flags().StringVar(&listen, "listen", metrics.DefaultListen, "address to serve metrics on")
	cmd.Flags().StringVar(&textfile, "textfile", "", "write metrics once to this file and exit")
	_ = cmd.MarkFlagRequired("inventory")
	return cmd
}
