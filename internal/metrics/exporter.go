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

// Package metrics exports the running state of WebSphere processes to Prometheus
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/websphere-automation/was-modules/internal/inventory"
	"github.com/websphere-automation/was-modules/internal/logger"
	"github.com/websphere-automation/was-modules/internal/pidfile"
)

const (
	namespace    = "websphere"
	kindLabel    = "kind"
	profileLabel = "profile"
	nameLabel    = "name"
)

type metricData struct {
	name        string
	description string
	value       func(state pidfile.State) float64
}

// processMetrics are reported for every process in the inventory
var processMetrics = []metricData{
	{
		name:        "process_up",
		description: "Whether the process pid file shows it running (1) or not (0)",
		value: func(state pidfile.State) float64 {
			return boolValue(state == pidfile.Running)
		},
	},
	{
		name:        "pidfile_stale",
		description: "Whether the pid file names a process which no longer exists",
		value: func(state pidfile.State) float64 {
			return boolValue(state == pidfile.Stale)
		},
	},
}

type exporter struct {
	inventory func() *inventory.Inventory
	check     func(fileName string) (pidfile.State, error)
	log       *logger.Logger
	gaugeMap  map[string]*prometheus.GaugeVec
	lock      sync.Mutex
}

func newExporter(inv func() *inventory.Inventory, log *logger.Logger) *exporter {
	e := &exporter{
		inventory: inv,
		check:     pidfile.Check,
		log:       log,
		gaugeMap:  make(map[string]*prometheus.GaugeVec),
	}
	for _, metric := range processMetrics {
		e.gaugeMap[metric.name] = createGaugeVec(metric.name, metric.description)
	}
	return e
}

// Describe provides details of all available metrics
func (e *exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, metric := range processMetrics {
		e.gaugeMap[metric.name].Describe(ch)
	}
}

// Collect checks the pid file of every process in the inventory
func (e *exporter) Collect(ch chan<- prometheus.Metric) {
	e.lock.Lock()
	defer e.lock.Unlock()

	for _, gaugeVec := range e.gaugeMap {
		gaugeVec.Reset()
	}

	inv := e.inventory()
	if inv != nil {
		for _, proc := range inv.Processes() {
			state, err := e.check(proc.PidFile)
			if err != nil {
				e.log.Debugf("Unable to check pid file %v: %v", proc.PidFile, err)
			}
			for _, metric := range processMetrics {
				e.gaugeMap[metric.name].WithLabelValues(proc.Kind, proc.Profile, proc.Name).Set(metric.value(state))
			}
		}
	}

	for _, metric := range processMetrics {
		e.gaugeMap[metric.name].Collect(ch)
	}
}

// createGaugeVec returns a Prometheus GaugeVec populated with metric details
func createGaugeVec(name, description string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      description,
		},
		[]string{kindLabel, profileLabel, nameLabel},
	)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
