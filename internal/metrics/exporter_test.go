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
package metrics

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/websphere-automation/was-modules/internal/inventory"
	"github.com/websphere-automation/was-modules/internal/logger"
)

const stalePid = 1 << 30

// writeTestInventory creates a WAS root with one running server, one
// stale server and one stopped server, plus the inventory describing them
func writeTestInventory(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "was")
	writePid(t, filepath.Join(root, "profiles", "AppSrv01", "logs", "server1", "server1.pid"), os.Getpid())
	writePid(t, filepath.Join(root, "profiles", "AppSrv01", "logs", "server2", "server2.pid"), stalePid)
	doc := "was_root: " + root + "\n" +
		"profiles:\n" +
		"  - name: AppSrv01\n" +
		"    servers: [server1, server2, server3]\n"
	file := filepath.Join(dir, "inventory.yaml")
	err := os.WriteFile(file, []byte(doc), 0600)
	if err != nil {
		t.Fatal(err)
	}
	return root, file
}

func writePid(t *testing.T, file string, pid int) {
	t.Helper()
	err := os.MkdirAll(filepath.Dir(file), 0700)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(file, []byte(strconv.Itoa(pid)), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

// gaugeValues gathers a registry, returning gauge values keyed by metric
// name and server label
func gaugeValues(t *testing.T, g prometheus.Gatherer) map[string]float64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatal(err)
	}
	values := map[string]float64{}
	for _, family := range families {
		if family.GetType() != dto.MetricType_GAUGE {
			t.Errorf("Expected gauge for %v; got %v", family.GetName(), family.GetType())
		}
		for _, m := range family.GetMetric() {
			values[family.GetName()+"/"+labelValue(m, nameLabel)] = m.GetGauge().GetValue()
		}
	}
	return values
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestDescribe(t *testing.T) {
	e := newExporter(func() *inventory.Inventory { return nil }, logger.Discard())
	ch := make(chan *prometheus.Desc, 10)
	e.Describe(ch)
	close(ch)
	expected := []string{
		`Desc{fqName: "websphere_process_up", help: "Whether the process pid file shows it running (1) or not (0)", constLabels: {}, variableLabels: [kind profile name]}`,
		`Desc{fqName: "websphere_pidfile_stale", help: "Whether the pid file names a process which no longer exists", constLabels: {}, variableLabels: [kind profile name]}`,
	}
	i := 0
	for desc := range ch {
		if i >= len(expected) {
			t.Fatalf("Unexpected description %v", desc)
		}
		if desc.String() != expected[i] {
			t.Errorf("Expected value=%s; actual %s", expected[i], desc.String())
		}
		i++
	}
	if i != len(expected) {
		t.Errorf("Expected %v descriptions; got %v", len(expected), i)
	}
}

func TestCollect(t *testing.T) {
	_, file := writeTestInventory(t)
	inv, err := inventory.Load(file)
	if err != nil {
		t.Fatal(err)
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(newExporter(func() *inventory.Inventory { return inv }, logger.Discard()))

	expected := map[string]float64{
		"websphere_process_up/server1":    1,
		"websphere_process_up/server2":    0,
		"websphere_process_up/server3":    0,
		"websphere_pidfile_stale/server1": 0,
		"websphere_pidfile_stale/server2": 1,
		"websphere_pidfile_stale/server3": 0,
	}
	// Collect resets between scrapes, so repeat to check values do not accumulate
	for i := 1; i <= 3; i++ {
		values := gaugeValues(t, registry)
		if len(values) != len(expected) {
			t.Errorf("Expected %v values; got %v", len(expected), values)
		}
		for key, value := range expected {
			if values[key] != value {
				t.Errorf("Expected %v=%v; got %v", key, value, values[key])
			}
		}
	}
}

func TestCollectNoInventory(t *testing.T) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(newExporter(func() *inventory.Inventory { return nil }, logger.Discard()))
	values := gaugeValues(t, registry)
	if len(values) != 0 {
		t.Errorf("Expected no values; got %v", values)
	}
}

func TestCreateGaugeVec(t *testing.T) {
	ch := make(chan *prometheus.Desc, 1)
	createGaugeVec("test_name", "test_description").Describe(ch)
	expected := `Desc{fqName: "websphere_test_name", help: "test_description", constLabels: {}, variableLabels: [kind profile name]}`
	actual := (<-ch).String()
	if actual != expected {
		t.Errorf("Expected value=%s; actual %s", expected, actual)
	}
}
