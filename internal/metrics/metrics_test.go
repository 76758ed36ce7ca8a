/*
© Copyright IBM Corporation 2024, 2026

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
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/websphere-automation/was-modules/internal/logger"
)

func TestWriteTextfile(t *testing.T) {
	_, file := writeTestInventory(t)
	out := filepath.Join(t.TempDir(), "websphere.prom")
	err := WriteTextfile(file, out, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{
		"# TYPE websphere_process_up gauge",
		`websphere_process_up{kind="server",name="server1",profile="AppSrv01"} 1`,
		`websphere_process_up{kind="server",name="server3",profile="AppSrv01"} 0`,
		`websphere_pidfile_stale{kind="server",name="server2",profile="AppSrv01"} 1`,
	} {
		if !strings.Contains(string(b), line+"\n") {
			t.Errorf("Expected textfile to contain %q; got:\n%s", line, b)
		}
	}
}

func TestWriteTextfileMissingInventory(t *testing.T) {
	dir := t.TempDir()
	err := WriteTextfile(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "out.prom"), logger.Discard())
	if err == nil {
		t.Fatal("Expected error for missing inventory")
	}
	_, err = os.Stat(filepath.Join(dir, "out.prom"))
	if !os.IsNotExist(err) {
		t.Errorf("Expected no output file; got %v", err)
	}
}

func TestServe(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, file := writeTestInventory(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	audit := &auditTestLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, Options{InventoryFile: file, Audit: audit}, logger.Discard())
	}()

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/metrics")
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Error(err)
	}
	transport.CloseIdleConnections()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200; got %v", resp.StatusCode)
	}
	expected := `websphere_process_up{kind="server",name="server1",profile="AppSrv01"} 1`
	if !strings.Contains(string(body), expected) {
		t.Errorf("Expected body to contain %q; got:\n%s", expected, body)
	}
	if audit.count() != 1 {
		t.Errorf("Expected 1 audit event; got %v", audit.count())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown; got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Server did not stop")
	}
}

func TestServeBadInventory(t *testing.T) {
	defer goleak.VerifyNone(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	err = serve(context.Background(), ln, Options{InventoryFile: filepath.Join(t.TempDir(), "missing.yaml")}, logger.Discard())
	if err == nil {
		t.Fatal("Expected error for missing inventory")
	}
}

func TestWatchInventory(t *testing.T) {
	defer goleak.VerifyNone(t)

	root, file := writeTestInventory(t)
	updates := make(chan string, 10)

	t.Run("Filesystem event trigger", func(t *testing.T) {
		im := newInventoryMonitor(context.Background(), file, logger.Discard())
		im.debounceTime = 10 * time.Millisecond
		err := im.watch(func(source string) error {
			updates <- source
			return nil
		})
		if err != nil {
			t.Fatalf("Failed to start watch: %v", err)
		}
		defer im.stop()

		err = os.WriteFile(file, []byte("was_root: "+root+"\n"), 0600)
		if err != nil {
			t.Fatal(err)
		}
		select {
		case source := <-updates:
			if source != sourceFilesystemEvent {
				t.Errorf("Expected %v; got %v", sourceFilesystemEvent, source)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("No update after inventory change")
		}
	})

	t.Run("Poll fallback", func(t *testing.T) {
		im := newInventoryMonitor(context.Background(), file, logger.Discard())
		im.debounceTime = 10 * time.Millisecond
		im.pollInterval = 20 * time.Millisecond
		err := im.watch(func(source string) error {
			select {
			case updates <- source:
			default:
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Failed to start watch: %v", err)
		}
		defer im.stop()

		select {
		case source := <-updates:
			if source != sourcePoll {
				t.Errorf("Expected %v; got %v", sourcePoll, source)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("No update from poll")
		}
	})
}

func TestUpdateInventory(t *testing.T) {
	_, file := writeTestInventory(t)
	im := newInventoryMonitor(context.Background(), file, logger.Discard())
	defer im.stop()

	err := im.updateInventory(sourceStartup)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(im.latest().Processes()); n != 3 {
		t.Fatalf("Expected 3 processes; got %v", n)
	}

	// A broken file keeps the last good inventory
	err = os.WriteFile(file, []byte("profiles: [\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}
	err = im.updateInventory(sourcePoll)
	if err == nil {
		t.Error("Expected error for invalid inventory")
	}
	if n := len(im.latest().Processes()); n != 3 {
		t.Errorf("Expected previous inventory to be kept; got %v processes", n)
	}
}
