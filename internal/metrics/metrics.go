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
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/websphere-automation/was-modules/internal/inventory"
	"github.com/websphere-automation/was-modules/internal/logger"
)

// DefaultListen is the address the exporter listens on unless told otherwise
const DefaultListen = ":9383"

const shutdownTimeout = 5 * time.Second

// Options configure the exporter HTTP server
type Options struct {
	// InventoryFile is the YAML inventory of processes to report
	InventoryFile string
	// Listen is the address of the HTTP server
	Listen string
	// Audit, if set, records every metrics request
	Audit AuditLog
}

// Serve reports process metrics over HTTP until ctx is cancelled.  The
// inventory file is reloaded when it changes.
func Serve(ctx context.Context, opts Options, log *logger.Logger) error {
	if opts.Listen == "" {
		opts.Listen = DefaultListen
	}
	ln, err := net.Listen("tcp", opts.Listen)
	if err != nil {
		return fmt.Errorf("Failed to listen for metrics requests: %w", err)
	}
	return serve(ctx, ln, opts, log)
}

func serve(ctx context.Context, ln net.Listener, opts Options, log *logger.Logger) error {
	monitor, err := loadAndWatchInventory(ctx, opts.InventoryFile, log)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer monitor.stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(newExporter(monitor.latest, log))

	var handler http.Handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	if opts.Audit != nil {
		handler = auditHandler(handler, opts.InventoryFile, opts.Audit, log)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Status: METRICS ACTIVE"))
	})
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()
	log.Printf("Serving WebSphere process metrics on %v", ln.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = server.Shutdown(shutdownCtx)
		<-errCh
		if err != nil {
			return fmt.Errorf("Failed to stop metrics server: %w", err)
		}
		return nil
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("Failed to handle metrics request: %w", err)
	}
}

// WriteTextfile checks every process in the inventory once and writes the
// result in the Prometheus text format, for the node_exporter textfile
// collector
func WriteTextfile(inventoryFile, outFile string, log *logger.Logger) error {
	inv, err := inventory.Load(inventoryFile)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(newExporter(func() *inventory.Inventory { return inv }, log))
	err = prometheus.WriteToTextfile(outFile, registry)
	if err != nil {
		return fmt.Errorf("Failed to write metrics to %v: %w", outFile, err)
	}
	return nil
}
