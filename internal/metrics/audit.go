/*
© Copyright IBM Corporation 2025, 2026

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
	"net/http"
	"os"
	"time"

	"github.com/websphere-automation/was-modules/internal/logger"
)

// AuditLog records one JSON document per metrics request
type AuditLog interface {
	WriteJSON(v interface{}) error
}

type auditEvent struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	Host       string `json:"host"`
	RemoteAddr string `json:"remote_addr"`
	Endpoint   string `json:"endpoint"`
	Result     string `json:"result"`
	StatusCode int    `json:"status_code"`
	Inventory  string `json:"inventory"`
}

// auditHandler serves requests with next, then records who scraped which
// inventory and with what result
func auditHandler(next http.Handler, inventoryFile string, audit AuditLog, log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		timestamp := time.Now().UTC().Format(time.RFC3339)
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, req)

		hostName, _ := os.Hostname()
		err := audit.WriteJSON(auditEvent{
			Timestamp:  timestamp,
			Event:      "metrics",
			Host:       hostName,
			RemoteAddr: req.RemoteAddr,
			Endpoint:   req.URL.RequestURI(),
			Result:     http.StatusText(recorder.statusCode),
			StatusCode: recorder.statusCode,
			Inventory:  inventoryFile,
		})
		if err != nil {
			log.Errorf("Unable to audit metrics request from %v: %v", req.RemoteAddr, err)
		}
	})
}

// statusRecorder captures the status code sent to the client.  Handlers
// which never call WriteHeader send 200.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (s *statusRecorder) WriteHeader(statusCode int) {
	s.statusCode = statusCode
	s.ResponseWriter.WriteHeader(statusCode)
}
