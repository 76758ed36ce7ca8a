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
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/websphere-automation/was-modules/internal/logger"
)

func TestAuditHandler(t *testing.T) {
	tests := []struct {
		name               string
		writeStatus        bool
		statusCode         int
		expectedStatusCode int
	}{
		{"goodpath", true, http.StatusOK, http.StatusOK},
		{"badrequest", true, http.StatusBadRequest, http.StatusBadRequest},
		{"noresponse", false, 0, http.StatusOK},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			audit := &auditTestLogger{}
			base := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if test.writeStatus {
					w.WriteHeader(test.statusCode)
				}
			})
			handler := auditHandler(base, test.name, audit, logger.Discard())
			recorder := httptest.NewRecorder()
			testRequest := httptest.NewRequest(http.MethodGet, "http://localhost/metrics", nil)

			beforeEvent := time.Now().UTC()
			handler.ServeHTTP(recorder, testRequest)
			afterEvent := time.Now().UTC()

			if recorder.Code != test.expectedStatusCode {
				t.Fatalf("Unexpected status code sent (expected %d, got %d)", test.expectedStatusCode, recorder.Code)
			}
			if audit.count() != 1 {
				t.Fatalf("Incorrect number of audit events produced (expect 1, got %d)", audit.count())
			}

			// Round trip through JSON as the journal would
			b, err := json.Marshal(audit.events[0])
			if err != nil {
				t.Fatal(err)
			}
			decoded := auditEvent{}
			err = json.Unmarshal(b, &decoded)
			if err != nil {
				t.Fatalf("Failed to unmarshal audit event: %s", err.Error())
			}
			if decoded.Inventory != test.name {
				t.Errorf("Expected inventory %v; got %v", test.name, decoded.Inventory)
			}
			if decoded.RemoteAddr != testRequest.RemoteAddr {
				t.Errorf("Expected remote address %v; got %v", testRequest.RemoteAddr, decoded.RemoteAddr)
			}
			if decoded.Endpoint != "/metrics" {
				t.Errorf("Expected endpoint /metrics; got %v", decoded.Endpoint)
			}
			if decoded.StatusCode != test.expectedStatusCode || decoded.Result != http.StatusText(test.expectedStatusCode) {
				t.Errorf("Expected status %d; got %d %v", test.expectedStatusCode, decoded.StatusCode, decoded.Result)
			}
			ts, err := time.Parse(time.RFC3339, decoded.Timestamp)
			if err != nil {
				t.Fatalf("Failed to parse audit event timestamp: %s", err.Error())
			}
			if ts.Before(beforeEvent.Truncate(time.Second)) || ts.After(afterEvent) {
				t.Errorf("Audit timestamp outside expected range (expected between '%s' and '%s', got '%s')", beforeEvent.Format(time.RFC3339), afterEvent.Format(time.RFC3339), decoded.Timestamp)
			}
		})
	}
}

func TestAuditHandlerWriteError(t *testing.T) {
	var logs bytes.Buffer
	log, err := logger.NewLogger(&logs, false, false, "test")
	if err != nil {
		t.Fatal(err)
	}
	audit := &auditTestLogger{err: errors.New("disk full")}
	base := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	recorder := httptest.NewRecorder()
	auditHandler(base, "inv.yaml", audit, log).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "http://localhost/metrics", nil))

	if recorder.Code != http.StatusOK || recorder.Body.String() != "ok" {
		t.Errorf("Expected the response to be unaffected; got %v %q", recorder.Code, recorder.Body.String())
	}
	if !strings.Contains(logs.String(), "Unable to audit metrics request") || !strings.Contains(logs.String(), "disk full") {
		t.Errorf("Expected audit failure to be logged; got %q", logs.String())
	}
}

type auditTestLogger struct {
	lock   sync.Mutex
	events []interface{}
	err    error
}

func (a *auditTestLogger) WriteJSON(v interface{}) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, v)
	return nil
}

func (a *auditTestLogger) count() int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return len(a.events)
}
