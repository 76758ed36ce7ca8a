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

// Package journal keeps a size-bounded record of module runs as JSON lines
// in a rotating set of files
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/websphere-automation/was-modules/internal/module"
)

const (
	// FilenameFormat names each journal file; file 1 is always the newest
	FilenameFormat = "wasctl-%d.log"
	// DefaultMaxBytes is the size at which the newest file is rotated
	DefaultMaxBytes = 1024 * 1024
	// DefaultFiles is the number of journal files kept
	DefaultFiles = 3
)

// Entry is the journal line written for a single module run
type Entry struct {
	Timestamp string `json:"timestamp"`
	Module    string `json:"module"`
	Changed   bool   `json:"changed"`
	Failed    bool   `json:"failed"`
	Msg       string `json:"msg"`
	Host      string `json:"host"`
}

// Journal appends lines to the newest of a set of files, rotating when the
// newest file would exceed maxFileBytes
type Journal struct {
	baseDirectory  string
	filenameFormat string
	maxFileBytes   int
	logFilesCount  int
	lock           sync.Mutex
	now            func() time.Time
}

// New creates a Journal in baseDirectory, creating the directory if needed.
// Zero or negative sizes take the defaults.
func New(baseDirectory string, maxFileBytes int, logFilesCount int) (*Journal, error) {
	if baseDirectory == "" {
		return nil, errors.New("journal directory must be set")
	}
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxBytes
	}
	if logFilesCount <= 0 {
		logFilesCount = DefaultFiles
	}
	err := os.MkdirAll(baseDirectory, 0750)
	if err != nil {
		return nil, fmt.Errorf("unable to create journal directory: %w", err)
	}
	return &Journal{
		baseDirectory:  filepath.Clean(baseDirectory),
		filenameFormat: FilenameFormat,
		maxFileBytes:   maxFileBytes,
		logFilesCount:  logFilesCount,
		now:            time.Now,
	}, nil
}

// instanceFileName returns a journal instance filename
func (j *Journal) instanceFileName(instance int) string {
	return filepath.Join(j.baseDirectory, fmt.Sprintf(j.filenameFormat, instance))
}

// Record appends the outcome of a module run
func (j *Journal) Record(moduleName string, r module.Result) error {
	host, _ := os.Hostname()
	return j.WriteJSON(Entry{
		Timestamp: j.now().UTC().Format(time.RFC3339),
		Module:    moduleName,
		Changed:   r.Changed,
		Failed:    r.Failed,
		Msg:       r.Msg,
		Host:      host,
	})
}

// WriteJSON appends v to the journal as a single JSON line
func (j *Journal) WriteJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to encode journal entry: %w", err)
	}
	return j.append(string(b))
}

func (j *Journal) append(messageLine string) error {
	j.lock.Lock()
	defer j.lock.Unlock()

	// Ensure message is terminated with a single line feed
	messageLine = strings.TrimSpace(messageLine) + "\n"
	logFilePath := j.instanceFileName(1)

	exceeded, err := j.sizeExceeded(logFilePath, len(messageLine))
	if err != nil {
		return err
	}
	if exceeded {
		err = j.rotate()
		if err != nil {
			return fmt.Errorf("failed to rotate journal: %w", err)
		}
	}

	// #nosec G304
	logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	_, err = logFile.WriteString(messageLine)
	closeErr := logFile.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// sizeExceeded reports whether adding n bytes to the file would reach the
// size limit.  An empty file never rotates, so oversized lines are still
// written.
func (j *Journal) sizeExceeded(logFilePath string, n int) (bool, error) {
	fileStat, err := os.Stat(logFilePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fileStat.Size() > 0 && fileStat.Size()+int64(n) >= int64(j.maxFileBytes), nil
}

// rotate drops the oldest file and shifts the rest up by one
func (j *Journal) rotate() error {
	lastLogFile := j.instanceFileName(j.logFilesCount)
	if err := os.Remove(lastLogFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error deleting '%s': %w", lastLogFile, err)
	}
	for i := j.logFilesCount; i >= 2; i-- {
		oldLogFileInstance := j.instanceFileName(i - 1)
		newLogFileInstance := j.instanceFileName(i)
		if err := os.Rename(oldLogFileInstance, newLogFileInstance); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error moving '%s' to '%s': %w", oldLogFileInstance, newLogFileInstance, err)
		}
	}
	return nil
}
