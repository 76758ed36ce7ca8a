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
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/websphere-automation/was-modules/internal/inventory"
	"github.com/websphere-automation/was-modules/internal/logger"
)

const (
	defaultInventoryPollInterval = 1 * time.Minute
	defaultDebounceTime          = 1 * time.Second
	sourceStartup                = "startup"
	sourceFilesystemEvent        = "fsevent"
	sourcePoll                   = "poll"
)

type inventoryMonitor struct {
	file      string
	inventory *inventory.Inventory

	log *logger.Logger

	ctx          context.Context
	shutdownFn   context.CancelFunc
	invLock      sync.RWMutex
	pollInterval time.Duration
	debounceTime time.Duration
}

func loadAndWatchInventory(ctx context.Context, file string, log *logger.Logger) (*inventoryMonitor, error) {
	im := newInventoryMonitor(ctx, file, log)

	err := im.updateInventory(sourceStartup)
	if err != nil {
		im.shutdownFn()
		return nil, err
	}

	err = im.watch(im.updateInventory)
	if err != nil {
		im.shutdownFn()
		return nil, err
	}

	return im, nil
}

func newInventoryMonitor(ctx context.Context, file string, log *logger.Logger) *inventoryMonitor {
	watchCtx, stopWatch := context.WithCancel(ctx)
	return &inventoryMonitor{
		ctx:          watchCtx,
		shutdownFn:   stopWatch,
		file:         filepath.Clean(file),
		log:          log,
		pollInterval: defaultInventoryPollInterval,
		debounceTime: defaultDebounceTime,
	}
}

// latest returns the last successfully loaded inventory
func (im *inventoryMonitor) latest() *inventory.Inventory {
	im.invLock.RLock()
	defer im.invLock.RUnlock()
	return im.inventory
}

// watch triggers a callback whenever the inventory file changes.
// The directory is watched rather than the file so that editors which
// replace the file are noticed.  A slower poll catches missed events, and
// all triggers are debounced so a half-written file is not loaded.
func (im *inventoryMonitor) watch(callback updateFn) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to set up fsnotify: %w", err)
	}
	err = fsWatcher.Add(filepath.Dir(im.file))
	if err != nil {
		_ = fsWatcher.Close()
		return fmt.Errorf("failed to watch inventory directory: %w", err)
	}
	ticker := time.NewTicker(im.pollInterval)

	triggerUpdateQueue := make(chan string)
	triggerUpdate := func(source string) {
		// Events arriving during an ongoing update are dropped
		select {
		case triggerUpdateQueue <- source:
		default:
		}
	}

	go func() {
		for {
			select {
			case <-im.ctx.Done():
				return
			case source := <-triggerUpdateQueue:
				select {
				case <-im.ctx.Done():
					return
				case <-time.After(im.debounceTime):
				}
				err := callback(source)
				if err != nil {
					im.log.Errorf("Error loading updated inventory for metrics: %v", err)
				}
			}
		}
	}()

	go func() {
		defer ticker.Stop()
		for {
			select {
			case event, ok := <-fsWatcher.Events:
				if ok && filepath.Clean(event.Name) == im.file {
					triggerUpdate(sourceFilesystemEvent)
				}
			case err, ok := <-fsWatcher.Errors:
				if ok {
					im.log.Errorf("Inventory watch error: %v", err)
				}
			case <-ticker.C:
				triggerUpdate(sourcePoll)
			case <-im.ctx.Done():
				_ = fsWatcher.Close()
				return
			}
		}
	}()
	return nil
}

// updateInventory loads the inventory from disk.  If the load fails the
// previously loaded inventory is kept.
func (im *inventoryMonitor) updateInventory(updateTrigger string) error {
	inv, err := inventory.Load(im.file)
	if err != nil {
		return err
	}

	im.invLock.Lock()
	updated := !reflect.DeepEqual(inv, im.inventory)
	im.inventory = inv
	im.invLock.Unlock()
	if updated {
		im.log.Printf("Inventory reload triggered by %s, monitoring %d processes", updateTrigger, len(inv.Processes()))
	}
	return nil
}

func (im *inventoryMonitor) stop() {
	if im != nil && im.shutdownFn != nil {
		im.shutdownFn()
	}
}

type updateFn func(source string) error
