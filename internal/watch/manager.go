// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"

	"github.com/progbook/internal/logger"
)

// ProcessFunc runs the extraction pipeline for one PDF and returns the
// number of rows appended to the workbook.
type ProcessFunc func(pdfPath string) (int, error)

// Manager watches directories for program-book PDFs and runs the pipeline on
// each one once its events settle.
type Manager struct {
	watchPaths []string
	process    ProcessFunc
	notify     bool
	watchers   map[string]*fsnotify.Watcher
	debouncer  *debouncer
	mu         sync.RWMutex
	runMu      sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewManager creates a watcher manager. process is invoked for every settled
// PDF; notify enables a desktop notification per completed file.
func NewManager(watchPaths []string, notify bool, process ProcessFunc) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		watchPaths: watchPaths,
		process:    process,
		notify:     notify,
		watchers:   make(map[string]*fsnotify.Watcher),
		ctx:        ctx,
		cancel:     cancel,
	}
	m.debouncer = newDebouncer(500*time.Millisecond, m.processFile)

	return m
}

// Start starts watching all configured paths.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, path := range m.watchPaths {
		if err := m.addWatchPath(path); err != nil {
			logger.Errorf("Failed to watch path %s: %v", path, err)
			continue
		}
	}

	if len(m.watchers) == 0 {
		return fmt.Errorf("no watchable paths configured")
	}

	for path, watcher := range m.watchers {
		m.wg.Add(1)
		go m.processEvents(path, watcher)
	}

	return nil
}

// Stop stops all watchers. The debouncer stops last, after every goroutine
// that could still Trigger it has drained, so no timer is re-armed past
// shutdown.
func (m *Manager) Stop() {
	m.cancel()

	m.mu.Lock()
	for path, watcher := range m.watchers {
		if err := watcher.Close(); err != nil {
			logger.Errorf("Error closing watcher for %s: %v", path, err)
		}
		delete(m.watchers, path)
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.debouncer.Stop()
}

// addWatchPath adds a directory to watch (recursively).
func (m *Manager) addWatchPath(rootPath string) error {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, exists := m.watchers[absPath]; exists {
		return nil
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		if err := os.MkdirAll(absPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logger.Printf("Created watch directory: %s", absPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Recursively add all subdirectories
	if err := filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				logger.Warnf("failed to watch %s: %v", path, err)
			}
		}
		return nil
	}); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	m.watchers[absPath] = watcher
	logger.Printf("Watching directory (recursive): %s", absPath)

	// Feed existing PDFs through the debouncer so startup batches settle too
	m.wg.Add(1)
	go m.scanExistingFiles(absPath)

	return nil
}

// processEvents processes file system events for one watch root.
func (m *Manager) processEvents(path string, watcher *fsnotify.Watcher) {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Handle new directories
			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Errorf("Failed to watch new directory %s: %v", event.Name, err)
					} else {
						logger.Printf("Added new directory to watch: %s", event.Name)
					}
					continue
				}
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if isTemporaryFile(event.Name) || !isPDF(event.Name) {
					continue
				}
				m.debouncer.Trigger(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("Watcher error for %s: %v", path, err)
		}
	}
}

// scanExistingFiles queues PDFs already present under dir.
func (m *Manager) scanExistingFiles(dir string) {
	defer m.wg.Done()

	logger.Printf("Scanning existing files in %s", dir)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if m.ctx.Err() != nil {
			return filepath.SkipAll
		}
		if !info.IsDir() && !isTemporaryFile(path) && isPDF(path) {
			m.debouncer.Trigger(path)
		}
		return nil
	})
	if err != nil {
		logger.Errorf("Error scanning directory %s: %v", dir, err)
	}
}

// processFile runs the pipeline for one settled PDF. Runs are serialized:
// each debounce timer fires on its own goroutine, but every run does a
// read-modify-write cycle on the same workbook, so overlapping runs would
// drop rows or read a half-written file.
func (m *Manager) processFile(filePath string) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	logger.Printf("Processing PDF: %s", filePath)

	rows, err := m.process(filePath)
	if err != nil {
		logger.Errorf("Failed to process %s: %v", filePath, err)
		return
	}

	logger.Printf("Processed %s: %d rows appended", filePath, rows)

	if m.notify {
		message := fmt.Sprintf("%s: %d rows appended", filepath.Base(filePath), rows)
		if err := beeep.Notify("progbook", message, ""); err != nil {
			logger.Warnf("failed to send notification: %v", err)
		}
	}
}

// isPDF checks if a file has a PDF extension.
func isPDF(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".pdf"
}

// isTemporaryFile checks if a file is a temporary file (e.g., ~$book.pdf).
func isTemporaryFile(filePath string) bool {
	base := filepath.Base(filePath)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, "._") || strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, ".swp") {
		return true
	}
	return false
}
