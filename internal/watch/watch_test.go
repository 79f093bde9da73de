// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var mu sync.Mutex
	fired := make(map[string]int)

	d := newDebouncer(30*time.Millisecond, func(path string) {
		mu.Lock()
		fired[path]++
		mu.Unlock()
	})
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger("/watch/book.pdf")
		time.Sleep(2 * time.Millisecond)
	}
	d.Trigger("/watch/other.pdf")

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired["/watch/book.pdf"] != 1 {
		t.Errorf("Expected 1 callback for burst path, got %d", fired["/watch/book.pdf"])
	}
	if fired["/watch/other.pdf"] != 1 {
		t.Errorf("Expected 1 callback for single-event path, got %d", fired["/watch/other.pdf"])
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	var mu sync.Mutex
	count := 0

	d := newDebouncer(30*time.Millisecond, func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	d.Trigger("/watch/book.pdf")
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("Expected no callbacks after Stop, got %d", count)
	}
}

func TestManager_SerializesPipelineRuns(t *testing.T) {
	// Every run rewrites the same workbook, so runs whose debounce timers
	// fire together must never overlap.
	var active, peak, runs int32

	m := NewManager(nil, false, func(string) (int, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		atomic.AddInt32(&runs, 1)
		return 1, nil
	})
	defer m.Stop()

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			m.processFile(fmt.Sprintf("/watch/book%d.pdf", i))
		}(i)
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&peak); got != 1 {
		t.Errorf("Expected pipeline runs to be serialized, saw %d concurrent", got)
	}
	if got := atomic.LoadInt32(&runs); got != 4 {
		t.Errorf("Expected 4 completed runs, got %d", got)
	}
}

func TestManager_StopCancelsStartupScan(t *testing.T) {
	// PDFs found at startup sit in the debouncer; stopping before they
	// settle must not fire the pipeline afterwards.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "book.pdf"), []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("failed to seed watch dir: %v", err)
	}

	var runs int32
	m := NewManager([]string{dir}, false, func(string) (int, error) {
		atomic.AddInt32(&runs, 1)
		return 0, nil
	})
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	m.Stop()

	time.Sleep(600 * time.Millisecond)

	if got := atomic.LoadInt32(&runs); got != 0 {
		t.Errorf("Expected no pipeline runs after Stop, got %d", got)
	}
}

func TestIsPDF(t *testing.T) {
	cases := map[string]bool{
		"/watch/book.pdf":   true,
		"/watch/BOOK.PDF":   true,
		"/watch/notes.docx": false,
		"/watch/book.pdf.x": false,
	}
	for path, want := range cases {
		if got := isPDF(path); got != want {
			t.Errorf("isPDF(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestIsTemporaryFile(t *testing.T) {
	cases := map[string]bool{
		"/watch/~$book.pdf":   true,
		"/watch/._book.pdf":   true,
		"/watch/.book.pdf":    true,
		"/watch/book.pdf.tmp": true,
		"/watch/book.pdf.swp": true,
		"/watch/book.pdf":     false,
	}
	for path, want := range cases {
		if got := isTemporaryFile(path); got != want {
			t.Errorf("isTemporaryFile(%q) = %v, want %v", path, got, want)
		}
	}
}
