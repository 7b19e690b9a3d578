// ============================================================================
// LexZig - Zig front end toolkit
// ============================================================================
//
// Package:     logging
// Description: FileWriter mirrors log lines into a file in batches
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
)

// FileWriter implements io.Writer. Every line goes to the primary writer
// immediately and is queued for the log file, which is written in batches.
type FileWriter struct {
	// Configuration
	path        string
	batchSize   int
	flushPeriod time.Duration

	// Destination
	file io.WriteCloser

	// Batching
	buffer   [][]byte
	bufferMu sync.Mutex
	flushCh  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	closed   bool

	primary  io.Writer
	failures int
}

// FileWriterConfig holds configuration for FileWriter
type FileWriterConfig struct {
	Path        string        // Log file, created with parent directories
	BatchSize   int           // Number of lines to batch (default: 100)
	FlushPeriod time.Duration // How often to flush (default: 2s)
	Primary     io.Writer     // Immediate writer (default: os.Stderr)
}

// NewFileWriter opens the log file and starts the flush worker
func NewFileWriter(cfg FileWriterConfig) (*FileWriter, error) {
	if cfg.Path == "" {
		return nil, mdwerror.New("log file path is empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("logging.NewFileWriter")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushPeriod <= 0 {
		cfg.FlushPeriod = 2 * time.Second
	}
	if cfg.Primary == nil {
		cfg.Primary = os.Stderr
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create log directory").
			WithCode(mdwerror.CodeStorageError).
			WithDetail("path", cfg.Path)
	}
	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open log file").
			WithCode(mdwerror.CodeStorageError).
			WithDetail("path", cfg.Path)
	}

	w := &FileWriter{
		path:        cfg.Path,
		batchSize:   cfg.BatchSize,
		flushPeriod: cfg.FlushPeriod,
		file:        file,
		buffer:      make([][]byte, 0, cfg.BatchSize),
		flushCh:     make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		primary:     cfg.Primary,
	}

	go w.flushWorker()

	return w, nil
}

// Write implements io.Writer
func (w *FileWriter) Write(p []byte) (n int, err error) {
	n, err = w.primary.Write(p)
	if err != nil {
		return n, err
	}

	// The logger reuses its buffer, keep a copy
	line := make([]byte, len(p))
	copy(line, p)

	w.bufferMu.Lock()
	if w.closed {
		w.bufferMu.Unlock()
		return n, nil
	}
	w.buffer = append(w.buffer, line)
	shouldFlush := len(w.buffer) >= w.batchSize
	w.bufferMu.Unlock()

	if shouldFlush {
		select {
		case w.flushCh <- struct{}{}:
		default:
		}
	}

	return n, nil
}

// flushWorker periodically flushes the buffer
func (w *FileWriter) flushWorker() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.flushPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			w.Flush()
			return
		case <-w.flushCh:
			w.Flush()
		case <-ticker.C:
			w.Flush()
		}
	}
}

// Flush writes all queued lines to the file
func (w *FileWriter) Flush() {
	w.bufferMu.Lock()
	if len(w.buffer) == 0 {
		w.bufferMu.Unlock()
		return
	}
	lines := w.buffer
	w.buffer = make([][]byte, 0, w.batchSize)
	w.bufferMu.Unlock()

	for _, line := range lines {
		if _, err := w.file.Write(line); err != nil {
			// Lines already reached the primary writer
			w.bufferMu.Lock()
			w.failures++
			w.bufferMu.Unlock()
		}
	}
}

// Failures returns the number of lines that could not be written to the file
func (w *FileWriter) Failures() int {
	w.bufferMu.Lock()
	defer w.bufferMu.Unlock()
	return w.failures
}

// Path returns the log file path
func (w *FileWriter) Path() string {
	return w.path
}

// Close flushes pending lines and closes the file. It is safe to call twice.
func (w *FileWriter) Close() error {
	w.bufferMu.Lock()
	if w.closed {
		w.bufferMu.Unlock()
		return nil
	}
	w.closed = true
	w.bufferMu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	return w.file.Close()
}
