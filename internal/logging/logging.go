// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging routes the standard logger to a file. The TUI owns the
// terminal, so log output must never reach stdout while it runs.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init sends log output to logPath, creating parent directories as needed.
// An empty path discards all log output.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	if logPath == "" {
		log.SetOutput(io.Discard)
		return nil
	}

	if dir := filepath.Dir(logPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = file
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return nil
}

// Close restores the default logger output and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// Event writes one formatted log line.
func Event(format string, args ...any) {
	log.Println(fmt.Sprintf(format, args...))
}
