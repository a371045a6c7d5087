// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "seekr.log")
	if err := Init(path); err != nil {
		t.Fatal(err)
	}
	defer Close()

	Event("cycle finished: %d added", 3)

	if err := Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "cycle finished: 3 added") {
		t.Fatalf("log line missing: %q", string(data))
	}
}

func TestInitAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seekr.log")

	if err := Init(path); err != nil {
		t.Fatal(err)
	}
	Event("first")
	Close()

	if err := Init(path); err != nil {
		t.Fatal(err)
	}
	Event("second")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("expected both sessions in log: %q", out)
	}
}

func TestInitEmptyPathDiscards(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	defer Close()
	Event("goes nowhere")
}

func TestCloseWithoutInit(t *testing.T) {
	if err := Close(); err != nil {
		t.Fatal(err)
	}
}
