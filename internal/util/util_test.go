// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := AtomicWriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("got %q, want %q", data, "first")
	}

	// Overwrite must replace, not append.
	if err := AtomicWriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("got %q, want %q", data, "second")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".seekr-tmp-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestAtomicWriteFileCreatesParent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "out.txt")

	if err := AtomicWriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hi", 0, ""},
		{"abcdef", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := TruncateWidth(tt.in, tt.width); got != tt.want {
			t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTruncatePathLeft(t *testing.T) {
	got := TruncatePathLeft("/very/long/path/to/some/file.go", 15)
	if !strings.HasSuffix(got, "file.go") {
		t.Errorf("base name lost: %q", got)
	}
	if !strings.HasPrefix(got, "…") {
		t.Errorf("missing left marker: %q", got)
	}

	short := TruncatePathLeft("a/b.go", 20)
	if short != "a/b.go" {
		t.Errorf("short path altered: %q", short)
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  a\t\tb \n c  "); got != "a b c" {
		t.Errorf("got %q", got)
	}
}
