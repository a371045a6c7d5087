// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"strings"
	"testing"
)

func TestRenderPlainText(t *testing.T) {
	r := New(80, 0)
	out := r.Render("notes.txt", []byte("just a plain line"))
	if !strings.Contains(out, "plain line") {
		t.Fatalf("plain content lost: %q", out)
	}
}

func TestRenderGoSource(t *testing.T) {
	r := New(80, 0)
	src := "package main\n\nfunc main() {}\n"
	out := r.Render("main.go", []byte(src))
	if !strings.Contains(out, "main") {
		t.Fatalf("source text lost: %q", out)
	}
}

func TestRenderMarkdownKeepsText(t *testing.T) {
	r := New(80, 0)
	out := r.Render("README.md", []byte("# Title\n\nSome body text.\n"))
	if !strings.Contains(out, "Title") || !strings.Contains(out, "body text") {
		t.Fatalf("markdown text lost: %q", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	r := New(80, 0)
	if out := r.Render("empty.txt", nil); strings.TrimSpace(stripEllipsis(out)) != "" {
		t.Fatalf("expected empty render, got %q", out)
	}
}

func TestCapLines(t *testing.T) {
	text := "one\ntwo\nthree\nfour\n"
	got := capLines(text, 2)
	if !strings.HasPrefix(got, "one\ntwo") {
		t.Fatalf("kept lines wrong: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("missing truncation marker: %q", got)
	}
	if capLines(text, 0) != text {
		t.Fatal("zero budget must not truncate")
	}
	if capLines("short\n", 10) != "short\n" {
		t.Fatal("under-budget text must pass through")
	}
}

func TestSetWidthIsIdempotent(t *testing.T) {
	r := New(80, 0)
	r.SetWidth(80)
	r.SetWidth(40)
	out := r.Render("README.md", []byte("a reasonably long markdown paragraph for wrapping"))
	if out == "" {
		t.Fatal("render after resize produced nothing")
	}
}

func stripEllipsis(s string) string {
	return strings.ReplaceAll(s, "…", "")
}
