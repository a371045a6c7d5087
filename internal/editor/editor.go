// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor resolves and builds the command that opens a result file.
package editor

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoEditor is returned when no usable editor could be found.
var ErrNoEditor = errors.New("no editor found")

// fallbacks are tried, in order, when neither config nor environment names
// an editor.
var fallbacks = []string{"nano", "vim", "vi"}

// Resolve picks the editor command: configured entries win in order, then
// $VISUAL, then $EDITOR, then the first fallback present on PATH. The
// returned string may contain arguments ("code --wait").
func Resolve(configured []string) (string, error) {
	candidates := append(append([]string{}, configured...), os.Getenv("VISUAL"), os.Getenv("EDITOR"))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		name := strings.Fields(candidate)[0]
		if _, err := exec.LookPath(name); err == nil {
			return candidate, nil
		}
	}
	for _, name := range fallbacks {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", ErrNoEditor
}

// Command builds the exec.Cmd opening path with the resolved editor string.
// The path is made absolute so the editor's working directory does not
// matter.
func Command(editor, path string) (*exec.Cmd, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil, ErrNoEditor
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	args := append(fields[1:], abs)
	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}
