// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package token

import (
	"reflect"
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	got := Tokenize([]byte("The quick-brown Fox, jumps!"))
	want := []string{"the", "quick", "brown", "fox", "jumps"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenizeMinLength(t *testing.T) {
	got := Tokenize([]byte("a bb c dd x"))
	want := []string{"bb", "dd"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("single-rune tokens not filtered: got %v, want %v", got, want)
	}
}

func TestTokenizeDigitsAndIdentifiers(t *testing.T) {
	got := Tokenize([]byte("http2 server_v3 camelCase"))
	want := []string{"http2", "server", "v3", "camelcase"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenizeInvalidUTF8(t *testing.T) {
	// 0xff can never start a valid UTF-8 sequence; it must split tokens,
	// not abort tokenization.
	content := []byte("hello\xffworld trailing")
	got := Tokenize(content)
	want := []string{"hello", "world", "trailing"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize(nil); len(got) != 0 {
		t.Errorf("expected no terms, got %v", got)
	}
	if got := Tokenize([]byte("  \t\n ")); len(got) != 0 {
		t.Errorf("expected no terms for whitespace, got %v", got)
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	content := []byte("repeat repeat repeat terms")
	a := Tokenize(content)
	b := Tokenize(content)
	if !reflect.DeepEqual(a, b) {
		t.Error("tokenization is not deterministic")
	}
}

func TestTermFrequency(t *testing.T) {
	freq, total := TermFrequency([]string{"go", "go", "fast"})
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if freq["go"] != 2 || freq["fast"] != 1 {
		t.Errorf("unexpected frequencies: %v", freq)
	}
}

func TestPositions(t *testing.T) {
	pos := Positions([]string{"the", "quick", "the"})
	if !reflect.DeepEqual(pos["the"], []int{0, 2}) {
		t.Errorf("positions for 'the' = %v, want [0 2]", pos["the"])
	}
	if !reflect.DeepEqual(pos["quick"], []int{1}) {
		t.Errorf("positions for 'quick' = %v, want [1]", pos["quick"])
	}
}
