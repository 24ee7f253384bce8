package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatchedInputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "sub", "b.json")
	wi, err := newWatchedInputs([]string{a, b, a})
	if err != nil {
		t.Fatalf("newWatchedInputs: %v", err)
	}
	if len(wi.dirs) != 2 {
		t.Errorf("watching %v, want the two parent directories", wi.dirs)
	}

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: a, Op: fsnotify.Write}, true},
		{"replaced by rename", fsnotify.Event{Name: b, Op: fsnotify.Create}, true},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "a.json~"), Op: fsnotify.Write}, false},
		{"removed", fsnotify.Event{Name: a, Op: fsnotify.Remove}, false},
		{"chmod", fsnotify.Event{Name: a, Op: fsnotify.Chmod}, false},
	}
	for _, tt := range tests {
		if got := wi.triggers(tt.ev); got != tt.want {
			t.Errorf("%s: triggers(%v) = %v, want %v", tt.name, tt.ev, got, tt.want)
		}
	}
}

func TestWatchedInputsSurviveRenameSave(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "shader.json")
	if err := os.WriteFile(in, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	wi, err := newWatchedInputs([]string{in})
	if err != nil {
		t.Fatal(err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	for _, d := range wi.dirs {
		if err := w.Add(d); err != nil {
			t.Fatal(err)
		}
	}

	// Save twice the way editors do: write a temporary file, rename it over the input.
	for i := range 2 {
		tmp := filepath.Join(dir, ".shader.json.swp")
		if err := os.WriteFile(tmp, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Rename(tmp, in); err != nil {
			t.Fatal(err)
		}
		timeout := time.After(5 * time.Second)
	wait:
		for {
			select {
			case ev := <-w.Events:
				if wi.triggers(ev) {
					break wait
				}
			case err := <-w.Errors:
				t.Fatalf("watch error: %v", err)
			case <-timeout:
				t.Fatalf("save %d: no event for %s", i+1, in)
			}
		}
	}
}
