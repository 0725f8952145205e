package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBranch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/feature/tabs\n")
	writeFile(t, filepath.Join(dir, "src", "main.go"), "package main\n")

	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(dir, "src", "main.go"), "feature/tabs"},
		{filepath.Join(dir, "src"), "feature/tabs"},
		{filepath.Join(dir, "src", "unsaved.go"), "feature/tabs"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Branch(tt.path); got != tt.want {
			t.Fatalf("Branch(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestBranchDetachedAndWorktree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "repo", ".git", "HEAD"), "0123456789abcdef\n")
	if got := Branch(filepath.Join(dir, "repo", "a.txt")); got != "detached:0123456" {
		t.Fatalf("detached = %q", got)
	}

	writeFile(t, filepath.Join(dir, "meta", "HEAD"), "ref: refs/heads/wt\n")
	writeFile(t, filepath.Join(dir, "wt", ".git"), "gitdir: ../meta\n")
	if got := Branch(filepath.Join(dir, "wt", "b.txt")); got != "wt" {
		t.Fatalf("worktree = %q, want wt", got)
	}
}

func TestBranchOutsideRepo(t *testing.T) {
	if got := Branch(filepath.Join(t.TempDir(), "x.txt")); got != "" && got != Branch(os.TempDir()) {
		t.Fatalf("Branch outside repo = %q", got)
	}
}

func TestTrackerCaches(t *testing.T) {
	dir := t.TempDir()
	head := filepath.Join(dir, ".git", "HEAD")
	writeFile(t, head, "ref: refs/heads/main\n")
	file := filepath.Join(dir, "a.txt")

	now := time.Unix(100, 0)
	tr := NewTracker(2 * time.Second)
	tr.now = func() time.Time { return now }
	if got := tr.Branch(file); got != "main" {
		t.Fatalf("Branch = %q, want main", got)
	}
	writeFile(t, head, "ref: refs/heads/dev\n")
	if got := tr.Branch(file); got != "main" {
		t.Fatalf("cached Branch = %q, want main", got)
	}
	now = now.Add(3 * time.Second)
	if got := tr.Branch(file); got != "dev" {
		t.Fatalf("refreshed Branch = %q, want dev", got)
	}
}
