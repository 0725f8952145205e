// Package gitinfo reports which git branch a document belongs to, for the
// status line. It reads .git directly and never runs git.
package gitinfo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var errNoRepo = errors.New("git dir not found")

// Branch returns the checked-out branch of the repository containing
// path, "detached:<hash>" for a detached HEAD, or "" outside a repository.
// path need not exist yet.
func Branch(path string) string {
	if path == "" {
		return ""
	}
	gitDir, err := findGitDir(path)
	if err != nil {
		return ""
	}
	branch, err := readHead(gitDir)
	if err != nil {
		return ""
	}
	return branch
}

type entry struct {
	branch string
	at     time.Time
}

// Tracker caches Branch per directory so the status line can ask on every
// frame. Entries older than maxAge are read again.
type Tracker struct {
	maxAge time.Duration
	now    func() time.Time

	mu   sync.Mutex
	dirs map[string]entry
}

func NewTracker(maxAge time.Duration) *Tracker {
	return &Tracker{maxAge: maxAge, now: time.Now, dirs: make(map[string]entry)}
}

func (t *Tracker) Branch(path string) string {
	if path == "" {
		return ""
	}
	dir := filepath.Dir(path)
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if e, ok := t.dirs[dir]; ok && now.Sub(e.at) < t.maxAge {
		return e.branch
	}
	b := Branch(path)
	t.dirs[dir] = entry{branch: b, at: now}
	return b
}

func findGitDir(path string) (string, error) {
	start := path
	if info, err := os.Stat(start); err != nil || !info.IsDir() {
		start = filepath.Dir(start)
	}
	for {
		gitPath := filepath.Join(start, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath, nil
			}
			// Worktrees and submodules point elsewhere with "gitdir: <dir>".
			if info.Mode().IsRegular() {
				data, err := os.ReadFile(gitPath)
				if err != nil {
					return "", err
				}
				line := strings.TrimSpace(string(data))
				if dir, ok := strings.CutPrefix(line, "gitdir:"); ok {
					dir = strings.TrimSpace(dir)
					if !filepath.IsAbs(dir) {
						dir = filepath.Join(start, dir)
					}
					return dir, nil
				}
			}
		}
		parent := filepath.Dir(start)
		if parent == start {
			return "", errNoRepo
		}
		start = parent
	}
}

func readHead(gitDir string) (string, error) {
	f, err := os.Open(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", errors.New("empty HEAD")
	}
	line := strings.TrimSpace(scanner.Text())
	if ref, ok := strings.CutPrefix(line, "ref:"); ok {
		ref = strings.TrimSpace(ref)
		return strings.TrimPrefix(ref, "refs/heads/"), nil
	}
	if len(line) >= 7 {
		return "detached:" + line[:7], nil
	}
	return "detached", nil
}
