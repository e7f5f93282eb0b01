// ABOUTME: Persisted set of previously processed item fingerprints
// ABOUTME: Loaded fully at pipeline start, serialized fully once at the end
package seenset

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Fingerprint returns the deterministic one-way hash of a content URL.
// Equal URLs always yield equal fingerprints, across calls and restarts.
func Fingerprint(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Set is a file-backed fingerprint set. Membership tests happen before
// any mutation, and each story adds its fingerprint at most once after
// its own processing completes, so additions are order-independent.
type Set struct {
	path string

	mu    sync.Mutex
	known map[string]struct{}
	order []string
}

// Load reads the set from disk. A missing file yields an empty set.
func Load(path string) (*Set, error) {
	set := &Set{
		path:  path,
		known: make(map[string]struct{}),
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, fmt.Errorf("failed to open seen set %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, dup := set.known[line]; dup {
			continue
		}
		set.known[line] = struct{}{}
		set.order = append(set.order, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seen set %s: %w", path, err)
	}

	return set, nil
}

// Contains reports membership of a fingerprint.
func (s *Set) Contains(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.known[fingerprint]
	return ok
}

// Add records a fingerprint. Idempotent and safe for concurrent use.
func (s *Set) Add(fingerprint string) {
	if fingerprint == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.known[fingerprint]; dup {
		return
	}
	s.known[fingerprint] = struct{}{}
	s.order = append(s.order, fingerprint)
}

// Len returns the number of known fingerprints.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.order)
}

// Save serializes the full set: loaded entries first, then additions in
// the order they were recorded. Written atomically via rename.
func (s *Set) Save() error {
	s.mu.Lock()
	lines := make([]string, len(s.order))
	copy(lines, s.order)
	s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create seen set directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}

	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write seen set: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace seen set: %w", err)
	}

	return nil
}
