// Package artifact owns the synthesized audio files. Each session has a
// single "current" slot: a new synthesis supersedes the previous file, the
// last writer wins, and readers always see a complete file or nothing.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"krishigo/pkg/model"
)

// DefaultSession is the slot used by single-user deployments where the
// client does not send a session ID.
const DefaultSession = "default"

// Store manages audio artifacts on disk.
type Store struct {
	dir     string
	ownsDir bool // created via MkdirTemp, removed on Close

	mu      sync.Mutex
	current map[string]*model.AudioArtifact // session -> current artifact
}

// NewStore creates a store rooted at dir. An empty dir means a fresh
// temporary directory that is removed on Close.
func NewStore(dir string) (*Store, error) {
	ownsDir := false
	if dir == "" {
		tmp, err := os.MkdirTemp("", "krishigo-audio-*")
		if err != nil {
			return nil, fmt.Errorf("create artifact dir: %w", err)
		}
		dir = tmp
		ownsDir = true
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	return &Store{
		dir:     dir,
		ownsDir: ownsDir,
		current: make(map[string]*model.AudioArtifact),
	}, nil
}

// NewPath reserves a fresh uuid-based file path for a synthesis call. The
// file is not registered until Publish succeeds, so a failed synthesis never
// replaces a working artifact.
func (s *Store) NewPath(format string) string {
	return filepath.Join(s.dir, uuid.New().String()+"."+format)
}

// Publish makes path the current artifact for session, deleting whatever it
// supersedes. Concurrent publishers race safely: the slot always points at
// one complete file and the loser's file is removed.
func (s *Store) Publish(session, path, format string, lang model.Language) *model.AudioArtifact {
	if session == "" {
		session = DefaultSession
	}
	art := &model.AudioArtifact{
		Path:      path,
		Format:    format,
		Language:  lang,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	prev := s.current[session]
	s.current[session] = art
	s.mu.Unlock()

	if prev != nil && prev.Path != path {
		_ = os.Remove(prev.Path)
	}
	return art
}

// Current returns the artifact for session, or false when none exists or the
// file has since disappeared.
func (s *Store) Current(session string) (*model.AudioArtifact, bool) {
	if session == "" {
		session = DefaultSession
	}

	s.mu.Lock()
	art := s.current[session]
	s.mu.Unlock()

	if art == nil {
		return nil, false
	}
	if _, err := os.Stat(art.Path); err != nil {
		return nil, false
	}
	return art, true
}

// Discard removes a file that was reserved with NewPath but never published,
// e.g. after a failed synthesis.
func (s *Store) Discard(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

// Close deletes all current artifacts and, for temporary stores, the
// directory itself.
func (s *Store) Close() error {
	s.mu.Lock()
	for session, art := range s.current {
		_ = os.Remove(art.Path)
		delete(s.current, session)
	}
	s.mu.Unlock()

	if s.ownsDir {
		return os.RemoveAll(s.dir)
	}
	return nil
}
