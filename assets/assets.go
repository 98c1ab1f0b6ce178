package assets

// This file contains managed screenshot storage. Attached files are copied
// into an assets directory next to the data file and referenced by a
// relative path, so the data file and its assets can move together.

import (
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Manager copies screenshots into Dir.
type Manager struct {
	logger zerolog.Logger
	// Directory the data file lives in; stored references are relative to it
	baseDir string
	// Directory attached files are copied into
	dir string
}

// New returns a manager that stores files in dir. A relative dir is taken
// relative to baseDir.
func New(logger zerolog.Logger, baseDir, dir string) *Manager {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, dir)
	}
	return &Manager{logger: logger, baseDir: baseDir, dir: dir}
}

// Dir returns the directory attached files are stored in.
func (m *Manager) Dir() string { return m.dir }

// Attach copies src into the assets directory under a content-addressed
// name and returns its path relative to the data file directory. Attaching
// the same content twice yields the same reference.
func (m *Manager) Attach(src string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read screenshot: %w", err)
	}

	hashBytes := sha256.Sum256(data)
	hash := strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(hashBytes[:]))
	name := hash[:26] + strings.ToLower(filepath.Ext(src))
	dest := filepath.Join(m.dir, name)

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create assets directory: %w", err)
	}
	if _, err := os.Stat(dest); err != nil {
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return "", fmt.Errorf("failed to store screenshot: %w", err)
		}
		m.logger.Debug().
			Str("src", src).
			Str("dest", dest).
			Int("size", len(data)).
			Msg("Stored screenshot")
	}

	rel, err := filepath.Rel(m.baseDir, dest)
	if err != nil {
		return dest, nil
	}
	return filepath.ToSlash(rel), nil
}

// Resolver turns stored screenshot references into readable file paths.
type Resolver struct {
	baseDir string
}

// NewResolver resolves relative references against baseDir, the directory
// of the data file.
func NewResolver(baseDir string) Resolver {
	return Resolver{baseDir: baseDir}
}

// Resolve returns the filesystem path for ref. Absolute paths are returned
// unchanged. A relative path that exists next to the data file wins over
// the same path relative to the working directory.
func (r Resolver) Resolve(ref string) string {
	p := filepath.FromSlash(ref)
	if filepath.IsAbs(p) || r.baseDir == "" {
		return p
	}
	candidate := filepath.Join(r.baseDir, p)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return p
}

// ReadFile reads the file behind ref.
func (r Resolver) ReadFile(ref string) ([]byte, error) {
	return os.ReadFile(r.Resolve(ref))
}
