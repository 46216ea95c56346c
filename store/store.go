package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store manages the two filesystem namespaces of the service: the ephemeral
// upload directory and the artifact directory served under /audio/.
type Store struct {
	uploadDir string
	audioDir  string
}

// New creates a Store rooted at the given upload and public directories.
// Directories are created lazily on first write.
func New(uploadDir, publicDir string) (*Store, error) {
	if uploadDir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if publicDir == "" {
		return nil, fmt.Errorf("public directory is required")
	}
	return &Store{
		uploadDir: uploadDir,
		audioDir:  filepath.Join(publicDir, "audio"),
	}, nil
}

// AudioDir returns the directory artifacts are written to.
func (s *Store) AudioDir() string {
	return s.audioDir
}

// SaveUpload persists an uploaded audio body under
// <uploadDir>/<epoch-millis>-<sanitized-name> and returns the absolute path.
func (s *Store) SaveUpload(src io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(originalName))
	path, err := filepath.Abs(filepath.Join(s.uploadDir, name))
	if err != nil {
		return "", err
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return path, nil
}

// Remove deletes an uploaded input file. Best effort; the caller ignores
// the result on the success path.
func (s *Store) Remove(path string) error {
	return os.Remove(path)
}

// SaveArtifact persists synthesized audio under
// <publicDir>/audio/response_<epoch-millis>_<suffix>.mp3 and returns the
// bare filename. The random suffix closes the same-millisecond collision
// window between concurrent requests.
func (s *Store) SaveArtifact(audio []byte) (string, error) {
	if err := os.MkdirAll(s.audioDir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	suffix := strings.Split(uuid.NewString(), "-")[0]
	name := fmt.Sprintf("response_%d_%s.mp3", time.Now().UnixMilli(), suffix)

	if err := os.WriteFile(filepath.Join(s.audioDir, name), audio, 0644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	return name, nil
}

// sanitizeName strips any path components and unsafe runes from a
// client-supplied filename.
func sanitizeName(name string) string {
	name = filepath.Base(filepath.Clean(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "audio"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return "audio"
	}
	return cleaned
}
