package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/noteflow-ai/noteflow/internal/errors"
)

// MaxUploadSize is the upload size cap (500MB)
const MaxUploadSize = 500 * 1024 * 1024

// Allowed upload extensions per content kind
var (
	audioExtensions = map[string]bool{
		".mp3": true, ".wav": true, ".m4a": true, ".ogg": true,
		".flac": true, ".webm": true, ".opus": true,
	}
	bookExtensions = map[string]bool{
		".pdf": true, ".epub": true, ".txt": true, ".md": true,
		".docx": true, ".doc": true,
	}
	videoExtensions = map[string]bool{
		".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
		".webm": true, ".flv": true, ".m4v": true,
	}
)

// IsAllowedAudio reports whether filename has a supported audio extension
func IsAllowedAudio(filename string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsAllowedBook reports whether filename has a supported document extension
func IsAllowedBook(filename string) bool {
	return bookExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsAllowedVideo reports whether filename has a supported video extension
func IsAllowedVideo(filename string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Store manages uploaded files on local disk
type Store interface {
	// SaveUpload writes an uploaded stream under a collision-resistant name
	// and returns the stored path
	SaveUpload(filename string, r io.Reader) (string, error)
	// CleanOldFiles removes stored files older than maxAge
	CleanOldFiles(maxAge time.Duration) error
}

type store struct {
	dir string
	now func() time.Time
}

// NewStore creates a Store rooted at dir, creating it if needed
func NewStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create upload directory")
	}
	return &store{
		dir: dir,
		now: time.Now,
	}, nil
}

// SaveUpload stores the stream as <unix-timestamp>_<sanitized-name>. The
// timestamp prefix keeps repeated uploads of the same file from colliding.
func (s *store) SaveUpload(filename string, r io.Reader) (string, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return "", errors.New(errors.CodeInvalidArg, "invalid filename")
	}

	stored := fmt.Sprintf("%d_%s", s.now().Unix(), name)
	path := filepath.Join(s.dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to create upload file")
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		os.Remove(path)
		return "", errors.Wrap(err, errors.CodeInternal, "failed to write upload")
	}
	if written > MaxUploadSize {
		os.Remove(path)
		return "", errors.New(errors.CodeInvalidArg, "file exceeds the 500MB upload limit")
	}

	return path, nil
}

// CleanOldFiles removes files whose modification time is older than maxAge.
// Best-effort: individual removal failures are logged and skipped.
func (s *store) CleanOldFiles(maxAge time.Duration) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to read upload directory")
	}

	cutoff := s.now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove stale upload")
		}
	}
	return nil
}

// sanitizeFilename keeps the base name and replaces characters that are
// unsafe in a path component
func sanitizeFilename(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
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
	return strings.Trim(b.String(), "._")
}
