// Package uploads validates and saves user file attachments. The intake
// engine only ever reads the returned descriptor, never the raw bytes.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxSize is the attachment size cap in bytes.
const MaxSize = 16 << 20 // 16MB

// allowedExtensions is the closed set of accepted attachment types.
var allowedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".pdf": true, ".doc": true, ".docx": true, ".txt": true,
}

// Descriptor summarizes a saved upload.
type Descriptor struct {
	Filename   string `json:"filename"`    // original name, sanitized
	StoredName string `json:"stored_name"` // uniquified on-disk name
	Path       string `json:"path"`
	Type       string `json:"type"` // MIME type
	Size       int64  `json:"size"`
}

// IsAllowed reports whether a file with the given name and MIME type
// may be uploaded.
func IsAllowed(filename, mimetype string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return false
	}
	// MIME type is advisory; reject only the obviously executable.
	return !strings.HasPrefix(mimetype, "application/x-")
}

// Save writes the upload to destDir under a timestamp-uniquified name
// and returns its descriptor. Reads at most MaxSize+1 bytes and rejects
// anything larger.
func Save(r io.Reader, filename, mimetype, destDir string) (*Descriptor, error) {
	clean := sanitize(filename)
	if clean == "" {
		return nil, fmt.Errorf("invalid filename %q", filename)
	}
	if !IsAllowed(clean, mimetype) {
		return nil, fmt.Errorf("file type not allowed: %s", clean)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	ext := filepath.Ext(clean)
	base := strings.TrimSuffix(clean, ext)
	stored := fmt.Sprintf("%s_%d%s", base, time.Now().Unix(), ext)
	path := filepath.Join(destDir, stored)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, io.LimitReader(r, MaxSize+1))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing upload: %w", err)
	}
	if size > MaxSize {
		os.Remove(path)
		return nil, fmt.Errorf("file too large: exceeds %d bytes", int64(MaxSize))
	}

	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	return &Descriptor{
		Filename:   clean,
		StoredName: stored,
		Path:       path,
		Type:       mimetype,
		Size:       size,
	}, nil
}

// sanitize strips path components and characters that could escape the
// upload directory.
func sanitize(filename string) string {
	clean := filepath.Base(strings.TrimSpace(filename))
	clean = strings.ReplaceAll(clean, "..", "")
	var b strings.Builder
	for _, r := range clean {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || strings.Trim(out, "._-") == "" {
		return ""
	}
	return out
}
