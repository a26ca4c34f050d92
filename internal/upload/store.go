// Package upload stores product images on local disk under randomly
// suffixed names so concurrent uploads of the same filename never collide.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type Store struct {
	Dir string
}

func NewStore(dir string) *Store { return &Store{Dir: dir} }

// Save writes the uploaded file and returns the public path under /uploads.
// Orphaned files from a replaced image are intentionally left in place;
// cleanup is out of scope.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := sanitize(header.Filename)
	stored := uuid.NewString()[:8] + "-" + name
	dst, err := os.Create(filepath.Join(s.Dir, stored))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return "/uploads/" + stored, nil
}

func sanitize(name string) string {
	name = filepath.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || name == "." {
		name = "file"
	}
	// keep stored names short; extensions survive the cut unless the
	// extension itself blows the cap (then it is cut like anything else)
	if len(name) > 80 {
		ext := filepath.Ext(name)
		if len(ext) >= 80 {
			name = name[:80]
		} else {
			name = name[:80-len(ext)] + ext
		}
	}
	return strings.ToLower(name)
}
