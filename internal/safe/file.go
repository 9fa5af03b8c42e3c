// Package safe provides hardened file and resource helpers.
package safe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// MaxFileSize caps reads of user-editable files such as the config (1MB).
const MaxFileSize = 1 << 20

// ReadFile reads a regular file with guard rails: symlinks are rejected so
// a crafted link cannot pull foreign content into the process, and files
// over MaxFileSize are refused.
func ReadFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)

	// Lstat so a symlink is seen as a symlink, not its target.
	info, err := os.Lstat(cleanPath)
	if err != nil {
		return nil, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("file %q is a symlink, which is not allowed for security reasons", path)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("path %q is not a regular file", path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("file exceeds maximum allowed size of %d bytes", MaxFileSize)
	}

	return os.ReadFile(cleanPath)
}

// Close closes gracefully a Closer interface, handling and logging the error.
func Close(c io.Closer, logger zerolog.Logger, msg string) {
	if err := c.Close(); err != nil {
		logger.Error().Err(err).Msg(msg)
	}
}
