// Package publish ships generated JSON files to the web data directory.
package publish

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/usms-records/internal/logger"
)

// Publisher copies pipeline outputs into a destination directory where
// the website picks them up.
type Publisher struct {
	destDir string
	log     *logger.Logger
}

// New creates a Publisher targeting destDir.
func New(destDir string) *Publisher {
	return &Publisher{
		destDir: destDir,
		log:     logger.Default(),
	}
}

// Publish copies the file at srcPath into the destination directory
// under the same base name, creating the directory first. The copy is
// byte-for-byte; it returns the destination path.
func (p *Publisher) Publish(srcPath string) (string, error) {
	if err := os.MkdirAll(p.destDir, 0755); err != nil {
		return "", fmt.Errorf("creating web data directory: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer src.Close()

	destPath := filepath.Join(p.destDir, filepath.Base(srcPath))
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", destPath, err)
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		return "", fmt.Errorf("copying to %s: %w", destPath, err)
	}
	if err := dest.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", destPath, err)
	}

	p.log.Info("published", logger.Fields{"src": srcPath, "dest": destPath})
	return destPath, nil
}
