package listener

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// ZipDecompressListener extracts an archive into a target directory
// before a run starts, so jobs can read inputs delivered as archives.
// Extraction failures are logged and do not stop the run; the reader's
// own open failure surfaces the problem to the engine.
type ZipDecompressListener struct {
	core.NoopJobListener
	archivePath string
	targetDir   string
}

// NewZipDecompressListener creates a listener that unpacks the archive at
// archivePath into targetDir before every run.
func NewZipDecompressListener(archivePath, targetDir string) *ZipDecompressListener {
	return &ZipDecompressListener{archivePath: archivePath, targetDir: targetDir}
}

func (l *ZipDecompressListener) BeforeJobStart(ctx context.Context, parameters core.JobParameters) {
	if err := l.decompress(); err != nil {
		logger.Errorf("failed to decompress %s into %s: %v", l.archivePath, l.targetDir, err)
		return
	}
	logger.Infof("decompressed %s into %s", l.archivePath, l.targetDir)
}

func (l *ZipDecompressListener) decompress() error {
	zr, err := zip.OpenReader(l.archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	if err := os.MkdirAll(l.targetDir, 0o755); err != nil {
		return err
	}
	for _, entry := range zr.File {
		if err := extractEntry(entry, l.targetDir); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, targetDir string) error {
	target := filepath.Join(targetDir, filepath.FromSlash(entry.Name))
	// Entries must stay inside the target directory.
	if !strings.HasPrefix(target, filepath.Clean(targetDir)+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry %q escapes the target directory", entry.Name)
	}
	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

var _ core.JobListener = (*ZipDecompressListener)(nil)
