package listener

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	core "github.com/tigerroll/simplebatch/pkg/batch/job/core"
	logger "github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

// ZipCompressListener archives files or directories into a zip file once
// a run ends, regardless of the run outcome. Archiving failures are
// logged and never change the outcome.
type ZipCompressListener struct {
	core.NoopJobListener
	archivePath string
	sources     []string
}

// NewZipCompressListener creates a listener that packs sources into the
// archive at archivePath after every run.
func NewZipCompressListener(archivePath string, sources ...string) *ZipCompressListener {
	return &ZipCompressListener{archivePath: archivePath, sources: sources}
}

func (l *ZipCompressListener) AfterJobEnd(ctx context.Context, report *core.JobReport) {
	if err := l.compress(); err != nil {
		logger.Errorf("failed to compress %v into %s: %v", l.sources, l.archivePath, err)
		return
	}
	logger.Infof("compressed %d source(s) into %s", len(l.sources), l.archivePath)
}

func (l *ZipCompressListener) compress() error {
	out, err := os.Create(l.archivePath)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(out)
	for _, source := range l.sources {
		if err := addPath(zw, source); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// addPath adds a file, or a directory tree rooted under the directory's
// own name, to the archive.
func addPath(zw *zip.Writer, source string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return addFile(zw, source, filepath.Base(source))
	}

	root := filepath.Base(source)
	return filepath.WalkDir(source, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		name := root
		if rel != "." {
			name = filepath.Join(root, rel)
		}
		name = filepath.ToSlash(name)
		if d.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		return addFile(zw, path, name)
	})
}

func addFile(zw *zip.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, file)
	return err
}

var _ core.JobListener = (*ZipCompressListener)(nil)
