// Package archive finds pending source reports and moves processed ones out
// of the source directory.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"ledgerconv/internal/fileutil"
)

// SourceExt is the extension of source reports.
const SourceExt = ".csv"

// ErrArchiveExists is returned when the archive already holds a file with the
// same name.
var ErrArchiveExists = errors.New("archive file already exists")

// Scan returns the source reports directly under dir, sorted by name.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan source dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if IsSource(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// IsSource reports whether name looks like a source report.
func IsSource(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), SourceExt)
}

// Archiver moves processed reports under <root>/<year>/.
type Archiver struct {
	Root string
}

// Destination returns where src will be archived for year.
func (a Archiver) Destination(src, year string) string {
	return filepath.Join(a.Root, year, filepath.Base(src))
}

// CheckFree returns an error wrapping ErrArchiveExists when the archive
// already holds src for year.
func (a Archiver) CheckFree(src, year string) error {
	dst := a.Destination(src, year)
	exists, err := fileutil.Exists(dst)
	if err != nil {
		return fmt.Errorf("stat archive target: %w", err)
	}
	if exists {
		return fmt.Errorf("%s: %w", dst, ErrArchiveExists)
	}
	return nil
}

// Move archives src. The move either completes or leaves src in place: a
// rename is tried first, and across filesystems the file is copied to a temp
// name, verified, renamed into place, and only then removed from the source.
func (a Archiver) Move(src, year string) (string, error) {
	dst := a.Destination(src, year)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	if err := a.CheckFree(src, year); err != nil {
		return "", err
	}

	err := os.Rename(src, dst)
	if err == nil {
		return dst, nil
	}
	if !isCrossDevice(err) {
		return "", fmt.Errorf("archive %s: %w", src, err)
	}

	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".partial")
	if err := fileutil.CopyFileVerified(src, tmp); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("copy %s to archive: %w", src, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize archive copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return dst, fmt.Errorf("remove archived source %s: %w", src, err)
	}
	return dst, nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return false
}
