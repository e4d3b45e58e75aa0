package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/pgzip"
)

// Archive mirrors remote files under Dir, keeping the URL path layout and
// appending a .gz suffix.
type Archive struct {
	Dir string
}

// NewArchive returns an archive rooted at dir.
func NewArchive(dir string) *Archive {
	return &Archive{Dir: dir}
}

// Path maps a remote URL to its archived file path.
func (a *Archive) Path(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	rel := strings.TrimPrefix(u.Path, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return "", fmt.Errorf("invalid archive path for %q", rawURL)
	}
	return filepath.Join(a.Dir, filepath.FromSlash(rel)) + ".gz", nil
}

// Has reports whether a non-empty archived copy of rawURL exists.
func (a *Archive) Has(rawURL string) bool {
	path, err := a.Path(rawURL)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// Store compresses data into the archive. The file is written to a temp path
// and renamed into place. Returns the compressed size.
func (a *Archive) Store(rawURL string, data []byte) (int64, error) {
	destPath, err := a.Path(rawURL)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("create directory failed: %w", err)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create file failed: %w", err)
	}

	gz, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, err
	}
	gz.Name = filepath.Base(strings.TrimSuffix(destPath, ".gz"))

	if _, err := gz.Write(data); err != nil {
		gz.Close()
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("compress failed: %w", err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("compress failed: %w", err)
	}

	info, err := f.Stat()
	f.Close()
	if err != nil {
		os.Remove(tmpPath)
		return 0, err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("rename failed: %w", err)
	}
	return info.Size(), nil
}

// ArchiveSource replays an Archive as a Source.
type ArchiveSource struct {
	archive *Archive
}

// NewArchiveSource reads files previously stored under dir.
func NewArchiveSource(dir string) *ArchiveSource {
	return &ArchiveSource{archive: NewArchive(dir)}
}

// Fetch returns the decompressed archived copy of rawURL.
func (s *ArchiveSource) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.archive.Path(rawURL)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("gzip open %s: %w", path, err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("gzip read %s: %w", path, err)
	}
	return data, nil
}

var _ Source = (*ArchiveSource)(nil)
