package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ADRIANPANEL/Web-order-adrian/internal/usecase"
)

const defaultExt = ".jpg"

var ErrTooLarge = errors.New("attachment exceeds size limit")

// DiskAttachmentStore writes proof blobs into a flat directory served by the
// static-hosting layer. The stored name is the owning order's id plus the
// declared extension, so references cannot collide across orders.
type DiskAttachmentStore struct {
	dir      string
	maxBytes int64
}

func NewDiskAttachmentStore(dir string, maxBytes int64) (*DiskAttachmentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20 // 5 MiB
	}
	return &DiskAttachmentStore{dir: dir, maxBytes: maxBytes}, nil
}

// Store streams src to a temp file and renames it to <ownerID><ext> once the
// whole blob is on disk. Oversized input returns ErrTooLarge with nothing
// persisted.
func (s *DiskAttachmentStore) Store(ownerID string, src io.Reader, declaredName string) (string, error) {
	ext := filepath.Ext(declaredName)
	if ext == "" {
		ext = defaultExt
	}
	ref := ownerID + ext

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("scratch file: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	// Read one byte past the cap to detect oversize without buffering it all.
	n, err := io.Copy(tmp, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}
	if n > s.maxBytes {
		return "", ErrTooLarge
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	name := tmp.Name()
	if err := tmp.Close(); err != nil {
		return "", err
	}
	tmp = nil
	if err := os.Rename(name, filepath.Join(s.dir, ref)); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("commit attachment: %w", err)
	}
	return ref, nil
}

// Open returns the stored blob for reading (used by the notifier).
func (s *DiskAttachmentStore) Open(ref string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, filepath.Base(ref)))
}

// Path reports where a stored reference lives on disk.
func (s *DiskAttachmentStore) Path(ref string) string {
	return filepath.Join(s.dir, filepath.Base(ref))
}

var _ usecase.AttachmentStore = (*DiskAttachmentStore)(nil)
