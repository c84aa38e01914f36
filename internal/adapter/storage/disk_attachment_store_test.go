package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, maxBytes int64) (*DiskAttachmentStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewDiskAttachmentStore(dir, maxBytes)
	require.NoError(t, err)
	return s, dir
}

func TestStoreNamesBlobAfterOwner(t *testing.T) {
	s, dir := newStore(t, 0)

	ref, err := s.Store("order-123", strings.NewReader("payload"), "receipt.png")
	require.NoError(t, err)
	assert.Equal(t, "order-123.png", ref)

	raw, err := os.ReadFile(filepath.Join(dir, ref))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(raw))
}

func TestStoreDefaultsExtension(t *testing.T) {
	s, _ := newStore(t, 0)

	ref, err := s.Store("order-1", strings.NewReader("x"), "proof")
	require.NoError(t, err)
	assert.Equal(t, "order-1.jpg", ref)
}

func TestStoreRejectsOversizedInput(t *testing.T) {
	s, dir := newStore(t, 16)

	_, err := s.Store("big", bytes.NewReader(make([]byte, 17)), "big.jpg")
	require.ErrorIs(t, err, ErrTooLarge)

	// nothing persisted, scratch file included
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreAcceptsExactLimit(t *testing.T) {
	s, _ := newStore(t, 16)

	ref, err := s.Store("edge", bytes.NewReader(make([]byte, 16)), "edge.jpg")
	require.NoError(t, err)
	assert.Equal(t, "edge.jpg", ref)
}

func TestOpenReturnsStoredBytes(t *testing.T) {
	s, _ := newStore(t, 0)

	ref, err := s.Store("o1", strings.NewReader("blob bytes"), "p.jpg")
	require.NoError(t, err)

	rc, err := s.Open(ref)
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "blob bytes", string(raw))
}

func TestSuccessfulStoreLeavesNoScratchFiles(t *testing.T) {
	s, dir := newStore(t, 0)

	_, err := s.Store("o1", strings.NewReader("a"), "a.jpg")
	require.NoError(t, err)
	_, err = s.Store("o2", strings.NewReader("b"), "b.jpg")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".upload-"))
	}
}
