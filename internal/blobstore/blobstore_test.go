package blobstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestPutAndGet(t *testing.T) {
	s := newTestStore(t)

	docID, err := s.Put([]byte("hello world"), "report.pdf", PartitionBulk)
	require.NoError(t, err)
	require.Len(t, docID, 16)

	path, err := s.Get(docID, PartitionBulk)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestPutIsIdempotentByContent(t *testing.T) {
	s := newTestStore(t)

	id1, err := s.Put([]byte("same bytes"), "a.pdf", PartitionFresh)
	require.NoError(t, err)
	id2, err := s.Put([]byte("same bytes"), "b.pdf", PartitionFresh)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	entries, err := s.List(PartitionFresh)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPutInvalidPartitionFallsBackToFresh(t *testing.T) {
	s := newTestStore(t)
	docID, err := s.Put([]byte("data"), "x.pdf", Partition("bogus"))
	require.NoError(t, err)
	_, err = s.Get(docID, PartitionFresh)
	require.NoError(t, err)
}

func TestGetUnknownDocIDReturnsCanonicalPath(t *testing.T) {
	s := newTestStore(t)
	path, err := s.Get("0000000000000000", PartitionBulk)
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestListAcrossPartitions(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Put([]byte("a"), "a.pdf", PartitionBulk)
	require.NoError(t, err)
	_, err = s.Put([]byte("b"), "b.pdf", PartitionViewer)
	require.NoError(t, err)

	entries, err := s.List("")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	docID, err := s.Put([]byte("to delete"), "del.pdf", PartitionBulk)
	require.NoError(t, err)

	removed, err := s.Delete(docID, PartitionBulk)
	require.NoError(t, err)
	assert.True(t, removed)

	removedAgain, err := s.Delete(docID, PartitionBulk)
	require.NoError(t, err)
	assert.False(t, removedAgain)
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Put([]byte("a"), "a.pdf", PartitionBulk)
	require.NoError(t, err)
	_, err = s.Put([]byte("b"), "b.pdf", PartitionFresh)
	require.NoError(t, err)

	stats := s.ClearAll()
	assert.Equal(t, 2, stats.Removed)
	assert.Zero(t, stats.Failed)

	entries, err := s.List("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMigrateLegacy(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, nil)
	require.NoError(t, err)

	legacyPath := filepath.Join(root, "old_report.pdf")
	require.NoError(t, os.WriteFile(legacyPath, []byte("legacy"), 0o644))

	moved, err := s.MigrateLegacy()
	require.NoError(t, err)
	require.Equal(t, 1, moved)

	entries, err := s.List(PartitionViewer)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Filename, "viewer_"))
}

func TestHealthCheck(t *testing.T) {
	s := newTestStore(t)
	health := s.HealthCheck()
	for _, p := range Partitions {
		assert.Truef(t, health[p], "partition %s reported unhealthy", p)
	}
}

func TestDocIDStableForSameContent(t *testing.T) {
	id1, err := DocID(strings.NewReader("consistent content"))
	require.NoError(t, err)
	id2, err := DocID(strings.NewReader("consistent content"))
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}
