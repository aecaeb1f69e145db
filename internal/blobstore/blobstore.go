// Package blobstore provides typed, content-addressed on-disk storage for
// PDF documents across three partitions: bulk, fresh, and viewer.
package blobstore

import (
	"crypto/sha1"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Partition is one of the three storage compartments.
type Partition string

const (
	PartitionBulk   Partition = "bulk"
	PartitionFresh  Partition = "fresh"
	PartitionViewer Partition = "viewer"
)

// Partitions lists every recognized partition in lookup order.
var Partitions = []Partition{PartitionBulk, PartitionFresh, PartitionViewer}

func (p Partition) dirName() string { return string(p) + "_uploads" }

func (p Partition) valid() bool {
	switch p {
	case PartitionBulk, PartitionFresh, PartitionViewer:
		return true
	default:
		return false
	}
}

var sanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9 \-_.]`)

// sanitizeFilename retains alphanumerics, space, -, _, ., and converts
// spaces to underscores.
func sanitizeFilename(name string) string {
	name = sanitizeRe.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return "file"
	}
	return name
}

// Entry describes one file as seen by a filesystem listing.
type Entry struct {
	Filename  string
	DocID     string
	Path      string
	Partition Partition
	Size      int64
	ModTime   time.Time
}

// ClearStats reports the outcome of a clear_all operation.
type ClearStats struct {
	Removed       int               `json:"removed"`
	Failed        int               `json:"failed"`
	PerPartition  map[Partition]int `json:"per_partition"`
	FailedDetails []string          `json:"failed_details,omitempty"`
}

// Store is a typed, content-addressed PDF blob store.
type Store struct {
	rootDir string
	log     *slog.Logger
}

// New creates a Store rooted at rootDir, ensuring all partition
// directories exist.
func New(rootDir string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{rootDir: rootDir, log: log}
	for _, p := range Partitions {
		if err := os.MkdirAll(s.partitionDir(p), 0755); err != nil {
			return nil, fmt.Errorf("failed to create partition directory %s; %w", p, err)
		}
	}
	return s, nil
}

func (s *Store) partitionDir(p Partition) string {
	return filepath.Join(s.rootDir, p.dirName())
}

// DocID computes the 16-hex-character fingerprint of a document's bytes,
// reading the source in 1MB chunks so large PDFs don't need to be fully
// buffered twice.
func DocID(r io.Reader) (string, error) {
	h := sha1.New()
	buf := make([]byte, 1<<20)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to hash document bytes; %w", err)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16], nil
}

// Put writes data into partition under a name derived from originalName
// and the content fingerprint. Identical bytes always yield the same
// doc_id regardless of filename. If a file with the same partition+doc_id
// already exists, Put is a no-op and just returns the existing doc_id.
func (s *Store) Put(data []byte, originalName string, partition Partition) (string, error) {
	if !partition.valid() {
		partition = PartitionFresh
	}

	docID, err := DocID(strings.NewReader(string(data)))
	if err != nil {
		return "", err
	}

	if existing := s.findByDocID(partition, docID); existing != "" {
		return docID, nil
	}

	var name string
	if originalName == "" {
		name = fmt.Sprintf("%s_%s.pdf", partition, docID)
	} else {
		base := sanitizeFilename(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
		ext := filepath.Ext(originalName)
		if ext == "" {
			ext = ".pdf"
		}
		name = fmt.Sprintf("%s_%s_%s%s", partition, base, docID, ext)
		counter := 1
		for {
			p := filepath.Join(s.partitionDir(partition), name)
			if _, statErr := os.Stat(p); os.IsNotExist(statErr) {
				break
			}
			name = fmt.Sprintf("%s_%s_%s.%d%s", partition, base, docID, counter, ext)
			counter++
		}
	}

	dst := filepath.Join(s.partitionDir(partition), name)
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob %s; %w", dst, err)
	}

	s.log.Info("blob stored", "doc_id", docID, "partition", partition, "path", dst)
	return docID, nil
}

// findByDocID scans partition's directory for a file whose name contains
// docID, returning its path, or "" if not found.
func (s *Store) findByDocID(partition Partition, docID string) string {
	dir := s.partitionDir(partition)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.Contains(e.Name(), docID) {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

// Get locates the on-disk path for docID. If partition is non-empty it is
// searched first; otherwise all three are searched in order. Falling that,
// the legacy flat root directory is checked for migration purposes. If
// nothing is found, the canonical expected path is returned regardless of
// existence; the caller must check.
func (s *Store) Get(docID string, partition Partition) (string, error) {
	if docID == "" {
		return "", fmt.Errorf("doc_id required; %w", errEmptyDocID)
	}

	if partition.valid() {
		if p := s.findByDocID(partition, docID); p != "" {
			return p, nil
		}
	} else {
		for _, p := range Partitions {
			if path := s.findByDocID(p, docID); path != "" {
				return path, nil
			}
		}
	}

	// Legacy flat directory fallback.
	entries, err := os.ReadDir(s.rootDir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.Contains(e.Name(), docID) {
				return filepath.Join(s.rootDir, e.Name()), nil
			}
		}
	}

	// Nothing found; return the canonical expected path so callers can
	// check existence themselves.
	fallbackPartition := partition
	if !fallbackPartition.valid() {
		fallbackPartition = PartitionFresh
	}
	return filepath.Join(s.partitionDir(fallbackPartition), fmt.Sprintf("%s_%s.pdf", fallbackPartition, docID)), nil
}

var errEmptyDocID = fmt.Errorf("empty doc_id")

// List scans partition (or all partitions, if empty) and returns the files
// found. Filesystem-only; never consults any index.
func (s *Store) List(partition Partition) ([]Entry, error) {
	partitions := Partitions
	if partition.valid() {
		partitions = []Partition{partition}
	}

	var out []Entry
	for _, p := range partitions {
		dir := s.partitionDir(p)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			out = append(out, Entry{
				Filename:  e.Name(),
				DocID:     extractDocID(e.Name()),
				Path:      filepath.Join(dir, e.Name()),
				Partition: p,
				Size:      info.Size(),
				ModTime:   info.ModTime(),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// extractDocID pulls the 16-hex doc_id token out of a canonical filename.
// Filenames always embed it as the segment right before the extension
// (optionally followed by a ".<counter>").
func extractDocID(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")
	for i := len(parts) - 1; i >= 0; i-- {
		tok := parts[i]
		if j := strings.IndexByte(tok, '.'); j >= 0 {
			tok = tok[:j]
		}
		if isHex16(tok) {
			return tok
		}
	}
	return ""
}

func isHex16(s string) bool {
	if len(s) != 16 {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			return false
		}
	}
	return true
}

// Delete removes the file identified by docID. If partition is given, only
// that partition is searched.
func (s *Store) Delete(docID string, partition Partition) (bool, error) {
	path, err := s.Get(docID, partition)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to delete %s; %w", path, err)
	}
	return true, nil
}

// ClearAll removes every .pdf file in every partition, reporting
// per-partition counts and errors. No operation ever throws across the
// boundary; failures are accumulated in the returned stats.
func (s *Store) ClearAll() ClearStats {
	stats := ClearStats{PerPartition: make(map[Partition]int)}
	for _, p := range Partitions {
		dir := s.partitionDir(p)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				stats.Failed++
				stats.FailedDetails = append(stats.FailedDetails, fmt.Sprintf("%s: %v", path, err))
				continue
			}
			stats.Removed++
			stats.PerPartition[p]++
		}
	}
	return stats
}

// MigrateLegacy moves any .pdf left in the root store directory into the
// viewer partition with a viewer_ prefix, skipping on filename collision.
func (s *Store) MigrateLegacy() (int, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read store root; %w", err)
	}

	moved := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			continue
		}

		srcPath := filepath.Join(s.rootDir, e.Name())
		destName := e.Name()
		if !strings.HasPrefix(destName, "viewer_") {
			destName = "viewer_" + destName
		}
		destPath := filepath.Join(s.partitionDir(PartitionViewer), destName)

		if _, err := os.Stat(destPath); err == nil {
			s.log.Warn("skipping legacy migration due to collision", "path", srcPath)
			continue
		}

		if err := os.Rename(srcPath, destPath); err != nil {
			s.log.Error("failed to migrate legacy file", "path", srcPath, "error", err)
			continue
		}
		moved++
	}

	return moved, nil
}

// HealthCheck probes each partition directory for writability by creating
// and deleting a sentinel file.
func (s *Store) HealthCheck() map[Partition]bool {
	out := make(map[Partition]bool, len(Partitions))
	for _, p := range Partitions {
		sentinel := filepath.Join(s.partitionDir(p), ".health-check")
		err := os.WriteFile(sentinel, []byte("ok"), 0644)
		if err == nil {
			os.Remove(sentinel)
		}
		out[p] = err == nil
	}
	return out
}

// RootDir returns the store's root directory.
func (s *Store) RootDir() string { return s.rootDir }
