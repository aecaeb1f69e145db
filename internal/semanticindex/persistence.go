package semanticindex

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	vectorMatrixMagic   uint32 = 0x56454331 // "VEC1"
	vectorMatrixVersion uint16 = 1

	metaFileName   = "index.json"
	vectorFileName = "vectors.bin"
)

// vectorMatrixHeader is the binary file header for the persisted vector
// matrix: magic, version, row count and dimensionality.
type vectorMatrixHeader struct {
	Magic      uint32
	Version    uint16
	Dimensions uint16
	RowCount   uint32
}

type metaFile struct {
	Chunks []Chunk `json:"sections"`
}

// save writes the index's chunk metadata as JSON and its vector matrix as a
// flat binary file under dir.
func save(dir string, chunks []Chunk, vectors [][]float32, dim int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory; %w", err)
	}

	metaPath := filepath.Join(dir, metaFileName)
	data, err := json.MarshalIndent(metaFile{Chunks: chunks}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index metadata; %w", err)
	}
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index metadata; %w", err)
	}

	vecPath := filepath.Join(dir, vectorFileName)
	f, err := os.Create(vecPath)
	if err != nil {
		return fmt.Errorf("failed to create vector matrix file; %w", err)
	}
	defer f.Close()

	return writeVectorMatrix(f, vectors, dim)
}

func writeVectorMatrix(w io.Writer, vectors [][]float32, dim int) error {
	header := vectorMatrixHeader{
		Magic:      vectorMatrixMagic,
		Version:    vectorMatrixVersion,
		Dimensions: uint16(dim),
		RowCount:   uint32(len(vectors)),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write vector matrix header; %w", err)
	}
	for _, row := range vectors {
		for _, v := range row {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return fmt.Errorf("failed to write vector row; %w", err)
			}
		}
	}
	return nil
}

// load reads chunk metadata and the vector matrix from dir. A missing pair
// of files is not an error: the index simply starts empty. A corrupt
// vector matrix is self-healing: it is deleted along with the metadata
// file and the index starts empty rather than serving inconsistent data.
func load(dir string) ([]Chunk, [][]float32, error) {
	metaPath := filepath.Join(dir, metaFileName)
	vecPath := filepath.Join(dir, vectorFileName)

	if _, err := os.Stat(metaPath); os.IsNotExist(err) {
		return nil, nil, nil
	}
	if _, err := os.Stat(vecPath); os.IsNotExist(err) {
		return nil, nil, nil
	}

	metaRaw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read index metadata; %w", err)
	}
	var meta metaFile
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		removeCorrupt(dir)
		return nil, nil, nil
	}

	f, err := os.Open(vecPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vector matrix; %w", err)
	}
	defer f.Close()

	vectors, err := readVectorMatrix(f)
	if err != nil {
		removeCorrupt(dir)
		return nil, nil, nil
	}

	if len(vectors) != len(meta.Chunks) {
		removeCorrupt(dir)
		return nil, nil, nil
	}

	return meta.Chunks, vectors, nil
}

func readVectorMatrix(r io.Reader) ([][]float32, error) {
	var header vectorMatrixHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read vector matrix header; %w", err)
	}
	if header.Magic != vectorMatrixMagic {
		return nil, fmt.Errorf("bad vector matrix magic")
	}

	vectors := make([][]float32, header.RowCount)
	for i := range vectors {
		row := make([]float32, header.Dimensions)
		for j := range row {
			if err := binary.Read(r, binary.LittleEndian, &row[j]); err != nil {
				return nil, fmt.Errorf("failed to read vector element; %w", err)
			}
		}
		vectors[i] = row
	}
	return vectors, nil
}

func removeCorrupt(dir string) {
	_ = os.Remove(filepath.Join(dir, metaFileName))
	_ = os.Remove(filepath.Join(dir, vectorFileName))
}
