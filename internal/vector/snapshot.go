package vector

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// snapshotMagic identifies a vector snapshot file.
	snapshotMagic = "NXVI"

	vectorsFile   = "vectors.bin"
	positionsFile = "positions.json"
)

// Snapshot is the serializable state of an Index: the vector collection in
// position order plus the position-to-toolID mapping.
type Snapshot struct {
	Dimension int
	Vectors   [][]float32
	ToolIDs   []int64
}

// SnapshotStore persists index snapshots as two co-located artifacts: a
// binary vector file and a JSON position mapping.
//
// Writes go to temporary files which are then renamed into place. The vector
// file is renamed before the mapping so a crash between the two renames can
// never leave the mapping referencing positions absent from the vector
// collection (vectors are append-only, so a newer vector file is always a
// superset of what an older mapping references).
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a store rooted at dir, creating it if needed.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Save writes the full snapshot to disk.
func (s *SnapshotStore) Save(snap *Snapshot) error {
	if err := s.writeVectors(snap); err != nil {
		return err
	}
	return s.writePositions(snap)
}

// Load reads the snapshot from disk.
//
// A missing snapshot returns an empty state, not an error. Corruption — an
// unreadable artifact, a dimension change, or a mapping whose length does not
// match the vector count — returns an error; callers reset to an empty index.
func (s *SnapshotStore) Load(dimension int) (*Snapshot, error) {
	vectorsPath := filepath.Join(s.dir, vectorsFile)
	positionsPath := filepath.Join(s.dir, positionsFile)

	if _, err := os.Stat(vectorsPath); os.IsNotExist(err) {
		return &Snapshot{Dimension: dimension}, nil
	}

	vectors, err := s.readVectors(vectorsPath, dimension)
	if err != nil {
		return nil, err
	}

	toolIDs, err := s.readPositions(positionsPath, len(vectors))
	if err != nil {
		return nil, err
	}

	return &Snapshot{Dimension: dimension, Vectors: vectors, ToolIDs: toolIDs}, nil
}

// writeVectors writes the binary vector artifact via temp file and rename.
func (s *SnapshotStore) writeVectors(snap *Snapshot) error {
	buf := make([]byte, 0, 12+len(snap.Vectors)*snap.Dimension*4)
	buf = append(buf, snapshotMagic...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(snap.Dimension))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(snap.Vectors)))

	for _, vec := range snap.Vectors {
		for _, x := range vec {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(x))
		}
	}

	return replaceFile(filepath.Join(s.dir, vectorsFile), buf)
}

// writePositions writes the position-to-toolID mapping via temp file and
// rename. JSON object keys are strings, so positions are written as their
// decimal representation and parsed back to integers at load time.
func (s *SnapshotStore) writePositions(snap *Snapshot) error {
	mapping := make(map[string]int64, len(snap.ToolIDs))
	for pos, toolID := range snap.ToolIDs {
		mapping[strconv.Itoa(pos)] = toolID
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal position mapping: %w", err)
	}

	return replaceFile(filepath.Join(s.dir, positionsFile), data)
}

// readVectors parses the binary vector artifact.
func (s *SnapshotStore) readVectors(path string, dimension int) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vector file: %w", err)
	}

	if len(data) < 12 || string(data[:4]) != snapshotMagic {
		return nil, fmt.Errorf("vector file is not a valid snapshot")
	}

	gotDim := int(binary.LittleEndian.Uint32(data[4:8]))
	count := int(binary.LittleEndian.Uint32(data[8:12]))

	if gotDim != dimension {
		return nil, fmt.Errorf("snapshot dimension %d does not match configured dimension %d", gotDim, dimension)
	}
	if len(data) != 12+count*dimension*4 {
		return nil, fmt.Errorf("vector file truncated: want %d bytes, got %d", 12+count*dimension*4, len(data))
	}

	vectors := make([][]float32, count)
	off := 12
	for i := 0; i < count; i++ {
		vec := make([]float32, dimension)
		for j := 0; j < dimension; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		vectors[i] = vec
	}

	return vectors, nil
}

// readPositions parses the mapping artifact and reconstructs integer keys.
func (s *SnapshotStore) readPositions(path string, count int) ([]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read position mapping: %w", err)
	}

	var mapping map[string]int64
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse position mapping: %w", err)
	}

	if len(mapping) != count {
		return nil, fmt.Errorf("position mapping has %d entries for %d vectors", len(mapping), count)
	}

	toolIDs := make([]int64, count)
	for key, toolID := range mapping {
		pos, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid position key %q: %w", key, err)
		}
		if pos < 0 || pos >= count {
			return nil, fmt.Errorf("position %d out of range for %d vectors", pos, count)
		}
		toolIDs[pos] = toolID
	}

	return toolIDs, nil
}

// replaceFile writes data to a temp file in the target directory and renames
// it over the destination.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
