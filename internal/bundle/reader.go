package bundle

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
)

// Read loads and validates a bundle from path. Any error here is fatal to
// startup; the process must not serve with partial state.
func Read(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	b, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", path, err)
	}
	return b, nil
}

// Decode reads a bundle from r and validates it.
func Decode(r io.Reader) (*Bundle, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if m != magic {
		return nil, fmt.Errorf("bad magic %q, expected %q", m[:], magic[:])
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("unsupported bundle version %d, expected %d", version, Version)
	}

	var recordCount uint32
	if err := binary.Read(r, binary.LittleEndian, &recordCount); err != nil {
		return nil, fmt.Errorf("read record count: %w", err)
	}
	records := make([]models.MovieRecord, 0, recordCount)
	for i := uint32(0); i < recordCount; i++ {
		title, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("record %d title: %w", i, err)
		}
		language, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("record %d language: %w", i, err)
		}
		featureText, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("record %d feature text: %w", i, err)
		}
		records = append(records, models.MovieRecord{
			Title:       title,
			Language:    language,
			FeatureText: featureText,
		})
	}

	var partitionCount uint32
	if err := binary.Read(r, binary.LittleEndian, &partitionCount); err != nil {
		return nil, fmt.Errorf("read partition count: %w", err)
	}
	partitions := make([]Partition, 0, partitionCount)
	for i := uint32(0); i < partitionCount; i++ {
		language, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("partition %d language: %w", i, err)
		}
		var dim, count uint32
		if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
			return nil, fmt.Errorf("partition %q dim: %w", language, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, fmt.Errorf("partition %q count: %w", language, err)
		}
		if dim == 0 || dim > maxStringLen {
			return nil, fmt.Errorf("partition %q has implausible dimension %d", language, dim)
		}
		vectors := make([][]float32, 0, count)
		buf := make([]byte, int(dim)*4)
		for j := uint32(0); j < count; j++ {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("partition %q vector %d: %w", language, j, err)
			}
			vectors = append(vectors, bytesToFloat32Slice(buf))
		}
		partitions = append(partitions, Partition{
			Language: language,
			Dim:      int(dim),
			Vectors:  vectors,
		})
	}

	b := &Bundle{Records: records, Partitions: partitions}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("implausible string length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
