package bundle

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// Write validates and persists a bundle to path. Parent directories are
// created if needed. The file is written to a temp sibling and renamed so a
// concurrent reader never sees a half-written artifact.
func Write(path string, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid bundle: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create bundle dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create bundle file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, b); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("flush bundle: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close bundle: %w", err)
	}
	return os.Rename(tmp, path)
}

// Encode writes a bundle to w without validating it.
func Encode(w io.Writer, b *Bundle) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, Version); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(b.Records))); err != nil {
		return fmt.Errorf("write record count: %w", err)
	}
	for i, rec := range b.Records {
		if err := writeString(w, rec.Title); err != nil {
			return fmt.Errorf("record %d title: %w", i, err)
		}
		if err := writeString(w, rec.Language); err != nil {
			return fmt.Errorf("record %d language: %w", i, err)
		}
		if err := writeString(w, rec.FeatureText); err != nil {
			return fmt.Errorf("record %d feature text: %w", i, err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(b.Partitions))); err != nil {
		return fmt.Errorf("write partition count: %w", err)
	}
	for _, p := range b.Partitions {
		if err := writeString(w, p.Language); err != nil {
			return fmt.Errorf("partition %q language: %w", p.Language, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(p.Dim)); err != nil {
			return fmt.Errorf("partition %q dim: %w", p.Language, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(p.Vectors))); err != nil {
			return fmt.Errorf("partition %q count: %w", p.Language, err)
		}
		for j, v := range p.Vectors {
			if _, err := w.Write(float32SliceToBytes(v)); err != nil {
				return fmt.Errorf("partition %q vector %d: %w", p.Language, j, err)
			}
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}
