package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// snapshotMagic and snapshotVersion tag the binary format so a future format
// change fails loudly instead of silently misreading old snapshots.
const (
	snapshotMagic   = "RAGD"
	snapshotVersion = uint8(1)
)

// Save writes data as a length-prefixed little-endian binary blob. The format
// is hand-rolled rather than gob or a general-purpose codec because the
// round-trip is a testable property against a literal byte layout, and gob's
// wire format is implementation-defined and not suitable for that contract.
func Save(w io.Writer, data *RagData) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(snapshotMagic); err != nil {
		return err
	}
	if err := bw.WriteByte(snapshotVersion); err != nil {
		return err
	}

	if err := writeString(bw, data.ModelID); err != nil {
		return err
	}
	if err := writeUint32(bw, uint32(data.ChunkSize)); err != nil {
		return err
	}
	if err := writeUint32(bw, uint32(data.ChunkOverlap)); err != nil {
		return err
	}

	if err := writeUint32(bw, uint32(len(data.Files))); err != nil {
		return err
	}
	for _, f := range data.Files {
		if err := writeRagFile(bw, f); err != nil {
			return err
		}
	}

	if err := writeUint32(bw, uint32(len(data.Vectors))); err != nil {
		return err
	}
	for _, v := range data.Vectors {
		if err := writeUint64(bw, uint64(v.ID)); err != nil {
			return err
		}
		if err := writeUint32(bw, uint32(len(v.Vector))); err != nil {
			return err
		}
		for _, f := range v.Vector {
			if err := writeFloat32(bw, f); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// Load reads a snapshot written by Save. It is the exact inverse of Save on
// every public field of RagData.
func Load(r io.Reader) (*RagData, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("read snapshot magic: %w", err)
	}
	if string(magic) != snapshotMagic {
		return nil, fmt.Errorf("not a ragterm snapshot (bad magic %q)", magic)
	}

	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read snapshot version: %w", err)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}

	data := &RagData{}

	if data.ModelID, err = readString(br); err != nil {
		return nil, fmt.Errorf("read model_id: %w", err)
	}
	chunkSize, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("read chunk_size: %w", err)
	}
	data.ChunkSize = uint(chunkSize)
	chunkOverlap, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("read chunk_overlap: %w", err)
	}
	data.ChunkOverlap = uint(chunkOverlap)

	fileCount, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("read file count: %w", err)
	}
	data.Files = make([]RagFile, fileCount)
	for i := range data.Files {
		f, err := readRagFile(br)
		if err != nil {
			return nil, fmt.Errorf("read file %d: %w", i, err)
		}
		data.Files[i] = f
	}

	vectorCount, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("read vector count: %w", err)
	}
	data.Vectors = make([]VectorEntry, vectorCount)
	for i := range data.Vectors {
		id, err := readUint64(br)
		if err != nil {
			return nil, fmt.Errorf("read vector %d id: %w", i, err)
		}
		dim, err := readUint32(br)
		if err != nil {
			return nil, fmt.Errorf("read vector %d dim: %w", i, err)
		}
		vec := make([]float32, dim)
		for j := range vec {
			v, err := readFloat32(br)
			if err != nil {
				return nil, fmt.Errorf("read vector %d component %d: %w", i, j, err)
			}
			vec[j] = v
		}
		data.Vectors[i] = VectorEntry{ID: VectorID(id), Vector: vec}
	}

	return data, nil
}

func writeRagFile(w io.Writer, f RagFile) error {
	if err := writeString(w, f.Path); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(f.Documents))); err != nil {
		return err
	}
	for _, doc := range f.Documents {
		if err := writeString(w, doc.PageContent); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(len(doc.Metadata))); err != nil {
			return err
		}
		for _, m := range doc.Metadata {
			if err := writeString(w, m.Key); err != nil {
				return err
			}
			if err := writeString(w, m.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func readRagFile(r io.Reader) (RagFile, error) {
	var f RagFile
	var err error
	if f.Path, err = readString(r); err != nil {
		return f, err
	}
	docCount, err := readUint32(r)
	if err != nil {
		return f, err
	}
	f.Documents = make([]Document, docCount)
	for i := range f.Documents {
		content, err := readString(r)
		if err != nil {
			return f, err
		}
		metaCount, err := readUint32(r)
		if err != nil {
			return f, err
		}
		var meta []MetadataEntry
		if metaCount > 0 {
			meta = make([]MetadataEntry, metaCount)
		}
		for j := range meta {
			key, err := readString(r)
			if err != nil {
				return f, err
			}
			value, err := readString(r)
			if err != nil {
				return f, err
			}
			meta[j] = MetadataEntry{Key: key, Value: value}
		}
		f.Documents[i] = Document{PageContent: content, Metadata: meta}
	}
	return f, nil
}

func writeString(w io.Writer, s string) error {
	if err := writeUint32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func writeFloat32(w io.Writer, f float32) error {
	return writeUint32(w, math.Float32bits(f))
}

func readFloat32(r io.Reader) (float32, error) {
	bits, err := readUint32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// SaveFile persists data to path atomically: it writes to a temp file in the
// same directory, then renames over the destination. The parent directory is
// created if missing.
func SaveFile(path string, data *RagData) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Save(tmp, data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename snapshot into place: %w", err)
	}
	return nil
}

// LoadFile reads and decodes a snapshot from path.
func LoadFile(path string) (*RagData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Load(f)
}
