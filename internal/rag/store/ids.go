package store

import "math/bits"

// VectorID is a composite identifier packing a file index and a chunk index
// into a single integer: (file_index << (w/2)) | chunk_index, where w is the
// machine's pointer width (bits.UintSize — 64 on every supported target).
// Packing rather than pairing lets the dense index and the persistent store
// share one scalar key without a side table.
type VectorID uint64

// idHalfWidth is w/2: the number of bits allotted to each half of the key.
const idHalfWidth = bits.UintSize / 2

// CombineID packs a file index and a chunk index into a VectorID.
// Both must be < 2^(w/2); CombineID does not validate this — bits above
// w/2 are silently dropped (chunkIndex is masked, fileIndex's high bits
// shift out), so SplitID returns truncated values.
func CombineID(fileIndex, chunkIndex uint64) VectorID {
	return VectorID((fileIndex << idHalfWidth) | (chunkIndex & (1<<idHalfWidth - 1)))
}

// SplitID unpacks a VectorID into its file index and chunk index.
func SplitID(id VectorID) (fileIndex, chunkIndex uint64) {
	v := uint64(id)
	fileIndex = v >> idHalfWidth
	chunkIndex = v & (1<<idHalfWidth - 1)
	return fileIndex, chunkIndex
}

// FileIndex returns the file-index half of a VectorID.
func (id VectorID) FileIndex() uint64 {
	f, _ := SplitID(id)
	return f
}

// ChunkIndex returns the chunk-index half of a VectorID.
func (id VectorID) ChunkIndex() uint64 {
	_, c := SplitID(id)
	return c
}
