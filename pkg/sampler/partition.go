package sampler

// ChunkSize is the default partition unit, 1 MiB.
const ChunkSize = 1024 * 1024

// Chunk is the byte range [Offset, Offset+Len) copied by one task.
type Chunk struct {
	Offset int
	Len    int
}

// End returns the exclusive end offset of the chunk.
func (c Chunk) End() int {
	return c.Offset + c.Len
}

// Partition splits [0, size) into consecutive chunks of chunkSize bytes.
// The last chunk holds size % chunkSize bytes when that is non-zero.
func Partition(size, chunkSize int) []Chunk {
	if size <= 0 || chunkSize <= 0 {
		return nil
	}
	n := size / chunkSize
	if size%chunkSize != 0 {
		n++
	}
	chunks := make([]Chunk, 0, n)
	for off := 0; off < size; {
		l := chunkSize
		if rem := size - off; rem < l {
			l = rem
		}
		chunks = append(chunks, Chunk{Offset: off, Len: l})
		off += l
	}
	return chunks
}
