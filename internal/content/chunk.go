// Package content slices study notes into per-batch source material.
package content

// Chunk returns the slice of notes a given batch should draw from. Successive
// batch indexes rotate through the text so batches see different material.
//
// The chunk size is ceil(len/totalBatches) runes. A tail chunk shorter than
// half the target size wraps around and takes a prefix of the notes, never
// drawing more than len(notes) runes in total.
func Chunk(notes string, batchIndex, totalBatches int) string {
	if totalBatches <= 1 {
		return notes
	}

	runes := []rune(notes)
	n := len(runes)
	if n == 0 {
		return notes
	}

	size := (n + totalBatches - 1) / totalBatches
	start := (batchIndex * size) % n
	if start < 0 {
		start += n
	}
	end := min(start+size, n)

	chunk := runes[start:end]
	if len(chunk) < size/2 {
		need := min(size-len(chunk), start)
		wrapped := make([]rune, 0, len(chunk)+need)
		wrapped = append(wrapped, chunk...)
		wrapped = append(wrapped, runes[:need]...)
		chunk = wrapped
	}

	return string(chunk)
}
