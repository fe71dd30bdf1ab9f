// Package textutil sniffs source buffers: binary detection and line counts.
package textutil

import "bytes"

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection, the heuristic Git uses.
const BinarySniffLength = 8000

// IsBinary reports a null byte within the first BinarySniffLength bytes.
// Empty data is not binary.
func IsBinary(data []byte) bool {
	sniff := data[:min(len(data), BinarySniffLength)]

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of newline-delimited lines in data, counting
// a trailing partial line.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	lines := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		lines++
	}

	return lines
}
