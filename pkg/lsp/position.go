package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Consensys/errorprone-checks/pkg/safeconv"
)

// positionAt converts a byte offset into an LSP position, whose character
// counts UTF-16 code units. Offsets past the end clamp to the end.
func positionAt(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))

	var line, lineStart int

	for idx := range offset {
		if text[idx] == '\n' {
			line++
			lineStart = idx + 1
		}
	}

	return protocol.Position{
		Line:      safeconv.Uint32(line),
		Character: safeconv.Uint32(utf16Len(text[lineStart:offset])),
	}
}

// offsetAt converts an LSP position into a byte offset. Positions past the
// end of a line clamp to the line end.
func offsetAt(text string, pos protocol.Position) int {
	offset := 0

	for line := protocol.UInteger(0); line < pos.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}

		offset += next + 1
	}

	units := protocol.UInteger(0)

	for offset < len(text) && text[offset] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		units += safeconv.Uint32(utf16.RuneLen(r))
		offset += size
	}

	return offset
}

func utf16Len(segment string) int {
	units := 0

	for _, r := range segment {
		if n := utf16.RuneLen(r); n > 0 {
			units += n
		} else {
			units++
		}
	}

	return units
}

// rangeOf converts a byte span into an LSP range.
func rangeOf(text string, start, end int) protocol.Range {
	return protocol.Range{Start: positionAt(text, start), End: positionAt(text, end)}
}

// overlaps reports whether two LSP ranges share a position. An empty
// request range at a position inside other counts.
func overlaps(left, right protocol.Range) bool {
	return !before(left.End, right.Start) && !before(right.End, left.Start)
}

func before(left, right protocol.Position) bool {
	return left.Line < right.Line || (left.Line == right.Line && left.Character < right.Character)
}
