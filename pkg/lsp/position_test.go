package lsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Consensys/errorprone-checks/pkg/lsp"
)

func TestOffsetAt(t *testing.T) {
	t.Parallel()

	// "ç" is two bytes and one UTF-16 unit, the emoji four bytes and two units.
	text := "ab\nçd\n\U0001F600x\n"

	tests := []struct {
		name string
		pos  protocol.Position
		want int
	}{
		{"first line", protocol.Position{Line: 0, Character: 1}, 1},
		{"second line start", protocol.Position{Line: 1}, 3},
		{"after two byte rune", protocol.Position{Line: 1, Character: 1}, 5},
		{"past line end", protocol.Position{Line: 1, Character: 9}, 6},
		{"after surrogate pair", protocol.Position{Line: 2, Character: 2}, 11},
		{"empty last line", protocol.Position{Line: 3}, 13},
		{"past last line", protocol.Position{Line: 7}, len(text)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, lsp.OffsetAt(text, tt.pos))
		})
	}
}

func TestPositionAtInvertsOffsetAt(t *testing.T) {
	t.Parallel()

	text := "ab\nçd\n\U0001F600x\n"

	for _, offset := range []int{0, 2, 3, 5, 7, 11, 12} {
		assert.Equal(t, offset, lsp.OffsetAt(text, lsp.PositionAt(text, offset)), "offset %d", offset)
	}
}
