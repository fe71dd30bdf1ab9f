package textutil_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Consensys/errorprone-checks/pkg/textutil"
)

func TestIsBinary(t *testing.T) {
	t.Parallel()

	beyond := append(bytes.Repeat([]byte("a"), textutil.BinarySniffLength), 0)
	atEdge := append(bytes.Repeat([]byte("a"), textutil.BinarySniffLength-1), 0)

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"empty", nil, false},
		{"java", []byte("class A {}\n"), false},
		{"null at start", []byte{0, 'a'}, true},
		{"null inside", []byte("cla\x00ss"), true},
		{"null at sniff edge", atEdge, true},
		{"null beyond sniff", beyond, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, textutil.IsBinary(tt.data), tt.name)
	}
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, textutil.CountLines(nil))
	assert.Equal(t, 1, textutil.CountLines([]byte("class A {}")))
	assert.Equal(t, 1, textutil.CountLines([]byte("class A {}\n")))
	assert.Equal(t, 3, textutil.CountLines([]byte("a\n\nb")))
	assert.Equal(t, 1, textutil.CountLines([]byte("\n")))
}
