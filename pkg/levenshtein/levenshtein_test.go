package levenshtein_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Consensys/errorprone-checks/pkg/levenshtein"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		left, right string
		want        int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"JavaCase", "JavaCase", 0},
		{"héllo", "hello", 1},
	}

	ctx := &levenshtein.Context{}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ctx.Distance(tt.left, tt.right), "%q vs %q", tt.left, tt.right)
		assert.Equal(t, tt.want, ctx.Distance(tt.right, tt.left), "%q vs %q", tt.right, tt.left)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	ctx := &levenshtein.Context{}
	names := []string{"JavaCase", "MathTargetType", "UseFastutil"}

	got, ok := ctx.Closest("javacase", names)
	assert.True(t, ok)
	assert.Equal(t, "JavaCase", got)

	got, ok = ctx.Closest("JavaCsae", names)
	assert.True(t, ok)
	assert.Equal(t, "JavaCase", got)

	_, ok = ctx.Closest("Unrelated", names)
	assert.False(t, ok)
}
