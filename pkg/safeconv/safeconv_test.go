package safeconv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Consensys/errorprone-checks/pkg/safeconv"
)

func TestUint32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0), safeconv.Uint32(0))
	assert.Equal(t, uint32(42), safeconv.Uint32(42))
	assert.Equal(t, uint32(0), safeconv.Uint32(-1))
	assert.Equal(t, uint32(math.MaxUint32), safeconv.Uint32(math.MaxUint32))
	assert.Equal(t, uint32(math.MaxUint32), safeconv.Uint32(math.MaxInt64))
}

func TestUint64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(7), safeconv.Uint64(7))
	assert.Equal(t, uint64(0), safeconv.Uint64(-7))
	assert.Equal(t, uint64(math.MaxInt64), safeconv.Uint64(math.MaxInt64))
}
