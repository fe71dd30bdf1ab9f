package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Consensys/errorprone-checks/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	out := version.String()

	assert.Contains(t, out, "epcheck ")
	assert.Contains(t, out, "commit: ")
	assert.Contains(t, out, "built: ")
}

func TestInitBinaryVersionKeepsValues(t *testing.T) {
	version.InitBinaryVersion()

	assert.NotEmpty(t, version.Version)
	assert.NotEmpty(t, version.Commit)
	assert.NotEmpty(t, version.Date)
}
